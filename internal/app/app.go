package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/supporterz-inc/hocus-pocus-c-2025-term1/internal/config"
	"github.com/supporterz-inc/hocus-pocus-c-2025-term1/internal/handler"
	"github.com/supporterz-inc/hocus-pocus-c-2025-term1/internal/logger"
	"github.com/supporterz-inc/hocus-pocus-c-2025-term1/internal/metrics"
	"github.com/supporterz-inc/hocus-pocus-c-2025-term1/internal/middleware"
	"github.com/supporterz-inc/hocus-pocus-c-2025-term1/internal/model"
	"github.com/supporterz-inc/hocus-pocus-c-2025-term1/internal/render"
	"github.com/supporterz-inc/hocus-pocus-c-2025-term1/internal/repository"
	"github.com/supporterz-inc/hocus-pocus-c-2025-term1/internal/storage"
	"github.com/supporterz-inc/hocus-pocus-c-2025-term1/internal/theme"
)

// Init はアプリケーションの初期化を行う。
// 環境変数からConfigを読み込み、JSON構造化ログをセットアップする。
// writerが指定された場合はログ出力先としてそのwriterを使用する。
func Init(w io.Writer) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.SetupDefault(w, cfg.LogLevel)

	return cfg, nil
}

// Run はアプリケーションのメインエントリーポイント。
// コマンドライン引数からサブコマンドを解析し、対応するモードで起動する。
// argsにはos.Args[1:]を渡す。
func Run(w io.Writer, args []string) error {
	cmd := ParseCommand(args)

	// healthcheck は軽量サブコマンドのため、フル初期化をスキップする
	if cmd == CommandHealthcheck {
		port := os.Getenv("SERVER_PORT")
		if port == "" {
			port = "8080"
		}
		return runHealthcheck(port)
	}

	cfg, err := Init(w)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	slog.Info("starting application",
		slog.String("command", string(cmd)),
		slog.String("port", cfg.ServerPort),
		slog.String("storage_dir", cfg.StorageDir),
	)

	switch cmd {
	case CommandSeed:
		return runSeed(cfg)
	default:
		return runServe(cfg)
	}
}

// runServe はAPIサーバーモードで起動する。
// ファイルストレージを初期化し、全依存関係をワイヤリングし、HTTPサーバーを起動する。
// SIGINTまたはSIGTERMシグナルを受信するとグレースフルシャットダウンを行う。
func runServe(cfg *config.Config) error {
	// 1. 計測の初期化
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	// 2. ストレージの初期化（全ファイル操作の所要時間を計測する）
	backend := storage.NewInstrumentedBackend(
		storage.NewFilesystemBackend(cfg.StorageDir), collector,
	)

	// 3. リポジトリの初期化
	knowledgeRepo := repository.NewFileKnowledgeRepo(backend)
	themeRepo := repository.NewFileThemeRepo(backend)
	userRepo := repository.NewFileUserRepo(backend)

	// 4. ドメインサービスの初期化
	themeService := theme.NewService(themeRepo)
	renderer := render.NewRenderer()

	// 5. レート制限の初期化
	rateLimiter := middleware.NewRateLimiter(
		middleware.RateLimiterConfigFromLimits(cfg.RateLimitGeneral, cfg.RateLimitWrite),
	)
	defer rateLimiter.Stop()

	// 6. ルーターの構築
	router := handler.NewRouter(&handler.RouterDeps{
		KnowledgeRepo: knowledgeRepo,
		ThemeRepo:     themeRepo,
		UserRepo:      userRepo,

		ThemeAssigner: themeService,
		Renderer:      renderer,

		Logger:      slog.Default(),
		RateLimiter: rateLimiter,
		Metrics:     collector,
		Gatherer:    registry,

		BaseURL:         cfg.BaseURL,
		UpcomingDaysMax: cfg.UpcomingDaysMax,
	})

	// 7. HTTPサーバーの起動
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// グレースフルシャットダウンのためのシグナルハンドリング
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("API server starting",
			slog.String("addr", server.Addr),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server listen error", slog.String("error", err.Error()))
		}
	}()

	<-stop
	slog.Info("shutting down API server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("API server stopped gracefully")
	return nil
}

// seedThemes はseedサブコマンドで投入する初期テーマ。
var seedThemes = []struct {
	word       string
	category   string
	difficulty model.Difficulty
}{
	{"学習", "教育", model.DifficultyEasy},
	{"振り返り", "教育", model.DifficultyEasy},
	{"チームワーク", "コミュニケーション", model.DifficultyMedium},
	{"効率化", "業務改善", model.DifficultyMedium},
	{"挑戦", "キャリア", model.DifficultyHard},
}

// runSeed は初期テーマをストレージに投入する。
// 同じ単語のテーマが既に存在する場合はスキップするため、繰り返し実行できる。
func runSeed(cfg *config.Config) error {
	backend := storage.NewFilesystemBackend(cfg.StorageDir)
	themeRepo := repository.NewFileThemeRepo(backend)

	ctx := context.Background()

	existing, err := themeRepo.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load existing themes: %w", err)
	}

	existingWords := make(map[string]bool, len(existing))
	for _, t := range existing {
		existingWords[t.Word] = true
	}

	created := 0
	for _, s := range seedThemes {
		if existingWords[s.word] {
			slog.Info("theme already seeded", slog.String("word", s.word))
			continue
		}

		t := model.NewTheme(s.word, s.category, s.difficulty)
		if err := themeRepo.Create(ctx, t); err != nil {
			return fmt.Errorf("failed to seed theme %q: %w", s.word, err)
		}

		slog.Info("theme seeded",
			slog.String("word", t.Word),
			slog.String("theme_id", t.ID),
		)
		created++
	}

	slog.Info("seed completed",
		slog.Int("created", created),
		slog.Int("skipped", len(seedThemes)-created),
	)
	return nil
}

// runHealthcheck はヘルスチェックを実行する。
// distroless環境でのDockerヘルスチェック用サブコマンド。
// /health エンドポイントにHTTPリクエストを送り、結果を返す。
func runHealthcheck(port string) error {
	url := fmt.Sprintf("http://localhost:%s/health", port)
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}

package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/supporterz-inc/hocus-pocus-c-2025-term1/internal/metrics"
	"github.com/supporterz-inc/hocus-pocus-c-2025-term1/internal/middleware"
	"github.com/supporterz-inc/hocus-pocus-c-2025-term1/internal/repository"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// リポジトリ
	KnowledgeRepo repository.KnowledgeRepository
	ThemeRepo     repository.ThemeRepository
	UserRepo      repository.UserRepository

	// サービス
	ThemeAssigner ThemeAssigner
	Renderer      MarkdownRenderer

	// ミドルウェア・計測
	Logger      *slog.Logger
	RateLimiter *middleware.RateLimiter
	Metrics     metrics.MetricsCollector
	Gatherer    prometheus.Gatherer

	// RSSフィードのリンク組み立てに使うベースURL
	BaseURL string

	// テーマ予定の最大取得日数
	UpcomingDaysMax int
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → SecurityHeaders → Metrics → Logging → (Identity → RateLimit)
//
// /health、/metrics、/feed は識別不要のルートとしてIdentityチェーンの外に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewMetricsMiddleware(deps.Metrics))
	r.Use(middleware.NewLoggingMiddleware(deps.Logger))

	knowledgeHandler := NewKnowledgeHandler(deps.KnowledgeRepo, deps.ThemeAssigner, deps.Renderer, deps.Metrics)
	themeHandler := NewThemeHandler(deps.ThemeRepo, deps.ThemeAssigner, deps.Metrics, deps.UpcomingDaysMax)
	validateHandler := NewValidateHandler(deps.ThemeAssigner, deps.Metrics)
	userHandler := NewUserHandler(deps.UserRepo)
	rssHandler := NewRSSHandler(deps.KnowledgeRepo, deps.BaseURL)

	// --- 識別不要のルート ---

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler(deps.Gatherer))
	r.Get("/feed", rssHandler.ServeFeed)

	// ユーザー登録は識別前でも行える
	r.Post("/api/users", userHandler.RegisterUser)

	// --- 識別が必要なルート ---
	// ミドルウェアスタック: Identity → RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewIdentityMiddleware())
		r.Use(deps.RateLimiter.GeneralMiddleware())

		// ナレッジ管理
		r.Route("/api/knowledge", func(r chi.Router) {
			r.Get("/", knowledgeHandler.ListKnowledge)
			// 書き込み系は専用レート制限を追加
			r.With(deps.RateLimiter.WriteMiddleware()).Post("/", knowledgeHandler.CreateKnowledge)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", knowledgeHandler.GetKnowledge)
				r.Get("/view", knowledgeHandler.ViewKnowledge)
				r.With(deps.RateLimiter.WriteMiddleware()).Put("/", knowledgeHandler.UpdateKnowledge)
				r.With(deps.RateLimiter.WriteMiddleware()).Delete("/", knowledgeHandler.DeleteKnowledge)
			})
		})

		// テーマ参照
		r.Route("/api/themes", func(r chi.Router) {
			r.Get("/today", themeHandler.GetTodayTheme)
			r.Get("/upcoming", themeHandler.GetUpcomingThemes)
			r.Get("/date/{date}", themeHandler.GetThemeForDate)
		})

		// テーマ管理
		r.Route("/api/admin/themes", func(r chi.Router) {
			r.Get("/", themeHandler.ListThemes)
			r.Post("/", themeHandler.CreateTheme)

			r.Route("/{id}", func(r chi.Router) {
				r.Delete("/", themeHandler.DeleteTheme)
				r.Post("/activate", themeHandler.ActivateTheme)
				r.Post("/deactivate", themeHandler.DeactivateTheme)
			})
		})

		// 検証
		r.Post("/api/validate", validateHandler.Validate)

		// ユーザー参照
		r.Get("/api/users", userHandler.FindUserByName)
		r.Get("/api/users/{id}", userHandler.GetUser)
	})

	return r
}

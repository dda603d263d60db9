package handler

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/supporterz-inc/hocus-pocus-c-2025-term1/internal/metrics"
	"github.com/supporterz-inc/hocus-pocus-c-2025-term1/internal/middleware"
	"github.com/supporterz-inc/hocus-pocus-c-2025-term1/internal/model"
	"github.com/supporterz-inc/hocus-pocus-c-2025-term1/internal/render"
	"github.com/supporterz-inc/hocus-pocus-c-2025-term1/internal/theme"
)

// --- モック定義 ---

// mockKnowledgeRepo はKnowledgeRepositoryのモック。
type mockKnowledgeRepo struct {
	getByIDFunc    func(ctx context.Context, id string) (*model.Knowledge, error)
	getAllFunc     func(ctx context.Context) ([]model.Knowledge, error)
	upsertFunc     func(ctx context.Context, knowledge model.Knowledge) error
	deleteByIDFunc func(ctx context.Context, id string) error
}

func (m *mockKnowledgeRepo) GetByID(ctx context.Context, id string) (*model.Knowledge, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, model.NewNotFoundError("Knowledge", id)
}

func (m *mockKnowledgeRepo) GetAll(ctx context.Context) ([]model.Knowledge, error) {
	if m.getAllFunc != nil {
		return m.getAllFunc(ctx)
	}
	return []model.Knowledge{}, nil
}

func (m *mockKnowledgeRepo) Upsert(ctx context.Context, knowledge model.Knowledge) error {
	if m.upsertFunc != nil {
		return m.upsertFunc(ctx, knowledge)
	}
	return nil
}

func (m *mockKnowledgeRepo) DeleteByID(ctx context.Context, id string) error {
	if m.deleteByIDFunc != nil {
		return m.deleteByIDFunc(ctx, id)
	}
	return nil
}

// mockThemeRepo はThemeRepositoryのモック。
type mockThemeRepo struct {
	getAllFunc          func(ctx context.Context) ([]model.Theme, error)
	getActiveThemesFunc func(ctx context.Context) ([]model.Theme, error)
	getByIDFunc         func(ctx context.Context, id string) (*model.Theme, error)
	createFunc          func(ctx context.Context, theme model.Theme) error
	updateFunc          func(ctx context.Context, theme model.Theme) error
	deleteFunc          func(ctx context.Context, id string) error
}

func (m *mockThemeRepo) GetAll(ctx context.Context) ([]model.Theme, error) {
	if m.getAllFunc != nil {
		return m.getAllFunc(ctx)
	}
	return []model.Theme{}, nil
}

func (m *mockThemeRepo) GetActiveThemes(ctx context.Context) ([]model.Theme, error) {
	if m.getActiveThemesFunc != nil {
		return m.getActiveThemesFunc(ctx)
	}
	return []model.Theme{}, nil
}

func (m *mockThemeRepo) GetByID(ctx context.Context, id string) (*model.Theme, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockThemeRepo) Create(ctx context.Context, theme model.Theme) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, theme)
	}
	return nil
}

func (m *mockThemeRepo) Update(ctx context.Context, theme model.Theme) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, theme)
	}
	return nil
}

func (m *mockThemeRepo) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

// mockUserRepo はUserRepositoryのモック。
type mockUserRepo struct {
	getByIDFunc    func(ctx context.Context, id string) (*model.User, error)
	findByNameFunc func(ctx context.Context, name string) (*model.User, error)
	upsertFunc     func(ctx context.Context, user model.User) error
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, model.NewNotFoundError("User", id)
}

func (m *mockUserRepo) FindByName(ctx context.Context, name string) (*model.User, error) {
	if m.findByNameFunc != nil {
		return m.findByNameFunc(ctx, name)
	}
	return nil, nil
}

func (m *mockUserRepo) Upsert(ctx context.Context, user model.User) error {
	if m.upsertFunc != nil {
		return m.upsertFunc(ctx, user)
	}
	return nil
}

// mockAssigner はThemeAssignerのモック。
type mockAssigner struct {
	getTodayThemeFunc     func(ctx context.Context, userID string) (*model.Theme, error)
	getThemeForDateFunc   func(ctx context.Context, userID, date string) (*model.Theme, error)
	getUpcomingThemesFunc func(ctx context.Context, userID string, days int) ([]theme.UpcomingTheme, error)
}

func (m *mockAssigner) GetTodayTheme(ctx context.Context, userID string) (*model.Theme, error) {
	if m.getTodayThemeFunc != nil {
		return m.getTodayThemeFunc(ctx, userID)
	}
	return nil, model.ErrNoActiveThemes
}

func (m *mockAssigner) GetThemeForDate(ctx context.Context, userID, date string) (*model.Theme, error) {
	if m.getThemeForDateFunc != nil {
		return m.getThemeForDateFunc(ctx, userID, date)
	}
	return nil, model.ErrNoActiveThemes
}

func (m *mockAssigner) GetUpcomingThemes(ctx context.Context, userID string, days int) ([]theme.UpcomingTheme, error) {
	if m.getUpcomingThemesFunc != nil {
		return m.getUpcomingThemesFunc(ctx, userID, days)
	}
	return nil, model.ErrNoActiveThemes
}

// --- テストヘルパー ---

func testTheme(word string) *model.Theme {
	return &model.Theme{
		ID:         word + "-id",
		Word:       word,
		Category:   "テスト",
		Difficulty: model.DifficultyEasy,
		IsActive:   true,
		CreatedAt:  1704067200,
	}
}

func fixedAssigner(word string) *mockAssigner {
	return &mockAssigner{
		getTodayThemeFunc: func(ctx context.Context, userID string) (*model.Theme, error) {
			return testTheme(word), nil
		},
		getThemeForDateFunc: func(ctx context.Context, userID, date string) (*model.Theme, error) {
			return testTheme(word), nil
		},
	}
}

// testDeps はテスト用のRouterDepsを組み立てる。
// フィールドを差し替えたい場合は返り値を変更してからnewTestRouterに渡す。
func testDeps(t *testing.T) *RouterDeps {
	t.Helper()

	rl := middleware.NewRateLimiter(middleware.DefaultRateLimiterConfig())
	t.Cleanup(rl.Stop)

	reg := prometheus.NewRegistry()

	return &RouterDeps{
		KnowledgeRepo:   &mockKnowledgeRepo{},
		ThemeRepo:       &mockThemeRepo{},
		UserRepo:        &mockUserRepo{},
		ThemeAssigner:   fixedAssigner("学習"),
		Renderer:        render.NewRenderer(),
		Logger:          slog.New(slog.NewJSONHandler(io.Discard, nil)),
		RateLimiter:     rl,
		Metrics:         metrics.NewCollector(reg),
		Gatherer:        reg,
		BaseURL:         "http://localhost:8080",
		UpcomingDaysMax: 30,
	}
}

func newTestRouter(t *testing.T, deps *RouterDeps) http.Handler {
	t.Helper()
	return NewRouter(deps)
}

// doJSON はJSONボディ付きのリクエストを送り、レスポンスを返す。
// userIDが非空ならX-User-IDヘッダーを付与する。
func doJSON(router http.Handler, method, path, userID, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

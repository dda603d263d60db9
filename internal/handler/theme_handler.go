package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/supporterz-inc/hocus-pocus-c-2025-term1/internal/metrics"
	"github.com/supporterz-inc/hocus-pocus-c-2025-term1/internal/middleware"
	"github.com/supporterz-inc/hocus-pocus-c-2025-term1/internal/model"
	"github.com/supporterz-inc/hocus-pocus-c-2025-term1/internal/repository"
)

// ThemeHandler はテーマ参照と管理のHTTPハンドラー。
type ThemeHandler struct {
	repo            repository.ThemeRepository
	assigner        ThemeAssigner
	metrics         metrics.MetricsCollector
	upcomingDaysMax int
}

// NewThemeHandler はThemeHandlerを生成する。
// upcomingDaysMaxは/api/themes/upcomingで一度に取得できる最大日数。
func NewThemeHandler(repo repository.ThemeRepository, assigner ThemeAssigner, collector metrics.MetricsCollector, upcomingDaysMax int) *ThemeHandler {
	return &ThemeHandler{
		repo:            repo,
		assigner:        assigner,
		metrics:         collector,
		upcomingDaysMax: upcomingDaysMax,
	}
}

// createThemeRequest はテーマ登録リクエストのボディ。
type createThemeRequest struct {
	Word       string `json:"word"`
	Category   string `json:"category"`
	Difficulty string `json:"difficulty"`
}

// GetTodayTheme は呼び出し元ユーザーの今日のテーマを返す。
// GET /api/themes/today
func (h *ThemeHandler) GetTodayTheme(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	theme, err := h.assigner.GetTodayTheme(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	h.metrics.RecordThemeAssignment()
	writeJSON(w, http.StatusOK, theme)
}

// GetThemeForDate は呼び出し元ユーザーの指定日のテーマを返す。
// 日付はYYYY-MM-DD形式。
// GET /api/themes/date/{date}
func (h *ThemeHandler) GetThemeForDate(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	date := chi.URLParam(r, "date")
	if _, err := time.Parse("2006-01-02", date); err != nil {
		writeInvalidRequest(w, "日付はYYYY-MM-DD形式で指定してください")
		return
	}

	theme, err := h.assigner.GetThemeForDate(r.Context(), userID, date)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	h.metrics.RecordThemeAssignment()
	writeJSON(w, http.StatusOK, theme)
}

// GetUpcomingThemes は今日からの連続するN日分のテーマ予定を返す。
// 日数はdaysクエリパラメータで指定する（既定7、上限はupcomingDaysMax）。
// GET /api/themes/upcoming?days=N
func (h *ThemeHandler) GetUpcomingThemes(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	days := 7
	if v := r.URL.Query().Get("days"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			writeInvalidRequest(w, "daysは1以上の整数で指定してください")
			return
		}
		days = parsed
	}
	if days > h.upcomingDaysMax {
		days = h.upcomingDaysMax
	}

	upcoming, err := h.assigner.GetUpcomingThemes(r.Context(), userID, days)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, upcoming)
}

// ListThemes は全テーマを格納順で返す（管理用）。
// GET /api/admin/themes
func (h *ThemeHandler) ListThemes(w http.ResponseWriter, r *http.Request) {
	themes, err := h.repo.GetAll(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, themes)
}

// CreateTheme はテーマを登録する（管理用）。
// POST /api/admin/themes
func (h *ThemeHandler) CreateTheme(w http.ResponseWriter, r *http.Request) {
	var req createThemeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequest(w, "リクエストボディの解析に失敗しました")
		return
	}

	if strings.TrimSpace(req.Word) == "" {
		writeInvalidRequest(w, "wordが空です")
		return
	}
	difficulty := model.Difficulty(req.Difficulty)
	if !difficulty.IsValid() {
		writeInvalidRequest(w, "difficultyはeasy/medium/hardのいずれかを指定してください")
		return
	}

	theme := model.NewTheme(req.Word, req.Category, difficulty)
	if err := h.repo.Create(r.Context(), theme); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, theme)
}

// DeleteTheme はテーマを削除する（管理用）。
// DELETE /api/admin/themes/{id}
func (h *ThemeHandler) DeleteTheme(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.repo.Delete(r.Context(), id); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ActivateTheme はテーマを有効化する（管理用）。
// POST /api/admin/themes/{id}/activate
func (h *ThemeHandler) ActivateTheme(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, true)
}

// DeactivateTheme はテーマを無効化する（管理用）。
// POST /api/admin/themes/{id}/deactivate
func (h *ThemeHandler) DeactivateTheme(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, false)
}

func (h *ThemeHandler) setActive(w http.ResponseWriter, r *http.Request, active bool) {
	id := chi.URLParam(r, "id")

	theme, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if theme == nil {
		writeAPIErrorResponse(w, http.StatusNotFound, model.NewThemeNotFoundAPIError(id))
		return
	}

	updated := theme.Deactivate()
	if active {
		updated = theme.Activate()
	}

	if err := h.repo.Update(r.Context(), updated); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

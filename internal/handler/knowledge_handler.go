package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/supporterz-inc/hocus-pocus-c-2025-term1/internal/metrics"
	"github.com/supporterz-inc/hocus-pocus-c-2025-term1/internal/middleware"
	"github.com/supporterz-inc/hocus-pocus-c-2025-term1/internal/model"
	"github.com/supporterz-inc/hocus-pocus-c-2025-term1/internal/repository"
	"github.com/supporterz-inc/hocus-pocus-c-2025-term1/internal/theme"
	"github.com/supporterz-inc/hocus-pocus-c-2025-term1/internal/validator"
)

// ThemeAssigner はハンドラーが必要とするテーマ割り当てのインターフェース。
// theme.Serviceが実装する。
type ThemeAssigner interface {
	GetTodayTheme(ctx context.Context, userID string) (*model.Theme, error)
	GetThemeForDate(ctx context.Context, userID, date string) (*model.Theme, error)
	GetUpcomingThemes(ctx context.Context, userID string, days int) ([]theme.UpcomingTheme, error)
}

// MarkdownRenderer は本文のHTML変換インターフェース。
type MarkdownRenderer interface {
	RenderMarkdown(content string) string
}

// KnowledgeHandler はナレッジ管理のHTTPハンドラー。
type KnowledgeHandler struct {
	repo     repository.KnowledgeRepository
	assigner ThemeAssigner
	renderer MarkdownRenderer
	metrics  metrics.MetricsCollector
}

// NewKnowledgeHandler はKnowledgeHandlerを生成する。
func NewKnowledgeHandler(repo repository.KnowledgeRepository, assigner ThemeAssigner, renderer MarkdownRenderer, collector metrics.MetricsCollector) *KnowledgeHandler {
	return &KnowledgeHandler{
		repo:     repo,
		assigner: assigner,
		renderer: renderer,
		metrics:  collector,
	}
}

// knowledgeRequest はナレッジ作成・更新リクエストのボディ。
type knowledgeRequest struct {
	Content string `json:"content"`
}

// ListKnowledge は全ナレッジを更新日時の新しい順で返す。
// GET /api/knowledge
func (h *KnowledgeHandler) ListKnowledge(w http.ResponseWriter, r *http.Request) {
	knowledges, err := h.repo.GetAll(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, knowledges)
}

// GetKnowledge はナレッジ詳細を取得する。
// GET /api/knowledge/{id}
func (h *KnowledgeHandler) GetKnowledge(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	knowledge, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, knowledge)
}

// CreateKnowledge はナレッジを新規作成する。
// 投稿内容は投稿者の今日のテーマ単語を含んでいなければならない。
// POST /api/knowledge
func (h *KnowledgeHandler) CreateKnowledge(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	var req knowledgeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequest(w, "リクエストボディの解析に失敗しました")
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		writeInvalidRequest(w, "contentが空です")
		return
	}

	result, err := h.validateAgainstTodayTheme(r.Context(), userID, req.Content)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if !result.IsValid {
		writeAPIErrorResponse(w, http.StatusUnprocessableEntity, model.NewValidationFailedError(result.Reason))
		return
	}

	knowledge := model.NewKnowledge(req.Content, userID)
	if err := h.repo.Upsert(r.Context(), knowledge); err != nil {
		handleServiceError(w, err)
		return
	}

	h.metrics.RecordKnowledgeCreated()
	writeJSON(w, http.StatusCreated, knowledge)
}

// UpdateKnowledge はナレッジ本文を更新する。投稿者本人のみが更新できる。
// 更新後の本文も今日のテーマ単語を含んでいなければならない。
// PUT /api/knowledge/{id}
func (h *KnowledgeHandler) UpdateKnowledge(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	id := chi.URLParam(r, "id")

	var req knowledgeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequest(w, "リクエストボディの解析に失敗しました")
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		writeInvalidRequest(w, "contentが空です")
		return
	}

	existing, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if existing.AuthorID != userID {
		writeForbidden(w)
		return
	}

	result, err := h.validateAgainstTodayTheme(r.Context(), userID, req.Content)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if !result.IsValid {
		writeAPIErrorResponse(w, http.StatusUnprocessableEntity, model.NewValidationFailedError(result.Reason))
		return
	}

	updated := existing.UpdateContent(req.Content)
	if err := h.repo.Upsert(r.Context(), updated); err != nil {
		handleServiceError(w, err)
		return
	}

	h.metrics.RecordKnowledgeUpdated()
	writeJSON(w, http.StatusOK, updated)
}

// DeleteKnowledge はナレッジを削除する。投稿者本人のみが削除できる。
// DELETE /api/knowledge/{id}
func (h *KnowledgeHandler) DeleteKnowledge(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeUnauthorized(w)
		return
	}

	id := chi.URLParam(r, "id")

	existing, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if existing.AuthorID != userID {
		writeForbidden(w)
		return
	}

	if err := h.repo.DeleteByID(r.Context(), id); err != nil {
		handleServiceError(w, err)
		return
	}

	h.metrics.RecordKnowledgeDeleted()
	w.WriteHeader(http.StatusNoContent)
}

// ViewKnowledge はナレッジ本文をHTMLに変換して返す。
// GET /api/knowledge/{id}/view
func (h *KnowledgeHandler) ViewKnowledge(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	knowledge, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(h.renderer.RenderMarkdown(knowledge.Content)))
}

// validateAgainstTodayTheme は投稿者の今日のテーマ単語で本文を検証する。
func (h *KnowledgeHandler) validateAgainstTodayTheme(ctx context.Context, userID, content string) (validator.ValidationResult, error) {
	theme, err := h.assigner.GetTodayTheme(ctx, userID)
	if err != nil {
		return validator.ValidationResult{}, err
	}

	result := validator.ValidateThemeContent(content, theme.Word)
	h.metrics.RecordValidation(result.IsValid)
	return result, nil
}

// writeUnauthorized は認証必須の401レスポンスを書き込む。
func writeUnauthorized(w http.ResponseWriter) {
	writeAPIErrorResponse(w, http.StatusUnauthorized, &model.APIError{
		Code:     "UNAUTHORIZED",
		Message:  "ユーザーの識別情報が必要です。",
		Category: "user",
		Action:   "X-User-IDヘッダーを付与してください。",
	})
}

// writeForbidden は投稿者本人以外の操作を拒否する403レスポンスを書き込む。
func writeForbidden(w http.ResponseWriter) {
	writeAPIErrorResponse(w, http.StatusForbidden, &model.APIError{
		Code:     "FORBIDDEN",
		Message:  "このナレッジを変更できるのは投稿者本人のみです。",
		Category: "knowledge",
		Action:   "投稿者のユーザーIDで操作してください。",
	})
}

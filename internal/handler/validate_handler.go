package handler

import (
	"encoding/json"
	"net/http"

	"github.com/supporterz-inc/hocus-pocus-c-2025-term1/internal/metrics"
	"github.com/supporterz-inc/hocus-pocus-c-2025-term1/internal/middleware"
	"github.com/supporterz-inc/hocus-pocus-c-2025-term1/internal/validator"
)

// ValidateHandler は投稿前のテーマ単語検証APIのハンドラー。
// 投稿せずに検証結果だけを確認するために使う。
type ValidateHandler struct {
	assigner ThemeAssigner
	metrics  metrics.MetricsCollector
}

// NewValidateHandler はValidateHandlerを生成する。
func NewValidateHandler(assigner ThemeAssigner, collector metrics.MetricsCollector) *ValidateHandler {
	return &ValidateHandler{
		assigner: assigner,
		metrics:  collector,
	}
}

// validateRequest は検証リクエストのボディ。
// themeWordsを指定するといずれかの単語を含むかの検証になる。
// どちらも省略した場合は呼び出し元ユーザーの今日のテーマ単語で検証する。
type validateRequest struct {
	Content    string   `json:"content"`
	ThemeWord  string   `json:"themeWord,omitempty"`
	ThemeWords []string `json:"themeWords,omitempty"`
}

// validateResponse は検証結果のレスポンス。
type validateResponse struct {
	validator.ValidationResult
	// ExtractedWords は本文から抽出したトークン（参考情報）。
	ExtractedWords []string `json:"extractedWords"`
}

// Validate は投稿内容のテーマ単語検証を行う。
// POST /api/validate
func (h *ValidateHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var req validateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequest(w, "リクエストボディの解析に失敗しました")
		return
	}

	var result validator.ValidationResult
	switch {
	case len(req.ThemeWords) > 0:
		result = validator.ValidateMultipleThemes(req.Content, req.ThemeWords)
	case req.ThemeWord != "":
		result = validator.ValidateThemeContent(req.Content, req.ThemeWord)
	default:
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
		result = validator.ValidateThemeContent(req.Content, theme.Word)
	}

	h.metrics.RecordValidation(result.IsValid)

	writeJSON(w, http.StatusOK, validateResponse{
		ValidationResult: result,
		ExtractedWords:   validator.ExtractWords(req.Content),
	})
}

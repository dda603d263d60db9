// Package handler はHTTP APIのハンドラーとルーティングを提供する。
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/supporterz-inc/hocus-pocus-c-2025-term1/internal/model"
)

// writeJSON はJSONレスポンスを書き込む。
func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(v)
}

// writeAPIErrorResponse は統一エラーフォーマットでエラーレスポンスを書き込む。
func writeAPIErrorResponse(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	writeJSON(w, statusCode, apiErr)
}

// writeInvalidRequest はリクエスト不正の400レスポンスを書き込む。
func writeInvalidRequest(w http.ResponseWriter, reason string) {
	writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError(reason))
}

// handleServiceError はサービス・リポジトリ層のエラーをHTTPレスポンスに変換する。
// ドメインエラーは対応するステータスコードに、それ以外は500にマッピングする。
func handleServiceError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		writeAPIErrorResponse(w, mapAPIErrorToHTTPStatus(apiErr), apiErr)
		return
	}

	var notFound *model.NotFoundError
	if errors.As(err, &notFound) {
		writeAPIErrorResponse(w, http.StatusNotFound, notFoundToAPIError(notFound))
		return
	}

	var exists *model.AlreadyExistsError
	if errors.As(err, &exists) {
		writeAPIErrorResponse(w, http.StatusConflict, model.NewThemeExistsError(exists.ID))
		return
	}

	if errors.Is(err, model.ErrNoActiveThemes) {
		writeAPIErrorResponse(w, http.StatusNotFound, model.NewNoActiveThemesError())
		return
	}

	// ドメインエラー以外は内部サーバーエラーとして扱う
	slog.Error("internal server error", slog.String("error", err.Error()))
	writeAPIErrorResponse(w, http.StatusInternalServerError, &model.APIError{
		Code:     "INTERNAL_ERROR",
		Message:  "内部エラーが発生しました。",
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	})
}

// notFoundToAPIError はNotFoundErrorをエンティティ種別に応じたAPIErrorに変換する。
func notFoundToAPIError(err *model.NotFoundError) *model.APIError {
	switch err.Entity {
	case "Theme":
		return model.NewThemeNotFoundAPIError(err.ID)
	case "User":
		return model.NewUserNotFoundAPIError(err.ID)
	default:
		return model.NewKnowledgeNotFoundError(err.ID)
	}
}

// mapAPIErrorToHTTPStatus はAPIErrorコードからHTTPステータスコードにマッピングする。
func mapAPIErrorToHTTPStatus(apiErr *model.APIError) int {
	switch apiErr.Code {
	case model.ErrCodeKnowledgeNotFound, model.ErrCodeThemeNotFound,
		model.ErrCodeUserNotFound, model.ErrCodeNoActiveThemes:
		return http.StatusNotFound
	case model.ErrCodeThemeExists, model.ErrCodeUserNameTaken:
		return http.StatusConflict
	case model.ErrCodeValidationFailed:
		return http.StatusUnprocessableEntity
	case model.ErrCodeInvalidRequest:
		return http.StatusBadRequest
	case model.ErrCodeStorageFailure:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/supporterz-inc/hocus-pocus-c-2025-term1/internal/auth"
	"github.com/supporterz-inc/hocus-pocus-c-2025-term1/internal/model"
	"github.com/supporterz-inc/hocus-pocus-c-2025-term1/internal/repository"
)

// UserHandler はユーザー登録・参照のHTTPハンドラー。
type UserHandler struct {
	repo repository.UserRepository
}

// NewUserHandler はUserHandlerを生成する。
func NewUserHandler(repo repository.UserRepository) *UserHandler {
	return &UserHandler{repo: repo}
}

// registerUserRequest はユーザー登録リクエストのボディ。
type registerUserRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

// userResponse はユーザー情報のAPIレスポンス。
// パスワードハッシュはレスポンスに含めない。
type userResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func toUserResponse(u *model.User) userResponse {
	return userResponse{ID: u.ID, Name: u.Name}
}

// RegisterUser はユーザーを登録する。
// ストアは名前の一意性を保証しないため、保存前にFindByNameで重複を確認する。
// 同名ユーザーが同時に登録した場合、このチェックはすり抜けうる。
// POST /api/users
func (h *UserHandler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var req registerUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequest(w, "リクエストボディの解析に失敗しました")
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		writeInvalidRequest(w, "nameが空です")
		return
	}
	if req.Password == "" {
		writeInvalidRequest(w, "passwordが空です")
		return
	}

	existing, err := h.repo.FindByName(r.Context(), name)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if existing != nil {
		writeAPIErrorResponse(w, http.StatusConflict, model.NewUserNameTakenError(name))
		return
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	user := model.NewUser(name, passwordHash)
	if err := h.repo.Upsert(r.Context(), user); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toUserResponse(&user))
}

// GetUser はユーザー情報を取得する。
// GET /api/users/{id}
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	user, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user))
}

// FindUserByName は名前でユーザーを検索する。
// GET /api/users?name={name}
func (h *UserHandler) FindUserByName(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		writeInvalidRequest(w, "nameクエリパラメータが必要です")
		return
	}

	user, err := h.repo.FindByName(r.Context(), name)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if user == nil {
		writeAPIErrorResponse(w, http.StatusNotFound, model.NewUserNotFoundAPIError(name))
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user))
}

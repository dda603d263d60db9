package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/supporterz-inc/hocus-pocus-c-2025-term1/internal/auth"
	"github.com/supporterz-inc/hocus-pocus-c-2025-term1/internal/model"
)

func TestRegisterUser(t *testing.T) {
	deps := testDeps(t)

	var saved *model.User
	deps.UserRepo = &mockUserRepo{
		upsertFunc: func(ctx context.Context, user model.User) error {
			saved = &user
			return nil
		},
	}
	router := newTestRouter(t, deps)

	// ユーザー登録は識別ヘッダーなしでも行える
	rec := doJSON(router, http.MethodPost, "/api/users", "", `{"name":"たろう","password":"s3cret"}`)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (body: %s)", rec.Code, rec.Body.String())
	}
	if saved == nil {
		t.Fatal("Upsertが呼ばれていない")
	}
	if saved.Name != "たろう" {
		t.Errorf("Name = %q", saved.Name)
	}
	if saved.PasswordHash == "s3cret" || saved.PasswordHash == "" {
		t.Error("パスワードはハッシュ化して保存されるべき")
	}
	if !auth.VerifyPassword("s3cret", saved.PasswordHash) {
		t.Error("保存されたハッシュが元のパスワードと照合できない")
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse body: %v", err)
	}
	if _, ok := body["passwordHash"]; ok {
		t.Error("レスポンスにパスワードハッシュを含めてはならない")
	}
	if body["id"] == "" {
		t.Error("レスポンスにIDが無い")
	}
}

func TestRegisterUser_DuplicateName_Returns409(t *testing.T) {
	deps := testDeps(t)
	deps.UserRepo = &mockUserRepo{
		findByNameFunc: func(ctx context.Context, name string) (*model.User, error) {
			return &model.User{ID: "u-1", Name: name, PasswordHash: "x"}, nil
		},
		upsertFunc: func(ctx context.Context, user model.User) error {
			t.Error("重複名のユーザーが保存されてはならない")
			return nil
		},
	}
	router := newTestRouter(t, deps)

	rec := doJSON(router, http.MethodPost, "/api/users", "", `{"name":"たろう","password":"s3cret"}`)

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}

	var apiErr model.APIError
	if err := json.Unmarshal(rec.Body.Bytes(), &apiErr); err != nil {
		t.Fatalf("failed to parse body: %v", err)
	}
	if apiErr.Code != model.ErrCodeUserNameTaken {
		t.Errorf("code = %q, want USER_NAME_TAKEN", apiErr.Code)
	}
}

func TestRegisterUser_MissingFields_Returns400(t *testing.T) {
	router := newTestRouter(t, testDeps(t))

	tests := []string{
		`{"name":"","password":"s3cret"}`,
		`{"name":"  ","password":"s3cret"}`,
		`{"name":"たろう","password":""}`,
		`not json`,
	}
	for _, body := range tests {
		rec := doJSON(router, http.MethodPost, "/api/users", "", body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body=%q: status = %d, want 400", body, rec.Code)
		}
	}
}

func TestGetUser(t *testing.T) {
	deps := testDeps(t)
	deps.UserRepo = &mockUserRepo{
		getByIDFunc: func(ctx context.Context, id string) (*model.User, error) {
			return &model.User{ID: id, Name: "たろう", PasswordHash: "x"}, nil
		},
	}
	router := newTestRouter(t, deps)

	rec := doJSON(router, http.MethodGet, "/api/users/u-1", "alice", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var got userResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to parse body: %v", err)
	}
	if got.ID != "u-1" || got.Name != "たろう" {
		t.Errorf("got = %+v", got)
	}
}

func TestGetUser_NotFound_Returns404(t *testing.T) {
	router := newTestRouter(t, testDeps(t))

	rec := doJSON(router, http.MethodGet, "/api/users/missing", "alice", "")

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}

	var apiErr model.APIError
	if err := json.Unmarshal(rec.Body.Bytes(), &apiErr); err != nil {
		t.Fatalf("failed to parse body: %v", err)
	}
	if apiErr.Code != model.ErrCodeUserNotFound {
		t.Errorf("code = %q, want USER_NOT_FOUND", apiErr.Code)
	}
}

func TestFindUserByName(t *testing.T) {
	deps := testDeps(t)
	deps.UserRepo = &mockUserRepo{
		findByNameFunc: func(ctx context.Context, name string) (*model.User, error) {
			if name == "たろう" {
				return &model.User{ID: "u-1", Name: name, PasswordHash: "x"}, nil
			}
			return nil, nil
		},
	}
	router := newTestRouter(t, deps)

	rec := doJSON(router, http.MethodGet, "/api/users?name=たろう", "alice", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body: %s)", rec.Code, rec.Body.String())
	}

	rec = doJSON(router, http.MethodGet, "/api/users?name=いない", "alice", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("未登録の名前: status = %d, want 404", rec.Code)
	}

	rec = doJSON(router, http.MethodGet, "/api/users", "alice", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("nameパラメータ無し: status = %d, want 400", rec.Code)
	}
}

package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/supporterz-inc/hocus-pocus-c-2025-term1/internal/model"
	"github.com/supporterz-inc/hocus-pocus-c-2025-term1/internal/storage"
)

// TestFileKnowledgeRepo_RoundTrip はUpsertしたナレッジがGetByIDで
// 構造的に等しい値として読み戻せることを検証する。
func TestFileKnowledgeRepo_RoundTrip(t *testing.T) {
	repo := NewFileKnowledgeRepo(storage.NewMemoryBackend())
	ctx := context.Background()

	k := model.Knowledge{
		ID:        "k-1",
		Content:   "今日は学習をしました",
		AuthorID:  "author-1",
		CreatedAt: 1700000000,
		UpdatedAt: 1700000000,
	}
	if err := repo.Upsert(ctx, k); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	got, err := repo.GetByID(ctx, "k-1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if *got != k {
		t.Errorf("got %+v, want %+v", *got, k)
	}
}

// TestFileKnowledgeRepo_GetByID_NotFound は存在しないIDの取得が
// NotFoundで失敗することを検証する。
func TestFileKnowledgeRepo_GetByID_NotFound(t *testing.T) {
	repo := NewFileKnowledgeRepo(storage.NewMemoryBackend())

	_, err := repo.GetByID(context.Background(), "nonexistent")
	if err == nil {
		t.Fatal("expected error")
	}
	if !model.IsNotFound(err) {
		t.Errorf("expected NotFoundError, got %v", err)
	}
}

// TestFileKnowledgeRepo_GetAll_SortedByUpdatedAtDesc は一覧が
// UpdatedAt降順で返ることを検証する。
func TestFileKnowledgeRepo_GetAll_SortedByUpdatedAtDesc(t *testing.T) {
	repo := NewFileKnowledgeRepo(storage.NewMemoryBackend())
	ctx := context.Background()

	for _, k := range []model.Knowledge{
		{ID: "old", Content: "a", AuthorID: "u", CreatedAt: 100, UpdatedAt: 100},
		{ID: "newest", Content: "b", AuthorID: "u", CreatedAt: 300, UpdatedAt: 300},
		{ID: "middle", Content: "c", AuthorID: "u", CreatedAt: 200, UpdatedAt: 200},
	} {
		if err := repo.Upsert(ctx, k); err != nil {
			t.Fatalf("Upsert(%s) failed: %v", k.ID, err)
		}
	}

	list, err := repo.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 records, got %d", len(list))
	}
	for i := 1; i < len(list); i++ {
		if list[i-1].UpdatedAt < list[i].UpdatedAt {
			t.Errorf("list not sorted: index %d (%d) < index %d (%d)",
				i-1, list[i-1].UpdatedAt, i, list[i].UpdatedAt)
		}
	}
	if list[0].ID != "newest" {
		t.Errorf("first record = %q, want %q", list[0].ID, "newest")
	}
}

// TestFileKnowledgeRepo_GetAll_FailSoft は壊れたJSONファイルが1件あっても
// 一覧全体が失敗せず、正常なレコードだけが返ることを検証する。
func TestFileKnowledgeRepo_GetAll_FailSoft(t *testing.T) {
	backend := storage.NewMemoryBackend()
	repo := NewFileKnowledgeRepo(backend)
	ctx := context.Background()

	valid := []model.Knowledge{
		{ID: "a", Content: "x", AuthorID: "u", CreatedAt: 1, UpdatedAt: 1},
		{ID: "b", Content: "y", AuthorID: "u", CreatedAt: 2, UpdatedAt: 2},
	}
	for _, k := range valid {
		if err := repo.Upsert(ctx, k); err != nil {
			t.Fatalf("Upsert failed: %v", err)
		}
	}
	if err := backend.Write("knowledge-corrupt.json", []byte("{broken")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	list, err := repo.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll should never fail on corrupt records: %v", err)
	}
	if len(list) != 2 {
		t.Errorf("expected 2 records, got %d", len(list))
	}
}

// TestFileKnowledgeRepo_GetAll_DirFailureReturnsEmpty はストレージルートが
// 作成できない場合に、エラーではなく空スライスが返ることを検証する。
func TestFileKnowledgeRepo_GetAll_DirFailureReturnsEmpty(t *testing.T) {
	// 通常ファイルをルートとして指定し、MkdirAllを失敗させる
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, []byte("file"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	repo := NewFileKnowledgeRepo(storage.NewFilesystemBackend(filepath.Join(blocker, "storage")))

	list, err := repo.GetAll(context.Background())
	if err != nil {
		t.Fatalf("GetAll should not propagate directory errors: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("expected empty list, got %d records", len(list))
	}
}

// TestFileKnowledgeRepo_Upsert_Overwrite は同一IDへのUpsertが
// レコードを置き換えることを検証する。
func TestFileKnowledgeRepo_Upsert_Overwrite(t *testing.T) {
	repo := NewFileKnowledgeRepo(storage.NewMemoryBackend())
	ctx := context.Background()

	k := model.Knowledge{ID: "k-1", Content: "v1", AuthorID: "u", CreatedAt: 1, UpdatedAt: 1}
	if err := repo.Upsert(ctx, k); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	k.Content = "v2"
	k.UpdatedAt = 2
	if err := repo.Upsert(ctx, k); err != nil {
		t.Fatalf("second Upsert failed: %v", err)
	}

	got, err := repo.GetByID(ctx, "k-1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Content != "v2" || got.UpdatedAt != 2 {
		t.Errorf("got %+v, want overwritten record", got)
	}

	list, err := repo.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("expected 1 record after overwrite, got %d", len(list))
	}
}

// TestFileKnowledgeRepo_DeleteByID はNotFound契約を含む削除を検証する。
func TestFileKnowledgeRepo_DeleteByID(t *testing.T) {
	repo := NewFileKnowledgeRepo(storage.NewMemoryBackend())
	ctx := context.Background()

	k := model.Knowledge{ID: "k-1", Content: "x", AuthorID: "u", CreatedAt: 1, UpdatedAt: 1}
	if err := repo.Upsert(ctx, k); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	if err := repo.DeleteByID(ctx, "k-1"); err != nil {
		t.Fatalf("DeleteByID failed: %v", err)
	}
	if _, err := repo.GetByID(ctx, "k-1"); !model.IsNotFound(err) {
		t.Errorf("record should be gone, got %v", err)
	}

	// 存在しないIDの削除はNotFound
	if err := repo.DeleteByID(ctx, "nonexistent"); !model.IsNotFound(err) {
		t.Errorf("expected NotFoundError, got %v", err)
	}
}

// TestFileKnowledgeRepo_Filesystem は実ファイルシステム上で
// storage/knowledge-{id}.json のレイアウトを検証する。
func TestFileKnowledgeRepo_Filesystem(t *testing.T) {
	root := filepath.Join(t.TempDir(), "storage")
	repo := NewFileKnowledgeRepo(storage.NewFilesystemBackend(root))
	ctx := context.Background()

	k := model.Knowledge{ID: "abc-123", Content: "x", AuthorID: "u", CreatedAt: 1, UpdatedAt: 1}
	if err := repo.Upsert(ctx, k); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(root, "knowledge-abc-123.json")); err != nil {
		t.Errorf("expected knowledge-abc-123.json on disk: %v", err)
	}
}

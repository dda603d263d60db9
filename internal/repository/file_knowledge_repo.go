package repository

import (
	"context"
	"fmt"
	"sort"

	"github.com/supporterz-inc/hocus-pocus-c-2025-term1/internal/model"
	"github.com/supporterz-inc/hocus-pocus-c-2025-term1/internal/storage"
)

// knowledgeFilePrefix はナレッジのファイル命名規則 "knowledge-{id}.json" の
// プレフィックス。
const knowledgeFilePrefix = "knowledge"

// FileKnowledgeRepo はファイル1件＝ナレッジ1件のJSONファイルを使用した
// ナレッジリポジトリ。
type FileKnowledgeRepo struct {
	store *storage.RecordStore[model.Knowledge]
}

// NewFileKnowledgeRepo はFileKnowledgeRepoを生成する。
func NewFileKnowledgeRepo(backend storage.Backend) *FileKnowledgeRepo {
	return &FileKnowledgeRepo{
		store: storage.NewRecordStore[model.Knowledge](backend, knowledgeFilePrefix),
	}
}

// GetByID は指定IDのナレッジを取得する。
// ストア層のAbsentOnError方針とは異なり、この層では不在を明示的な
// model.NotFoundErrorに昇格させる。呼び出し側が「投稿が存在しない」と
// 「一覧が空」を区別できるようにするため。
func (r *FileKnowledgeRepo) GetByID(ctx context.Context, id string) (*model.Knowledge, error) {
	knowledge, found := r.store.ReadOne(id)
	if !found {
		return nil, model.NewNotFoundError("Knowledge", id)
	}
	return &knowledge, nil
}

// GetAll は全ナレッジをUpdatedAt降順で返す。
// 壊れたレコードはスキップし、ディレクトリアクセス失敗時はエラーを
// 伝播させず空スライスを返す。
func (r *FileKnowledgeRepo) GetAll(ctx context.Context) ([]model.Knowledge, error) {
	if err := r.store.EnsureDirectory(); err != nil {
		return []model.Knowledge{}, nil
	}

	records, err := r.store.ReadAll()
	if err != nil {
		return []model.Knowledge{}, nil
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].UpdatedAt > records[j].UpdatedAt
	})
	return records, nil
}

// Upsert はナレッジを新規保存または上書き保存する。
func (r *FileKnowledgeRepo) Upsert(ctx context.Context, knowledge model.Knowledge) error {
	if err := r.store.WriteOne(knowledge.ID, knowledge); err != nil {
		return fmt.Errorf("failed to upsert knowledge: %w", err)
	}
	return nil
}

// DeleteByID は指定IDのナレッジを削除する。
func (r *FileKnowledgeRepo) DeleteByID(ctx context.Context, id string) error {
	if err := r.store.DeleteOne(id); err != nil {
		if storage.IsNotExist(err) {
			return model.NewNotFoundError("Knowledge", id)
		}
		return fmt.Errorf("failed to delete knowledge: %w", err)
	}
	return nil
}

// compile-time interface check
var _ KnowledgeRepository = (*FileKnowledgeRepo)(nil)

package repository

import (
	"context"
	"fmt"

	"github.com/supporterz-inc/hocus-pocus-c-2025-term1/internal/model"
	"github.com/supporterz-inc/hocus-pocus-c-2025-term1/internal/storage"
)

// userFilePrefix はユーザーのファイル命名規則 "user-{id}.json" のプレフィックス。
const userFilePrefix = "user"

// FileUserRepo はファイル1件＝ユーザー1件のJSONファイルを使用した
// ユーザーリポジトリ。削除操作は提供しない。
type FileUserRepo struct {
	store *storage.RecordStore[model.User]
}

// NewFileUserRepo はFileUserRepoを生成する。
func NewFileUserRepo(backend storage.Backend) *FileUserRepo {
	return &FileUserRepo{
		store: storage.NewRecordStore[model.User](backend, userFilePrefix),
	}
}

// GetByID は指定IDのユーザーを取得する。
// AbsentOnError方針により、ファイル不在も破損もすべて同じ
// model.NotFoundErrorに集約される。「不在」と「破損」を区別できないのは
// この設計の既知の弱点。
func (r *FileUserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	user, found := r.store.ReadOne(id)
	if !found {
		return nil, model.NewNotFoundError("User", id)
	}
	return &user, nil
}

// FindByName は全ユーザーファイルを線形走査し、一覧順で最初にマッチした
// ユーザーを返す。見つからない場合、およびディレクトリアクセスに失敗した
// 場合はnilを返す。
// Nameの一意性は保証されないため、同名ユーザーが複数いる場合に
// どれが返るかは一覧順に依存する。
func (r *FileUserRepo) FindByName(ctx context.Context, name string) (*model.User, error) {
	if err := r.store.EnsureDirectory(); err != nil {
		return nil, nil
	}

	ids, err := r.store.ListIDs()
	if err != nil {
		return nil, nil
	}

	for _, id := range ids {
		user, found := r.store.ReadOne(id)
		if !found {
			// 個別ファイルの読み込み失敗は無視して走査を続行
			continue
		}
		if user.Name == name {
			return &user, nil
		}
	}
	return nil, nil
}

// Upsert はユーザーを新規保存または上書き保存する。
func (r *FileUserRepo) Upsert(ctx context.Context, user model.User) error {
	if err := r.store.WriteOne(user.ID, user); err != nil {
		return fmt.Errorf("failed to upsert user: %w", err)
	}
	return nil
}

// compile-time interface check
var _ UserRepository = (*FileUserRepo)(nil)

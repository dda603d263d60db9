// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/supporterz-inc/hocus-pocus-c-2025-term1/internal/model"
)

// KnowledgeRepository はナレッジデータの永続化インターフェース。
type KnowledgeRepository interface {
	// GetByID は指定IDのナレッジを取得する。
	// 見つからない場合はmodel.NotFoundErrorを返す。
	GetByID(ctx context.Context, id string) (*model.Knowledge, error)

	// GetAll は全ナレッジをUpdatedAt降順（最近更新されたものが先頭）で返す。
	// 個別レコードの読み込み失敗はスキップし、ディレクトリアクセス失敗時は
	// エラーではなく空スライスを返す。
	GetAll(ctx context.Context) ([]model.Knowledge, error)

	// Upsert はナレッジを新規保存または上書き保存する。
	// バージョンチェックは行わず、同一IDへの並行書き込みは後勝ちになる。
	Upsert(ctx context.Context, knowledge model.Knowledge) error

	// DeleteByID は指定IDのナレッジを削除する。
	// 見つからない場合はmodel.NotFoundErrorを返す。
	DeleteByID(ctx context.Context, id string) error
}

// ThemeRepository はテーマデータの永続化インターフェース。
// 全テーマは単一の集約ファイルに格納され、変更のたびに全体を書き直す。
type ThemeRepository interface {
	// GetAll は全テーマを格納順で返す。
	// ファイルが存在しない場合（初回起動）は空スライスを返す。
	GetAll(ctx context.Context) ([]model.Theme, error)

	// GetActiveThemes は有効なテーマのみを格納順で返す。
	GetActiveThemes(ctx context.Context) ([]model.Theme, error)

	// GetByID は指定IDのテーマを取得する。見つからない場合はnilを返す。
	GetByID(ctx context.Context, id string) (*model.Theme, error)

	// Create はテーマを追加する。
	// 同一IDのテーマが存在する場合はmodel.AlreadyExistsErrorを返す。
	Create(ctx context.Context, theme model.Theme) error

	// Update は既存テーマを位置を保ったまま置き換える。
	// 見つからない場合はmodel.NotFoundErrorを返す。
	Update(ctx context.Context, theme model.Theme) error

	// Delete は指定IDのテーマを削除する。
	// 見つからない場合はmodel.NotFoundErrorを返す。
	Delete(ctx context.Context, id string) error
}

// UserRepository はユーザーデータの永続化インターフェース。
// 削除操作は提供しない。
type UserRepository interface {
	// GetByID は指定IDのユーザーを取得する。
	// ファイル不在だけでなく読み込み失敗全般がmodel.NotFoundErrorに
	// 集約される（「不在」と「破損」は区別されない）。
	GetByID(ctx context.Context, id string) (*model.User, error)

	// FindByName は指定した名前のユーザーを線形走査で検索し、
	// 一覧順で最初にマッチしたものを返す。見つからない場合、および
	// ディレクトリアクセスに失敗した場合はnilを返す。
	FindByName(ctx context.Context, name string) (*model.User, error)

	// Upsert はユーザーを新規保存または上書き保存する。
	Upsert(ctx context.Context, user model.User) error
}

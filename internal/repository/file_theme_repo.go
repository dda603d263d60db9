package repository

import (
	"context"
	"encoding/json"
	"path"

	"github.com/supporterz-inc/hocus-pocus-c-2025-term1/internal/model"
	"github.com/supporterz-inc/hocus-pocus-c-2025-term1/internal/storage"
)

// themesDocument は集約ファイルのオンディスク形式。
type themesDocument struct {
	Themes []model.Theme `json:"themes"`
}

// FileThemeRepo は単一の集約ファイル（themes/themes-data.json）を使用した
// テーマリポジトリ。
//
// 全ての変更操作はファイル全体のread-modify-writeであり、レコード単位の
// ロックは行わない。並行する変更操作は競合し、最後に書き込んだものが
// 勝つ（途中の追加・更新・削除が失われうる）。これは既知の制限であり、
// より強い保証が必要な場合は呼び出し側で直列化すること。
type FileThemeRepo struct {
	backend  storage.Backend
	filename string
}

// NewFileThemeRepo はFileThemeRepoを生成する。
func NewFileThemeRepo(backend storage.Backend) *FileThemeRepo {
	return &FileThemeRepo{
		backend:  backend,
		filename: path.Join("themes", "themes-data.json"),
	}
}

// loadAll は集約ファイルから全テーマを読み込む。
// ファイルが存在しない場合（初回起動）は空スライスを返す。
// それ以外の読み込み・パース失敗はmodel.StorageErrorとして扱う。
func (r *FileThemeRepo) loadAll() ([]model.Theme, error) {
	data, err := r.backend.Read(r.filename)
	if err != nil {
		if storage.IsNotExist(err) {
			return []model.Theme{}, nil
		}
		return nil, model.NewStorageError("load themes", err)
	}

	var doc themesDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, model.NewStorageError("parse themes", err)
	}
	if doc.Themes == nil {
		return []model.Theme{}, nil
	}
	return doc.Themes, nil
}

// saveAll は全テーマを集約ファイルに書き込む。
// 格納順をそのまま保存し、無意味な差分が出ないようにする。
func (r *FileThemeRepo) saveAll(themes []model.Theme) error {
	data, err := json.MarshalIndent(themesDocument{Themes: themes}, "", "  ")
	if err != nil {
		return model.NewStorageError("marshal themes", err)
	}
	if err := r.backend.Write(r.filename, data); err != nil {
		return model.NewStorageError("save themes", err)
	}
	return nil
}

// GetAll は全テーマを格納順で返す。
func (r *FileThemeRepo) GetAll(ctx context.Context) ([]model.Theme, error) {
	return r.loadAll()
}

// GetActiveThemes は有効なテーマのみを格納順で返す。並べ替えは行わない。
func (r *FileThemeRepo) GetActiveThemes(ctx context.Context) ([]model.Theme, error) {
	themes, err := r.loadAll()
	if err != nil {
		return nil, err
	}

	active := make([]model.Theme, 0, len(themes))
	for _, theme := range themes {
		if theme.IsActive {
			active = append(active, theme)
		}
	}
	return active, nil
}

// GetByID は指定IDのテーマを線形走査で取得する。見つからない場合はnilを返す。
func (r *FileThemeRepo) GetByID(ctx context.Context, id string) (*model.Theme, error) {
	themes, err := r.loadAll()
	if err != nil {
		return nil, err
	}

	for _, theme := range themes {
		if theme.ID == id {
			return &theme, nil
		}
	}
	return nil, nil
}

// Create はテーマを末尾に追加してファイル全体を書き直す。
func (r *FileThemeRepo) Create(ctx context.Context, theme model.Theme) error {
	themes, err := r.loadAll()
	if err != nil {
		return err
	}

	for _, existing := range themes {
		if existing.ID == theme.ID {
			return model.NewAlreadyExistsError("Theme", theme.ID)
		}
	}

	themes = append(themes, theme)
	return r.saveAll(themes)
}

// Update は既存テーマを同じ位置で置き換えてファイル全体を書き直す。
func (r *FileThemeRepo) Update(ctx context.Context, theme model.Theme) error {
	themes, err := r.loadAll()
	if err != nil {
		return err
	}

	index := -1
	for i, existing := range themes {
		if existing.ID == theme.ID {
			index = i
			break
		}
	}
	if index == -1 {
		return model.NewNotFoundError("Theme", theme.ID)
	}

	themes[index] = theme
	return r.saveAll(themes)
}

// Delete は指定IDのテーマを取り除いてファイル全体を書き直す。
func (r *FileThemeRepo) Delete(ctx context.Context, id string) error {
	themes, err := r.loadAll()
	if err != nil {
		return err
	}

	filtered := make([]model.Theme, 0, len(themes))
	for _, theme := range themes {
		if theme.ID != id {
			filtered = append(filtered, theme)
		}
	}
	if len(filtered) == len(themes) {
		return model.NewNotFoundError("Theme", id)
	}

	return r.saveAll(filtered)
}

// compile-time interface check
var _ ThemeRepository = (*FileThemeRepo)(nil)

// Package storage はファイル1件＝レコード1件のJSON永続化プリミティブを提供する。
//
// RecordStoreが命名規則・JSON整形・読み込み失敗時の方針（AbsentOnError）を
// 担い、実際のファイル操作はBackendインターフェースに委譲する。
// これによりリポジトリのロジックを変更せずに、テスト用のインメモリ実装や
// 別のキーバリューストアに差し替えられる。
package storage

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// ErrNotExist は対象の名前のレコードが存在しないことを表す。
// fs.ErrNotExistの別名であり、errors.Isで判定できる。
var ErrNotExist = fs.ErrNotExist

// Backend は名前付きバイト列の読み書きを抽象化する。
// 名前はストレージルートからの相対パス（例: "knowledge-xxx.json"、
// "themes/themes-data.json"）。
type Backend interface {
	// EnsureDir はストレージルートを作成する。既に存在する場合は何もしない。
	EnsureDir() error

	// Read は指定した名前の内容を読み込む。
	// 存在しない場合はErrNotExistを含むエラーを返す。
	Read(name string) ([]byte, error)

	// Write は指定した名前に内容を書き込む。作成または上書き。
	// 親ディレクトリが存在しない場合は作成する。
	// 一時ファイル経由のアトミック書き込みは行わない。
	Write(name string, data []byte) error

	// Remove は指定した名前を削除する。
	// 存在しない場合はErrNotExistを含むエラーを返す。
	Remove(name string) error

	// List はストレージルート直下のファイル名一覧を返す。
	List() ([]string, error)
}

// FilesystemBackend はローカルファイルシステム上のBackend実装。
type FilesystemBackend struct {
	root string
}

// NewFilesystemBackend は指定したルートディレクトリのFilesystemBackendを生成する。
func NewFilesystemBackend(root string) *FilesystemBackend {
	return &FilesystemBackend{root: root}
}

// Root はストレージルートのパスを返す。
func (b *FilesystemBackend) Root() string {
	return b.root
}

// EnsureDir はストレージルートを再帰的に作成する。
func (b *FilesystemBackend) EnsureDir() error {
	return os.MkdirAll(b.root, 0o755)
}

// Read は指定した名前のファイルを読み込む。
func (b *FilesystemBackend) Read(name string) ([]byte, error) {
	return os.ReadFile(filepath.Join(b.root, name))
}

// Write は指定した名前のファイルに書き込む。
// 親ディレクトリが存在しない場合は作成する。
func (b *FilesystemBackend) Write(name string, data []byte) error {
	path := filepath.Join(b.root, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Remove は指定した名前のファイルを削除する。
func (b *FilesystemBackend) Remove(name string) error {
	return os.Remove(filepath.Join(b.root, name))
}

// List はストレージルート直下の通常ファイル名一覧を返す。
func (b *FilesystemBackend) List() ([]string, error) {
	entries, err := os.ReadDir(b.root)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		names = append(names, entry.Name())
	}
	return names, nil
}

// MemoryBackend はテスト用のインメモリBackend実装。
type MemoryBackend struct {
	mu    sync.RWMutex
	files map[string][]byte
}

// NewMemoryBackend は空のMemoryBackendを生成する。
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{files: make(map[string][]byte)}
}

// EnsureDir は何もしない。インメモリ実装ではディレクトリの概念がない。
func (b *MemoryBackend) EnsureDir() error {
	return nil
}

// Read は指定した名前の内容を返す。
func (b *MemoryBackend) Read(name string) ([]byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	data, ok := b.files[name]
	if !ok {
		return nil, &fs.PathError{Op: "read", Path: name, Err: fs.ErrNotExist}
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// Write は指定した名前に内容を保存する。
func (b *MemoryBackend) Write(name string, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	stored := make([]byte, len(data))
	copy(stored, data)
	b.files[name] = stored
	return nil
}

// Remove は指定した名前を削除する。
func (b *MemoryBackend) Remove(name string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.files[name]; !ok {
		return &fs.PathError{Op: "remove", Path: name, Err: fs.ErrNotExist}
	}
	delete(b.files, name)
	return nil
}

// List は保存されている名前を整列して返す。
func (b *MemoryBackend) List() ([]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	names := make([]string, 0, len(b.files))
	for name := range b.files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// IsNotExist はerrが「存在しない」ことを表すかどうかを返す。
func IsNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

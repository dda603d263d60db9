package storage

import (
	"encoding/json"
	"fmt"
	"strings"
)

// RecordStore はファイル1件＝レコード1件のJSON永続化を型安全に提供する。
// ファイル名は "{prefix}-{id}.json" 規則に従う。
//
// 読み込み失敗の扱いはAbsentOnError方針に統一する：ファイル不在・壊れた
// JSON・途中で切れたファイルはすべて「存在しない」として扱い、エラーとして
// 区別しない。書き込みはアトミックではないため、書き込み中のクラッシュで
// レコードが壊れる可能性があるが、その場合も次回の読み込みで単に不在扱い
// になる。
type RecordStore[T any] struct {
	backend Backend
	prefix  string
}

// NewRecordStore は指定したBackendと命名プレフィックスのRecordStoreを生成する。
func NewRecordStore[T any](backend Backend, prefix string) *RecordStore[T] {
	return &RecordStore[T]{backend: backend, prefix: prefix}
}

// Filename はIDに対応するファイル名を返す。
func (s *RecordStore[T]) Filename(id string) string {
	return fmt.Sprintf("%s-%s.json", s.prefix, id)
}

// EnsureDirectory はストレージルートを作成する。冪等。
func (s *RecordStore[T]) EnsureDirectory() error {
	if err := s.backend.EnsureDir(); err != nil {
		return fmt.Errorf("failed to ensure storage directory: %w", err)
	}
	return nil
}

// ReadOne は指定IDのレコードを読み込む。
// AbsentOnError方針により、あらゆる読み込み・パース失敗は
// 「存在しない」(found=false)として扱う。
func (s *RecordStore[T]) ReadOne(id string) (T, bool) {
	var record T

	data, err := s.backend.Read(s.Filename(id))
	if err != nil {
		return record, false
	}
	if err := json.Unmarshal(data, &record); err != nil {
		return record, false
	}
	return record, true
}

// WriteOne は指定IDのレコードを整形済みJSONとして書き込む。
// 作成または上書き。楽観ロックは行わず、同一IDへの並行書き込みは
// 後勝ちになる。
func (s *RecordStore[T]) WriteOne(id string, record T) error {
	if err := s.EnsureDirectory(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal record %s: %w", id, err)
	}

	if err := s.backend.Write(s.Filename(id), data); err != nil {
		return fmt.Errorf("failed to write record %s: %w", id, err)
	}
	return nil
}

// DeleteOne は指定IDのレコードを削除する。
// 存在しない場合はErrNotExistを含むエラーを返す。
func (s *RecordStore[T]) DeleteOne(id string) error {
	if err := s.backend.Remove(s.Filename(id)); err != nil {
		return fmt.Errorf("failed to delete record %s: %w", id, err)
	}
	return nil
}

// ListIDs は命名規則にマッチするファイルのID一覧を返す。
// マッチしないファイルは無視する。
func (s *RecordStore[T]) ListIDs() ([]string, error) {
	names, err := s.backend.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}

	head := s.prefix + "-"
	var ids []string
	for _, name := range names {
		if !strings.HasPrefix(name, head) || !strings.HasSuffix(name, ".json") {
			continue
		}
		id := strings.TrimSuffix(strings.TrimPrefix(name, head), ".json")
		if id == "" {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// ReadAll は全レコードを読み込んで返す。
// 個別レコードの読み込み・パース失敗はそのレコードを結果から除外するだけで、
// 一覧全体は失敗しない（部分的失敗への耐性）。
// ディレクトリアクセス自体の失敗はエラーとして返す。
func (s *RecordStore[T]) ReadAll() ([]T, error) {
	ids, err := s.ListIDs()
	if err != nil {
		return nil, err
	}

	records := make([]T, 0, len(ids))
	for _, id := range ids {
		record, found := s.ReadOne(id)
		if !found {
			// 壊れたレコードはスキップして続行
			continue
		}
		records = append(records, record)
	}
	return records, nil
}

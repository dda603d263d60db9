// Package model はドメインモデルを定義する。
package model

import (
	"time"

	"github.com/google/uuid"
)

// Knowledge は投稿されたナレッジ（短文の知見共有）を表す。
// IDは作成時に採番され、以後変更されない。
type Knowledge struct {
	ID       string `json:"id"`
	Content  string `json:"content"`
	AuthorID string `json:"authorId"`
	// CreatedAt / UpdatedAt はUNIXタイムスタンプ（秒）。
	// UpdatedAt >= CreatedAt が常に成り立つ。
	CreatedAt int64 `json:"createdAt"`
	UpdatedAt int64 `json:"updatedAt"`
}

// NewKnowledge はナレッジを新規作成する。
// 新しいUUIDを採番し、作成日時と更新日時を同じ値に設定する。
// contentが空のまま作成するのは呼び出し側の責務違反であり、ここでは検証しない。
func NewKnowledge(content, authorID string) Knowledge {
	now := time.Now().Unix()
	return Knowledge{
		ID:        uuid.NewString(),
		Content:   content,
		AuthorID:  authorID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// UpdateContent は内容を差し替えた新しいKnowledgeを返す純粋関数。
// IDと作成日時は変更せず、更新日時のみ現在時刻に更新する。
func (k Knowledge) UpdateContent(content string) Knowledge {
	k.Content = content
	k.UpdatedAt = time.Now().Unix()
	return k
}

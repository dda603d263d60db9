package model

import (
	"time"

	"github.com/google/uuid"
)

// Difficulty はテーマの難易度を表す。
type Difficulty string

const (
	// DifficultyEasy は難易度「易しい」を表す。
	DifficultyEasy Difficulty = "easy"
	// DifficultyMedium は難易度「普通」を表す。
	DifficultyMedium Difficulty = "medium"
	// DifficultyHard は難易度「難しい」を表す。
	DifficultyHard Difficulty = "hard"
)

// IsValid は難易度が定義済みの値かどうかを返す。
func (d Difficulty) IsValid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// Theme は日替わり投稿テーマを表す。
// Word / Category / Difficulty は作成後に変更されない。
// 状態遷移はIsActiveの切り替えのみ。
type Theme struct {
	ID string `json:"id"`
	// Word はテーマ単語（例：「学習」「チームワーク」「効率化」）。
	Word string `json:"word"`
	// Category はテーマのカテゴリ（例：「教育」「コミュニケーション」）。
	Category   string     `json:"category"`
	Difficulty Difficulty `json:"difficulty"`
	IsActive   bool       `json:"isActive"`
	// CreatedAt はUNIXタイムスタンプ（秒）。
	CreatedAt int64 `json:"createdAt"`
}

// NewTheme はテーマを新規作成する。作成直後のテーマは有効状態。
func NewTheme(word, category string, difficulty Difficulty) Theme {
	return Theme{
		ID:         uuid.NewString(),
		Word:       word,
		Category:   category,
		Difficulty: difficulty,
		IsActive:   true,
		CreatedAt:  time.Now().Unix(),
	}
}

// Activate はテーマを有効化した新しいThemeを返す純粋関数。
func (t Theme) Activate() Theme {
	t.IsActive = true
	return t
}

// Deactivate はテーマを無効化した新しいThemeを返す純粋関数。
func (t Theme) Deactivate() Theme {
	t.IsActive = false
	return t
}

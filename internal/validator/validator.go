// Package validator は投稿内容がテーマ単語を含むかを検証する。
// 純粋関数のみで構成され、ストレージには依存しない。
package validator

import (
	"fmt"
	"strings"
	"unicode"
)

// ValidationResult はコンテンツ検証の結果を表す。
type ValidationResult struct {
	// IsValid は検証が成功したかどうか。
	IsValid bool `json:"isValid"`

	// DetectedWords は検出されたテーマ単語の配列。
	DetectedWords []string `json:"detectedWords"`

	// Reason は検証失敗時の理由（成功時は空文字列）。
	Reason string `json:"reason,omitempty"`

	// ThemeWord は検証対象のテーマ単語。
	ThemeWord string `json:"themeWord"`
}

// ValidateThemeContent は投稿内容にテーマ単語が含まれているかを検証する。
// 内容・テーマ単語のいずれかが空（空白のみを含む）の場合は失敗を返す。
func ValidateThemeContent(content, themeWord string) ValidationResult {
	if strings.TrimSpace(content) == "" {
		return ValidationResult{
			IsValid:       false,
			DetectedWords: []string{},
			Reason:        "投稿内容が空です",
			ThemeWord:     themeWord,
		}
	}

	if strings.TrimSpace(themeWord) == "" {
		return ValidationResult{
			IsValid:       false,
			DetectedWords: []string{},
			Reason:        "テーマ単語が設定されていません",
			ThemeWord:     themeWord,
		}
	}

	if containsThemeWord(content, themeWord) {
		return ValidationResult{
			IsValid:       true,
			DetectedWords: []string{themeWord},
			ThemeWord:     themeWord,
		}
	}

	return ValidationResult{
		IsValid:       false,
		DetectedWords: []string{},
		Reason:        fmt.Sprintf("今日のテーマ「%s」を含む投稿をしてください", themeWord),
		ThemeWord:     themeWord,
	}
}

// ValidateMultipleThemes は複数のテーマ単語のいずれかが投稿内容に
// 含まれているかを検証し、マッチした単語をすべて収集する。
// 候補が空の場合は失敗を返す。
func ValidateMultipleThemes(content string, themeWords []string) ValidationResult {
	if len(themeWords) == 0 {
		return ValidationResult{
			IsValid:       false,
			DetectedWords: []string{},
			Reason:        "テーマ単語が設定されていません",
			ThemeWord:     "",
		}
	}

	detected := []string{}
	for _, themeWord := range themeWords {
		if containsThemeWord(content, themeWord) {
			detected = append(detected, themeWord)
		}
	}

	firstThemeWord := themeWords[0]

	if len(detected) > 0 {
		return ValidationResult{
			IsValid:       true,
			DetectedWords: detected,
			ThemeWord:     firstThemeWord,
		}
	}

	return ValidationResult{
		IsValid:       false,
		DetectedWords: []string{},
		Reason:        fmt.Sprintf("次のテーマ単語のいずれかを含む投稿をしてください: %s", strings.Join(themeWords, ", ")),
		ThemeWord:     firstThemeWord,
	}
}

// ExtractWords は投稿内容を空白と句読点で分割し、空でないトークンを返す。
// 検証の判定には使われないユーティリティ。
func ExtractWords(content string) []string {
	if content == "" {
		return []string{}
	}

	words := strings.FieldsFunc(content, func(r rune) bool {
		if unicode.IsSpace(r) {
			return true
		}
		switch r {
		case '、', '。', '！', '？', ',', '.', '!', '?':
			return true
		}
		return false
	})
	if words == nil {
		return []string{}
	}
	return words
}

// containsThemeWord は正規化した投稿内容にテーマ単語（および
// ひらがな・カタカナ変換したバリエーション）が含まれるかを判定する。
func containsThemeWord(content, themeWord string) bool {
	normalizedContent := normalizeText(content)
	normalizedTheme := normalizeText(themeWord)

	if strings.Contains(normalizedContent, normalizedTheme) {
		return true
	}

	variations := []string{
		hiraganaToKatakana(normalizedTheme),
		katakanaToHiragana(normalizedTheme),
	}
	for _, variation := range variations {
		if strings.Contains(normalizedContent, variation) {
			return true
		}
	}
	return false
}

// normalizeText は小文字統一と空白文字の除去を行う。
func normalizeText(text string) string {
	lowered := strings.ToLower(text)
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, lowered)
}

// hiraganaToKatakana はひらがな（U+3041〜U+3096）をカタカナに変換する。
func hiraganaToKatakana(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= 0x3041 && r <= 0x3096 {
			return r + 0x60
		}
		return r
	}, s)
}

// katakanaToHiragana はカタカナ（U+30A1〜U+30F6）をひらがなに変換する。
func katakanaToHiragana(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= 0x30A1 && r <= 0x30F6 {
			return r - 0x60
		}
		return r
	}, s)
}

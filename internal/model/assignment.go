package model

import "time"

// DailyThemeAssignment は日別テーマ割り振りの記録を表す値オブジェクト。
// 割り振りは(ユーザーID, 日付)から決定的に導出されるため永続化されない。
// 監査・ログ用途で必要なときにオンデマンドで構築する。
type DailyThemeAssignment struct {
	UserID  string `json:"userId"`
	ThemeID string `json:"themeId"`
	// AssignedDate はYYYY-MM-DD形式の日付。
	AssignedDate string `json:"assignedDate"`
	// CreatedAt はUNIXタイムスタンプ（秒）。
	CreatedAt int64 `json:"createdAt"`
}

// NewDailyThemeAssignment は割り振り記録を構築する。
func NewDailyThemeAssignment(userID, themeID, date string) DailyThemeAssignment {
	return DailyThemeAssignment{
		UserID:       userID,
		ThemeID:      themeID,
		AssignedDate: date,
		CreatedAt:    time.Now().Unix(),
	}
}

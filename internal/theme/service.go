// Package theme は日替わりテーマの決定的な割り振りを提供する。
package theme

import (
	"context"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf16"

	"github.com/supporterz-inc/hocus-pocus-c-2025-term1/internal/model"
	"github.com/supporterz-inc/hocus-pocus-c-2025-term1/internal/repository"
)

// dateLayout はYYYY-MM-DD形式の日付フォーマット。
const dateLayout = "2006-01-02"

// UpcomingTheme は日付とその日のテーマのペアを表す。
type UpcomingTheme struct {
	Date  string      `json:"date"`
	Theme model.Theme `json:"theme"`
}

// Service はユーザーID＋日付のハッシュで決定的にテーマを割り振る。
//
// 固定の有効テーマ集合に対して、同じ(ユーザーID, 日付)は常に同じテーマを
// 返す純粋な対応付けになる。ただしインデックスは「現在の」有効テーマ一覧
// への添字なので、テーマの追加・削除・並び替えがあると任意のユーザーの
// 任意の日付の割り当てが変わりうる。これは既知のトレードオフ。
type Service struct {
	themeRepo repository.ThemeRepository
	now       func() time.Time
}

// NewService はServiceを生成する。
func NewService(themeRepo repository.ThemeRepository) *Service {
	return &Service{
		themeRepo: themeRepo,
		now:       time.Now,
	}
}

// GetTodayTheme は指定ユーザーの今日（UTC）のテーマを取得する。
func (s *Service) GetTodayTheme(ctx context.Context, userID string) (*model.Theme, error) {
	return s.GetThemeForDate(ctx, userID, s.currentDate())
}

// GetThemeForDate は指定ユーザーの指定日のテーマを取得する。
// 有効なテーマが1件もない場合はmodel.ErrNoActiveThemesを返す。
func (s *Service) GetThemeForDate(ctx context.Context, userID, date string) (*model.Theme, error) {
	activeThemes, err := s.themeRepo.GetActiveThemes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get active themes: %w", err)
	}
	if len(activeThemes) == 0 {
		return nil, model.ErrNoActiveThemes
	}

	index := themeHash(userID, date) % int64(len(activeThemes))
	selected := activeThemes[index]

	// 割り振りは永続化しない。監査ログにのみ残す。
	assignment := model.NewDailyThemeAssignment(userID, selected.ID, date)
	slog.Debug("theme assigned",
		slog.String("user_id", assignment.UserID),
		slog.String("theme_id", assignment.ThemeID),
		slog.String("date", assignment.AssignedDate),
	)

	return &selected, nil
}

// GetThemeIDForDate は指定ユーザーの指定日のテーマIDを取得する。
func (s *Service) GetThemeIDForDate(ctx context.Context, userID, date string) (string, error) {
	theme, err := s.GetThemeForDate(ctx, userID, date)
	if err != nil {
		return "", err
	}
	return theme.ID, nil
}

// GetUpcomingThemes は今日から連続するdays日分の日付とテーマのペアを
// 返す（管理者機能・デバッグ用）。各日は独立に計算し、日をまたぐ
// キャッシュは行わない。
func (s *Service) GetUpcomingThemes(ctx context.Context, userID string, days int) ([]UpcomingTheme, error) {
	today := s.now().UTC()

	result := make([]UpcomingTheme, 0, days)
	for i := 0; i < days; i++ {
		date := today.AddDate(0, 0, i).Format(dateLayout)

		theme, err := s.GetThemeForDate(ctx, userID, date)
		if err != nil {
			return nil, err
		}
		result = append(result, UpcomingTheme{Date: date, Theme: *theme})
	}
	return result, nil
}

// currentDate は現在のUTC日付をYYYY-MM-DD形式で返す。
func (s *Service) currentDate() string {
	return s.now().UTC().Format(dateLayout)
}

// themeHash はユーザーIDと日付から非負のハッシュ値を生成する。
// 同じユーザー・日付で常に同じテーマが返ることを保証する。
//
// 漸化式は h = h*31 + c をUTF-16コードユニットごとに32bit符号付きで
// 巡回させ、最後に絶対値を取る。この正確な再現（32bit切り捨てと
// 絶対値を含む）は外部から観測可能な仕様であり、変更してはならない。
func themeHash(userID, date string) int64 {
	combined := userID + "-" + date

	var h int32
	for _, unit := range utf16.Encode([]rune(combined)) {
		h = h*31 + int32(unit)
	}

	v := int64(h)
	if v < 0 {
		v = -v
	}
	return v
}

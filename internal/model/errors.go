package model

import (
	"errors"
	"fmt"
)

// ErrNoActiveThemes は有効なテーマが1件も存在しない状態で
// テーマ割り振りを要求した場合のエラー。
var ErrNoActiveThemes = errors.New("no active themes available")

// NotFoundError は存在が必須の場面でエンティティが見つからなかったことを表す。
type NotFoundError struct {
	Entity string // エンティティ種別（"Knowledge", "Theme", "User"）
	ID     string
}

// Error はerrorインターフェースを実装する。
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with id %s not found", e.Entity, e.ID)
}

// NewNotFoundError はNotFoundErrorを生成する。
func NewNotFoundError(entity, id string) *NotFoundError {
	return &NotFoundError{Entity: entity, ID: id}
}

// IsNotFound はerrがNotFoundErrorかどうかを返す。
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// AlreadyExistsError は同一IDのエンティティが既に存在する状態での
// 新規作成を表す。
type AlreadyExistsError struct {
	Entity string
	ID     string
}

// Error はerrorインターフェースを実装する。
func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("%s with id %s already exists", e.Entity, e.ID)
}

// NewAlreadyExistsError はAlreadyExistsErrorを生成する。
func NewAlreadyExistsError(entity, id string) *AlreadyExistsError {
	return &AlreadyExistsError{Entity: entity, ID: id}
}

// IsAlreadyExists はerrがAlreadyExistsErrorかどうかを返す。
func IsAlreadyExists(err error) bool {
	var ae *AlreadyExistsError
	return errors.As(err, &ae)
}

// StorageError はフェイルソフト方針の対象外となる予期しない
// 入出力・パース失敗を表す。
type StorageError struct {
	Op  string // 失敗した操作（"load themes" 等）
	Err error
}

// Error はerrorインターフェースを実装する。
func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error during %s: %v", e.Op, e.Err)
}

// Unwrap は原因となったエラーを返す。
func (e *StorageError) Unwrap() error {
	return e.Err
}

// NewStorageError はStorageErrorを生成する。
func NewStorageError(op string, err error) *StorageError {
	return &StorageError{Op: op, Err: err}
}

// APIError はHTTPレスポンスの統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string `json:"code"`     // エラーコード
	Message  string `json:"message"`  // エラーメッセージ
	Category string `json:"category"` // カテゴリ: validation, knowledge, theme, user, system
	Action   string `json:"action"`   // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeKnowledgeNotFound = "KNOWLEDGE_NOT_FOUND"
	ErrCodeThemeNotFound     = "THEME_NOT_FOUND"
	ErrCodeUserNotFound      = "USER_NOT_FOUND"
	ErrCodeThemeExists       = "THEME_ALREADY_EXISTS"
	ErrCodeUserNameTaken     = "USER_NAME_TAKEN"
	ErrCodeNoActiveThemes    = "NO_ACTIVE_THEMES"
	ErrCodeValidationFailed  = "VALIDATION_FAILED"
	ErrCodeInvalidRequest    = "INVALID_REQUEST"
	ErrCodeStorageFailure    = "STORAGE_FAILURE"
)

// NewKnowledgeNotFoundError はナレッジ未検出エラーを生成する。
func NewKnowledgeNotFoundError(id string) *APIError {
	return &APIError{
		Code:     ErrCodeKnowledgeNotFound,
		Message:  fmt.Sprintf("指定されたナレッジが見つかりません: %s", id),
		Category: "knowledge",
		Action:   "ナレッジIDを確認してください。",
	}
}

// NewThemeNotFoundAPIError はテーマ未検出エラーを生成する。
func NewThemeNotFoundAPIError(id string) *APIError {
	return &APIError{
		Code:     ErrCodeThemeNotFound,
		Message:  fmt.Sprintf("指定されたテーマが見つかりません: %s", id),
		Category: "theme",
		Action:   "テーマIDを確認してください。",
	}
}

// NewUserNotFoundAPIError はユーザー未検出エラーを生成する。
func NewUserNotFoundAPIError(id string) *APIError {
	return &APIError{
		Code:     ErrCodeUserNotFound,
		Message:  fmt.Sprintf("指定されたユーザーが見つかりません: %s", id),
		Category: "user",
		Action:   "ユーザーIDを確認してください。",
	}
}

// NewUserNameTakenError はユーザー名重複エラーを生成する。
func NewUserNameTakenError(name string) *APIError {
	return &APIError{
		Code:     ErrCodeUserNameTaken,
		Message:  fmt.Sprintf("このユーザー名は既に使用されています: %s", name),
		Category: "user",
		Action:   "別のユーザー名を指定してください。",
	}
}

// NewNoActiveThemesError は有効テーマ不在エラーを生成する。
func NewNoActiveThemesError() *APIError {
	return &APIError{
		Code:     ErrCodeNoActiveThemes,
		Message:  "有効なテーマが登録されていません。",
		Category: "theme",
		Action:   "管理者にテーマの登録を依頼してください。",
	}
}

// NewThemeExistsError はテーマID重複エラーを生成する。
func NewThemeExistsError(id string) *APIError {
	return &APIError{
		Code:     ErrCodeThemeExists,
		Message:  fmt.Sprintf("同じIDのテーマが既に存在します: %s", id),
		Category: "theme",
		Action:   "別のIDを指定してください。",
	}
}

// NewValidationFailedError はテーマ単語検証の失敗エラーを生成する。
// reasonには検証器が返した人間可読の理由を渡す。
func NewValidationFailedError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeValidationFailed,
		Message:  reason,
		Category: "validation",
		Action:   "テーマ単語を含めて投稿し直してください。",
	}
}

// NewInvalidRequestError はリクエスト不正エラーを生成する。
func NewInvalidRequestError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidRequest,
		Message:  fmt.Sprintf("リクエストが不正です: %s", reason),
		Category: "validation",
		Action:   "リクエスト内容を確認してください。",
	}
}

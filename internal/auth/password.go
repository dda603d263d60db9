// Package auth はパスワードのハッシュ化と照合を提供する。
//
// 本物の認証・セッション管理は行わない。ハッシュは登録時に
// Userレコードへ保存されるだけで、リクエストの識別は呼び出し元が
// 申告するユーザーIDに委ねられる。
package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword はパスワードをbcryptでハッシュ化する。
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// VerifyPassword は平文パスワードがハッシュと一致するかを返す。
func VerifyPassword(password, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(password)) == nil
}

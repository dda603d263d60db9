package model

import "github.com/google/uuid"

// User はサービス利用ユーザーを表す。
// 生のパスワードは保持せず、ハッシュ化済みの値のみを持つ。
// Nameの一意性はストアでは保証されない。一意にしたい場合は
// Upsert前に呼び出し側で明示的にFindByNameで重複確認すること。
type User struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	PasswordHash string `json:"passwordHash"`
}

// NewUser はユーザーを新規作成する。
func NewUser(name, passwordHash string) User {
	return User{
		ID:           uuid.NewString(),
		Name:         name,
		PasswordHash: passwordHash,
	}
}

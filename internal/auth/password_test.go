package auth

import (
	"strings"
	"testing"
)

func TestHashPassword_ProducesBcryptHash(t *testing.T) {
	hashed, err := HashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	if hashed == "s3cret-pass" {
		t.Error("ハッシュが平文のまま")
	}
	if !strings.HasPrefix(hashed, "$2") {
		t.Errorf("bcrypt形式でない: %s", hashed)
	}
}

func TestHashPassword_DifferentSaltsPerCall(t *testing.T) {
	first, err := HashPassword("same-password")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	second, err := HashPassword("same-password")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	if first == second {
		t.Error("同一パスワードでもソルトにより異なるハッシュになるはず")
	}
}

func TestVerifyPassword(t *testing.T) {
	hashed, err := HashPassword("correct-horse")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	if !VerifyPassword("correct-horse", hashed) {
		t.Error("正しいパスワードで照合に失敗")
	}
	if VerifyPassword("battery-staple", hashed) {
		t.Error("誤ったパスワードで照合に成功")
	}
	if VerifyPassword("correct-horse", "not-a-hash") {
		t.Error("不正なハッシュで照合に成功")
	}
}

package model

import (
	"errors"
	"fmt"
	"testing"
)

// TestNotFoundError はNotFoundErrorのメッセージと判定関数を検証する。
func TestNotFoundError(t *testing.T) {
	err := NewNotFoundError("Knowledge", "abc-123")

	want := "Knowledge with id abc-123 not found"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if !IsNotFound(err) {
		t.Error("IsNotFound should be true")
	}
	if IsNotFound(errors.New("other")) {
		t.Error("IsNotFound should be false for unrelated errors")
	}

	// ラップされていても判定できる
	wrapped := fmt.Errorf("repo: %w", err)
	if !IsNotFound(wrapped) {
		t.Error("IsNotFound should unwrap")
	}
}

// TestAlreadyExistsError はAlreadyExistsErrorの判定を検証する。
func TestAlreadyExistsError(t *testing.T) {
	err := NewAlreadyExistsError("Theme", "t-1")
	if !IsAlreadyExists(err) {
		t.Error("IsAlreadyExists should be true")
	}
	if IsAlreadyExists(NewNotFoundError("Theme", "t-1")) {
		t.Error("IsAlreadyExists should be false for NotFoundError")
	}
}

// TestStorageError_Unwrap はStorageErrorが原因エラーを保持することを検証する。
func TestStorageError_Unwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := NewStorageError("save themes", cause)

	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the cause")
	}

	var se *StorageError
	if !errors.As(err, &se) {
		t.Fatal("errors.As should match StorageError")
	}
	if se.Op != "save themes" {
		t.Errorf("Op = %q, want %q", se.Op, "save themes")
	}
}

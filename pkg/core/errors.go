package core

import "errors"

// Common errors.
var (
	ErrNotFound     = errors.New("key not found")
	ErrReadOnly     = errors.New("repository is in read-only mode")
	ErrStorageRead  = errors.New("failed to read notes from storage")
	ErrStorageWrite = errors.New("failed to write notes to storage")
)

// Message returns the text shown to the user for a storage error.
// It returns an empty string for nil.
func Message(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrStorageRead):
		return "メモの読み込みに失敗しました。"
	case errors.Is(err, ErrStorageWrite):
		return "メモの保存に失敗しました。"
	default:
		return err.Error()
	}
}

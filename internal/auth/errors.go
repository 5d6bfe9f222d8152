package auth

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrCallerNotFound は認証レコードが存在しない場合のエラー
	ErrCallerNotFound = errors.New("caller auth record not found")
)

// LockedOutError は失敗上限超過により認証試行が拒否された場合のエラーを表す
type LockedOutError struct {
	Wait time.Duration
}

func (e *LockedOutError) Error() string {
	return fmt.Sprintf("too many failed attempts: retry in %s", e.Wait.Round(time.Second))
}

package identity

import (
	"fmt"
	"time"
)

// RateLimitedError はローテーション間隔が短すぎる場合のエラーを表す
type RateLimitedError struct {
	Wait time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("rotation rate limited: retry in %s", e.Wait.Round(time.Second))
}

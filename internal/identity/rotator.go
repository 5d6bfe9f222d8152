// Package identity は回線識別のローテーション操作を提供する。
package identity

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/oyaguma3/tor-control-bot/internal/control"
)

// Rotator は識別ローテーションの実装。
// ローテーション間の最小間隔を強制し、短すぎる要求は*RateLimitedErrorとして
// 拒否する（回復可能、呼び出し側は後で再試行できる）。
type Rotator struct {
	mu          sync.Mutex
	commander   control.Commander
	minInterval time.Duration
	lastRotate  time.Time
	now         func() time.Time
}

// NewRotator は新しいRotatorを生成する。
func NewRotator(commander control.Commander, minInterval time.Duration) *Rotator {
	return &Rotator{
		commander:   commander,
		minInterval: minInterval,
		now:         time.Now,
	}
}

// Rotate はSIGNAL NEWNYM指示を発行する。
// 最小間隔内の再実行は*RateLimitedError、デーモンの非250応答は
// *control.DaemonErrorを返す。部分的な状態変化が起きている可能性があるため、
// デーモンエラーの自動再試行は行わない。
func (r *Rotator) Rotate(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.minInterval > 0 && !r.lastRotate.IsZero() {
		elapsed := r.now().Sub(r.lastRotate)
		if elapsed < r.minInterval {
			return &RateLimitedError{Wait: r.minInterval - elapsed}
		}
	}

	reply, err := r.commander.SendCommand(ctx, control.NewCommand("SIGNAL", "NEWNYM"))
	if err != nil {
		return err
	}
	if !reply.IsOK() {
		daemonErr := control.NewDaemonError(reply)
		slog.Warn("識別ローテーション拒否",
			"event_id", "ROTATE_REJECTED",
			"code", reply.Code,
		)
		return daemonErr
	}

	r.lastRotate = r.now()
	slog.Info("識別ローテーション完了",
		"event_id", "ROTATE_OK",
	)
	return nil
}

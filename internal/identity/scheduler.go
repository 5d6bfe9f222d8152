package identity

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"time"
)

// Scheduler は一定範囲内のランダム間隔で識別ローテーションを定期実行する。
type Scheduler struct {
	rotator  *Rotator
	minDelay time.Duration
	maxDelay time.Duration
}

// NewScheduler は新しいSchedulerを生成する。
func NewScheduler(rotator *Rotator, minDelay, maxDelay time.Duration) *Scheduler {
	if maxDelay <= minDelay {
		maxDelay = minDelay + time.Minute
	}
	return &Scheduler{
		rotator:  rotator,
		minDelay: minDelay,
		maxDelay: maxDelay,
	}
}

// Run はコンテキストがキャンセルされるまでローテーションを繰り返す。
// 個々の失敗はログに記録するだけで、ループは継続する。
func (s *Scheduler) Run(ctx context.Context) {
	for {
		delay := s.minDelay + rand.N(s.maxDelay-s.minDelay)
		slog.Info("次回自動ローテーション予約",
			"event_id", "ROTATE_SCHEDULED",
			"delay", delay.Round(time.Second).String(),
		)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		if err := s.rotator.Rotate(ctx); err != nil {
			slog.Warn("自動ローテーション失敗",
				"event_id", "ROTATE_JOB_ERR",
				"error", err,
			)
		}
	}
}

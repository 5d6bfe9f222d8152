package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/oyaguma3/tor-control-bot/internal/control"
	"github.com/oyaguma3/tor-control-bot/internal/mocks"
	"go.uber.org/mock/gomock"
)

// fakeClock は手動で進められるテスト用時計。
type fakeClock struct {
	current time.Time
}

func (c *fakeClock) now() time.Time {
	return c.current
}

func (c *fakeClock) advance(d time.Duration) {
	c.current = c.current.Add(d)
}

func newTestRotator(t *testing.T, minInterval time.Duration) (*Rotator, *mocks.MockCommander, *fakeClock) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	commander := mocks.NewMockCommander(ctrl)
	clock := &fakeClock{current: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	r := NewRotator(commander, minInterval)
	r.now = clock.now
	return r, commander, clock
}

func TestRotateIssuesSignal(t *testing.T) {
	r, commander, _ := newTestRotator(t, 5*time.Minute)

	commander.EXPECT().
		SendCommand(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, cmd *control.Command) (*control.Reply, error) {
			if cmd.String() != "SIGNAL NEWNYM" {
				t.Errorf("command: got %q, want SIGNAL NEWNYM", cmd.String())
			}
			return &control.Reply{Code: 250, Lines: []string{"OK"}}, nil
		})

	if err := r.Rotate(context.Background()); err != nil {
		t.Fatalf("Rotate failed: %v", err)
	}
}

func TestRotateRateLimited(t *testing.T) {
	r, commander, clock := newTestRotator(t, 5*time.Minute)

	commander.EXPECT().
		SendCommand(gomock.Any(), gomock.Any()).
		Return(&control.Reply{Code: 250, Lines: []string{"OK"}}, nil)

	ctx := context.Background()
	if err := r.Rotate(ctx); err != nil {
		t.Fatalf("first Rotate failed: %v", err)
	}

	// 最小間隔内の再実行は指示を発行せず拒否される
	clock.advance(2 * time.Minute)
	err := r.Rotate(ctx)
	var limited *RateLimitedError
	if !errors.As(err, &limited) {
		t.Fatalf("expected *RateLimitedError, got: %v", err)
	}
	if limited.Wait != 3*time.Minute {
		t.Errorf("Wait: got %v, want 3m", limited.Wait)
	}
}

func TestRotateAfterWindowElapsed(t *testing.T) {
	r, commander, clock := newTestRotator(t, 5*time.Minute)

	commander.EXPECT().
		SendCommand(gomock.Any(), gomock.Any()).
		Return(&control.Reply{Code: 250, Lines: []string{"OK"}}, nil).
		Times(2)

	ctx := context.Background()
	if err := r.Rotate(ctx); err != nil {
		t.Fatalf("first Rotate failed: %v", err)
	}

	clock.advance(5 * time.Minute)
	if err := r.Rotate(ctx); err != nil {
		t.Fatalf("Rotate after window failed: %v", err)
	}
}

func TestRotateDaemonRejectedDoesNotStartWindow(t *testing.T) {
	r, commander, clock := newTestRotator(t, 5*time.Minute)

	gomock.InOrder(
		commander.EXPECT().
			SendCommand(gomock.Any(), gomock.Any()).
			Return(&control.Reply{Code: 551, Lines: []string{"Internal error"}}, nil),
		commander.EXPECT().
			SendCommand(gomock.Any(), gomock.Any()).
			Return(&control.Reply{Code: 250, Lines: []string{"OK"}}, nil),
	)

	ctx := context.Background()
	err := r.Rotate(ctx)
	var daemonErr *control.DaemonError
	if !errors.As(err, &daemonErr) || daemonErr.Code != 551 {
		t.Fatalf("expected *DaemonError 551, got: %v", err)
	}

	// 失敗したローテーションは間隔の起点にならない
	clock.advance(time.Second)
	if err := r.Rotate(ctx); err != nil {
		t.Fatalf("Rotate after rejection failed: %v", err)
	}
}

func TestRotateZeroIntervalNeverLimits(t *testing.T) {
	r, commander, _ := newTestRotator(t, 0)

	commander.EXPECT().
		SendCommand(gomock.Any(), gomock.Any()).
		Return(&control.Reply{Code: 250, Lines: []string{"OK"}}, nil).
		Times(3)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if err := r.Rotate(ctx); err != nil {
			t.Fatalf("Rotate %d failed: %v", i+1, err)
		}
	}
}

func TestSchedulerStopsOnCancel(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	commander := mocks.NewMockCommander(ctrl)
	commander.EXPECT().SendCommand(gomock.Any(), gomock.Any()).AnyTimes().
		Return(&control.Reply{Code: 250, Lines: []string{"OK"}}, nil)

	r := NewRotator(commander, 0)
	s := NewScheduler(r, time.Hour, 2*time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop after cancel")
	}
}

// Package auth はオペレータ認証ゲートと呼び出し元認証レコードの管理を提供する。
package auth

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"log/slog"
	"time"

	"github.com/oyaguma3/tor-control-bot/internal/config"
	"github.com/oyaguma3/tor-control-bot/internal/logging"
)

// Gate は呼び出し元ID単位の認証状態機械を実装する。
// 未認証 --(正しいシークレット)--> 認証済み。認証済みはレコードの生存期間中
// 終端状態であり、明示的なRevokeでのみ解除される。
// 失敗がAuthMaxAttempts回続いた呼び出し元は、ウィンドウ経過まで試行自体を拒否する。
type Gate struct {
	secretDigest  [sha256.Size]byte
	store         CallerStore
	maxAttempts   int64
	lockoutWindow time.Duration
	blocked       map[string]struct{}
	maskCaller    bool
	now           func() time.Time
}

// NewGate は新しいGateを生成する。生のシークレットは保持せず、ダイジェストのみ持つ。
func NewGate(cfg *config.Config, store CallerStore) *Gate {
	blocked := make(map[string]struct{})
	for _, id := range cfg.BlockedCallerList() {
		blocked[id] = struct{}{}
	}
	return &Gate{
		secretDigest:  sha256.Sum256([]byte(cfg.AuthSecret)),
		store:         store,
		maxAttempts:   int64(cfg.AuthMaxAttempts),
		lockoutWindow: cfg.AuthLockoutWindow,
		blocked:       blocked,
		maskCaller:    cfg.LogMaskCaller,
		now:           time.Now,
	}
}

// IsBlocked は呼び出し元がブロックリストに含まれるかどうかを返す。
func (g *Gate) IsBlocked(callerID string) bool {
	_, ok := g.blocked[callerID]
	return ok
}

// Authenticate は供給されたシークレットを検証する。
// 比較はSHA-256ダイジェスト同士の定数時間比較で行う。
// 正しい場合は呼び出し元を認証済みへ遷移させてtrueを返す。
// 誤りの場合は失敗を計数し、状態は未認証のまま。
// 失敗上限に達している間は*LockedOutErrorを返し、比較自体を行わない。
func (g *Gate) Authenticate(ctx context.Context, callerID, supplied string) (bool, error) {
	rec, err := g.store.Get(ctx, callerID)
	if errors.Is(err, ErrCallerNotFound) {
		rec = &CallerAuth{}
	} else if err != nil {
		return false, err
	}

	if rec.Authenticated {
		// 再認証は何もしない成功
		return true, nil
	}

	now := g.now()
	if rec.FailedCount >= g.maxAttempts {
		elapsed := now.Sub(time.Unix(rec.WindowStart, 0))
		if elapsed < g.lockoutWindow {
			slog.Warn("認証試行拒否（失敗上限超過）",
				"event_id", "AUTH_LOCKED_OUT",
				"caller_id", logging.MaskCaller(callerID, g.maskCaller),
			)
			return false, &LockedOutError{Wait: g.lockoutWindow - elapsed}
		}
		// ウィンドウ経過で計数をリセット
		rec.FailedCount = 0
		rec.WindowStart = 0
	}

	suppliedDigest := sha256.Sum256([]byte(supplied))
	if subtle.ConstantTimeCompare(suppliedDigest[:], g.secretDigest[:]) == 1 {
		rec.Authenticated = true
		rec.LastAuthTime = now.Unix()
		rec.FailedCount = 0
		rec.WindowStart = 0
		if err := g.store.Put(ctx, callerID, rec); err != nil {
			return false, err
		}
		slog.Info("オペレータ認証成功",
			"event_id", "AUTH_OK",
			"caller_id", logging.MaskCaller(callerID, g.maskCaller),
		)
		return true, nil
	}

	if rec.FailedCount == 0 {
		rec.WindowStart = now.Unix()
	}
	rec.FailedCount++
	if err := g.store.Put(ctx, callerID, rec); err != nil {
		return false, err
	}
	slog.Warn("オペレータ認証失敗",
		"event_id", "AUTH_FAILED",
		"caller_id", logging.MaskCaller(callerID, g.maskCaller),
		"failed_count", rec.FailedCount,
	)
	return false, nil
}

// IsAuthorized は現在の認証状態を返す純粋な読み取り操作。
func (g *Gate) IsAuthorized(ctx context.Context, callerID string) (bool, error) {
	rec, err := g.store.Get(ctx, callerID)
	if errors.Is(err, ErrCallerNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return rec.Authenticated, nil
}

// Revoke は呼び出し元の認証状態を明示的に取り消す。
func (g *Gate) Revoke(ctx context.Context, callerID string) error {
	return g.store.Delete(ctx, callerID)
}

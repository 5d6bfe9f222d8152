// Package policy はExitノード国制限ポリシーの検証・保持・適用を提供する。
package policy

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/oyaguma3/tor-control-bot/internal/control"
)

// Store はExitポリシーストアの実装。
// 固定の許可国リストと現在有効なポリシーを保持する。
// 現在ポリシーの排他は接続ロックとは独立した内部mutexで行う。
type Store struct {
	mu        sync.RWMutex
	current   ExitPolicy
	allowed   []CountryCode            // 設定順を保持（表示用）
	allowSet  map[CountryCode]struct{} // 検証用
	commander control.Commander
	rotator   IdentityRotator
}

// NewStore は新しいStoreを生成する。初期ポリシーは無制限。
// allowedは設定順のままコピーし、以後変更されない。
func NewStore(allowed []string, commander control.Commander, rotator IdentityRotator) *Store {
	s := &Store{
		current:   Unrestricted(),
		allowSet:  make(map[CountryCode]struct{}),
		commander: commander,
		rotator:   rotator,
	}
	for _, raw := range allowed {
		code := Normalize(raw)
		if _, ok := s.allowSet[code]; ok {
			continue
		}
		s.allowSet[code] = struct{}{}
		s.allowed = append(s.allowed, code)
	}
	return s
}

// AllowedCountries は許可国リストを設定順で返す。
func (s *Store) AllowedCountries() []CountryCode {
	out := make([]CountryCode, len(s.allowed))
	copy(out, s.allowed)
	return out
}

// Current は現在有効なポリシーを返す。
func (s *Store) Current() ExitPolicy {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// SetCountry は国コードを検証し、Exitノード制限指示をデーモンへ発行する。
// デーモンが指示を拒否した場合はポリシーを元の値へ戻しErrDaemonRejectedを
// 返す。デーモンが承認していない値をストアが保持することはない。
// すでに有効な国と同じ指定は成功の冪等操作であり、指示は再発行するが
// ローテーションは行わない（SetCountryは一切ローテーションしない）。
func (s *Store) SetCountry(ctx context.Context, raw string) (ExitPolicy, error) {
	code := Normalize(raw)
	if _, ok := s.allowSet[code]; !ok {
		return s.Current(), fmt.Errorf("%w: %s", ErrInvalidCountry, code)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prior := s.current
	s.current = RestrictedTo(code)

	cmd := control.NewCommand("SETCONF",
		fmt.Sprintf("ExitNodes={%s}", code),
		"StrictNodes=1",
	)
	reply, err := s.commander.SendCommand(ctx, cmd)
	if err != nil {
		s.current = prior
		return prior, err
	}
	if !reply.IsOK() {
		s.current = prior
		daemonErr := control.NewDaemonError(reply)
		slog.Warn("Exitノード設定拒否",
			"event_id", "POLICY_SET_REJECTED",
			"country", string(code),
			"code", reply.Code,
		)
		return prior, fmt.Errorf("%w: %w", ErrDaemonRejected, daemonErr)
	}

	slog.Info("Exitノード設定完了",
		"event_id", "POLICY_SET_OK",
		"country", string(code),
	)
	return s.current, nil
}

// Reset はポリシーを無制限に戻す。解除指示が成功した場合のみ識別ローテーションを
// 1回実行し、リレー選択を即時に反映させる。解除指示が失敗した場合はポリシーを
// 変更せず、ローテーションも行わない。
func (s *Store) Reset(ctx context.Context) (ExitPolicy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	reply, err := s.commander.SendCommand(ctx, control.NewCommand("RESETCONF", "ExitNodes"))
	if err != nil {
		return s.current, err
	}
	if !reply.IsOK() {
		daemonErr := control.NewDaemonError(reply)
		slog.Warn("Exitノード解除拒否",
			"event_id", "POLICY_RESET_REJECTED",
			"code", reply.Code,
		)
		return s.current, fmt.Errorf("%w: %w", ErrDaemonRejected, daemonErr)
	}

	s.current = Unrestricted()
	slog.Info("Exitノード制限解除完了",
		"event_id", "POLICY_RESET_OK",
	)

	if err := s.rotator.Rotate(ctx); err != nil {
		// ポリシー解除自体はデーモンが承認済みなので保持する
		return s.current, fmt.Errorf("%w: %w", ErrRotationFailed, err)
	}
	return s.current, nil
}

// Package dispatch はチャット層から受け取ったコマンドの認可と振り分けを提供する。
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/oyaguma3/tor-control-bot/internal/auth"
	"github.com/oyaguma3/tor-control-bot/internal/config"
	"github.com/oyaguma3/tor-control-bot/internal/control"
	"github.com/oyaguma3/tor-control-bot/internal/identity"
	"github.com/oyaguma3/tor-control-bot/internal/logging"
	"github.com/oyaguma3/tor-control-bot/internal/policy"
)

// Dispatcher はCommandDispatcherの実装。
// 同期的に1コマンドを受け取り1結果を返す。保護された動詞は認証ゲートを通過
// した呼び出し元のみ実行でき、未認証の場合はデーモンに到達する前に拒否する。
type Dispatcher struct {
	gate       *auth.Gate
	policies   *policy.Store
	rotator    policy.IdentityRotator
	maskCaller bool
}

// NewDispatcher は新しいDispatcherを生成する。
func NewDispatcher(cfg *config.Config, gate *auth.Gate, policies *policy.Store, rotator policy.IdentityRotator) *Dispatcher {
	return &Dispatcher{
		gate:       gate,
		policies:   policies,
		rotator:    rotator,
		maskCaller: cfg.LogMaskCaller,
	}
}

// Handle はコマンドを処理し、表示用の1行結果を返す。
// 失敗時はメッセージに加えて型付きエラーを返す（上位層のログ・分類用）。
func (d *Dispatcher) Handle(ctx context.Context, cmd *Command) (string, error) {
	traceID := uuid.New().String()
	caller := logging.MaskCaller(cmd.CallerID, d.maskCaller)

	slog.Info("コマンド受信",
		"event_id", "CMD_RECV",
		"trace_id", traceID,
		"caller_id", caller,
		"verb", cmd.Verb,
	)

	if d.gate.IsBlocked(cmd.CallerID) {
		slog.Info("ブロック済み呼び出し元を拒否",
			"event_id", "CMD_BLOCKED",
			"trace_id", traceID,
			"caller_id", caller,
		)
		return msgBlocked, ErrBlockedCaller
	}

	switch cmd.Verb {
	case VerbStart:
		return msgStart, nil

	case VerbHelp:
		return msgHelp, nil

	case VerbAuth:
		return d.handleAuth(ctx, cmd)

	case VerbUpdate:
		return d.gated(ctx, cmd, traceID, d.handleUpdate)

	case VerbSetCountry:
		return d.gated(ctx, cmd, traceID, d.handleSetCountry)

	case VerbResetPolicy:
		return d.gated(ctx, cmd, traceID, d.handleResetPolicy)

	case VerbCountries:
		return d.gated(ctx, cmd, traceID, d.handleCountries)

	default:
		return msgUnknown, fmt.Errorf("%w: %s", ErrUnknownCommand, cmd.Verb)
	}
}

// gated は認証ゲートを確認してからハンドラを実行する。
// 未認証の呼び出しはここで短絡し、デーモン側操作には一切到達しない。
func (d *Dispatcher) gated(ctx context.Context, cmd *Command, traceID string, fn func(context.Context, *Command, string) (string, error)) (string, error) {
	ok, err := d.gate.IsAuthorized(ctx, cmd.CallerID)
	if err != nil {
		slog.Error("認証状態確認失敗",
			"event_id", "CMD_GATE_ERR",
			"trace_id", traceID,
			"error", err,
		)
		return msgInternalError, err
	}
	if !ok {
		slog.Info("未認証の呼び出しを拒否",
			"event_id", "CMD_UNAUTHORIZED",
			"trace_id", traceID,
			"caller_id", logging.MaskCaller(cmd.CallerID, d.maskCaller),
			"verb", cmd.Verb,
		)
		return msgUnauthorized, ErrUnauthorized
	}
	return fn(ctx, cmd, traceID)
}

// handleAuth はauth動詞を処理する。ゲート状態に関係なく常に到達可能。
func (d *Dispatcher) handleAuth(ctx context.Context, cmd *Command) (string, error) {
	if len(cmd.Args) != 1 {
		return msgAuthUsage, fmt.Errorf("%w: auth requires exactly one argument", ErrBadRequest)
	}

	ok, err := d.gate.Authenticate(ctx, cmd.CallerID, cmd.Args[0])
	if err != nil {
		var locked *auth.LockedOutError
		if errors.As(err, &locked) {
			return fmt.Sprintf(msgAuthLockedFmt, locked.Wait.Round(time.Second)), err
		}
		return msgInternalError, err
	}
	if !ok {
		return msgAuthFailed, nil
	}
	return msgAuthOK, nil
}

// handleUpdate はupdate動詞（識別ローテーション）を処理する。
func (d *Dispatcher) handleUpdate(ctx context.Context, _ *Command, traceID string) (string, error) {
	if err := d.rotator.Rotate(ctx); err != nil {
		var limited *identity.RateLimitedError
		if errors.As(err, &limited) {
			return fmt.Sprintf(msgRateLimitedFmt, limited.Wait.Round(time.Second)), err
		}
		return d.daemonFailureMessage(err, traceID), err
	}
	return msgUpdateOK, nil
}

// handleSetCountry はsetcountry動詞を処理する。
func (d *Dispatcher) handleSetCountry(ctx context.Context, cmd *Command, traceID string) (string, error) {
	if len(cmd.Args) != 1 {
		return msgSetCountryUsage, fmt.Errorf("%w: setcountry requires exactly one argument", ErrBadRequest)
	}

	p, err := d.policies.SetCountry(ctx, cmd.Args[0])
	if err != nil {
		if errors.Is(err, policy.ErrInvalidCountry) {
			return fmt.Sprintf(msgInvalidCountryFmt, joinCountries(d.policies.AllowedCountries())), err
		}
		return d.daemonFailureMessage(err, traceID), err
	}
	return fmt.Sprintf(msgSetCountryOKFmt, p.Country), nil
}

// handleResetPolicy はresetpolicy動詞を処理する。
func (d *Dispatcher) handleResetPolicy(ctx context.Context, _ *Command, traceID string) (string, error) {
	_, err := d.policies.Reset(ctx)
	if err != nil {
		if errors.Is(err, policy.ErrRotationFailed) {
			// 解除は成功、ローテーションのみ失敗
			var limited *identity.RateLimitedError
			if errors.As(err, &limited) {
				return fmt.Sprintf(msgResetNoRotateFmt, limited.Wait.Round(time.Second)), err
			}
			return msgResetRotateFailed, err
		}
		return d.daemonFailureMessage(err, traceID), err
	}
	return msgResetOK, nil
}

// handleCountries はcountries動詞を処理する。
func (d *Dispatcher) handleCountries(_ context.Context, _ *Command, _ string) (string, error) {
	return fmt.Sprintf(msgCountriesFmt, joinCountries(d.policies.AllowedCountries())), nil
}

// daemonFailureMessage はデーモン側の失敗をユーザー向けメッセージへ変換する。
func (d *Dispatcher) daemonFailureMessage(err error, traceID string) string {
	slog.Error("デーモン操作失敗",
		"event_id", "CMD_DAEMON_ERR",
		"trace_id", traceID,
		"error", err,
	)

	var connErr *control.ConnectionError
	switch {
	case errors.Is(err, control.ErrCircuitOpen), errors.As(err, &connErr):
		return msgControlUnreachable
	case errors.Is(err, control.ErrAuthRejected):
		return msgControlAuthFailed
	case errors.Is(err, control.ErrChannelClosed):
		return msgControlLost
	}

	var protoErr *control.ProtocolError
	if errors.As(err, &protoErr) {
		return msgControlLost
	}

	var daemonErr *control.DaemonError
	if errors.As(err, &daemonErr) {
		return fmt.Sprintf(msgDaemonRejectedFmt, daemonErr.Code, daemonErr.Message)
	}
	if errors.Is(err, policy.ErrDaemonRejected) {
		return fmt.Sprintf(msgDaemonRejectedPlainFmt, err)
	}

	return msgInternalError
}

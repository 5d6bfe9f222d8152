// Package control はTorコントロールポートとの行指向プロトコル通信を提供する。
package control

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/oyaguma3/tor-control-bot/internal/config"
	"github.com/sony/gobreaker"
)

// DialFunc はコントロールポートへのトランスポートを確立する。
type DialFunc func(ctx context.Context, addr string) (net.Conn, error)

// session はコントロールポートへのライブ接続を表す。
// プロセス全体で同時に最大1インスタンス（Clientが排他的に所有する）。
type session struct {
	conn          net.Conn
	reader        *bufio.Reader
	authenticated bool
	broken        bool
	lastCommand   time.Time
}

// Client はCommanderインターフェースの実装。
// 単一の永続接続を所有し、交換ロックで全呼び出しを直列化する。
type Client struct {
	mu     sync.Mutex // 交換ロック: 厳密なリクエスト/レスポンス順序を保証する
	addr   string
	secret string
	cb     *gobreaker.CircuitBreaker
	dial   DialFunc
	sess   *session
}

// NewClient は新しいClientを生成する。接続は最初の使用時に確立される。
func NewClient(cfg *config.Config) *Client {
	cbSettings := gobreaker.Settings{
		Name:        config.CBName,
		MaxRequests: config.CBMaxRequests,
		Interval:    config.CBInterval,
		Timeout:     config.CBTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= uint32(config.CBFailureThreshold)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			switch to {
			case gobreaker.StateOpen:
				slog.Warn("circuit breaker opened",
					"event_id", "CB_OPEN",
					"cb_name", name,
				)
			case gobreaker.StateHalfOpen:
				slog.Info("circuit breaker half-open",
					"event_id", "CB_HALF_OPEN",
					"cb_name", name,
				)
			case gobreaker.StateClosed:
				slog.Info("circuit breaker closed",
					"event_id", "CB_CLOSE",
					"cb_name", name,
				)
			}
		},
	}

	return &Client{
		addr:   cfg.ControlAddr,
		secret: cfg.ControlSecret,
		cb:     gobreaker.NewCircuitBreaker(cbSettings),
		dial: func(ctx context.Context, addr string) (net.Conn, error) {
			d := net.Dialer{Timeout: config.ControlConnectTimeout}
			return d.DialContext(ctx, "tcp", addr)
		},
	}
}

// Connect はコントロールポートへの接続を確立する。接続済みの場合は何もしない。
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connectLocked(ctx)
}

// Authenticate は認証ハンドシェイクを実行する。
// 設定済みのハッシュ値をそのまま送信し、生のシークレットは一切扱わない。
// 認証済みセッションに対しては何もせず成功を返す。
func (c *Client) Authenticate(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.connectLocked(ctx); err != nil {
		return err
	}
	return c.authenticateLocked(ctx)
}

// SendCommand はコマンドを送信し、終端応答を読み取って返す。
// セッションが切断済みの場合はこの呼び出しの冒頭で再接続・再認証する。
// 交換中の切断はErrChannelClosedとして報告し、透過的な再試行は行わない
// （ローテーションのような変更系コマンドの二重適用を避けるため）。
// 非250応答も整形式であればそのまま返し、解釈は呼び出し側に委ねる。
func (c *Client) SendCommand(ctx context.Context, cmd *Command) (*Reply, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.connectLocked(ctx); err != nil {
		return nil, err
	}
	if err := c.authenticateLocked(ctx); err != nil {
		return nil, err
	}

	reply, err := c.exchangeLocked(ctx, cmd)
	if err != nil {
		return nil, err
	}
	c.sess.lastCommand = time.Now()
	return reply, nil
}

// LastExchange は最後に成功したコマンド交換の時刻を返す。
func (c *Client) LastExchange() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sess == nil {
		return time.Time{}
	}
	return c.sess.lastCommand
}

// Close はセッションを破棄する。
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closeLocked()
}

// connectLocked は必要であれば接続を確立する。交換ロック保持中に呼ぶこと。
func (c *Client) connectLocked(ctx context.Context) error {
	if c.sess != nil && !c.sess.broken {
		return nil
	}
	_ = c.closeLocked()

	result, err := c.cb.Execute(func() (any, error) {
		conn, dialErr := c.dial(ctx, c.addr)
		if dialErr != nil {
			return nil, &ConnectionError{Cause: dialErr}
		}
		return conn, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			slog.Warn("コントロールポート接続抑止中",
				"event_id", "CTRL_CB_OPEN",
				"addr", c.addr,
			)
			return ErrCircuitOpen
		}
		slog.Error("コントロールポート接続失敗",
			"event_id", "CTRL_CONN_ERR",
			"addr", c.addr,
			"error", err,
		)
		return err
	}

	conn := result.(net.Conn)
	c.sess = &session{
		conn:   conn,
		reader: bufio.NewReader(conn),
	}
	slog.Info("コントロールポート接続完了",
		"event_id", "CTRL_CONN_OK",
		"addr", c.addr,
	)
	return nil
}

// authenticateLocked はセッションを認証する。交換ロック保持中に呼ぶこと。
func (c *Client) authenticateLocked(ctx context.Context) error {
	if c.sess.authenticated {
		return nil
	}

	reply, err := c.exchangeLocked(ctx, NewCommand("AUTHENTICATE", c.secret))
	if err != nil {
		return err
	}
	if !reply.IsOK() {
		// 認証拒否のセッションは再利用しない
		_ = c.closeLocked()
		slog.Error("コントロールポート認証拒否",
			"event_id", "CTRL_AUTH_REJECTED",
			"code", reply.Code,
		)
		return fmt.Errorf("%w: %d %s", ErrAuthRejected, reply.Code, reply.Text())
	}

	c.sess.authenticated = true
	slog.Info("コントロールポート認証完了",
		"event_id", "CTRL_AUTH_OK",
	)
	return nil
}

// exchangeLocked は1回のコマンド/応答交換を実行する。交換ロック保持中に呼ぶこと。
// 失敗時はセッションを切断済みとして記録し、次回呼び出しで再接続させる。
func (c *Client) exchangeLocked(ctx context.Context, cmd *Command) (*Reply, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	conn := c.sess.conn
	_ = conn.SetWriteDeadline(time.Now().Add(config.ControlWriteTimeout))
	if _, err := conn.Write([]byte(cmd.String() + "\r\n")); err != nil {
		c.sess.broken = true
		return nil, fmt.Errorf("%w: write: %v", ErrChannelClosed, err)
	}

	_ = conn.SetReadDeadline(time.Now().Add(config.ControlReadTimeout))
	reply, err := readReply(c.sess.reader)
	if err != nil {
		c.sess.broken = true
		var protoErr *ProtocolError
		if errors.As(err, &protoErr) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: read: %v", ErrChannelClosed, err)
	}
	return reply, nil
}

// closeLocked はセッションを閉じて破棄する。交換ロック保持中に呼ぶこと。
func (c *Client) closeLocked() error {
	if c.sess == nil {
		return nil
	}
	err := c.sess.conn.Close()
	c.sess = nil
	return err
}

package control

import (
	"bufio"
	"context"
	"errors"
	"net"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/oyaguma3/tor-control-bot/internal/config"
)

const testSecretHex = "74657374"

// fakeDaemon はコントロールポートの偽実装。受信した行をすべて記録する。
type fakeDaemon struct {
	mu             sync.Mutex
	received       []string
	authReply      string
	replies        map[string]string
	delay          time.Duration
	closeAfterAuth bool
}

func (f *fakeDaemon) serve(conn net.Conn) {
	defer conn.Close()
	r := bufio.NewReader(conn)
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return
		}
		line = strings.TrimRight(line, "\r\n")
		f.mu.Lock()
		f.received = append(f.received, line)
		f.mu.Unlock()

		if strings.HasPrefix(line, "AUTHENTICATE") {
			resp := f.authReply
			if resp == "" {
				resp = "250 OK\r\n"
			}
			if _, err := conn.Write([]byte(resp)); err != nil {
				return
			}
			if f.closeAfterAuth {
				return
			}
			continue
		}

		if f.delay > 0 {
			time.Sleep(f.delay)
		}
		verb := strings.Fields(line)[0]
		resp, ok := f.replies[verb]
		if !ok {
			resp = "250 " + verb + "\r\n"
		}
		if _, err := conn.Write([]byte(resp)); err != nil {
			return
		}
	}
}

func (f *fakeDaemon) lines() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.received))
	copy(out, f.received)
	return out
}

// newTestClient はnet.Pipeで偽デーモンに接続するClientを生成する。
// 2回目以降のダイヤルは後続のデーモンへ順に接続する（最後のデーモンを繰り返す）。
func newTestClient(daemons ...*fakeDaemon) (*Client, *atomic.Int32) {
	cfg := &config.Config{ControlAddr: "fake:9051", ControlSecret: testSecretHex}
	c := NewClient(cfg)

	var dials atomic.Int32
	c.dial = func(ctx context.Context, addr string) (net.Conn, error) {
		n := int(dials.Add(1)) - 1
		if n >= len(daemons) {
			n = len(daemons) - 1
		}
		clientConn, serverConn := net.Pipe()
		go daemons[n].serve(serverConn)
		return clientConn, nil
	}
	return c, &dials
}

func TestSendCommandAuthenticatesFirst(t *testing.T) {
	daemon := &fakeDaemon{}
	client, dials := newTestClient(daemon)
	defer client.Close()

	reply, err := client.SendCommand(context.Background(), NewCommand("GETINFO", "version"))
	if err != nil {
		t.Fatalf("SendCommand failed: %v", err)
	}
	if !reply.IsOK() {
		t.Errorf("IsOK: got false, want true")
	}

	lines := daemon.lines()
	if len(lines) != 2 {
		t.Fatalf("received lines: got %v, want 2 lines", lines)
	}
	if lines[0] != "AUTHENTICATE "+testSecretHex {
		t.Errorf("first line: got %q, want AUTHENTICATE", lines[0])
	}
	if lines[1] != "GETINFO version" {
		t.Errorf("second line: got %q, want GETINFO version", lines[1])
	}
	if dials.Load() != 1 {
		t.Errorf("dials: got %d, want 1", dials.Load())
	}
	if client.LastExchange().IsZero() {
		t.Errorf("LastExchange: got zero time after successful exchange")
	}
}

func TestAuthenticateRejected(t *testing.T) {
	daemon := &fakeDaemon{authReply: "515 Bad authentication\r\n"}
	client, _ := newTestClient(daemon)
	defer client.Close()

	_, err := client.SendCommand(context.Background(), NewCommand("SIGNAL", "NEWNYM"))
	if !errors.Is(err, ErrAuthRejected) {
		t.Errorf("expected ErrAuthRejected, got: %v", err)
	}

	// 認証まで到達し、コマンドは送信されていない
	lines := daemon.lines()
	if len(lines) != 1 {
		t.Errorf("received lines: got %v, want only AUTHENTICATE", lines)
	}
}

func TestAuthenticateIdempotent(t *testing.T) {
	daemon := &fakeDaemon{}
	client, dials := newTestClient(daemon)
	defer client.Close()

	ctx := context.Background()
	if err := client.Authenticate(ctx); err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if err := client.Authenticate(ctx); err != nil {
		t.Fatalf("re-Authenticate failed: %v", err)
	}

	lines := daemon.lines()
	if len(lines) != 1 {
		t.Errorf("received lines: got %v, want exactly one AUTHENTICATE", lines)
	}
	if dials.Load() != 1 {
		t.Errorf("dials: got %d, want 1", dials.Load())
	}
}

func TestConnectIdempotent(t *testing.T) {
	daemon := &fakeDaemon{}
	client, dials := newTestClient(daemon)
	defer client.Close()

	ctx := context.Background()
	if err := client.Connect(ctx); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	if err := client.Connect(ctx); err != nil {
		t.Fatalf("re-Connect failed: %v", err)
	}
	if dials.Load() != 1 {
		t.Errorf("dials: got %d, want 1", dials.Load())
	}
}

func TestNon250ReplyPassthrough(t *testing.T) {
	daemon := &fakeDaemon{replies: map[string]string{"SIGNAL": "551 Internal error\r\n"}}
	client, _ := newTestClient(daemon)
	defer client.Close()

	reply, err := client.SendCommand(context.Background(), NewCommand("SIGNAL", "NEWNYM"))
	if err != nil {
		t.Fatalf("SendCommand failed: %v", err)
	}
	if reply.Code != 551 {
		t.Errorf("Code: got %d, want 551", reply.Code)
	}
	if reply.IsOK() {
		t.Errorf("IsOK: got true, want false")
	}
}

func TestChannelClosedThenReconnect(t *testing.T) {
	broken := &fakeDaemon{closeAfterAuth: true}
	healthy := &fakeDaemon{}
	client, dials := newTestClient(broken, healthy)
	defer client.Close()

	ctx := context.Background()

	// 切断された交換は失敗として報告され、この呼び出し内では再試行しない
	_, err := client.SendCommand(ctx, NewCommand("SIGNAL", "NEWNYM"))
	if !errors.Is(err, ErrChannelClosed) {
		t.Fatalf("expected ErrChannelClosed, got: %v", err)
	}

	// 次の呼び出しで再接続・再認証される
	reply, err := client.SendCommand(ctx, NewCommand("GETINFO", "version"))
	if err != nil {
		t.Fatalf("SendCommand after reconnect failed: %v", err)
	}
	if !reply.IsOK() {
		t.Errorf("IsOK: got false, want true")
	}
	if dials.Load() != 2 {
		t.Errorf("dials: got %d, want 2", dials.Load())
	}

	lines := healthy.lines()
	if len(lines) != 2 || !strings.HasPrefix(lines[0], "AUTHENTICATE") {
		t.Errorf("reconnected session lines: got %v, want re-AUTHENTICATE then command", lines)
	}
}

func TestCircuitBreakerOpens(t *testing.T) {
	cfg := &config.Config{ControlAddr: "fake:9051", ControlSecret: testSecretHex}
	client := NewClient(cfg)
	client.dial = func(ctx context.Context, addr string) (net.Conn, error) {
		return nil, errors.New("connection refused")
	}

	ctx := context.Background()
	for i := 0; i < config.CBFailureThreshold; i++ {
		err := client.Connect(ctx)
		var connErr *ConnectionError
		if !errors.As(err, &connErr) {
			t.Fatalf("attempt %d: expected *ConnectionError, got: %v", i+1, err)
		}
	}

	if err := client.Connect(ctx); !errors.Is(err, ErrCircuitOpen) {
		t.Errorf("expected ErrCircuitOpen after %d failures, got: %v", config.CBFailureThreshold, err)
	}
}

func TestConcurrentExchangesDoNotInterleave(t *testing.T) {
	daemon := &fakeDaemon{delay: 10 * time.Millisecond}
	client, _ := newTestClient(daemon)
	defer client.Close()

	verbs := []string{"GETINFO", "GETCONF"}
	var wg sync.WaitGroup
	for _, verb := range verbs {
		wg.Add(1)
		go func(verb string) {
			defer wg.Done()
			reply, err := client.SendCommand(context.Background(), NewCommand(verb, "arg"))
			if err != nil {
				t.Errorf("%s: SendCommand failed: %v", verb, err)
				return
			}
			// 応答は必ず自分のコマンドに対応する（交換の直列化不変条件）
			if reply.Text() != verb {
				t.Errorf("%s: got reply for %q", verb, reply.Text())
			}
		}(verb)
	}
	wg.Wait()

	// 偽デーモンが受信した行はすべて完全な1行（バイト混在なし）
	for _, line := range daemon.lines() {
		fields := strings.Fields(line)
		if len(fields) != 2 {
			t.Errorf("malformed received line: %q", line)
		}
	}
}

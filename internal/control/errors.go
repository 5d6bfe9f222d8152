package control

import (
	"errors"
	"fmt"
)

// センチネルエラー
var (
	// ErrAuthRejected はコントロールポートが認証ハッシュを拒否した場合のエラー
	ErrAuthRejected = errors.New("control authentication rejected")

	// ErrChannelClosed は交換中に接続が切断またはタイムアウトした場合のエラー
	ErrChannelClosed = errors.New("control channel closed")

	// ErrCircuitOpen はCircuit BreakerがOpen状態の場合のエラー
	ErrCircuitOpen = errors.New("circuit breaker is open")
)

// ConnectionError はコントロールポートへの接続エラーを表す
type ConnectionError struct {
	Cause error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connection error: %v", e.Cause)
}

func (e *ConnectionError) Unwrap() error {
	return e.Cause
}

// ProtocolError は応答の枠組みが不正な場合のエラーを表す
type ProtocolError struct {
	Line   string
	Reason string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("protocol error: %s (line %q)", e.Reason, e.Line)
}

// DaemonError はデーモンが非250応答を返した場合のエラーを表す
type DaemonError struct {
	Code    int
	Message string
}

// NewDaemonError は応答からDaemonErrorを生成する。
func NewDaemonError(reply *Reply) *DaemonError {
	return &DaemonError{Code: reply.Code, Message: reply.Text()}
}

func (e *DaemonError) Error() string {
	return fmt.Sprintf("daemon error: %d %s", e.Code, e.Message)
}

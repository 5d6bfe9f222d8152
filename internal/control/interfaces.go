package control

import "context"

// Commander はコントロールポートとのコマンド交換インターフェースを定義する
type Commander interface {
	// SendCommand はコマンドを送信し、終端応答を返す
	SendCommand(ctx context.Context, cmd *Command) (*Reply, error)
}

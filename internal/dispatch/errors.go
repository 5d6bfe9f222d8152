package dispatch

import "errors"

var (
	// ErrUnauthorized は未認証の呼び出し元が保護された動詞を実行した場合のエラー
	ErrUnauthorized = errors.New("caller not authorized")

	// ErrBlockedCaller はブロック済みの呼び出し元からのコマンドに対するエラー
	ErrBlockedCaller = errors.New("caller is blocked")

	// ErrUnknownCommand は認識できない動詞に対するエラー
	ErrUnknownCommand = errors.New("unknown command")

	// ErrBadRequest は引数の形式が不正な場合のエラー
	ErrBadRequest = errors.New("bad request")
)

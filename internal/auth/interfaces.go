package auth

import "context"

// CallerStore は呼び出し元認証レコードの操作を定義する。
type CallerStore interface {
	// Get はレコードを取得する。存在しない場合はErrCallerNotFoundを返す
	Get(ctx context.Context, callerID string) (*CallerAuth, error)
	// Put はレコードを保存する
	Put(ctx context.Context, callerID string, rec *CallerAuth) error
	// Delete はレコードを削除する
	Delete(ctx context.Context, callerID string) error
}

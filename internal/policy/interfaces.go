package policy

import "context"

// IdentityRotator は識別ローテーションの実行インターフェースを定義する
type IdentityRotator interface {
	// Rotate は新しい回線識別の構築をデーモンへ指示する
	Rotate(ctx context.Context) error
}

package policy

import "errors"

var (
	// ErrInvalidCountry は許可リストにない国コードが指定された場合のエラー
	ErrInvalidCountry = errors.New("invalid country code")

	// ErrDaemonRejected はデーモンがポリシー指示を拒否した場合のエラー
	ErrDaemonRejected = errors.New("daemon rejected policy directive")

	// ErrRotationFailed は解除指示は成功したがローテーションが失敗した場合のエラー
	ErrRotationFailed = errors.New("policy reset succeeded but rotation failed")
)

package config

import "time"

// Torコントロールポート接続設定
const (
	ControlConnectTimeout = 3 * time.Second
	ControlReadTimeout    = 5 * time.Second
	ControlWriteTimeout   = 3 * time.Second
)

// Valkey接続設定
const (
	ValkeyConnectTimeout = 3 * time.Second
	ValkeyCommandTimeout = 2 * time.Second
	ValkeyPoolSize       = 10
)

// Circuit Breaker設定（コントロールポート接続用）
const (
	CBName             = "tor-control"
	CBMaxRequests      = 1
	CBInterval         = 10 * time.Second
	CBTimeout          = 30 * time.Second
	CBFailureThreshold = 5
)

// 呼び出し元認証レコードのTTL
const (
	CallerAuthTTL = 24 * time.Hour
)

// 自動ローテーションの実行間隔範囲
const (
	AutoRotateMinDelay = 45 * time.Minute
	AutoRotateMaxDelay = 75 * time.Minute
)

// Package config はアプリケーション設定の読み込みとバリデーションを提供する。
package config

import (
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config はアプリケーション設定を保持する
type Config struct {
	// Torコントロールポート設定
	ControlAddr   string `envconfig:"TOR_CONTROL_ADDR" default:"127.0.0.1:9051"`
	ControlSecret string `envconfig:"TOR_CONTROL_SECRET" required:"true"`

	// オペレータ認証設定
	AuthSecret        string        `envconfig:"BOT_AUTH_SECRET" required:"true"`
	AuthMaxAttempts   int           `envconfig:"AUTH_MAX_ATTEMPTS" default:"5"`
	AuthLockoutWindow time.Duration `envconfig:"AUTH_LOCKOUT_WINDOW" default:"15m"`

	// Exitノード国制限設定
	AllowedCountries string `envconfig:"ALLOWED_COUNTRIES" default:"NO,FI,DK,SE,IS,NL,DE,CA,CH,NZ,AU,BE,IE,EE,PT,LU,UY,TW,JP,KR"`

	// ブロック対象の呼び出し元ID（カンマ区切り）
	BlockedCallers string `envconfig:"BLOCKED_CALLERS"`

	// 識別ローテーション設定
	RotateMinInterval time.Duration `envconfig:"ROTATE_MIN_INTERVAL" default:"5m"`
	AutoRotate        bool          `envconfig:"AUTO_ROTATE" default:"true"`

	// Valkey接続設定（未設定の場合はインメモリストアを使用）
	RedisHost string `envconfig:"REDIS_HOST"`
	RedisPort string `envconfig:"REDIS_PORT" default:"6379"`
	RedisPass string `envconfig:"REDIS_PASS"`

	// ログ設定
	LogMaskCaller bool `envconfig:"LOG_MASK_CALLER" default:"true"`
}

// Load は環境変数から設定を読み込む
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// ValkeyAddr はValkey接続アドレスを "host:port" 形式で返す
func (c *Config) ValkeyAddr() string {
	return fmt.Sprintf("%s:%s", c.RedisHost, c.RedisPort)
}

// UseValkey はValkeyバックエンドを使用するかどうかを返す
func (c *Config) UseValkey() bool {
	return c.RedisHost != ""
}

// AllowedCountryList はALLOWED_COUNTRIESを正規化済みリストとして返す。
// 設定順を保持し、重複は先勝ちで除去する。
func (c *Config) AllowedCountryList() []string {
	seen := make(map[string]struct{})
	var list []string
	for _, tok := range strings.Split(c.AllowedCountries, ",") {
		code := strings.ToUpper(strings.TrimSpace(tok))
		if code == "" {
			continue
		}
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		list = append(list, code)
	}
	return list
}

// BlockedCallerList はBLOCKED_CALLERSをリストとして返す
func (c *Config) BlockedCallerList() []string {
	var list []string
	for _, tok := range strings.Split(c.BlockedCallers, ",") {
		id := strings.TrimSpace(tok)
		if id == "" {
			continue
		}
		list = append(list, id)
	}
	return list
}

// validate は設定値のバリデーションを行う
func (c *Config) validate() error {
	if _, err := hex.DecodeString(strings.TrimPrefix(c.ControlSecret, "16:")); err != nil {
		return fmt.Errorf("TOR_CONTROL_SECRET must be a hex-encoded hashed secret: %w", err)
	}
	if strings.TrimSpace(c.AuthSecret) == "" {
		return fmt.Errorf("BOT_AUTH_SECRET must not be empty")
	}
	list := c.AllowedCountryList()
	if len(list) == 0 {
		return fmt.Errorf("ALLOWED_COUNTRIES must contain at least one country code")
	}
	for _, code := range list {
		if len(code) != 2 {
			return fmt.Errorf("ALLOWED_COUNTRIES contains invalid country code %q", code)
		}
	}
	if c.AuthMaxAttempts < 1 {
		return fmt.Errorf("AUTH_MAX_ATTEMPTS must be at least 1")
	}
	if c.RotateMinInterval < 0 {
		return fmt.Errorf("ROTATE_MIN_INTERVAL must not be negative")
	}
	return nil
}

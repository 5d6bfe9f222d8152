// Package main はTorコントロールボット（デーモン制御サブシステム）のエントリーポイント。
package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/oyaguma3/tor-control-bot/internal/auth"
	"github.com/oyaguma3/tor-control-bot/internal/config"
	"github.com/oyaguma3/tor-control-bot/internal/control"
	"github.com/oyaguma3/tor-control-bot/internal/dispatch"
	"github.com/oyaguma3/tor-control-bot/internal/identity"
	"github.com/oyaguma3/tor-control-bot/internal/policy"
	"github.com/oyaguma3/tor-control-bot/internal/store"
)

func main() {
	// 1. 環境変数読み込み
	cfg, err := config.Load()
	if err != nil {
		slog.Error("設定読み込み失敗", "error", err)
		os.Exit(1)
	}

	// 2. ロガー初期化（JSON形式、INFO以上）
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})).With("app", "tor-control-bot")
	slog.SetDefault(logger)

	slog.Info("tor-control-bot起動開始",
		"control_addr", cfg.ControlAddr,
		"allowed_countries", len(cfg.AllowedCountryList()),
		"auto_rotate", cfg.AutoRotate,
	)

	// 3. 呼び出し元認証ストア（Valkey設定時のみ永続化）
	var callerStore auth.CallerStore
	if cfg.UseValkey() {
		valkeyClient, err := store.NewValkeyClient(cfg)
		if err != nil {
			slog.Error("Valkey接続失敗",
				"event_id", "VALKEY_CONN_ERR",
				"error", err,
			)
			os.Exit(1)
		}
		defer valkeyClient.Close()
		callerStore = auth.NewValkeyStore(valkeyClient)
		slog.Info("Valkey接続完了", "addr", cfg.ValkeyAddr())
	} else {
		callerStore = auth.NewMemoryStore()
		slog.Info("インメモリ認証ストアを使用")
	}

	// 4. コントロールポートクライアント
	client := control.NewClient(cfg)
	defer client.Close()

	// 5. 認証ゲート／ローテータ／ポリシーストア
	gate := auth.NewGate(cfg, callerStore)
	rotator := identity.NewRotator(client, cfg.RotateMinInterval)
	policies := policy.NewStore(cfg.AllowedCountryList(), client, rotator)

	// 6. ディスパッチャ（チャットトランスポートはここからHandleを呼び出す）
	dispatcher := dispatch.NewDispatcher(cfg, gate, policies, rotator)

	// 7. 接続疎通確認（失敗しても次回コマンド時に遅延再接続する）
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := client.Authenticate(ctx); err != nil {
		slog.Warn("コントロールポート初期疎通失敗",
			"event_id", "CTRL_PRECHECK_ERR",
			"error", err,
		)
	}

	// 8. 自動ローテーションジョブ
	if cfg.AutoRotate {
		scheduler := identity.NewScheduler(rotator, config.AutoRotateMinDelay, config.AutoRotateMaxDelay)
		go scheduler.Run(ctx)
	}

	// 9. コンソールフロントエンド（最小のローカルトランスポート）
	go runConsole(ctx, dispatcher)

	// 10. シグナル待機 → シャットダウン
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigCh
	slog.Info("シグナル受信、シャットダウン開始", "signal", sig)

	cancel()
	slog.Info("tor-control-bot停止完了")
}

// runConsole は標準入力から1行1コマンドを読み取りディスパッチャへ渡す。
// 行形式は "<verb> [args...]"。呼び出し元IDは固定の"console"。
func runConsole(ctx context.Context, dispatcher *dispatch.Dispatcher) {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		result, _ := dispatcher.Handle(ctx, &dispatch.Command{
			CallerID: "console",
			Verb:     strings.ToLower(fields[0]),
			Args:     fields[1:],
		})
		fmt.Println(result)
	}
}

package auth

// CallerAuth は呼び出し元ID単位の認証レコードを表す。
// 最初の操作時に生成され、明示的な取り消しか期限切れまで保持される。
type CallerAuth struct {
	Authenticated bool  `redis:"authenticated"`
	LastAuthTime  int64 `redis:"last_auth_time"` // Unix秒
	FailedCount   int64 `redis:"failed_count"`
	WindowStart   int64 `redis:"window_start"` // 失敗計数ウィンドウ開始（Unix秒）
}

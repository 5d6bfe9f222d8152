package store

// Valkeyキープレフィックス
const (
	KeyPrefixCallerAuth = "caller:" // 呼び出し元認証レコード
)

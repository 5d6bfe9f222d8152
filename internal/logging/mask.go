// Package logging はログ出力用の補助関数を提供する。
package logging

import "strings"

// MaskCaller は呼び出し元IDをマスキングする。
// 先頭2文字 + マスク文字('*') + 末尾2文字の形式で出力する。
// enabled=falseまたは文字列長が5以下の場合はそのまま返す。
func MaskCaller(callerID string, enabled bool) string {
	if !enabled || len(callerID) <= 5 {
		return callerID
	}
	return callerID[:2] + strings.Repeat("*", len(callerID)-4) + callerID[len(callerID)-2:]
}

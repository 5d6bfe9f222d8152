package policy

import "strings"

// CountryCode はExitリレー選択に使う2文字の国コードを表す。
// 比較・送信前に大文字の正規形へ正規化する。
type CountryCode string

// Normalize は国コードを正規形（大文字、前後空白なし）に変換する。
func Normalize(code string) CountryCode {
	return CountryCode(strings.ToUpper(strings.TrimSpace(code)))
}

// ExitPolicy は現在有効なExitノード制限を表す。
// Restrictedがfalseの場合は無制限（Unrestricted）。
type ExitPolicy struct {
	Restricted bool
	Country    CountryCode
}

// Unrestricted は無制限ポリシーを返す。
func Unrestricted() ExitPolicy {
	return ExitPolicy{}
}

// RestrictedTo は指定国への制限ポリシーを返す。
func RestrictedTo(code CountryCode) ExitPolicy {
	return ExitPolicy{Restricted: true, Country: code}
}

// String はポリシーの表示形式を返す。
func (p ExitPolicy) String() string {
	if !p.Restricted {
		return "unrestricted"
	}
	return "restricted to " + string(p.Country)
}

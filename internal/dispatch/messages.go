package dispatch

import (
	"strings"

	"github.com/oyaguma3/tor-control-bot/internal/policy"
)

// ユーザー向け1行メッセージ
const (
	msgStart = "Tor management bot. Use auth <secret> to authenticate."

	msgHelp = "Commands: start | auth <secret> | update | setcountry <code> | resetpolicy | countries | help"

	msgBlocked = "You are not allowed to use this bot."

	msgUnauthorized = "You are not authenticated. Use auth <secret> first."

	msgAuthUsage     = "Usage: auth <secret>"
	msgAuthOK        = "Authentication successful. You can now use protected commands."
	msgAuthFailed    = "Incorrect secret. Please try again."
	msgAuthLockedFmt = "Too many failed attempts. Retry in %s."

	msgUpdateOK       = "Your Tor identity has been updated."
	msgRateLimitedFmt = "Please wait %s before the next identity update."

	msgSetCountryUsage   = "Usage: setcountry <country_code>"
	msgSetCountryOKFmt   = "Exit country set to %s."
	msgInvalidCountryFmt = "Invalid country code. Allowed: %s"

	msgResetOK           = "Exit policy reset and identity updated."
	msgResetNoRotateFmt  = "Exit policy reset. Identity update skipped, wait %s."
	msgResetRotateFailed = "Exit policy reset, but the identity update failed."

	msgCountriesFmt = "Available countries: %s"

	msgUnknown = "Unknown command. Use help to list commands."

	msgControlUnreachable = "Tor control port is unreachable. Please try again later."
	msgControlAuthFailed  = "Tor control authentication failed. Check the bot configuration."
	msgControlLost        = "Connection to Tor was lost. Please try again."

	msgDaemonRejectedFmt      = "Tor rejected the command: %d %s"
	msgDaemonRejectedPlainFmt = "Tor rejected the command: %v"

	msgInternalError = "An internal error occurred. Please try again later."
)

// joinCountries は国コードリストを表示用に連結する。
func joinCountries(codes []policy.CountryCode) string {
	strs := make([]string, len(codes))
	for i, c := range codes {
		strs[i] = string(c)
	}
	return strings.Join(strs, ", ")
}

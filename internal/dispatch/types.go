package dispatch

// Command はチャット層から渡される解析済みコマンドを表す。
// 動詞・引数・呼び出し元IDの組で、チャットトランスポートの詳細には依存しない。
type Command struct {
	CallerID string
	Verb     string
	Args     []string
}

// 認識する動詞
const (
	VerbStart       = "start"
	VerbHelp        = "help"
	VerbAuth        = "auth"
	VerbUpdate      = "update"
	VerbSetCountry  = "setcountry"
	VerbResetPolicy = "resetpolicy"
	VerbCountries   = "countries"
)

package control

import "strings"

// Command はコントロールポートへ送信するコマンドを表す。
// 動詞と順序付き引数列からなり、1コマンドにつき1行で送信される。
type Command struct {
	Verb string
	Args []string
}

// NewCommand は新しいCommandを生成する。
func NewCommand(verb string, args ...string) *Command {
	return &Command{Verb: verb, Args: args}
}

// String はワイヤ形式のコマンド行を返す（CRLFは含まない）。
func (c *Command) String() string {
	if len(c.Args) == 0 {
		return c.Verb
	}
	return c.Verb + " " + strings.Join(c.Args, " ")
}

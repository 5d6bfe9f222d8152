package control

import (
	"bufio"
	"strconv"
	"strings"
)

// Reply はコントロールポートからの応答を表す。
// Codeは終端行のステータスコード、Linesは全行のペイロード部分。
type Reply struct {
	Code  int
	Lines []string
}

// IsOK は応答が250系（成功）かどうかを判定する。
func (r *Reply) IsOK() bool {
	return r.Code >= 250 && r.Code < 260
}

// Text はペイロードを1つの文字列として返す。
func (r *Reply) Text() string {
	return strings.Join(r.Lines, "; ")
}

// readReply は1つの完全な応答を読み取る。
// 各行は3桁のステータスコードと区切り文字（'-'=継続、'+'=データ、' '=終端）で
// 始まる。データ行は単独の"."行まで読み込んでペイロードに連結する。
// 枠組みが不正な場合は*ProtocolErrorを返す。
func readReply(r *bufio.Reader) (*Reply, error) {
	reply := &Reply{}
	for {
		line, err := readLine(r)
		if err != nil {
			return nil, err
		}
		if len(line) < 4 {
			return nil, &ProtocolError{Line: line, Reason: "reply line too short"}
		}

		code, err := strconv.Atoi(line[:3])
		if err != nil {
			return nil, &ProtocolError{Line: line, Reason: "status code is not numeric"}
		}
		text := line[4:]

		switch line[3] {
		case ' ':
			// 終端行
			reply.Code = code
			if text != "" {
				reply.Lines = append(reply.Lines, text)
			}
			return reply, nil

		case '-':
			// 継続行
			reply.Lines = append(reply.Lines, text)

		case '+':
			// データ行: "."のみの行まで本文
			reply.Lines = append(reply.Lines, text)
			for {
				data, err := readLine(r)
				if err != nil {
					return nil, err
				}
				if data == "." {
					break
				}
				// ドットスタッフィング解除
				if strings.HasPrefix(data, "..") {
					data = data[1:]
				}
				reply.Lines = append(reply.Lines, data)
			}

		default:
			return nil, &ProtocolError{Line: line, Reason: "unknown line separator"}
		}
	}
}

// readLine はCRLF終端の1行を読み取り、終端を除いて返す。
func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

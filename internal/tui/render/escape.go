package render

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/x/ansi"
)

var whitespace = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ", "\t", " ")

// Escape 去掉服务端文本中的 ANSI/OSC 序列，并替换剩余控制字符，
// 使其只能作为普通文字显示。
func Escape(s string) string {
	if s == "" {
		return s
	}
	s = ansi.Strip(whitespace.Replace(s))
	return strings.Map(func(r rune) rune {
		switch {
		case unicode.IsControl(r):
			return unicode.ReplacementChar
		case r == '\u200e' || r == '\u200f' || (r >= '\u202a' && r <= '\u202e') || (r >= '\u2066' && r <= '\u2069'):
			// 双向控制符会打乱整行显示顺序
			return unicode.ReplacementChar
		default:
			return r
		}
	}, s)
}

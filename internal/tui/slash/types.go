package slash

import "strings"

// Command 表示内置斜杠命令的标识符。
type Command string

// 内置命令集合。
const (
	CommandClear    Command = "clear"
	CommandRefresh  Command = "refresh"
	CommandMinimize Command = "minimize"
	CommandCopy     Command = "copy"
	CommandQuit     Command = "quit"
)

// Item 代表弹窗中的一行条目。
type Item struct {
	Command     Command
	Description string
}

// Token 返回无前导斜杠的匹配键。
func (i Item) Token() string {
	return string(i.Command)
}

// DisplayName 返回带前缀斜杠的展示名称。
func (i Item) DisplayName() string {
	token := i.Token()
	if token == "" {
		return ""
	}
	if strings.HasPrefix(token, "/") {
		return token
	}
	return "/" + token
}

// Unescape 处理 `//text` 形式的字面输入，返回去掉一个斜杠的文本。
func Unescape(value string) (string, bool) {
	if strings.HasPrefix(value, "//") {
		return value[1:], true
	}
	return value, false
}

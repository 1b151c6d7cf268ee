package slash

import (
	"sort"
	"strings"
	"unicode"

	"github.com/sahilm/fuzzy"
)

const unknownCommand = "unknown command, type / to list"

// Options 控制 Slash 弹窗的展示。
type Options struct {
	MaxLines int
}

// Input 表示当前文本与光标状态。
type Input struct {
	Value        string
	CursorColumn int
}

// ActionKind 描述按键触发后的处理类型。
type ActionKind int

const (
	ActionNone ActionKind = iota
	ActionClose
	ActionInsert
	ActionSubmitCommand
	ActionError
)

// Action 汇总 Slash 处理结果。
type Action struct {
	Kind         ActionKind
	Command      Command
	NewValue     string
	CursorColumn int
	Args         string
	Message      string
}

// State 维护 slash 弹窗的匹配与选择状态。
type State struct {
	items    []Item
	matches  []match
	selected int
	open     bool
	token    tokenInfo
	maxLines int
}

type match struct {
	item       Item
	highlights []int
	score      int
}

type tokenInfo struct {
	found  bool
	active bool
	value  string
	end    int
	args   string
}

// NewState 构造 slash 状态机。
func NewState(opts Options) *State {
	maxLines := opts.MaxLines
	if maxLines <= 0 {
		maxLines = 5
	}
	return &State{
		items:    builtinItems(),
		maxLines: maxLines,
	}
}

// Open 返回弹窗是否展示。
func (s *State) Open() bool {
	return s != nil && s.open
}

// Close 收起弹窗。
func (s *State) Close() {
	if s == nil {
		return
	}
	s.open = false
	s.matches = nil
}

// SyncInput 根据最新文本同步过滤列表与选中项。
func (s *State) SyncInput(in Input) {
	if s == nil {
		return
	}
	s.token = locateToken([]rune(in.Value), in.CursorColumn)
	s.open = s.token.found && s.token.active
	if !s.open {
		s.matches = nil
		return
	}
	s.matches = filterMatches(s.items, s.token.value)
	if s.selected >= len(s.matches) {
		s.selected = 0
	}
}

// ResolveSubmit 按 Enter 行为解析当前输入，不依赖弹窗是否打开。
// 非命令输入返回 ActionNone。
func (s *State) ResolveSubmit(value string) Action {
	token := locateToken([]rune(value), runeLen(value))
	if !token.found || token.value == "" {
		return Action{Kind: ActionNone}
	}
	item, ok := s.findExactItem(token.value)
	if !ok {
		return Action{Kind: ActionError, Message: unknownCommand}
	}
	return Action{Kind: ActionSubmitCommand, Command: item.Command, Args: token.args}
}

// HandleKey 处理键盘事件，返回对应动作。
func (s *State) HandleKey(msg string) (Action, bool) {
	if s == nil || !s.open {
		return Action{}, false
	}
	switch msg {
	case "up", "ctrl+p":
		if len(s.matches) == 0 {
			return Action{Kind: ActionClose}, true
		}
		s.selected--
		if s.selected < 0 {
			s.selected = len(s.matches) - 1
		}
		return Action{Kind: ActionNone}, true
	case "down", "ctrl+n":
		if len(s.matches) == 0 {
			return Action{Kind: ActionClose}, true
		}
		s.selected++
		if s.selected >= len(s.matches) {
			s.selected = 0
		}
		return Action{Kind: ActionNone}, true
	case "esc":
		s.Close()
		return Action{Kind: ActionClose}, true
	case "tab":
		if len(s.matches) == 0 {
			return Action{Kind: ActionError, Message: unknownCommand}, true
		}
		token := "/" + string(s.matches[s.selected].item.Command)
		return Action{Kind: ActionInsert, NewValue: token + " ", CursorColumn: runeLen(token) + 1}, true
	case "enter":
		if len(s.matches) == 0 {
			return Action{Kind: ActionError, Message: unknownCommand}, true
		}
		cmd := s.matches[s.selected].item.Command
		s.Close()
		return Action{Kind: ActionSubmitCommand, Command: cmd, Args: s.token.args}, true
	default:
		return Action{}, false
	}
}

func (s *State) findExactItem(token string) (Item, bool) {
	for _, item := range s.items {
		if strings.EqualFold(item.Token(), token) {
			return item, true
		}
	}
	return Item{}, false
}

func filterMatches(items []Item, query string) []match {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		matches := make([]match, 0, len(items))
		for _, item := range items {
			matches = append(matches, match{item: item})
		}
		return matches
	}

	keys := make([]string, len(items))
	for i, item := range items {
		keys[i] = strings.ToLower(item.Token())
	}
	results := fuzzy.Find(strings.ToLower(trimmed), keys)
	matches := make([]match, 0, len(results))
	for _, res := range results {
		matches = append(matches, match{
			item:       items[res.Index],
			highlights: res.MatchedIndexes,
			score:      res.Score,
		})
	}
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].score == matches[j].score {
			return matches[i].item.Token() < matches[j].item.Token()
		}
		return matches[i].score > matches[j].score
	})
	return matches
}

// locateToken 识别行首的 `/cmd`；`//` 开头是字面文本，不算命令。
func locateToken(runes []rune, cursor int) tokenInfo {
	if len(runes) == 0 || runes[0] != '/' {
		return tokenInfo{}
	}
	token := tokenInfo{found: true, end: len(runes)}
	for i := 1; i < len(runes); i++ {
		if unicode.IsSpace(runes[i]) {
			token.end = i
			break
		}
		if runes[i] == '/' {
			return tokenInfo{}
		}
	}
	token.value = string(runes[1:token.end])
	token.args = strings.TrimSpace(string(runes[token.end:]))
	token.active = cursor <= token.end
	return token
}

func runeLen(text string) int {
	return len([]rune(text))
}

func builtinItems() []Item {
	return []Item{
		{Command: CommandClear, Description: "clear chat history"},
		{Command: CommandRefresh, Description: "fetch history now"},
		{Command: CommandMinimize, Description: "toggle minimized view"},
		{Command: CommandCopy, Description: "copy newest message"},
		{Command: CommandQuit, Description: "close the widget"},
	}
}

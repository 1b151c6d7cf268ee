package tui

import "strings"

const inputHistoryLimit = 50

// inputHistory 记录本次运行中发出的文本，供上下箭头翻找。
// cursor == len(entries) 表示当前在“最新输入”（非浏览历史）位置。
type inputHistory struct {
	entries []string
	cursor  int
	draft   string
}

func (h *inputHistory) Add(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	if n := len(h.entries); n > 0 && h.entries[n-1] == text {
		h.ResetBrowsing()
		return
	}
	h.entries = append(h.entries, text)
	if len(h.entries) > inputHistoryLimit {
		h.entries = h.entries[len(h.entries)-inputHistoryLimit:]
	}
	h.ResetBrowsing()
}

func (h *inputHistory) Browsing() bool {
	return h.cursor < len(h.entries)
}

func (h *inputHistory) ResetBrowsing() {
	h.cursor = len(h.entries)
	h.draft = ""
}

func (h *inputHistory) Prev(current string) (string, bool) {
	if len(h.entries) == 0 {
		return "", false
	}
	if h.cursor == len(h.entries) {
		h.draft = current
	}
	if h.cursor > 0 {
		h.cursor--
	}
	return h.entries[h.cursor], true
}

func (h *inputHistory) Next() (string, bool) {
	if len(h.entries) == 0 || h.cursor == len(h.entries) {
		return "", false
	}
	if h.cursor < len(h.entries)-1 {
		h.cursor++
		return h.entries[h.cursor], true
	}
	h.cursor = len(h.entries)
	return h.draft, true
}

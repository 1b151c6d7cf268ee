package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// notice 是状态行上的被动提示，到期自动消失，不需要用户操作。
type notice struct {
	text string
	seq  int
}

var (
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFB454")).Bold(true)
	hintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D7A85"))
)

func (m *Model) showNotice(text string) tea.Cmd {
	m.notice.seq++
	m.notice.text = text
	return noticeExpiry(m.noticeTTL, m.notice.seq)
}

func (m *Model) expireNotice(seq int) {
	if seq == m.notice.seq {
		m.notice.text = ""
	}
}

// Notice 返回当前显示的提示，没有时为空串。
func (m *Model) Notice() string {
	return m.notice.text
}

func (m *Model) statusLine(width int) string {
	style := lipgloss.NewStyle().Padding(0, 1).Width(maxInt(20, width))
	if m.notice.text != "" {
		return style.Render(noticeStyle.Render(m.notice.text))
	}
	hints := []string{"enter send", "tab focus", "ctrl+l clear", "ctrl+t minimize", "ctrl+y copy", "/ commands"}
	return style.Render(hintStyle.Render(strings.Join(hints, " • ")))
}

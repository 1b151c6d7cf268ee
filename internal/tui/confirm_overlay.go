package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const confirmClearPrompt = "Clear chat history?"

var modalStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	Padding(0, 1).
	BorderForeground(lipgloss.Color("#FFB454"))

func (m *Model) openClearConfirm() {
	m.confirming = true
	m.slash.Close()
}

func (m *Model) confirmView(width int) string {
	if !m.confirming {
		return ""
	}
	lines := []string{
		lipgloss.NewStyle().Bold(true).Render(confirmClearPrompt),
		lipgloss.NewStyle().Bold(true).Render("[y] clear • [n] cancel"),
	}
	return modalStyle.Width(maxInt(24, width-2)).Render(strings.Join(lines, "\n"))
}

// handleConfirmKey 在确认框打开时独占按键；拒绝不发任何请求。
func (m *Model) handleConfirmKey(msg tea.KeyMsg) tea.Cmd {
	switch strings.ToLower(msg.String()) {
	case "y", "enter":
		m.confirming = false
		m.log.Debug("clear confirmed")
		return m.clearHistory()
	case "n", "esc":
		m.confirming = false
		return nil
	case "ctrl+c":
		m.confirming = false
		return m.quit()
	}
	return nil
}

package tui

import (
	"errors"

	"gamechat/internal/chat"

	tea "github.com/charmbracelet/bubbletea"
)

// Result 返回组件退出时的必要信息。
type Result struct {
	Messages []chat.Message
}

// Run 全屏运行组件，直到用户退出。
func Run(opts Options) (Result, error) {
	program := tea.NewProgram(New(opts), tea.WithAltScreen(), tea.WithMouseCellMotion())
	m, err := program.Run()
	if err != nil {
		return Result{}, err
	}
	widget, ok := m.(*Model)
	if !ok {
		return Result{}, errors.New("unexpected tui model")
	}
	widget.Stop()
	return Result{Messages: widget.Messages()}, nil
}

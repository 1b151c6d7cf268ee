package tui

import (
	"context"
	"errors"
	"time"

	"gamechat/internal/chat"
	"gamechat/internal/chatapi"

	tea "github.com/charmbracelet/bubbletea"
)

// Client 是组件依赖的三个聊天接口。
type Client interface {
	Send(ctx context.Context, message string) error
	History(ctx context.Context) ([]chat.Message, error)
	Clear(ctx context.Context) error
}

type pollTickMsg struct {
	gen int
}

type historyMsg struct {
	messages []chat.Message
	err      error
}

type sendResultMsg struct {
	input string
	err   error
}

type clearResultMsg struct {
	err error
}

type copyResultMsg struct {
	err error
}

type noticeExpiredMsg struct {
	seq int
}

func (m *Model) fetchHistory() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		if client == nil {
			return historyMsg{err: errNoClient}
		}
		msgs, err := client.History(context.Background())
		return historyMsg{messages: msgs, err: err}
	}
}

func (m *Model) sendMessage(input, text string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		if client == nil {
			return sendResultMsg{input: input, err: errNoClient}
		}
		return sendResultMsg{input: input, err: client.Send(context.Background(), text)}
	}
}

func (m *Model) clearHistory() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		if client == nil {
			return clearResultMsg{err: errNoClient}
		}
		return clearResultMsg{err: client.Clear(context.Background())}
	}
}

func (m *Model) copyText(text string) tea.Cmd {
	write := m.clipboard
	return func() tea.Msg {
		return copyResultMsg{err: write(text)}
	}
}

func pollTick(interval time.Duration, gen int) tea.Cmd {
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return pollTickMsg{gen: gen}
	})
}

func noticeExpiry(ttl time.Duration, seq int) tea.Cmd {
	if ttl <= 0 {
		return nil
	}
	return tea.Tick(ttl, func(time.Time) tea.Msg {
		return noticeExpiredMsg{seq: seq}
	})
}

var errNoClient = errors.New("chat client not configured")

// failureText 区分服务端拒绝（非 2xx）与传输失败。
func failureText(err error, rejected, transport string) string {
	var statusErr *chatapi.StatusError
	if errors.As(err, &statusErr) {
		return rejected
	}
	return transport
}

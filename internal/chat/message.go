package chat

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

// Direction 标记消息方向，仅用于选择展示样式。
type Direction string

const (
	DirectionSent     Direction = "sent"
	DirectionReceived Direction = "received"
)

// MaxMessageLength 单条消息的最大字符数（游戏聊天框上限）。
const MaxMessageLength = 255

// SelfSender 本地发出消息的发送者名称。
const SelfSender = "Self"

var (
	ErrEmptyMessage   = errors.New("message cannot be empty")
	ErrMessageTooLong = errors.New("message too long (max 255 characters)")
)

// Message 是服务端返回的一条聊天记录，客户端按原样展示。
type Message struct {
	ID        string    `json:"id,omitempty"`
	Sender    string    `json:"sender"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Direction Direction `json:"direction"`
}

// SendRequest 是 POST /api/chat/send 的请求体。
type SendRequest struct {
	Message string `json:"message"`
}

// ReceivedRequest 是 POST /api/chat/received 的请求体。
type ReceivedRequest struct {
	Sender  string `json:"sender"`
	Message string `json:"message"`
}

// HistoryResponse 是 GET /api/chat/history 的响应体。
type HistoryResponse struct {
	Messages []Message `json:"messages"`
}

// StatusResponse 是 GET /api/game/status 的响应体。
type StatusResponse struct {
	InGame bool           `json:"inGame"`
	Debug  map[string]any `json:"debug,omitempty"`
}

// Validate 检查消息文本是否可以发送到游戏。
func Validate(text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyMessage
	}
	if utf8.RuneCountInString(text) > MaxMessageLength {
		return ErrMessageTooLong
	}
	return nil
}

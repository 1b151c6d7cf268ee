package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"gamechat/internal/chat"
	"gamechat/internal/events"
	"gamechat/internal/history"
	"gamechat/internal/logger"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxFrameSize   = 4096
	frameSay       = "say"
	frameReceived  = "received"
	frameHello     = "hello"
	frameCleared   = "cleared"
	defaultAgentID = "agent"
)

// ErrNoAgent 表示没有游戏内代理在线，消息无法送达游戏。
var ErrNoAgent = errors.New("game context not available")

var log = logger.Named("bridge")

// Frame 是与游戏内代理之间交换的 JSON 帧。
type Frame struct {
	Type      string `json:"type"`
	Sender    string `json:"sender,omitempty"`
	Message   string `json:"message,omitempty"`
	Timestamp int64  `json:"timestamp,omitempty"`
}

// Hub 管理游戏内代理的 WebSocket 连接：把发出的消息转发给代理，
// 并把代理上报的游戏聊天写入记录。
type Hub struct {
	store    *history.Store
	bus      *events.Bus
	upgrader websocket.Upgrader

	mu    sync.Mutex
	conns map[string]agentConn
}

// agentConn 是一条在线连接；同名代理可以同时有多条连接。
type agentConn struct {
	name  string
	since time.Time
}

// New 创建 Hub；bus 为 nil 时内部新建。
func New(store *history.Store, bus *events.Bus) *Hub {
	if bus == nil {
		bus = events.NewBus()
	}
	return &Hub{
		store: store,
		bus:   bus,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		conns: make(map[string]agentConn),
	}
}

// Available 报告是否至少有一个代理在线。
func (h *Hub) Available() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns) > 0
}

// Agents 返回在线代理名及其最近一次连接时间。
func (h *Hub) Agents() map[string]time.Time {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make(map[string]time.Time, len(h.conns))
	for _, c := range h.conns {
		if at, ok := out[c.name]; !ok || c.since.After(at) {
			out[c.name] = c.since
		}
	}
	return out
}

// Deliver 把消息交给所有在线代理，没有代理时返回 ErrNoAgent。
func (h *Hub) Deliver(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !h.Available() {
		return ErrNoAgent
	}
	n := h.bus.Publish(events.Event{
		Type:    events.EventSay,
		Message: chat.Message{Sender: chat.SelfSender, Message: text, Direction: chat.DirectionSent},
	})
	if n == 0 {
		return ErrNoAgent
	}
	log.WithField("agents", n).Info("chat message handed to agents")
	return nil
}

// Received 记录一条游戏内收到的消息。
func (h *Hub) Received(sender, text string) (chat.Message, error) {
	sender = strings.TrimSpace(sender)
	if err := chat.Validate(text); err != nil {
		return chat.Message{}, err
	}
	return h.store.AddReceived(sender, text)
}

// Cleared 通知在线代理聊天记录已被清空，返回收到通知的连接数。
func (h *Hub) Cleared() int {
	return h.bus.Publish(events.Event{Type: events.EventCleared})
}

// ServeHTTP 升级为 WebSocket 并服务一个代理连接直到断开。
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warnf("websocket upgrade failed: %v", err)
		return
	}
	agentID := strings.TrimSpace(r.URL.Query().Get("agent"))
	if agentID == "" {
		agentID = defaultAgentID + "-" + r.RemoteAddr
	}
	h.serve(r.Context(), conn, agentID)
}

func (h *Hub) serve(ctx context.Context, conn *websocket.Conn, agentID string) {
	sub, cancel := h.bus.Subscribe()
	connID := h.register(agentID)
	entry := log.WithFields(logger.Fields{"agent": agentID, "conn": connID})
	entry.Info("agent connected")

	ctx, stop := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		h.writeLoop(ctx, conn, sub)
	}()

	h.readLoop(conn, entry)

	stop()
	cancel()
	<-done
	h.unregister(connID)
	_ = conn.Close()
	entry.Info("agent disconnected")
}

func (h *Hub) readLoop(conn *websocket.Conn, entry *logger.LogEntry) {
	conn.SetReadLimit(maxFrameSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				entry.Warnf("agent read failed: %v", err)
			}
			return
		}
		var frame Frame
		if err := json.Unmarshal(data, &frame); err != nil {
			entry.Warnf("invalid frame: %v", err)
			continue
		}
		switch frame.Type {
		case frameReceived:
			if _, err := h.Received(frame.Sender, frame.Message); err != nil {
				entry.Warnf("drop received frame: %v", err)
			}
		case frameHello:
			entry.WithField("sender", frame.Sender).Debug("agent hello")
		default:
			entry.Debugf("ignore frame type %q", frame.Type)
		}
	}
}

func (h *Hub) writeLoop(ctx context.Context, conn *websocket.Conn, sub <-chan events.Event) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
			return
		case evt, ok := <-sub:
			if !ok {
				return
			}
			var frame Frame
			switch evt.Type {
			case events.EventSay:
				frame = Frame{Type: frameSay, Message: evt.Message.Message, Timestamp: evt.At.UnixMilli()}
			case events.EventCleared:
				frame = Frame{Type: frameCleared, Timestamp: evt.At.UnixMilli()}
			default:
				continue
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(frame); err != nil {
				log.Warnf("write to agent failed: %v", err)
				_ = conn.Close()
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				_ = conn.Close()
				return
			}
		}
	}
}

// register 按连接登记，同名代理重连时旧连接的退出不会影响新连接。
func (h *Hub) register(agentID string) string {
	connID := uuid.NewString()
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[connID] = agentConn{name: agentID, since: time.Now()}
	return connID
}

func (h *Hub) unregister(connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns, connID)
}

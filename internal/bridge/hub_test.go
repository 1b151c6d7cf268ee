package bridge

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"gamechat/internal/chat"
	"gamechat/internal/history"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

func dialAgent(t *testing.T, srv *httptest.Server, agent string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?agent=" + agent
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func connCount(h *Hub) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	require.Eventually(t, cond, 2*time.Second, 10*time.Millisecond)
}

func TestDeliverWithoutAgent(t *testing.T) {
	hub := New(history.New(10, ""), nil)
	require.False(t, hub.Available())
	require.ErrorIs(t, hub.Deliver(context.Background(), "hi"), ErrNoAgent)
}

func TestDeliverForwardsSayFrame(t *testing.T) {
	hub := New(history.New(10, ""), nil)
	srv := httptest.NewServer(hub)
	t.Cleanup(srv.Close)

	conn := dialAgent(t, srv, "d2r-1")
	waitFor(t, hub.Available)
	require.Contains(t, hub.Agents(), "d2r-1")

	require.NoError(t, hub.Deliver(context.Background(), "gg"))

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var frame Frame
	require.NoError(t, conn.ReadJSON(&frame))
	require.Equal(t, frameSay, frame.Type)
	require.Equal(t, "gg", frame.Message)
	require.NotZero(t, frame.Timestamp)
}

func TestReceivedFrameAppendsHistory(t *testing.T) {
	store := history.New(10, "")
	hub := New(store, nil)
	srv := httptest.NewServer(hub)
	t.Cleanup(srv.Close)

	conn := dialAgent(t, srv, "d2r-1")
	require.NoError(t, conn.WriteJSON(Frame{Type: frameReceived, Sender: "Paladin", Message: "need tp"}))
	require.NoError(t, conn.WriteJSON(Frame{Type: frameReceived, Sender: "Paladin", Message: "   "}))
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{not json")))

	waitFor(t, func() bool { return store.Len() == 1 })
	msgs := store.List()
	require.Equal(t, "Paladin", msgs[0].Sender)
	require.Equal(t, "need tp", msgs[0].Message)
	require.Equal(t, chat.DirectionReceived, msgs[0].Direction)
}

func TestDisconnectUnregistersAgent(t *testing.T) {
	hub := New(history.New(10, ""), nil)
	srv := httptest.NewServer(hub)
	t.Cleanup(srv.Close)

	conn := dialAgent(t, srv, "d2r-1")
	waitFor(t, hub.Available)

	_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"))
	_ = conn.Close()
	waitFor(t, func() bool { return !hub.Available() })
}

func TestReceivedValidates(t *testing.T) {
	hub := New(history.New(10, ""), nil)
	_, err := hub.Received("bob", strings.Repeat("x", chat.MaxMessageLength+1))
	require.ErrorIs(t, err, chat.ErrMessageTooLong)
}

func TestReconnectWithSameIDKeepsAgentAvailable(t *testing.T) {
	hub := New(history.New(10, ""), nil)
	srv := httptest.NewServer(hub)
	t.Cleanup(srv.Close)

	stale := dialAgent(t, srv, "d2r-1")
	waitFor(t, hub.Available)
	fresh := dialAgent(t, srv, "d2r-1")
	waitFor(t, func() bool { return connCount(hub) == 2 })

	_ = stale.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"))
	_ = stale.Close()
	waitFor(t, func() bool { return connCount(hub) == 1 })

	require.True(t, hub.Available())
	require.Contains(t, hub.Agents(), "d2r-1")
	require.NoError(t, hub.Deliver(context.Background(), "still here"))

	_ = fresh.SetReadDeadline(time.Now().Add(2 * time.Second))
	var frame Frame
	require.NoError(t, fresh.ReadJSON(&frame))
	require.Equal(t, "still here", frame.Message)
}

func TestDeliverFansOutToEveryAgent(t *testing.T) {
	hub := New(history.New(10, ""), nil)
	srv := httptest.NewServer(hub)
	t.Cleanup(srv.Close)

	conns := []*websocket.Conn{dialAgent(t, srv, "d2r-1"), dialAgent(t, srv, "d2r-2")}
	waitFor(t, func() bool { return len(hub.Agents()) == 2 })

	require.NoError(t, hub.Deliver(context.Background(), "gg all"))
	for _, conn := range conns {
		_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		var frame Frame
		require.NoError(t, conn.ReadJSON(&frame))
		require.Equal(t, frameSay, frame.Type)
		require.Equal(t, "gg all", frame.Message)
	}
}

func TestClearedIsForwardedToAgents(t *testing.T) {
	hub := New(history.New(10, ""), nil)
	srv := httptest.NewServer(hub)
	t.Cleanup(srv.Close)

	conn := dialAgent(t, srv, "d2r-1")
	waitFor(t, hub.Available)
	require.Equal(t, 1, hub.Cleared())

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var frame Frame
	require.NoError(t, conn.ReadJSON(&frame))
	require.Equal(t, frameCleared, frame.Type)
	require.Empty(t, frame.Message)
}

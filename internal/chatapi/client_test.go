package chatapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gamechat/internal/chat"
)

func TestSendPostsJSONBody(t *testing.T) {
	var got chat.SendRequest
	var contentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/chat/send" {
			http.NotFound(w, r)
			return
		}
		contentType = r.Header.Get("Content-Type")
		_ = json.NewDecoder(r.Body).Decode(&got)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "success"})
	}))
	t.Cleanup(srv.Close)

	c := New(srv.URL+"/", Options{})
	if err := c.Send(context.Background(), "hello"); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if got.Message != "hello" {
		t.Fatalf("server got message %q, want hello", got.Message)
	}
	if contentType != "application/json" {
		t.Fatalf("Content-Type = %q", contentType)
	}
}

func TestSendNonOKReturnsStatusErrorWithTextBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Game context not available", http.StatusBadRequest)
	}))
	t.Cleanup(srv.Close)

	err := New(srv.URL, Options{}).Send(context.Background(), "hi")
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected *StatusError, got %T %v", err, err)
	}
	if statusErr.Code != http.StatusBadRequest {
		t.Fatalf("Code = %d", statusErr.Code)
	}
	if statusErr.Body != "Game context not available" {
		t.Fatalf("Body = %q", statusErr.Body)
	}
}

func TestHistoryDecodesMessagesInOrder(t *testing.T) {
	ts := time.Date(2025, 3, 4, 13, 5, 0, 0, time.UTC)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/api/chat/history" {
			http.NotFound(w, r)
			return
		}
		_ = json.NewEncoder(w).Encode(chat.HistoryResponse{Messages: []chat.Message{
			{Sender: "Self", Message: "one", Timestamp: ts, Direction: chat.DirectionSent},
			{Sender: "Bob", Message: "two", Timestamp: ts, Direction: chat.DirectionReceived},
		}})
	}))
	t.Cleanup(srv.Close)

	msgs, err := New(srv.URL, Options{}).History(context.Background())
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(msgs) != 2 || msgs[0].Message != "one" || msgs[1].Sender != "Bob" {
		t.Fatalf("unexpected messages: %+v", msgs)
	}
	if !msgs[0].Timestamp.Equal(ts) {
		t.Fatalf("timestamp = %v, want %v", msgs[0].Timestamp, ts)
	}
}

func TestHistoryMissingFieldIsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	t.Cleanup(srv.Close)

	msgs, err := New(srv.URL, Options{}).History(context.Background())
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if msgs == nil || len(msgs) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", msgs)
	}
}

func TestHistoryFailureStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	if _, err := New(srv.URL, Options{}).History(context.Background()); err == nil {
		t.Fatalf("expected error on 500")
	}
}

func TestClearPostsWithoutBody(t *testing.T) {
	var calls int
	var length int64 = -1
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/chat/clear" {
			http.NotFound(w, r)
			return
		}
		calls++
		length = r.ContentLength
	}))
	t.Cleanup(srv.Close)

	if err := New(srv.URL, Options{}).Clear(context.Background()); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if calls != 1 {
		t.Fatalf("calls = %d", calls)
	}
	if length != 0 {
		t.Fatalf("ContentLength = %d, want 0", length)
	}
}

func TestStatusDebugQuery(t *testing.T) {
	var query string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.RawQuery
		_ = json.NewEncoder(w).Encode(chat.StatusResponse{InGame: true, Debug: map[string]any{"agents": 1}})
	}))
	t.Cleanup(srv.Close)

	status, err := New(srv.URL, Options{}).Status(context.Background(), true)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if query != "debug=1" {
		t.Fatalf("query = %q", query)
	}
	if !status.InGame {
		t.Fatalf("expected inGame")
	}
}

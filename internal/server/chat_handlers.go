package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"gamechat/internal/bridge"
	"gamechat/internal/chat"
)

const msgNoGame = "Game context not available - start a character/game first"

// handleSend 把消息送进游戏，成功后记入历史。
func (s *Server) handleSend(w http.ResponseWriter, r *http.Request) {
	var req chat.SendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := chat.Validate(req.Message); err != nil {
		http.Error(w, capitalize(err.Error()), http.StatusBadRequest)
		return
	}

	entry := log.WithField("length", len(req.Message))
	if s.game == nil || !s.game.Available() {
		entry.Warn("chat send failed: game context unavailable")
		http.Error(w, msgNoGame, http.StatusBadRequest)
		return
	}
	if err := s.game.Deliver(r.Context(), req.Message); err != nil {
		if errors.Is(err, bridge.ErrNoAgent) {
			entry.Warn("chat send failed: agent left before delivery")
			http.Error(w, msgNoGame, http.StatusBadRequest)
			return
		}
		entry.Errorf("chat send failed: %v", err)
		http.Error(w, fmt.Sprintf("Failed to send message: %v", err), http.StatusInternalServerError)
		return
	}

	if _, err := s.store.AddSent(req.Message); err != nil {
		// 消息已进入游戏，只记录持久化失败。
		entry.Warnf("persist sent message failed: %v", err)
	}
	entry.WithField("type", "chat.sent").Info("chat message sent")
	respondSuccess(w)
}

// handleHistory 返回完整记录，messages 永远不是 null。
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, chat.HistoryResponse{Messages: s.store.List()})
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Clear(); err != nil {
		log.Errorf("clear history failed: %v", err)
		http.Error(w, "Failed to clear history", http.StatusInternalServerError)
		return
	}
	entry := log.WithField("type", "chat.cleared")
	if s.hub != nil {
		entry = entry.WithField("agents", s.hub.Cleared())
	}
	entry.Info("chat history cleared")
	respondSuccess(w)
}

// handleReceived 供不走 WebSocket 的读取方上报游戏内收到的消息。
func (s *Server) handleReceived(w http.ResponseWriter, r *http.Request) {
	var req chat.ReceivedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Sender) == "" {
		http.Error(w, "Sender cannot be empty", http.StatusBadRequest)
		return
	}
	if err := chat.Validate(req.Message); err != nil {
		http.Error(w, capitalize(err.Error()), http.StatusBadRequest)
		return
	}

	var msg chat.Message
	var err error
	if s.hub != nil {
		msg, err = s.hub.Received(req.Sender, req.Message)
	} else {
		msg, err = s.store.AddReceived(strings.TrimSpace(req.Sender), req.Message)
	}
	if err != nil {
		log.Warnf("persist received message failed: %v", err)
	}
	respondJSON(w, http.StatusOK, msg)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	inGame := s.game != nil && s.game.Available()
	if r.URL.Query().Get("debug") != "1" {
		respondJSON(w, http.StatusOK, chat.StatusResponse{InGame: inGame})
		return
	}

	debug := map[string]any{
		"method":          "GetGameStatus",
		"historyMessages": s.store.Len(),
		"historyCapacity": s.store.Capacity(),
	}
	if s.hub != nil {
		agents := s.hub.Agents()
		names := make([]string, 0, len(agents))
		for id := range agents {
			names = append(names, id)
		}
		sort.Strings(names)
		debug["agents"] = names
		debug["detectionMethod"] = "bridge.Available()"
	} else {
		debug["managerAvailable"] = s.game != nil
	}
	respondJSON(w, http.StatusOK, chat.StatusResponse{InGame: inGame, Debug: debug})
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

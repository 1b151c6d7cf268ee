package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"gamechat/internal/bridge"
	"gamechat/internal/history"
	"gamechat/internal/logger"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

var log = logger.Named("server")

// Deliverer 把一条消息送进游戏。
type Deliverer interface {
	Deliver(ctx context.Context, text string) error
	Available() bool
}

// Server 聊天 REST 服务。
type Server struct {
	store *history.Store
	hub   *bridge.Hub
	game  Deliverer
}

// New 创建服务；game 为 nil 时使用 hub 作为投递方。
func New(store *history.Store, hub *bridge.Hub, game Deliverer) *Server {
	if game == nil && hub != nil {
		game = hub
	}
	return &Server{store: store, hub: hub, game: game}
}

// Router 组装 chi 路由。
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(api chi.Router) {
		api.Route("/chat", func(c chi.Router) {
			c.Post("/send", s.handleSend)
			c.Get("/history", s.handleHistory)
			c.Post("/clear", s.handleClear)
			c.Post("/received", s.handleReceived)
			if s.hub != nil {
				c.Get("/bridge", s.hub.ServeHTTP)
			}
		})
		api.Get("/game/status", s.handleStatus)
	})
	return r
}

// requestLogger 用 logrus 记录每个请求，替代 chi 自带的标准库 Logger。
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		log.WithFields(logger.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"bytes":      ww.BytesWritten(),
			"elapsed":    time.Since(start).Round(time.Microsecond),
			"request_id": middleware.GetReqID(r.Context()),
		}).Debug("request served")
	})
}

// Run 监听 addr 直到 ctx 结束，随后优雅退出。
func Run(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	log.Infof("chat server listening on %s", addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondSuccess(w http.ResponseWriter) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

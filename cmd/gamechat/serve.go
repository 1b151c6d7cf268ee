package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"gamechat/internal/bridge"
	"gamechat/internal/config"
	"gamechat/internal/events"
	"gamechat/internal/history"
	"gamechat/internal/server"
)

func serveMain(root rootArgs, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := runServe(ctx, root, args); err != nil {
		log.Fatalf("serve failed: %v", err)
	}
}

func runServe(ctx context.Context, root rootArgs, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	var cfgPath string
	var listen string
	var historyPath string
	var overrides stringSlice
	fs.StringVar(&cfgPath, "config", "", "Path to config file (default ~/.gamechat/config.toml)")
	fs.StringVar(&listen, "listen", "", "Listen address (default from config)")
	fs.StringVar(&historyPath, "history", "", "JSONL file to persist history (empty keeps it in memory)")
	fs.Var(&overrides, "c", "Override config value key=value (repeatable)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if listen != "" {
		overrides = append(overrides, "listen="+listen)
	}
	if historyPath != "" {
		overrides = append(overrides, "history_path="+historyPath)
	}

	cfg, err := loadConfig(root, cfgPath, overrides)
	if err != nil {
		return err
	}
	srv, err := buildServer(cfg)
	if err != nil {
		return err
	}
	return server.Run(ctx, cfg.Listen, srv.Router())
}

// buildServer 组装记录、事件总线、代理桥与 HTTP 服务。
func buildServer(cfg config.Config) (*server.Server, error) {
	store := history.New(cfg.HistoryCapacity, cfg.HistoryPath)
	if err := store.Load(); err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	if cfg.HistoryPath != "" {
		log.WithField("path", cfg.HistoryPath).Infof("history restored: %d messages", store.Len())
	}
	hub := bridge.New(store, events.NewBus())
	return server.New(store, hub, nil), nil
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gamechat/internal/chat"
	"gamechat/internal/chatapi"
	"gamechat/internal/tui/render"
)

// clientFlags 是一次性客户端命令共用的参数。
type clientFlags struct {
	cfgPath   string
	overrides stringSlice
}

func (f *clientFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.cfgPath, "config", "", "Path to config file (default ~/.gamechat/config.toml)")
	fs.Var(&f.overrides, "c", "Override config value key=value (repeatable)")
}

func (f *clientFlags) client(root rootArgs) (*chatapi.Client, time.Duration, error) {
	cfg, err := loadConfig(root, f.cfgPath, f.overrides)
	if err != nil {
		return nil, 0, err
	}
	if strings.TrimSpace(cfg.URL) == "" {
		return nil, 0, errors.New("missing url: set GAMECHAT_URL or configure url in ~/.gamechat/config.toml")
	}
	return newClient(cfg), cfg.RequestTimeout(), nil
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func sendMain(root rootArgs, args []string) {
	if err := runSend(root, args, os.Stdout); err != nil {
		log.Fatalf("send failed: %v", err)
	}
}

func runSend(root rootArgs, args []string, out io.Writer) error {
	fs := newFlagSet("send")
	var cf clientFlags
	cf.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	text := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if err := chat.Validate(text); err != nil {
		return err
	}

	client, timeout, err := cf.client(root)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := client.Send(ctx, text); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(out, "sent")
	return nil
}

func historyMain(root rootArgs, args []string) {
	if err := runHistory(root, args, os.Stdout); err != nil {
		log.Fatalf("history failed: %v", err)
	}
}

// runHistory 与组件一样先转义服务端文本再写到终端。
func runHistory(root rootArgs, args []string, out io.Writer) error {
	fs := newFlagSet("history")
	var cf clientFlags
	var limit int
	cf.register(fs)
	fs.IntVar(&limit, "n", 0, "Only print the last n messages (0 prints all)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, timeout, err := cf.client(root)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	msgs, err := client.History(ctx)
	if err != nil {
		return err
	}
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	if len(msgs) == 0 {
		_, _ = fmt.Fprintln(out, "No messages yet")
		return nil
	}
	for _, m := range msgs {
		_, _ = fmt.Fprintf(out, "[%s] %s: %s\n", m.Timestamp.Local().Format("15:04:05"), render.Escape(m.Sender), render.Escape(m.Message))
	}
	return nil
}

func clearMain(root rootArgs, args []string) {
	if err := runClear(root, args, os.Stdout); err != nil {
		log.Fatalf("clear failed: %v", err)
	}
}

// runClear 没有交互确认，必须显式传 --yes。
func runClear(root rootArgs, args []string, out io.Writer) error {
	fs := newFlagSet("clear")
	var cf clientFlags
	var yes bool
	cf.register(fs)
	fs.BoolVar(&yes, "yes", false, "Confirm clearing the chat history")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if !yes {
		return errors.New("refusing to clear history without --yes")
	}

	client, timeout, err := cf.client(root)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := client.Clear(ctx); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(out, "cleared")
	return nil
}

func statusMain(root rootArgs, args []string) {
	if err := runStatus(root, args, os.Stdout); err != nil {
		log.Fatalf("status failed: %v", err)
	}
}

func runStatus(root rootArgs, args []string, out io.Writer) error {
	fs := newFlagSet("status")
	var cf clientFlags
	var debug bool
	cf.register(fs)
	fs.BoolVar(&debug, "debug", false, "Include server diagnostics")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, timeout, err := cf.client(root)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	status, err := client.Status(ctx, debug)
	if err != nil {
		return err
	}
	state := "not in game"
	if status.InGame {
		state = "in game"
	}
	_, _ = fmt.Fprintf(out, "status: %s\n", state)
	if debug {
		for _, k := range sortedKeys(status.Debug) {
			_, _ = fmt.Fprintf(out, "  %s: %v\n", k, status.Debug[k])
		}
	}
	return nil
}

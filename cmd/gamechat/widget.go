package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"gamechat/internal/logger"
	"gamechat/internal/tui"
)

// runTUI 在测试中替换为不占用终端的实现。
var runTUI = tui.Run

func widgetMain(root rootArgs, args []string) {
	if err := runWidget(root, args, os.Stdout); err != nil {
		log.Fatalf("widget failed: %v", err)
	}
}

func runWidget(root rootArgs, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("widget", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var cfgPath string
	var id string
	var logFile string
	var overrides stringSlice
	fs.StringVar(&cfgPath, "config", "", "Path to config file (default ~/.gamechat/config.toml)")
	fs.StringVar(&id, "id", tui.DefaultID, "Widget id, also used as its log component")
	fs.StringVar(&logFile, "log-file", "", "Write widget logs to a separate file")
	fs.Var(&overrides, "c", "Override config value key=value (repeatable)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig(root, cfgPath, overrides)
	if err != nil {
		return err
	}
	var entry *logger.LogEntry
	if logFile != "" {
		e, closer, resolved, err := logger.SetupComponentFile(id, logFile)
		if err != nil {
			log.Warnf("failed to open widget log file: %v", err)
		} else {
			defer closer.Close()
			entry = e
			log.WithField("path", resolved).Info("widget logs redirected")
		}
	}

	client := newClient(cfg)
	log.WithField("url", client.BaseURL()).Info("starting chat widget")

	result, err := runTUI(tui.Options{
		Client:              client,
		ID:                  id,
		PollInterval:        cfg.PollInterval(),
		StickyThresholdRows: cfg.StickyThresholdRows,
		NoticeDuration:      cfg.NoticeDuration(),
		Log:                 entry,
	})
	if err != nil {
		return fmt.Errorf("program exit: %w", err)
	}
	if n := len(result.Messages); n > 0 {
		_, _ = fmt.Fprintf(out, "%d messages in history at %s\n", n, cfg.URL)
	}
	return nil
}

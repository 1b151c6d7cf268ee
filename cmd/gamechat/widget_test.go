package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"gamechat/internal/chat"
	"gamechat/internal/tui"

	"github.com/stretchr/testify/require"
)

func stubTUI(t *testing.T, fn func(tui.Options) (tui.Result, error)) {
	t.Helper()
	orig := runTUI
	runTUI = fn
	t.Cleanup(func() { runTUI = orig })
}

func TestRunWidgetPassesConfigAndLogFile(t *testing.T) {
	var got tui.Options
	stubTUI(t, func(opts tui.Options) (tui.Result, error) {
		got = opts
		opts.Log.Info("widget running")
		return tui.Result{Messages: []chat.Message{{Message: "a"}, {Message: "b"}}}, nil
	})

	logPath := filepath.Join(t.TempDir(), "widget.log")
	root := rootArgs{overrides: []string{"url=http://game.local:8080"}}
	args := append(configArg(t), "--id", "lobby", "--log-file", logPath, "-c", "poll_interval_ms=500", "-c", "notice_seconds=-1")

	var out bytes.Buffer
	require.NoError(t, runWidget(root, args, &out))
	require.Equal(t, "lobby", got.ID)
	require.Equal(t, 500*time.Millisecond, got.PollInterval)
	require.Equal(t, time.Duration(-1), got.NoticeDuration)
	require.NotNil(t, got.Client)
	require.Equal(t, "2 messages in history at http://game.local:8080\n", out.String())

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	require.Contains(t, string(data), "[lobby]")
}

func TestRunWidgetReturnsProgramError(t *testing.T) {
	stubTUI(t, func(tui.Options) (tui.Result, error) {
		return tui.Result{}, errors.New("no tty")
	})

	var out bytes.Buffer
	err := runWidget(rootArgs{}, append(configArg(t), "--log-file", filepath.Join(t.TempDir(), "w.log")), &out)
	require.ErrorContains(t, err, "no tty")
	require.Empty(t, out.String())
}

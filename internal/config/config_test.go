package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for env := range envKeys {
		t.Setenv(env, "")
	}
}

func TestDefault_Polling(t *testing.T) {
	cfg := Default()
	if cfg.PollInterval() != 2*time.Second {
		t.Fatalf("Default().PollInterval() = %v, want 2s", cfg.PollInterval())
	}
	if cfg.HistoryCapacity != 100 {
		t.Fatalf("Default().HistoryCapacity = %d, want 100", cfg.HistoryCapacity)
	}
	if cfg.StickyThresholdRows != 3 {
		t.Fatalf("Default().StickyThresholdRows = %d, want 3", cfg.StickyThresholdRows)
	}
}

func TestLoad_MissingFile_UsesDefaults(t *testing.T) {
	clearEnv(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Source != path {
		t.Fatalf("cfg.Source = %q, want %q", cfg.Source, path)
	}
	if cfg.URL != Default().URL {
		t.Fatalf("cfg.URL = %q, want %q", cfg.URL, Default().URL)
	}
}

func TestLoad_FromTOML(t *testing.T) {
	clearEnv(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(`
url = "http://game.test:9000"
poll_interval_ms = 500
history_path = "/tmp/chat.jsonl"
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.URL != "http://game.test:9000" {
		t.Fatalf("cfg.URL = %q", cfg.URL)
	}
	if cfg.PollInterval() != 500*time.Millisecond {
		t.Fatalf("cfg.PollInterval() = %v, want 500ms", cfg.PollInterval())
	}
	if cfg.HistoryPath != "/tmp/chat.jsonl" {
		t.Fatalf("cfg.HistoryPath = %q", cfg.HistoryPath)
	}
	if cfg.HistoryCapacity != 100 {
		t.Fatalf("unset keys should keep defaults, HistoryCapacity = %d", cfg.HistoryCapacity)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("GAMECHAT_URL", "http://env.test")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(`url = "http://file.test"`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.URL != "http://env.test" {
		t.Fatalf("cfg.URL = %q, want env value", cfg.URL)
	}
}

func TestApplyKVOverrides(t *testing.T) {
	cfg := Default()
	got := ApplyKVOverrides(cfg, []string{
		"url=http://x.test/",
		"poll_interval_ms=0",
		"history_capacity=5",
		"garbage",
	})
	if got.URL != "http://x.test" {
		t.Fatalf("URL = %q, want trailing slash trimmed", got.URL)
	}
	if got.PollIntervalMS != cfg.PollIntervalMS {
		t.Fatalf("PollIntervalMS = %d, zero should be rejected", got.PollIntervalMS)
	}
	if got.HistoryCapacity != 5 {
		t.Fatalf("HistoryCapacity = %d, want 5", got.HistoryCapacity)
	}
}

func TestNoticeDuration(t *testing.T) {
	tests := []struct {
		name      string
		overrides []string
		want      time.Duration
	}{
		{name: "default", want: 4 * time.Second},
		{name: "seconds", overrides: []string{"notice_seconds=7"}, want: 7 * time.Second},
		{name: "zero falls back", overrides: []string{"notice_seconds=0"}, want: 4 * time.Second},
		{name: "negative keeps notice", overrides: []string{"notice_seconds=-1"}, want: -1},
		{name: "below -1 ignored", overrides: []string{"notice_seconds=-9"}, want: 4 * time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := ApplyKVOverrides(Default(), tt.overrides)
			if got := cfg.NoticeDuration(); got != tt.want {
				t.Fatalf("NoticeDuration() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg := Default()
	cfg.URL = "http://saved.test"
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.URL != "http://saved.test" {
		t.Fatalf("loaded.URL = %q", loaded.URL)
	}
}

func TestInitRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if _, err := Init(path, Default(), false); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if _, err := Init(path, Default(), false); !errors.Is(err, ErrExists) {
		t.Fatalf("second Init err = %v, want ErrExists", err)
	}
	if _, err := Init(path, Default(), true); err != nil {
		t.Fatalf("forced Init: %v", err)
	}
}

package config

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// Config 是唯一持久化的配置文件结构，客户端与服务端共用。
type Config struct {
	URL                   string `toml:"url"`
	Listen                string `toml:"listen"`
	PollIntervalMS        int    `toml:"poll_interval_ms"`
	RequestTimeoutSeconds int    `toml:"request_timeout_seconds"`
	StickyThresholdRows   int    `toml:"sticky_threshold_rows"`
	NoticeSeconds         int    `toml:"notice_seconds"`
	HistoryPath           string `toml:"history_path"`
	HistoryCapacity       int    `toml:"history_capacity"`
	LogLevel              string `toml:"log_level"`
	Source                string `toml:"-"`
}

func Default() Config {
	return Config{
		URL:                   "http://127.0.0.1:8087",
		Listen:                "127.0.0.1:8087",
		PollIntervalMS:        2000,
		RequestTimeoutSeconds: 10,
		StickyThresholdRows:   3,
		NoticeSeconds:         4,
		HistoryCapacity:       100,
		LogLevel:              "info",
	}
}

func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".gamechat", "config.toml")
}

// PollInterval 返回轮询间隔，非法值回退到 2 秒。
func (c Config) PollInterval() time.Duration {
	if c.PollIntervalMS <= 0 {
		return 2 * time.Second
	}
	return time.Duration(c.PollIntervalMS) * time.Millisecond
}

// RequestTimeout 返回单次 HTTP 请求的超时。
func (c Config) RequestTimeout() time.Duration {
	if c.RequestTimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// NoticeDuration 返回被动提示的展示时长；负值表示提示一直保留到被下一条替换。
func (c Config) NoticeDuration() time.Duration {
	if c.NoticeSeconds == 0 {
		return 4 * time.Second
	}
	if c.NoticeSeconds < 0 {
		return -1
	}
	return time.Duration(c.NoticeSeconds) * time.Second
}

// Load 依次合并默认值、config.toml、.env 与 GAMECHAT_* 环境变量。
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath()
	}
	if path == "" {
		return cfg, errors.New("config path is empty and $HOME is not set")
	}
	cfg.Source = path

	// .env 缺失是常态，只影响环境变量来源。
	_ = godotenv.Load()

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return applyEnv(cfg), nil
		}
		return cfg, err
	}

	if err := toml.Unmarshal(content, &cfg); err != nil {
		return cfg, err
	}
	return applyEnv(cfg), nil
}

var envKeys = map[string]string{
	"GAMECHAT_URL":                     "url",
	"GAMECHAT_LISTEN":                  "listen",
	"GAMECHAT_POLL_INTERVAL_MS":        "poll_interval_ms",
	"GAMECHAT_REQUEST_TIMEOUT_SECONDS": "request_timeout_seconds",
	"GAMECHAT_STICKY_THRESHOLD_ROWS":   "sticky_threshold_rows",
	"GAMECHAT_NOTICE_SECONDS":          "notice_seconds",
	"GAMECHAT_HISTORY_PATH":            "history_path",
	"GAMECHAT_HISTORY_CAPACITY":        "history_capacity",
	"GAMECHAT_LOG_LEVEL":               "log_level",
}

func applyEnv(cfg Config) Config {
	var overrides []string
	for env, key := range envKeys {
		if val := strings.TrimSpace(os.Getenv(env)); val != "" {
			overrides = append(overrides, key+"="+val)
		}
	}
	return ApplyKVOverrides(cfg, overrides)
}

func setInt(dst *int, val string, min int) {
	n, err := strconv.Atoi(val)
	if err != nil || n < min {
		return
	}
	*dst = n
}

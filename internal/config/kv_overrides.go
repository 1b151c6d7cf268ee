package config

import (
	"strings"
)

// ApplyKVOverrides applies free-form -c key=value overrides.
func ApplyKVOverrides(cfg Config, overrides []string) Config {
	if len(overrides) == 0 {
		return cfg
	}
	for _, raw := range overrides {
		parts := strings.SplitN(raw, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		val := strings.TrimSpace(parts[1])
		switch key {
		case "url":
			cfg.URL = strings.TrimRight(val, "/")
		case "listen", "addr":
			cfg.Listen = val
		case "poll_interval_ms", "poll-interval-ms":
			setInt(&cfg.PollIntervalMS, val, 1)
		case "request_timeout_seconds", "timeout":
			setInt(&cfg.RequestTimeoutSeconds, val, 1)
		case "sticky_threshold_rows":
			setInt(&cfg.StickyThresholdRows, val, 0)
		case "notice_seconds":
			setInt(&cfg.NoticeSeconds, val, -1)
		case "history_path":
			cfg.HistoryPath = val
		case "history_capacity":
			setInt(&cfg.HistoryCapacity, val, 1)
		case "log_level":
			cfg.LogLevel = val
		}
	}
	return cfg
}

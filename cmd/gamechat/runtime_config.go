package main

import (
	"fmt"

	"gamechat/internal/chatapi"
	"gamechat/internal/config"
	"gamechat/internal/logger"
)

// loadConfig 依次应用配置文件、环境变量、全局 -c 与子命令 -c。
func loadConfig(root rootArgs, cfgPath string, overrides []string) (config.Config, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	cfg = config.ApplyKVOverrides(cfg, prependOverrides(root.overrides, overrides))
	if err := logger.SetLevel(cfg.LogLevel); err != nil {
		log.Warnf("ignore log_level %q: %v", cfg.LogLevel, err)
	}
	return cfg, nil
}

func newClient(cfg config.Config) *chatapi.Client {
	return chatapi.New(cfg.URL, chatapi.Options{Timeout: cfg.RequestTimeout()})
}

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// ErrExists 表示目标配置文件已存在且未要求覆盖。
var ErrExists = errors.New("config file already exists")

// Save 将配置写入 path（为空时使用 DefaultPath）。
func Save(path string, cfg Config) error {
	return write(path, cfg, true)
}

// Init 写出一份配置模板，已存在的文件只有在 force 时才覆盖。
func Init(path string, cfg Config, force bool) (string, error) {
	if path == "" {
		path = DefaultPath()
	}
	if err := write(path, cfg, force); err != nil {
		return path, err
	}
	return path, nil
}

func write(path string, cfg Config, overwrite bool) error {
	if path == "" {
		path = DefaultPath()
	}
	if path == "" {
		return errors.New("config path is empty and $HOME is not set")
	}
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%w: %s", ErrExists, path)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"

	"gamechat/internal/config"
)

func initMain(root rootArgs, args []string) {
	if err := runInit(root, args, os.Stdout); err != nil {
		log.Fatalf("init failed: %v", err)
	}
}

// runInit 写出默认配置；全局 -c 会写进模板。
func runInit(root rootArgs, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var cfgPath string
	var force bool
	fs.StringVar(&cfgPath, "config", "", "Where to write the config (default ~/.gamechat/config.toml)")
	fs.BoolVar(&force, "force", false, "Overwrite an existing config file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := config.ApplyKVOverrides(config.Default(), root.overrides)
	path, err := config.Init(cfgPath, cfg, force)
	if errors.Is(err, config.ErrExists) {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out, "wrote %s\n", path)
	return nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

package main

import (
	"fmt"
	"strings"
)

type rootArgs struct {
	overrides []string
}

// parseRootArgs 只提取子命令之前的 -c 与 --url；遇到第一个其它参数即停止，
// 剩余参数原样交给子命令（省略子命令时交给 widget）。
func parseRootArgs(args []string) (rootArgs, []string, error) {
	var overrides []string
	var url string
	i := 0
	for i < len(args) {
		name, value, hasValue := splitFlag(args[i])
		if name != "c" && name != "url" {
			break
		}
		if !hasValue {
			if i+1 >= len(args) {
				return rootArgs{}, nil, fmt.Errorf("flag needs an argument: -%s", name)
			}
			value = args[i+1]
			i++
		}
		i++
		if name == "c" {
			overrides = append(overrides, value)
		} else {
			url = value
		}
	}
	if url != "" {
		overrides = append(overrides, "url="+url)
	}
	return rootArgs{overrides: overrides}, args[i:], nil
}

func splitFlag(arg string) (name, value string, hasValue bool) {
	if !strings.HasPrefix(arg, "-") || arg == "-" || arg == "--" {
		return "", "", false
	}
	name = strings.TrimLeft(arg, "-")
	if k, v, ok := strings.Cut(name, "="); ok {
		return k, v, true
	}
	return name, "", false
}

func prependOverrides(root []string, overrides []string) []string {
	merged := append([]string{}, root...)
	return append(merged, overrides...)
}

package main

import (
	"os"

	"gamechat/internal/logger"
)

var log = logger.Named("cli")

func main() {
	logger.Configure()
	if logFile, _, err := logger.SetupFile(logger.DefaultLogPath); err != nil {
		log.Warnf("failed to initialize log file: %v", err)
	} else {
		defer logFile.Close()
	}

	root, rest, err := parseRootArgs(os.Args[1:])
	if err != nil {
		log.Fatalf("parse args: %v", err)
	}
	if len(rest) > 0 {
		switch rest[0] {
		case "widget":
			widgetMain(root, rest[1:])
			return
		case "serve":
			serveMain(root, rest[1:])
			return
		case "send":
			sendMain(root, rest[1:])
			return
		case "history":
			historyMain(root, rest[1:])
			return
		case "clear":
			clearMain(root, rest[1:])
			return
		case "status":
			statusMain(root, rest[1:])
			return
		case "init":
			initMain(root, rest[1:])
			return
		case "completion":
			completionMain(rest[1:])
			return
		}
	}

	widgetMain(root, rest)
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"psx-tracker/internal/cli"
	"psx-tracker/internal/config"
	"psx-tracker/internal/logging"
)

func main() {
	cfg, err := config.Load(configDirFromArgs(os.Args[1:]))
	if err != nil {
		fmt.Fprintf(os.Stderr, "psx-tracker: %v\n", err)
		os.Exit(1)
	}

	logCfg := logging.DefaultLogConfig()
	logCfg.Level = cfg.Logging.Level
	logCfg.Console = cfg.Logging.Console
	logCfg.File = cfg.Logging.File
	logger := logging.NewLoggerWithConfig(logCfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd, app := cli.NewRootCmd(cfg, logger)
	err = rootCmd.ExecuteContext(ctx)

	if cerr := app.Close(); cerr != nil {
		logger.Warn().Err(cerr).Msg("Failed to close store")
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "psx-tracker: %v\n", err)
		os.Exit(1)
	}
}

// configDirFromArgs pre-scans for --config so the directory is known before
// cobra parses flags.
func configDirFromArgs(args []string) string {
	for i, arg := range args {
		if arg == "--config" && i+1 < len(args) {
			return args[i+1]
		}
		if len(arg) > 9 && arg[:9] == "--config=" {
			return arg[9:]
		}
	}
	return ""
}

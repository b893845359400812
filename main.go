package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"nanogen/cli"
	"nanogen/core"
	"nanogen/history"
	"nanogen/logging"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Load .env file if it exists; a missing file is fine.
	_ = godotenv.Load()

	config, err := core.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		if cfgErr, ok := core.IsConfigError(err); ok && cfgErr.Action != "" {
			fmt.Fprintf(os.Stderr, "  %s\n", cfgErr.Action)
		}
		return core.ExitCodeError
	}

	logger, err := logging.NewLogger(config.DevMode, config.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		return core.ExitCodeError
	}
	defer logger.Sync()

	logger.Info("configuration loaded",
		zap.String("provider", config.Provider),
		zap.String("model", config.DefaultModel()),
		zap.Int("max_concurrent", config.MaxConcurrent),
		zap.Int("rpm_limit", config.RPMLimit),
		zap.Int("max_retries", config.MaxRetries),
		zap.Duration("retry_base_delay", config.RetryBaseDelay),
	)

	// Ctrl+C cancels the context; in-flight work drains and stats stay
	// consistent.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var store *history.Store
	if config.HistoryDB != "" {
		store, err = history.Open(config.HistoryDB, logger)
		if err != nil {
			// The ledger is best-effort; generation proceeds without it.
			logger.Warn("history ledger unavailable", zap.Error(err))
			fmt.Fprintf(os.Stderr, "Warning: history ledger unavailable: %v\n", err)
			store = nil
		} else {
			defer store.Close()
		}
	}

	app := &cli.App{
		Config: config,
		Logger: logger,
		Store:  store,
	}

	if err := cli.Execute(ctx, app); err != nil {
		code := cli.ExitCode(err)
		if code == core.ExitCodeSIGINT {
			fmt.Fprintln(os.Stderr, "Interrupted.")
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		logger.Error("command failed", zap.Error(err), zap.Int("exit_code", code))
		return code
	}

	return core.ExitCodeSuccess
}

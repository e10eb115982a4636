package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/fxarb/arbiter/arbconfig"
	"github.com/fxarb/arbiter/arbtypes"
)

var (
	configPath string
	logLevel   string
	logFormat  string

	cfg    *arbconfig.Config
	logger *slog.Logger

	rootCmd = &cobra.Command{
		Use:   "arbiter",
		Short: "Detects currency-exchange arbitrage cycles over a live rate graph",
		Long: `arbiter ingests a stream of exchange-rate edges, maintains them in a
compact graph, and continuously searches for profitable arbitrage cycles.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger = newLogger(logLevel, logFormat)

			loaded, err := arbconfig.Load(configPath, logger)
			if err != nil {
				return err
			}
			cfg = loaded

			// Explicit flags win; otherwise log.level/log.format from the
			// loaded configuration apply.
			level, format := logLevel, logFormat
			if !cmd.Flags().Changed("log-level") {
				level = cfg.Log.Level
			}
			if !cmd.Flags().Changed("log-format") {
				format = cfg.Log.Format
			}
			logger = newLogger(level, format)
			return nil
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "./arbiter.yaml", "path to the YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log verbosity: debug|info|warn|error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format: text|json")

	rootCmd.AddCommand(simCmd)
	rootCmd.AddCommand(csvCmd)
}

func newLogger(level, format string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: lvl}
	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}

// signalContext returns a context cancelled on SIGINT/SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// exitCodeFor maps a pipeline error to a process exit code: 0 for a clean
// shutdown (including a finite stream's ErrChannelClosed-style completion),
// non-zero for IoError or ConfigurationError conditions.
func exitCodeFor(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return 0
	case errors.Is(err, io.EOF), errors.Is(err, arbtypes.ErrChannelClosed):
		return 0
	case errors.Is(err, arbtypes.ErrConfiguration):
		return 2
	default:
		return 1
	}
}

package bootstrap

import (
	"log/slog"
	"os"
	"strings"

	"github.com/init-pkg/sheet-relay/internal/config"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
)

func coreOptions() fx.Option {
	return fx.Options(
		fx.Provide(
			config.MustLoad,
			newLogger,
		),
		fx.WithLogger(func(log *slog.Logger) fxevent.Logger {
			l := &fxevent.SlogLogger{Logger: log}
			l.UseLogLevel(slog.LevelDebug)
			return l
		}),
	)
}

func newLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Log.Level)}

	var handler slog.Handler
	switch cfg.Env {
	case "local", "test":
		handler = slog.NewTextHandler(os.Stdout, opts)
	default:
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return slog.New(handler).With("env", cfg.Env)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

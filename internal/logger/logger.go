package logger

import (
	"io"
	"log/slog"
	"os"

	"github.com/getsentry/sentry-go"
	slogmulti "github.com/samber/slog-multi"
	slogsentry "github.com/samber/slog-sentry/v2"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Log is the global logger instance
var Log *slog.Logger

// Options controls where logs are written
type Options struct {
	IsDev     bool
	SentryDSN string // Errors are forwarded to Sentry when set
	File      string // Additional JSON log file with rotation when set
}

// Init initializes the global logger based on environment
// Development: Text format with Debug level
// Production: JSON format with Info level
// Optionally sends errors to Sentry and mirrors logs to a rotated file
func Init(opts Options) {
	slog.SetDefault(New(opts, os.Stdout))
	Log = slog.Default()
}

// New builds the handler fan-out without touching the global logger
func New(opts Options, stdout io.Writer) *slog.Logger {
	var handlers []slog.Handler

	// Base handler for stdout (always enabled)
	if opts.IsDev {
		handlers = append(handlers, slog.NewTextHandler(stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	} else {
		handlers = append(handlers, slog.NewJSONHandler(stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
	}

	if opts.File != "" {
		handlers = append(handlers, slog.NewJSONHandler(&lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    100, // megabytes
			MaxBackups: 5,
			MaxAge:     28, // days
			Compress:   true,
		}, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
	}

	// Optional Sentry handler (sends errors only)
	if opts.SentryDSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:              opts.SentryDSN,
			TracesSampleRate: 1.0,
		})
		if err == nil {
			handlers = append(handlers, slogsentry.Option{
				Level: slog.LevelError,
			}.NewSentryHandler())
		}
	}

	// Use multi-handler if we have multiple, otherwise use single
	var handler slog.Handler
	if len(handlers) > 1 {
		handler = slogmulti.Fanout(handlers...)
	} else {
		handler = handlers[0]
	}

	return slog.New(handler)
}

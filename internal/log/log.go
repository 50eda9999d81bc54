// Package log provides structured logging for go-grasp.
// It wraps slog with sensible defaults for production use.
package log

import (
	"log/slog"
	"os"
	"sync"
	"time"
)

var (
	logger *slog.Logger
	once   sync.Once
)

// Init initializes the global logger with the specified level.
// Valid levels: "debug", "info", "warn", "error"
func Init(level string) {
	once.Do(func() {
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

		opts := &slog.HandlerOptions{
			Level: lvl,
		}

		// Use JSON in production, text in development
		if os.Getenv("GO_ENV") == "production" {
			logger = slog.New(slog.NewJSONHandler(os.Stdout, opts))
		} else {
			logger = slog.New(slog.NewTextHandler(os.Stdout, opts))
		}

		slog.SetDefault(logger)
	})
}

// L returns the global logger instance.
func L() *slog.Logger {
	if logger == nil {
		Init("info")
	}
	return logger
}

// Debug logs at debug level.
func Debug(msg string, args ...any) {
	L().Debug(msg, args...)
}

// Info logs at info level.
func Info(msg string, args ...any) {
	L().Info(msg, args...)
}

// Warn logs at warn level.
func Warn(msg string, args ...any) {
	L().Warn(msg, args...)
}

// Error logs at error level.
func Error(msg string, args ...any) {
	L().Error(msg, args...)
}

// With returns a logger with the given attributes.
func With(args ...any) *slog.Logger {
	return L().With(args...)
}

var (
	lastMu   sync.Mutex
	lastSeen = make(map[string]time.Time)
)

// Allow reports whether the named site may log again, passing at most
// one call per interval. The 60Hz tick loop uses it so a persistent
// fault produces one line every few seconds instead of sixty per
// second.
func Allow(site string, interval time.Duration) bool {
	lastMu.Lock()
	defer lastMu.Unlock()

	now := time.Now()
	if last, ok := lastSeen[site]; ok && now.Sub(last) < interval {
		return false
	}
	lastSeen[site] = now
	return true
}

// ErrorEvery logs at error level at most once per interval for the
// given site. Calls inside the interval are dropped.
func ErrorEvery(interval time.Duration, site string, msg string, args ...any) {
	if Allow(site, interval) {
		Error(msg, args...)
	}
}

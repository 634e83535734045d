package logger

import (
	"log/slog"
	"os"
	"strings"
	"sync"
)

var (
	log  *slog.Logger
	once sync.Once
)

// Init configures the process-wide logger. Level is one of debug, info,
// warn, error; format is "json" or "text".
func Init(level string, format string) {
	once.Do(func() {
		log = newLogger(level, format)
		slog.SetDefault(log)
	})
}

func newLogger(level string, format string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
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
	if strings.ToLower(format) == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}

func get() *slog.Logger {
	if log == nil {
		Init("info", "json")
	}
	return log
}

// Info logs at info level with alternating key/value pairs.
func Info(msg string, args ...any) {
	get().Info(msg, normalize(args)...)
}

// Warn logs at warn level with alternating key/value pairs.
func Warn(msg string, args ...any) {
	get().Warn(msg, normalize(args)...)
}

// Error logs at error level. A bare error argument is recorded under the
// "error" key so call sites can pass either an error or key/value pairs.
func Error(msg string, args ...any) {
	get().Error(msg, normalize(args)...)
}

// normalize allows call sites like Error("msg", err) alongside
// Error("msg", "k", v). Errors in key position are given an "error" key.
func normalize(args []any) []any {
	out := make([]any, 0, len(args)+1)
	for i := 0; i < len(args); i++ {
		if err, ok := args[i].(error); ok {
			out = append(out, "error", err)
			continue
		}
		if i+1 < len(args) {
			out = append(out, args[i], args[i+1])
			i++
			continue
		}
		out = append(out, "detail", args[i])
	}
	return out
}

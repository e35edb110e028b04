package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/turbot/pipe-fittings/constants"
	"github.com/turbot/pipe-fittings/sanitize"

	localconstants "github.com/turbot/tailpipe-plugin-envi/constants"
)

// Initialize sets the default logger for the named command, writing to stderr
func Initialize(name string) {
	slog.SetDefault(NewLogger(name, os.Stderr))
}

// NewLogger returns a logger which writes to w and sanitizes log entries
// the level is read from ENVI_LOG_LEVEL (logging is off by default),
// the handler from ENVI_LOG_FORMAT (json by default)
func NewLogger(name string, w io.Writer) *slog.Logger {
	level := getLogLevel()
	if level == constants.LogLevelOff {
		return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
	}

	handlerOptions := &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: replaceAttr,
	}

	var handler slog.Handler
	switch strings.ToLower(os.Getenv(localconstants.EnvLogFormat)) {
	case "text":
		handler = slog.NewTextHandler(w, handlerOptions)
	default:
		handler = slog.NewJSONHandler(w, handlerOptions)
	}
	return slog.New(handler).With("source", fmt.Sprintf("envi-%s", name))
}

// replaceAttr sanitizes attribute values; durations are logged in milliseconds
func replaceAttr(_ []string, a slog.Attr) slog.Attr {
	switch v := a.Value.Any().(type) {
	case time.Duration:
		return slog.Int64(a.Key, v.Milliseconds())
	case error:
		a.Value = slog.StringValue(v.Error())
	}
	return slog.Attr{
		Key:   a.Key,
		Value: slog.AnyValue(sanitize.Instance.SanitizeKeyValue(a.Key, a.Value.Any())),
	}
}

func getLogLevel() slog.Leveler {
	switch strings.ToLower(os.Getenv(localconstants.EnvLogLevel)) {
	case "trace", "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return constants.LogLevelOff
	}
}

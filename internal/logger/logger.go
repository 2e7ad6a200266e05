package logger

import (
	"log/slog"
	"os"
	"strings"
)

var Log *slog.Logger

// Audit is a separate logger for security-relevant events: login attempts,
// auth failures and admin mutations. It shares the handler with Log but every
// record carries log=audit so the stream can be split downstream.
var Audit *slog.Logger

func init() {
	// Auto-initialize with safe defaults for tests and development
	// Production code can override by calling Initialize() explicitly
	Initialize("info", false)
}

// Initialize sets up the global loggers with the specified level and format
func Initialize(level string, useJSON bool) {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		Level:     parseLevel(level),
		AddSource: true,
	}

	if useJSON {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	Log = slog.New(handler)
	Audit = Log.With("log", "audit")
	slog.SetDefault(Log)
}

// LoginAttempt records a login attempt to the audit stream.
func LoginAttempt(ip, email string, success bool) {
	Audit.Info("login attempt", "ip", ip, "email", email, "success", success)
}

// AdminAction records an admin mutation to the audit stream.
func AdminAction(actor string, action string, args ...any) {
	Audit.Info("admin action", append([]any{"actor", actor, "action", action}, args...)...)
}

// parseLevel converts string log level to slog.Level
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

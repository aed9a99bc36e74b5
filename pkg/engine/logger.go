package engine

import (
	"io"
	"log/slog"
)

// NewLogger builds the slog logger used across smartroute. Sensitive keys
// are redacted before they reach the handler.
func NewLogger(w io.Writer, level slog.Level, json bool) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: redactSensitiveData,
	}
	if json {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// redactSensitiveData scrubs credentials that may travel with storage and
// telemetry settings.
func redactSensitiveData(groups []string, a slog.Attr) slog.Attr {
	sensitiveKeys := map[string]bool{
		"password": true, "access_key": true, "secret_key": true, "token": true,
		"session_token": true, "secret": true, "credential": true,
		"authorization": true, "otel_headers": true,
	}

	if sensitiveKeys[a.Key] {
		return slog.Attr{
			Key:   a.Key,
			Value: slog.StringValue("[REDACTED]"),
		}
	}
	return a
}

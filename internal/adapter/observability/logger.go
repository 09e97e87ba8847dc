package observability

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strings"
)

// Logger provides structured logging for the dataset and verification
// services. The codec itself never logs; everything observable happens at
// this layer.
type Logger interface {
	LogInfo(ctx context.Context, message string, fields map[string]interface{})
	LogWarning(ctx context.Context, message string, fields map[string]interface{})
	LogError(ctx context.Context, message string, fields map[string]interface{})
}

// LogLevel defines the logging verbosity level.
type LogLevel int

const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarning
	LogLevelError
)

// LogFormat defines the output format for logs.
type LogFormat int

const (
	LogFormatHuman LogFormat = iota
	LogFormatJSON
)

// ParseLevel maps a config string to a LogLevel, defaulting to info.
func ParseLevel(level string) LogLevel {
	switch level {
	case "debug":
		return LogLevelDebug
	case "warning", "warn":
		return LogLevelWarning
	case "error":
		return LogLevelError
	default:
		return LogLevelInfo
	}
}

// ParseFormat maps a config string to a LogFormat, defaulting to human.
func ParseFormat(format string) LogFormat {
	if format == "json" {
		return LogFormatJSON
	}
	return LogFormatHuman
}

// DefaultLogger writes structured logs via the standard log package.
type DefaultLogger struct {
	level        LogLevel
	format       LogFormat
	redactPepper bool
}

// NewDefaultLogger creates a logger with the specified config.
func NewDefaultLogger(level LogLevel, format LogFormat, redactPepper bool) *DefaultLogger {
	return &DefaultLogger{
		level:        level,
		format:       format,
		redactPepper: redactPepper,
	}
}

// LogInfo logs an informational message with structured fields.
func (l *DefaultLogger) LogInfo(ctx context.Context, message string, fields map[string]interface{}) {
	if l.level > LogLevelInfo {
		return
	}
	l.write("info", message, fields)
}

// LogWarning logs a warning message with structured fields.
func (l *DefaultLogger) LogWarning(ctx context.Context, message string, fields map[string]interface{}) {
	if l.level > LogLevelWarning {
		return
	}
	l.write("warning", message, fields)
}

// LogError logs an error message with structured fields.
func (l *DefaultLogger) LogError(ctx context.Context, message string, fields map[string]interface{}) {
	l.write("error", message, fields)
}

func (l *DefaultLogger) write(level, message string, fields map[string]interface{}) {
	fields = l.sanitize(fields)

	if l.format == LogFormatJSON {
		entry := map[string]interface{}{
			"level":   level,
			"message": message,
		}
		for k, v := range fields {
			entry[k] = v
		}
		payload, err := json.Marshal(entry)
		if err != nil {
			log.Printf(`{"level":"error","message":"log entry not serializable: %v"}`, err)
			return
		}
		log.Print(string(payload))
		return
	}

	log.Printf("[%s] %s%s", strings.ToUpper(level), message, formatFields(fields))
}

// sanitize redacts any pepper field so the server secret never reaches a
// log sink.
func (l *DefaultLogger) sanitize(fields map[string]interface{}) map[string]interface{} {
	if !l.redactPepper || len(fields) == 0 {
		return fields
	}
	sanitized := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		if strings.Contains(strings.ToLower(k), "pepper") {
			if s, ok := v.(string); ok {
				sanitized[k] = RedactSecret(s)
				continue
			}
		}
		sanitized[k] = v
	}
	return sanitized
}

func formatFields(fields map[string]interface{}) string {
	if len(fields) == 0 {
		return ""
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var builder strings.Builder
	builder.WriteString(" (")
	for i, k := range keys {
		if i > 0 {
			builder.WriteString(", ")
		}
		fmt.Fprintf(&builder, "%s=%v", k, fields[k])
	}
	builder.WriteString(")")
	return builder.String()
}

// RedactSecret shows only the last 4 characters of a secret with explicit
// redaction markers.
func RedactSecret(secret string) string {
	if len(secret) <= 4 {
		return "[REDACTED]"
	}
	return fmt.Sprintf("[REDACTED-%s]", secret[len(secret)-4:])
}

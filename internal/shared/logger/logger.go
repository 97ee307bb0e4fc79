package logger

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"sync"
	"time"
)

// ErrorObject represents the error format.
type ErrorObject struct {
	Msg   string `json:"msg"`
	Stack string `json:"stack"`
}

// LogEntry represents the structured log format: one JSON object per line.
type LogEntry struct {
	Timestamp string       `json:"timestamp"`
	Level     string       `json:"level"`
	Service   string       `json:"service"`
	Action    string       `json:"action"`
	Message   string       `json:"message"`
	Hostname  string       `json:"hostname"`
	RequestID string       `json:"request_id"`
	Error     *ErrorObject `json:"error,omitempty"`
	Details   any          `json:"details,omitempty"`
}

// Logger writes structured log lines for one service. Entries from the
// realtime fan-out and the mail worker interleave on the same writer, so
// writes are serialized.
type Logger struct {
	service  string
	hostname string

	mu  sync.Mutex
	out io.Writer
}

// NewLogger creates a structured logger writing to stdout.
func NewLogger(service string) *Logger {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}

	return &Logger{
		service:  service,
		hostname: hostname,
		out:      os.Stdout,
	}
}

// Define an unexported type for context keys.
type ctxKey string

// requestIDKey is the context key for the request ID.
const requestIDKey ctxKey = "request_id"

// WithRequestID returns a context carrying a request id (useful for HTTP/socket hops).
func (logger *Logger) WithRequestID(ctx context.Context, rid string) context.Context {
	return context.WithValue(ctx, requestIDKey, rid)
}

// requestIDFrom returns a value saved in the context.
func requestIDFrom(ctx context.Context) string {
	if v := ctx.Value(requestIDKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// emit assembles and writes one entry.
func (logger *Logger) emit(ctx context.Context, level, action, msg string, details any, errObj *ErrorObject) {
	entry := LogEntry{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Level:     level,
		Service:   logger.service,
		Action:    action,
		Message:   msg,
		Hostname:  logger.hostname,
		RequestID: requestIDFrom(ctx),
		Error:     errObj,
		Details:   details,
	}

	b, err := json.Marshal(entry)
	if err != nil {
		fmt.Fprintf(os.Stderr, "log marshal failed: %v\n", err)
		return
	}

	logger.mu.Lock()
	defer logger.mu.Unlock()
	fmt.Fprintln(logger.out, string(b))
}

// Info records normal lifecycle events (startup, connections, shutdown).
func (logger *Logger) Info(ctx context.Context, action, msg string, details any) {
	logger.emit(ctx, "INFO", action, msg, details, nil)
}

// Debug records per-message noise: registrations, fan-out counts, skips.
func (logger *Logger) Debug(ctx context.Context, action, msg string, details any) {
	logger.emit(ctx, "DEBUG", action, msg, details, nil)
}

// Warn is used on best-effort paths (dropped deliveries, skipped side effects)
// that must stay non-fatal.
func (logger *Logger) Warn(ctx context.Context, action, msg string, details any) {
	logger.emit(ctx, "WARN", action, msg, details, nil)
}

// Error attaches the error text and a stack to the entry.
func (logger *Logger) Error(ctx context.Context, action, msg string, err error) {
	errObj := &ErrorObject{Stack: string(debug.Stack())}
	if err != nil {
		errObj.Msg = err.Error()
	}
	logger.emit(ctx, "ERROR", action, msg, nil, errObj)
}

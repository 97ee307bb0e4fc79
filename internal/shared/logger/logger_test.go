package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureLogger() (*Logger, *bytes.Buffer) {
	log := NewLogger("test-service")
	buf := &bytes.Buffer{}
	log.out = buf
	return log, buf
}

func lastEntry(t *testing.T, buf *bytes.Buffer) LogEntry {
	t.Helper()
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	var entry LogEntry
	require.NoError(t, json.Unmarshal(lines[len(lines)-1], &entry))
	return entry
}

func TestLoggerLevels(t *testing.T) {
	log, buf := captureLogger()
	ctx := context.Background()

	log.Info(ctx, "service_started", "up", map[string]any{"port": 3000})
	entry := lastEntry(t, buf)
	assert.Equal(t, "INFO", entry.Level)
	assert.Equal(t, "test-service", entry.Service)
	assert.Equal(t, "service_started", entry.Action)
	assert.NotEmpty(t, entry.Timestamp)
	assert.NotEmpty(t, entry.Hostname)
	assert.Nil(t, entry.Error)

	log.Warn(ctx, "email_dropped", "queue full", nil)
	assert.Equal(t, "WARN", lastEntry(t, buf).Level)

	log.Debug(ctx, "broadcast_sent", "fanned out", nil)
	assert.Equal(t, "DEBUG", lastEntry(t, buf).Level)
}

func TestLoggerError(t *testing.T) {
	log, buf := captureLogger()

	log.Error(context.Background(), "db_connection_failed", "boom", errors.New("refused"))
	entry := lastEntry(t, buf)
	assert.Equal(t, "ERROR", entry.Level)
	require.NotNil(t, entry.Error)
	assert.Equal(t, "refused", entry.Error.Msg)
	assert.NotEmpty(t, entry.Error.Stack)

	// a nil error must not panic the logging path
	log.Error(context.Background(), "db_connection_failed", "boom", nil)
	entry = lastEntry(t, buf)
	require.NotNil(t, entry.Error)
	assert.Empty(t, entry.Error.Msg)
}

func TestLoggerRequestID(t *testing.T) {
	log, buf := captureLogger()

	ctx := log.WithRequestID(context.Background(), "req-42")
	log.Info(ctx, "order_received", "new order", nil)
	assert.Equal(t, "req-42", lastEntry(t, buf).RequestID)

	log.Info(context.Background(), "order_received", "new order", nil)
	assert.Empty(t, lastEntry(t, buf).RequestID)
}

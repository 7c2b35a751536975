package utils

import (
	"bytes"
	"encoding/json"
	"errors"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
)

func captureLogger() (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return &Logger{logger: log.New(&buf, "", 0)}, &buf
}

func decodeEntry(t *testing.T, buf *bytes.Buffer) LogEntry {
	var entry LogEntry
	err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry)
	assert.NoError(t, err)
	return entry
}

func TestLoggerInfoEmitsJSON(t *testing.T) {
	l, buf := captureLogger()
	l.Info("Server starting", map[string]interface{}{"port": "8081"})

	entry := decodeEntry(t, buf)
	assert.Equal(t, INFO, entry.Level)
	assert.Equal(t, "Server starting", entry.Message)
	assert.Equal(t, map[string]interface{}{"port": "8081"}, entry.Data)
	assert.False(t, entry.Timestamp.IsZero())
}

func TestLoggerWarnLevel(t *testing.T) {
	l, buf := captureLogger()
	l.Warn("Screenshot upload failed")

	entry := decodeEntry(t, buf)
	assert.Equal(t, WARN, entry.Level)
	assert.Empty(t, entry.Error)
}

func TestLoggerErrorIncludesCause(t *testing.T) {
	l, buf := captureLogger()
	l.Error("Failed to load profile", errors.New("connection refused"))

	entry := decodeEntry(t, buf)
	assert.Equal(t, ERROR, entry.Level)
	assert.Equal(t, "connection refused", entry.Error)
}

func TestLoggerErrorNilCause(t *testing.T) {
	l, buf := captureLogger()
	l.Error("Unauthorized", nil)

	entry := decodeEntry(t, buf)
	assert.Equal(t, ERROR, entry.Level)
	assert.Empty(t, entry.Error)
}

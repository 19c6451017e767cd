package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{level: "debug", want: slog.LevelDebug},
		{level: "info", want: slog.LevelInfo},
		{level: "warn", want: slog.LevelWarn},
		{level: "warning", want: slog.LevelWarn},
		{level: "error", want: slog.LevelError},
		{level: "unknown", want: slog.LevelInfo},
		{level: "", want: slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLevel(tt.level))
		})
	}
}

func TestNewWithWriter_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&Config{Level: "info", Format: "json"}, &buf)

	log.Info("Video reconciled", slog.String("video_id", "v1"))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "Video reconciled", entry["msg"])
	assert.Equal(t, "v1", entry["video_id"])
}

func TestNewWithWriter_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&Config{Level: "warn", Format: "json"}, &buf)

	log.Info("dropped")
	assert.Zero(t, buf.Len())

	log.Warn("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestNewWithWriter_ConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&Config{Level: "debug", Format: "console"}, &buf)

	log.Debug("Worker started", slog.Int("concurrency", 4))

	out := buf.String()
	assert.Contains(t, out, "Worker started")
	assert.Contains(t, out, "concurrency")
}

func TestWith(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&Config{Level: "info", Format: "json"}, &buf)

	log.With("worker_id", "w-1").Info("processing")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "w-1", entry["worker_id"])
}

func TestNew(t *testing.T) {
	log, err := New(&Config{Level: "info", Format: "console", Output: "stderr"})
	require.NoError(t, err)
	require.NotNil(t, log)
}

func TestNewDefault(t *testing.T) {
	assert.NotNil(t, NewDefault())
}

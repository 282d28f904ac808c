package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestReleaseModeWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	log := newWithWriter(&buf, "info", "release")

	log.With("component", "broadcaster").Info(context.Background(), "alert reported", "id", 42)
	log.Debug(context.Background(), "filtered")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "alert reported", entry["msg"])
	assert.Equal(t, "broadcaster", entry["component"])
	assert.EqualValues(t, 42, entry["id"])
}

func TestDebugModeWritesText(t *testing.T) {
	var buf bytes.Buffer
	log := newWithWriter(&buf, "debug", "debug")

	log.Warn(context.Background(), "push failed", "endpoint", "https://push.example/1")

	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), `msg="push failed"`)
}

package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type errorCloser struct {
	err error
}

func (e *errorCloser) Close() error { return e.err }

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestNew_Format(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, "info", "json").Info("hello", "k", "v")
	assert.Contains(t, buf.String(), `"msg":"hello"`)

	buf.Reset()
	New(&buf, "info", "text").Info("hello", "k", "v")
	assert.Contains(t, buf.String(), "msg=hello")

	buf.Reset()
	New(&buf, "warn", "text").Info("dropped")
	assert.Empty(t, buf.String())
}

func TestLogError(t *testing.T) {
	var buf bytes.Buffer
	logger := NewStructuredLogger(&buf, slog.LevelInfo)

	LogError(logger, "fetch failed", errors.New("boom"), slog.String("stop", "53241"))

	out := buf.String()
	assert.Contains(t, out, `"level":"ERROR"`)
	assert.Contains(t, out, `"msg":"fetch failed"`)
	assert.Contains(t, out, `"error":"boom"`)
	assert.Contains(t, out, `"stop":"53241"`)

	assert.NotPanics(t, func() { LogError(nil, "ignored", errors.New("x")) })
}

func TestLogOperation_SkipsZeroDuration(t *testing.T) {
	var buf bytes.Buffer
	logger := NewStructuredLogger(&buf, slog.LevelInfo)

	LogOperation(logger, "cycle", slog.Duration("duration", 0), slog.Int("services", 2))
	out := buf.String()
	assert.Contains(t, out, `"services":2`)
	assert.NotContains(t, out, `"duration"`)

	buf.Reset()
	LogOperation(logger, "cycle", slog.Duration("duration", time.Second))
	assert.Contains(t, buf.String(), `"duration"`)
}

func TestSafeCloseWithLogging(t *testing.T) {
	t.Run("logs close failure", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelInfo)

		SafeCloseWithLogging(&errorCloser{err: assert.AnError}, logger, "panel")

		out := buf.String()
		assert.Contains(t, out, `"msg":"failed to close resource"`)
		assert.Contains(t, out, `"operation":"panel"`)
	})

	t.Run("silent on success", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelInfo)

		SafeCloseWithLogging(&errorCloser{}, logger, "panel")
		SafeCloseWithLogging(nil, logger, "panel")
		assert.Empty(t, buf.String())
	})
}

func TestHandleDeferredError(t *testing.T) {
	t.Run("sets error when function succeeded", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelInfo)

		fn := func() (err error) {
			defer HandleDeferredError(&err, func() error { return assert.AnError }, logger, "panel sleep")
			return nil
		}

		err := fn()
		assert.ErrorIs(t, err, assert.AnError)
		assert.Contains(t, err.Error(), "panel sleep")
		assert.Contains(t, buf.String(), `"msg":"deferred operation failed"`)
	})

	t.Run("keeps original error", func(t *testing.T) {
		original := errors.New("original")
		fn := func() (err error) {
			defer HandleDeferredError(&err, func() error { return assert.AnError }, nil, "cleanup")
			return original
		}
		assert.Equal(t, original, fn())
	})
}

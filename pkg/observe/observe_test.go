package observe

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

func TestNewLoggerTo(t *testing.T) {
	var buf bytes.Buffer

	logger, err := NewLoggerTo(&buf, "debug", FormatJSON)
	require.NoError(t, err)

	logger.Debug("analysis completed", slog.String("request_id", "abc"))

	var event map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &event))
	assert.Equal(t, "analysis completed", event["msg"])
	assert.Equal(t, "abc", event["request_id"])
}

func TestNewLoggerLevelFilter(t *testing.T) {
	var buf bytes.Buffer

	logger, err := NewLoggerTo(&buf, "warn", FormatText)
	require.NoError(t, err)

	logger.Info("dropped")
	logger.Warn("kept")

	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), "kept")
}

func TestNewLoggerErrors(t *testing.T) {
	_, err := NewLoggerTo(&bytes.Buffer{}, "loud", FormatText)
	require.Error(t, err)

	_, err = NewLoggerTo(&bytes.Buffer{}, "info", "xml")
	require.Error(t, err)
}

func TestRequestID(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, RequestID(ctx))

	id := NewRequestID()
	require.Len(t, id, 36)

	ctx = WithRequestID(ctx, id)
	assert.Equal(t, id, RequestID(ctx))
	assert.NotEqual(t, id, NewRequestID())
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "short text", Preview("short\n\ttext"))

	long := strings.Repeat("word ", 100)
	got := Preview(long)
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.LessOrEqual(t, len([]rune(got)), PreviewLength+3)
}

func TestMetricsFormat(t *testing.T) {
	m := NewMetrics()
	m.Analyses.Add(3)
	m.RateLimited.Add(1)

	out := m.Format()

	assert.Contains(t, out, "analyses 3\n")
	assert.Contains(t, out, "rate_limited 1\n")
	assert.Contains(t, out, "internal_errors 0\n")
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), len(metricNames))
	assert.True(t, strings.HasPrefix(out, "analyses "))
}

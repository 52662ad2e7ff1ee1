package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerWritesFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "info").With(String("component", "scanner"))

	log.Info("scan done",
		Int("rows", 3),
		Float64("capital", 100),
		Duration("took", 1500*time.Millisecond),
		Strings("symbols", []string{"BTCUSDT", "ETHUSDT"}),
		Bool("partial", true),
		Error(errors.New("boom")),
	)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "scan done", entry["message"])
	assert.Equal(t, "scanner", entry["component"])
	assert.EqualValues(t, 3, entry["rows"])
	assert.EqualValues(t, 1500, entry["took"])
	assert.Equal(t, "BTCUSDT, ETHUSDT", entry["symbols"])
	assert.Equal(t, "boom", entry["error"])
	assert.Equal(t, 100.0, entry["capital"])
	assert.Equal(t, true, entry["partial"])
}

func TestLoggerLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "warn")
	log.Debug("hidden")
	log.Info("hidden")
	assert.Zero(t, buf.Len())

	log.Warn("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestNewRejectsBadLevel(t *testing.T) {
	_, err := New(&Config{Level: "loud", Output: "stdout"})
	assert.Error(t, err)
}

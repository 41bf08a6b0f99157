package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHandlerProductionWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(newHandler(&buf, false, "", "production"))

	log.Debug("hidden")
	log.Info("habit checked in", "habit_id", "h1")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "habit checked in", entry["msg"])
	assert.Equal(t, "h1", entry["habit_id"])
}

func TestNewHandlerDevelopmentIncludesDebug(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(newHandler(&buf, true, "", "development"))

	log.Debug("streak computed", "streak", 3)

	assert.Contains(t, buf.String(), "streak computed")
	assert.Contains(t, buf.String(), "streak=3")
}

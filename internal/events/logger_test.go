package events_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SkynetHQ/skynet-mysky/internal/events"
)

func TestJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := events.NewTestLogger(events.DebugLevel, "json", &buf)

	logger.WithField("portal", "siasky.net").Info("Session restored")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))

	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "Session restored", entry["msg"])
	assert.Equal(t, "siasky.net", entry["portal"])
	assert.NotEmpty(t, entry["time"])
	assert.NotEmpty(t, entry["caller"])
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := events.NewTestLogger(events.WarnLevel, "json", &buf)

	logger.Debug("hidden")
	logger.Info("hidden")
	logger.Warn("visible")
	logger.Error("visible")

	lines := strings.Count(buf.String(), "\n")
	assert.Equal(t, 2, lines)
	assert.NotContains(t, buf.String(), "hidden")
}

func TestWithFieldsDoesNotMutateParent(t *testing.T) {
	var buf bytes.Buffer
	parent := events.NewTestLogger(events.DebugLevel, "json", &buf)
	child := parent.WithField("component", "session")

	parent.Info("from parent")
	child.Info("from child")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.NotContains(t, lines[0], "component")
	assert.Contains(t, lines[1], `"component":"session"`)
}

func TestWithError(t *testing.T) {
	var buf bytes.Buffer
	logger := events.NewTestLogger(events.DebugLevel, "json", &buf)

	logger.WithError(errors.New("boom")).Error("Operation failed")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "boom", entry["error"])
}

func TestTextOutputIncludesFields(t *testing.T) {
	var buf bytes.Buffer
	logger := events.NewTestLogger(events.DebugLevel, "text", &buf)

	logger.WithField("attempt", 2).Warn("Retrying")

	out := buf.String()
	assert.Contains(t, out, "[WARN]")
	assert.Contains(t, out, "Retrying")
	assert.Contains(t, out, "attempt=2")
}

func TestJSONEscaping(t *testing.T) {
	var buf bytes.Buffer
	logger := events.NewTestLogger(events.DebugLevel, "json", &buf)

	logger.WithField("path", `C:\tmp\"quoted"`).Info("line\nbreak")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "line\nbreak", entry["msg"])
	assert.Equal(t, `C:\tmp\"quoted"`, entry["path"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, events.DebugLevel, events.ParseLevel("debug"))
	assert.Equal(t, events.WarnLevel, events.ParseLevel("WARN"))
	assert.Equal(t, events.ErrorLevel, events.ParseLevel("error"))
	assert.Equal(t, events.InfoLevel, events.ParseLevel("unknown"))
}

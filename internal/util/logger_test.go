package util

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLogLevel("DEBUG"))
	assert.Equal(t, LevelWarn, ParseLogLevel("warning"))
	assert.Equal(t, LevelError, ParseLogLevel("error"))
	assert.Equal(t, LevelInfo, ParseLogLevel("nonsense"))
}

func TestLoggerFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := &Logger{level: LevelInfo, fields: map[string]interface{}{}}
	logger.addOutput(NewConsoleOutput(&buf, FormatText))

	logger.Debug("hidden")
	logger.Info("shown", F("file", "a.jsonl"))

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "[INFO] shown file=a.jsonl")
}

func TestLoggerWithCarriesFields(t *testing.T) {
	var buf bytes.Buffer
	logger := &Logger{level: LevelDebug, fields: map[string]interface{}{}}
	logger.addOutput(NewConsoleOutput(&buf, FormatText))

	child := logger.With(F("project", "/tmp/x"))
	child.Warn("skipped files", F("count", 2))

	assert.Contains(t, buf.String(), "[WARN] skipped files count=2 project=/tmp/x")
}

func TestFileOutputWritesJSONLines(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "logs", "app.log")

	logger, err := NewLogger("debug", logFile, false)
	require.NoError(t, err)
	logger.Debug("parsed", F("lines", 3))
	require.NoError(t, logger.Close())

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	line := strings.TrimSpace(string(data))
	assert.Contains(t, line, `"level":"DEBUG"`)
	assert.Contains(t, line, `"message":"parsed"`)
	assert.Contains(t, line, `"lines":3`)
}

func TestGlobalHelpersAreNoOpsWithoutLogger(t *testing.T) {
	SetLogger(nil)
	assert.NotPanics(t, func() {
		LogDebug("nothing")
		LogDebugf("nothing %d", 1)
		LogError("nothing")
	})
	assert.NoError(t, CloseLogger())
}

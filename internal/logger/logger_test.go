package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelsFilterOutput(t *testing.T) {
	var buf bytes.Buffer
	log := New(LevelNormal, &buf)

	log.Debug("hidden %d", 1)
	log.Info("shown %d", 2)
	log.Error("failed: %s", "boom")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "[INF] ")
	assert.Contains(t, out, "shown 2")
	assert.Contains(t, out, "[ERR] ")

	buf.Reset()
	log.SetLevel(LevelVerbose)
	log.Debug("visible")
	assert.Contains(t, buf.String(), "[DBG] ")
}

func TestOffWritesNothing(t *testing.T) {
	var buf bytes.Buffer
	log := New(LevelOff, &buf)
	log.Warn("nope")
	assert.Zero(t, buf.Len())
}

func TestNilLoggerIsSafe(t *testing.T) {
	var log *Logger
	log.Info("ignored")
	log.SetLevel(LevelVerbose)
	assert.Equal(t, LevelOff, log.GetLevel())
}

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("Verbose")
	require.NoError(t, err)
	assert.Equal(t, LevelVerbose, level)

	level, err = ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, LevelNormal, level)

	_, err = ParseLevel("loud")
	assert.Error(t, err)
}

package internal

import (
	"bytes"
	"log"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	lvl, err := ParseLogLevel(" debug ")
	require.NoError(t, err)
	assert.Equal(t, LogLevelDebug, lvl)

	lvl, err = ParseLogLevel("WARN")
	require.NoError(t, err)
	assert.Equal(t, LogLevelWarn, lvl)

	_, err = ParseLogLevel("TRACE")
	assert.Error(t, err)
}

func TestLogger_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	flags := log.Flags()
	log.SetFlags(0)
	prev := CurrentLogLevel()
	t.Cleanup(func() {
		log.SetOutput(os.Stderr)
		log.SetFlags(flags)
		SetLogLevel(prev)
	})

	lg := NewLogger("Test")

	SetLogLevel(LogLevelInfo)
	lg.Debug("hidden %d", 1)
	lg.Info("shown %d", 2)
	lg.Warn("careful")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "[Test] shown 2\n")
	assert.Contains(t, buf.String(), "[Test] WARN: careful\n")

	buf.Reset()
	SetLogLevel(LogLevelDebug)
	lg.Debug("now visible")
	assert.Equal(t, "[Test] DEBUG: now visible\n", buf.String())
	assert.True(t, lg.Enabled(LogLevelDebug))
}

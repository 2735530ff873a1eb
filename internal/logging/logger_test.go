package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWriter(t *testing.T) {
	var buf bytes.Buffer
	log := NewWriter(&buf, "info")
	require.NotNil(t, log)

	log.Info().Msg("test message")
	assert.Contains(t, buf.String(), "test message")
}

func TestNewWriterNilWriter(t *testing.T) {
	log := NewWriter(nil, "info")
	require.NotNil(t, log)
	log.Info().Msg("dropped")
}

func TestSub(t *testing.T) {
	var buf bytes.Buffer
	log := NewWriter(&buf, "debug")
	sub := log.Sub("dst")
	require.NotNil(t, sub)

	sub.Info().Msg("sub message")
	output := buf.String()
	assert.Contains(t, output, "sub message")
	assert.Contains(t, output, "dst")
}

func TestWithSession(t *testing.T) {
	var buf bytes.Buffer
	log := NewWriter(&buf, "debug")
	log.WithSession("s-42").Info().Msg("turn done")

	output := buf.String()
	assert.Contains(t, output, "turn done")
	assert.Contains(t, output, "s-42")
}

func TestLogLevels(t *testing.T) {
	var buf bytes.Buffer
	log := NewWriter(&buf, "warn")

	log.Debug().Msg("debug msg")
	log.Info().Msg("info msg")
	assert.Empty(t, buf.String(), "debug and info should be filtered at warn level")

	log.Warn().Msg("warn msg")
	assert.Contains(t, buf.String(), "warn msg")
}

func TestSilentLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewWriter(&buf, "silent")

	log.Error().Msg("never seen")
	assert.Empty(t, buf.String())
}

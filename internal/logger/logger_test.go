package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_BuffersRecentEntries(t *testing.T) {
	var out bytes.Buffer
	log := New(Config{Level: "info", Format: "json", Output: &out, BufferSize: 10})

	log.WithComponent("tmdb").Warn().Int("status", 429).Msg("rate limited")
	log.Trace().Msg("below level")

	entries := log.GetRecentLogs()
	require.Len(t, entries, 1)
	assert.Equal(t, "warn", entries[0].Level)
	assert.Equal(t, "tmdb", entries[0].Component)
	assert.Equal(t, "rate limited", entries[0].Message)
	assert.EqualValues(t, 429, entries[0].Fields["status"])
	assert.NotEmpty(t, entries[0].Timestamp)
	assert.Contains(t, out.String(), "rate limited")
}

func TestNew_WritesLogFile(t *testing.T) {
	dir := t.TempDir()
	log := New(Config{Level: "info", Format: "json", Path: dir, Output: &bytes.Buffer{}})
	defer log.Close()

	log.Info().Msg("hello file")

	assert.Equal(t, filepath.Join(dir, logFileName), log.GetLogFilePath())
	data, err := os.ReadFile(log.GetLogFilePath())
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello file")
}

func TestParseLevel(t *testing.T) {
	tests := map[string]string{
		"trace":   "trace",
		"DEBUG":   "debug",
		"warning": "warn",
		"bogus":   "info",
	}
	for in, want := range tests {
		assert.Equal(t, want, parseLevel(in).String(), in)
	}
}

func TestRingBuffer_Wraparound(t *testing.T) {
	rb := NewRingBuffer[int](3)
	assert.Empty(t, rb.GetAll())

	for i := 1; i <= 5; i++ {
		rb.Push(i)
	}

	assert.Equal(t, 3, rb.Len())
	assert.Equal(t, []int{3, 4, 5}, rb.GetAll())
}

func TestLogBuffer_DropsMalformed(t *testing.T) {
	b := NewLogBuffer(2)
	n, err := b.Write([]byte("not json"))
	require.NoError(t, err)
	assert.Equal(t, 8, n)
	assert.Empty(t, b.GetRecentLogs())
}

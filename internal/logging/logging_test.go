package logging

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, zapcore.InfoLevel, level)

	level, err = ParseLevel(" WARN ")
	require.NoError(t, err)
	assert.Equal(t, zapcore.WarnLevel, level)

	_, err = ParseLevel("chatty")
	assert.Error(t, err)
}

func TestNewVerboseEnablesDebug(t *testing.T) {
	logger, err := New(Options{Level: "error", Verbose: true})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))

	logger, err = New(Options{Level: "error"})
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
}

func TestRawOutputPath(t *testing.T) {
	assert.Equal(t, "", RawOutputPath("", "abc"))
	assert.Equal(t, filepath.Join("logs", "abc.raw.log"), RawOutputPath("logs", "abc"))
}

func TestCleanupOldLogs(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()
	old := now.Add(-10 * 24 * time.Hour)

	stale := RawOutputPath(dir, uuid.NewString())
	fresh := RawOutputPath(dir, uuid.NewString())
	foreign := filepath.Join(dir, "app.log")
	foreignRaw := filepath.Join(dir, "nginx.raw.log")
	for _, path := range []string{stale, fresh, foreign, foreignRaw} {
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	}
	for _, path := range []string{stale, foreign, foreignRaw} {
		require.NoError(t, os.Chtimes(path, old, old))
	}

	assert.Equal(t, 1, CleanupOldLogs(dir, 7, now))
	assert.NoFileExists(t, stale)
	assert.FileExists(t, fresh)
	assert.FileExists(t, foreign)
	assert.FileExists(t, foreignRaw)
}

func TestIsRawLog(t *testing.T) {
	assert.True(t, isRawLog(uuid.NewString()+".raw.log"))
	assert.False(t, isRawLog("app.log"))
	assert.False(t, isRawLog("run.raw.log"))
	assert.False(t, isRawLog(uuid.NewString()+".log"))
}

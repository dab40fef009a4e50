// Package logging builds the zap logger used by the CLI and prunes raw
// backend output logs.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options controls logger construction.
type Options struct {
	Level   string
	Verbose bool
}

// New returns a production zap logger writing JSON to stderr. Stdout is left
// to the command output.
func New(opts Options) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}
	if opts.Verbose {
		level = zapcore.DebugLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(level)

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

// ParseLevel maps a config level name to a zap level. Blank means info.
func ParseLevel(name string) (zapcore.Level, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return zapcore.InfoLevel, nil
	}
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return zapcore.InfoLevel, fmt.Errorf("invalid log level %q: %w", name, err)
	}
	return level, nil
}

const rawLogSuffix = ".raw.log"

// RawOutputPath returns the raw log file for a run, or "" when no log
// directory is configured.
func RawOutputPath(logDir, runID string) string {
	if strings.TrimSpace(logDir) == "" || strings.TrimSpace(runID) == "" {
		return ""
	}
	return filepath.Join(logDir, runID+rawLogSuffix)
}

// isRawLog reports whether name is a raw log written for a run,
// i.e. "<run uuid>.raw.log".
func isRawLog(name string) bool {
	stem, ok := strings.CutSuffix(name, rawLogSuffix)
	if !ok {
		return false
	}
	_, err := uuid.Parse(stem)
	return err == nil
}

// CleanupOldLogs removes run raw logs in logDir older than retainDays.
// Other files in the directory are left alone.
func CleanupOldLogs(logDir string, retainDays int, now time.Time) int {
	if strings.TrimSpace(logDir) == "" {
		return 0
	}
	if retainDays <= 0 {
		retainDays = 7
	}

	entries, err := os.ReadDir(logDir)
	if err != nil {
		return 0
	}
	cutoff := now.Add(-time.Duration(retainDays) * 24 * time.Hour)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !isRawLog(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if os.Remove(filepath.Join(logDir, entry.Name())) == nil {
				removed++
			}
		}
	}
	return removed
}

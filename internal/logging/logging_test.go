package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"

	"github.com/goliatone/go-sitegen/internal/config"
)

func TestNewHonoursLevel(t *testing.T) {
	logger, err := New(config.Log{Level: "warn"}, false)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if logger.Core().Enabled(zapcore.InfoLevel) {
		t.Fatalf("info should be disabled at warn level")
	}
	if !logger.Core().Enabled(zapcore.WarnLevel) {
		t.Fatalf("warn should be enabled")
	}
}

func TestNewVerboseForcesDebug(t *testing.T) {
	logger, err := New(config.Log{Level: "error", Development: true}, true)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if !logger.Core().Enabled(zapcore.DebugLevel) {
		t.Fatalf("verbose should enable debug")
	}
}

package logger

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"

	"github.com/srgjo27/hotel_frontdesk/internal/config"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, ParseLevel("warn"))
	assert.Equal(t, zapcore.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("info"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("verbose"))
}

func TestNew_RespectsLevel(t *testing.T) {
	l := New(&config.LoggerConfig{Level: "warn", Format: "json", Output: "stdout"})

	assert.False(t, l.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, l.Core().Enabled(zapcore.WarnLevel))
}

func TestNew_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frontdesk.log")
	l := New(&config.LoggerConfig{Level: "debug", Format: "json", Output: "file", FilePath: path, MaxSize: 1})

	l.Info("room checked in", RoomID("r2"), Operator("op-1"))
	assert.NoError(t, l.Sync())
	assert.FileExists(t, path)
}

func TestL_FallsBackToDevelopment(t *testing.T) {
	log = nil
	assert.NotNil(t, L())
	assert.NotNil(t, Named("frontdesk"))

	Init(&config.LoggerConfig{Level: "error"})
	assert.False(t, L().Core().Enabled(zapcore.WarnLevel))
}

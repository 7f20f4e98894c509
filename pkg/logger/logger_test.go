package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestInit(t *testing.T) {
	tests := []struct {
		name      string
		level     string
		logFile   string
		wantLevel zapcore.Level
	}{
		{name: "debug level", level: "debug", wantLevel: zapcore.DebugLevel},
		{name: "info level", level: "info", wantLevel: zapcore.InfoLevel},
		{name: "warn level", level: "warn", wantLevel: zapcore.WarnLevel},
		{name: "warning alias", level: "WARNING", wantLevel: zapcore.WarnLevel},
		{name: "error level", level: "error", wantLevel: zapcore.ErrorLevel},
		{name: "invalid level defaults to info", level: "invalid", wantLevel: zapcore.InfoLevel},
		{name: "with log file", level: "info", logFile: filepath.Join(t.TempDir(), "test.log"), wantLevel: zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Log = nil

			err := Init(tt.level, tt.logFile)
			require.NoError(t, err)
			require.NotNil(t, Log)

			assert.True(t, Log.Core().Enabled(tt.wantLevel))
			if tt.wantLevel > zapcore.DebugLevel {
				assert.False(t, Log.Core().Enabled(tt.wantLevel-1))
			}

			_ = Log.Sync()
		})
	}
}

func TestL(t *testing.T) {
	t.Run("returns no-op logger before init", func(t *testing.T) {
		Log = nil
		l := L()
		require.NotNil(t, l)
		l.Info("dropped")
	})

	t.Run("returns global logger after init", func(t *testing.T) {
		Log, _ = zap.NewDevelopment()
		assert.Same(t, Log, L())
	})
}

func TestNamed(t *testing.T) {
	Log = nil
	assert.NotNil(t, Named("summarizer"))
}

func TestSync(t *testing.T) {
	Log = nil
	assert.NoError(t, Sync())

	Log, _ = zap.NewDevelopment()
	// stdout sync can fail on some platforms
	_ = Sync()
}

func TestInitWithLogFile(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "app.log")

	require.NoError(t, Init("info", logFile))
	Log.Info("test message")
	_ = Sync()

	_, err := os.Stat(logFile)
	assert.False(t, os.IsNotExist(err), "log file was not created")
}

package observability

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/handiism/ugtabs/internal/config"
)

func TestNewLogger_Console(t *testing.T) {
	var buf bytes.Buffer
	cfg := config.LoggerConfig{Level: "debug", Format: "console", Console: true}

	logger := NewLogger(cfg, zapcore.AddSync(&buf))
	logger.Info("fetching tab page")
	require.NoError(t, logger.Sync())

	output := buf.String()
	assert.Contains(t, output, "INFO")
	assert.Contains(t, output, colorCyan)
	assert.Contains(t, output, "fetching tab page")
	assert.Contains(t, output, ServiceName+".")
}

func TestNewLogger_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	cfg := config.LoggerConfig{Level: "warn", Format: "json", Console: true}

	logger := NewLogger(cfg, zapcore.AddSync(&buf))
	logger.Info("hidden")
	logger.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"level":"WARN"`)
}

func TestNewLogger_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ugtabs.log")
	cfg := config.LoggerConfig{Level: "info", LogFile: path, MaxSize: 1}

	logger := NewLogger(cfg, nil)
	logger.Info("written to file")
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"written to file"`)
}

func TestNewLogger_NoSinks(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(config.LoggerConfig{Level: "debug"}, zapcore.AddSync(&buf))
	logger.Error("nobody hears this")

	assert.Empty(t, buf.String(), "console output is opt-in")
}

func TestGlobalLogger(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	assert.NotNil(t, GetLogger(), "fallback before initialization")

	var first, second bytes.Buffer
	Initialize(config.LoggerConfig{Level: "info", Format: "json", Console: true}, zapcore.AddSync(&first))
	Initialize(config.LoggerConfig{Level: "info", Format: "json", Console: true}, zapcore.AddSync(&second))

	GetLogger().Info("once")
	Sync()

	assert.Contains(t, first.String(), "once")
	assert.Empty(t, second.String(), "only the first Initialize takes effect")
}

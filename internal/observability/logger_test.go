package observability

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/sentinelqa/healix/internal/config"
)

// syncBuffer adapts bytes.Buffer to zapcore.WriteSyncer for capturing output.
type syncBuffer struct {
	bytes.Buffer
}

func (s *syncBuffer) Sync() error { return nil }

func testLoggerConfig() config.LoggerConfig {
	return config.LoggerConfig{
		Level:       "debug",
		Format:      "console",
		ServiceName: "healix-test",
	}
}

func TestInitialize(t *testing.T) {
	t.Run("writes through the injected writer", func(t *testing.T) {
		ResetForTest()
		t.Cleanup(ResetForTest)

		var buf syncBuffer
		Initialize(testLoggerConfig(), &buf)

		GetLogger().Info("hello from the test")

		out := buf.String()
		assert.Contains(t, out, "hello from the test")
		assert.Contains(t, out, "healix-test.")
		assert.Contains(t, out, "INFO")
	})

	t.Run("initialization happens exactly once", func(t *testing.T) {
		ResetForTest()
		t.Cleanup(ResetForTest)

		var first, second syncBuffer
		Initialize(testLoggerConfig(), &first)
		Initialize(testLoggerConfig(), &second)

		GetLogger().Info("only the first writer sees this")
		assert.Contains(t, first.String(), "only the first writer sees this")
		assert.Empty(t, second.String())
	})

	t.Run("an invalid level falls back to info", func(t *testing.T) {
		ResetForTest()
		t.Cleanup(ResetForTest)

		cfg := testLoggerConfig()
		cfg.Level = "chatty"

		var buf syncBuffer
		Initialize(cfg, &buf)

		GetLogger().Debug("suppressed")
		GetLogger().Info("emitted")

		out := buf.String()
		assert.NotContains(t, out, "suppressed")
		assert.Contains(t, out, "emitted")
	})

	t.Run("json format emits structured lines", func(t *testing.T) {
		ResetForTest()
		t.Cleanup(ResetForTest)

		cfg := testLoggerConfig()
		cfg.Format = "json"

		var buf syncBuffer
		Initialize(cfg, &buf)

		GetLogger().Info("structured entry")

		line := strings.TrimSpace(buf.String())
		require.True(t, strings.HasPrefix(line, "{"), "expected a JSON line, got %q", line)
		assert.Contains(t, line, `"structured entry"`)
	})
}

func TestGetLoggerBeforeInitialize(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	// Must never return nil, even uninitialized.
	require.NotNil(t, GetLogger())
}

func TestLevelColor(t *testing.T) {
	assert.Equal(t, colorCyan, levelColor(zapcore.DebugLevel))
	assert.Equal(t, colorGreen, levelColor(zapcore.InfoLevel))
	assert.Equal(t, colorYellow, levelColor(zapcore.WarnLevel))
	assert.Equal(t, colorRed, levelColor(zapcore.ErrorLevel))
	assert.Equal(t, colorRed, levelColor(zapcore.PanicLevel))
	assert.Equal(t, "", levelColor(zapcore.Level(42)))
}

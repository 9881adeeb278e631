package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "console", cfg.Logger.Format)
	assert.True(t, cfg.Browser.Headless)
	assert.Equal(t, 90*time.Second, cfg.Network.NavigationTimeout)
	assert.Equal(t, 10*time.Second, cfg.Network.QueryTimeout)
	assert.Equal(t, "healix-memory.json", cfg.Memory.Path)

	assert.Equal(t, ScoreWeights{ID: 5, Text: 3, Class: 3, Name: 2, Value: 3}, cfg.Heal.Weights)
	assert.Equal(t, 40, cfg.Heal.ShortTextMaxChars)

	assert.Equal(t, ProviderOff, cfg.Suggest.Provider)
	assert.Equal(t, 25, cfg.Suggest.MaxCandidates)
	assert.Equal(t, 20000, cfg.Suggest.SnapshotMaxChars)
	assert.Equal(t, 400, cfg.Suggest.MaxOutputTokens)

	require.NoError(t, cfg.Validate())
}

func TestNewConfigFromViper(t *testing.T) {
	t.Run("overrides land in the struct", func(t *testing.T) {
		v := viper.New()
		SetDefaults(v)
		v.Set("memory.path", "/tmp/locators.json")
		v.Set("heal.weights.id", 7.5)

		cfg, err := NewConfigFromViper(v)
		require.NoError(t, err)
		assert.Equal(t, "/tmp/locators.json", cfg.Memory.Path)
		assert.InDelta(t, 7.5, cfg.Heal.Weights.ID, 1e-9)
	})

	t.Run("the api key binds from the environment", func(t *testing.T) {
		t.Setenv("HEALIX_SUGGEST_API_KEY", "sk-from-env")

		v := viper.New()
		SetDefaults(v)

		cfg, err := NewConfigFromViper(v)
		require.NoError(t, err)
		assert.Equal(t, "sk-from-env", cfg.Suggest.APIKey)
	})

	t.Run("invalid values are rejected at load time", func(t *testing.T) {
		v := viper.New()
		SetDefaults(v)
		v.Set("memory.path", "")

		_, err := NewConfigFromViper(v)
		require.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config { return NewDefaultConfig() }

	t.Run("empty memory path", func(t *testing.T) {
		cfg := valid()
		cfg.Memory.Path = ""
		require.Error(t, cfg.Validate())
	})

	t.Run("non-positive short text bound", func(t *testing.T) {
		cfg := valid()
		cfg.Heal.ShortTextMaxChars = 0
		require.Error(t, cfg.Validate())
	})

	t.Run("negative weight", func(t *testing.T) {
		cfg := valid()
		cfg.Heal.Weights.Class = -1
		require.Error(t, cfg.Validate())
	})

	t.Run("all-zero weights", func(t *testing.T) {
		cfg := valid()
		cfg.Heal.Weights = ScoreWeights{}
		require.Error(t, cfg.Validate())
	})

	t.Run("unknown suggestion provider", func(t *testing.T) {
		cfg := valid()
		cfg.Suggest.Provider = "copilot"
		require.Error(t, cfg.Validate())
	})

	t.Run("enabled provider needs sane limits", func(t *testing.T) {
		cfg := valid()
		cfg.Suggest.Provider = ProviderOpenAI
		cfg.Suggest.MaxCandidates = 0
		require.Error(t, cfg.Validate())

		cfg = valid()
		cfg.Suggest.Provider = ProviderGemini
		cfg.Suggest.RequestsPerMin = 0
		require.Error(t, cfg.Validate())
	})

	t.Run("disabled provider skips the limit checks", func(t *testing.T) {
		cfg := valid()
		cfg.Suggest.MaxCandidates = 0
		require.NoError(t, cfg.Validate())
	})
}

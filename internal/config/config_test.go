package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staybook/internal/config"
)

func TestParserConfig_PrimaryConfig_LegacyFallback(t *testing.T) {
	cfg := config.ParserConfig{
		Provider:     "gemini",
		APIKey:       "key-legacy",
		DefaultModel: "gemini-2.0-flash",
		VisionModel:  "gemini-2.0-flash-vision",
		MaxRetries:   3,
		TimeoutSecs:  30,
	}

	primary := cfg.PrimaryConfig()

	assert.Equal(t, "gemini", primary.Provider)
	assert.Equal(t, "key-legacy", primary.APIKey)
	assert.Equal(t, "gemini-2.0-flash", primary.DefaultModel)
	assert.Equal(t, "gemini-2.0-flash-vision", primary.VisionModel)
	assert.Equal(t, 3, primary.MaxRetries)
	assert.Equal(t, 30, primary.TimeoutSecs)
}

func TestParserConfig_PrimaryConfig_ExplicitPrimary(t *testing.T) {
	cfg := config.ParserConfig{
		Provider: "legacy-should-be-ignored",
		Primary: config.ParserProviderConfig{
			Provider:     "claude",
			APIKey:       "sk-primary",
			DefaultModel: "claude-sonnet-4-20250514",
		},
	}

	primary := cfg.PrimaryConfig()

	assert.Equal(t, "claude", primary.Provider)
	assert.Equal(t, "sk-primary", primary.APIKey)
}

func TestParserConfig_SecondaryAndTertiary(t *testing.T) {
	cfg := config.ParserConfig{Provider: "gemini", APIKey: "k"}
	assert.Nil(t, cfg.SecondaryConfig())
	assert.Nil(t, cfg.TertiaryConfig())

	cfg.Secondary = config.ParserProviderConfig{Provider: "openai", APIKey: "sk-openai"}
	require.NotNil(t, cfg.SecondaryConfig())
	assert.Equal(t, "openai", cfg.SecondaryConfig().Provider)
}

func TestParserConfig_APIKeyConfigured(t *testing.T) {
	assert.False(t, (&config.ParserConfig{Provider: "gemini"}).APIKeyConfigured())
	assert.True(t, (&config.ParserConfig{Provider: "gemini", APIKey: "k"}).APIKeyConfigured())

	onlySecondary := &config.ParserConfig{
		Primary:   config.ParserProviderConfig{Provider: "gemini"},
		Secondary: config.ParserProviderConfig{Provider: "openai", APIKey: "sk"},
	}
	assert.True(t, onlySecondary.APIKeyConfigured())
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, int64(10), cfg.Ingest.MaxFileSizeMB)
	assert.Equal(t, int64(10*1024*1024), cfg.Ingest.MaxFileSizeBytes())
	assert.Equal(t, 10, cfg.Ingest.MaxFiles)
	assert.Equal(t, 30, cfg.Ingest.MaxStayNights)
	assert.True(t, cfg.Ingest.AutoSave)
	assert.Equal(t, "noop", cfg.Notify.Provider)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("STAYBOOK_INGEST_MAX_FILES", "3")
	t.Setenv("STAYBOOK_PARSER_PRIMARY_PROVIDER", "openai")
	t.Setenv("STAYBOOK_PARSER_PRIMARY_API_KEY", "sk-env")
	t.Setenv("PORT", "9090")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Ingest.MaxFiles)
	assert.Equal(t, "openai", cfg.Parser.PrimaryConfig().Provider)
	assert.Equal(t, "sk-env", cfg.Parser.PrimaryConfig().APIKey)
	assert.Equal(t, ":9090", cfg.Server.Port)
}

func TestLoad_RejectsNonPositiveLimits(t *testing.T) {
	t.Setenv("STAYBOOK_INGEST_MAX_FILES", "0")

	_, err := config.Load()
	assert.Error(t, err)
}

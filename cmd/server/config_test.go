package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/MegaGrindStone/lms-chatbot/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestConfigUnmarshalProviders(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want llmConfig
	}{
		{
			name: "ollama",
			yaml: "llm:\n  provider: ollama\n  model: llama3\n  host: http://localhost:11434\n",
			want: &ollamaConfig{
				BaseLLMConfig: BaseLLMConfig{Provider: "ollama", Model: "llama3"},
				Host:          "http://localhost:11434",
			},
		},
		{
			name: "anthropic",
			yaml: "llm:\n  provider: anthropic\n  model: claude\n  apiKey: key\n  maxTokens: 512\n",
			want: &anthropicConfig{
				BaseLLMConfig: BaseLLMConfig{Provider: "anthropic", Model: "claude"},
				APIKey:        "key",
				MaxTokens:     512,
			},
		},
		{
			name: "openrouter",
			yaml: "llm:\n  provider: openrouter\n  model: some/model\n",
			want: &openAIConfig{
				BaseLLMConfig: BaseLLMConfig{Provider: "openrouter", Model: "some/model"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg config
			require.NoError(t, yaml.Unmarshal([]byte(tt.yaml), &cfg))
			assert.Equal(t, tt.want, cfg.LLM)
		})
	}
}

func TestConfigUnmarshalErrors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{name: "missing provider", yaml: "llm:\n  model: x\n", wantErr: "llm provider is required"},
		{name: "unknown provider", yaml: "llm:\n  provider: nope\n", wantErr: "unknown llm provider: nope"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg config
			err := yaml.Unmarshal([]byte(tt.yaml), &cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  port: "9000"
rolePrompts:
  admin: You run the LMS.
llm:
  provider: ollama
  model: llama3
`)

	cfg, err := loadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, 50, cfg.Server.HistoryLimit)
	assert.True(t, cfg.Security.CSRF)
	assert.Equal(t, 50, cfg.Upload.MaxPages)
	assert.Equal(t, 1000, cfg.Upload.ChunkSize)
	assert.Equal(t, "You run the LMS.", cfg.RolePrompts[models.RoleAdmin])
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	path := writeConfig(t, "llm:\n  provider: ollama\n  model: llama3\n")
	t.Setenv("CHATBOT_PORT", "7000")
	t.Setenv("CHATBOT_CSRF", "false")
	t.Setenv("CHATBOT_LOG_LEVEL", "debug")

	cfg, err := loadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "7000", cfg.Server.Port)
	assert.False(t, cfg.Security.CSRF)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadConfigMissingLLM(t *testing.T) {
	path := writeConfig(t, "server:\n  port: \"9000\"\n")

	_, err := loadConfig(path)
	require.Error(t, err)
}

func TestLLMValidation(t *testing.T) {
	logger := zap.NewNop()

	_, err := anthropicConfig{BaseLLMConfig: BaseLLMConfig{Model: "claude"}}.llm(logger)
	assert.ErrorContains(t, err, "maxTokens is required")

	_, err = ollamaConfig{}.llm(logger)
	assert.ErrorContains(t, err, "model is required")

	llm, err := openAIConfig{BaseLLMConfig: BaseLLMConfig{Provider: "openai", Model: "gpt"}, APIKey: "key"}.llm(logger)
	require.NoError(t, err)
	assert.NotNil(t, llm)
}

func TestNewLogger(t *testing.T) {
	logger, err := newLogger(logConfig{Level: "warn"})
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zap.InfoLevel))
	assert.True(t, logger.Core().Enabled(zap.WarnLevel))

	_, err = newLogger(logConfig{Level: "loud"})
	assert.Error(t, err)
}

func TestPreferenceConfig(t *testing.T) {
	off := false
	tests := []struct {
		name string
		cfg  preferenceConfig
		want models.Preference
	}{
		{
			name: "empty keeps defaults",
			cfg:  preferenceConfig{},
			want: models.DefaultPreference,
		},
		{
			name: "overrides",
			cfg:  preferenceConfig{DefaultRole: "lecturer", Theme: "dark", EnableNotifications: &off},
			want: models.Preference{DefaultRole: models.RoleLecturer, Theme: "dark", EnableNotifications: false},
		},
		{
			name: "unknown role keeps default",
			cfg:  preferenceConfig{DefaultRole: "dean"},
			want: models.DefaultPreference,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.preference())
		})
	}
}

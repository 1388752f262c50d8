package main

import (
	"fmt"
	"os"

	"github.com/MegaGrindStone/lms-chatbot/internal/models"
	"github.com/MegaGrindStone/lms-chatbot/internal/services"
	"github.com/caarlos0/env/v11"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type llmConfig interface {
	llm(logger *zap.Logger) (services.LLM, error)
}

// BaseLLMConfig contains the common fields for all LLM configurations.
type BaseLLMConfig struct {
	Provider   string                 `yaml:"provider"`
	Model      string                 `yaml:"model"`
	Parameters services.LLMParameters `yaml:"parameters"`
}

type config struct {
	Server      serverConfig           `yaml:"server"`
	Log         logConfig              `yaml:"log"`
	Security    securityConfig         `yaml:"security"`
	Upload      uploadConfig           `yaml:"upload"`
	RolePrompts map[models.Role]string `yaml:"rolePrompts"`
	Preference  *preferenceConfig      `yaml:"preference"`
	LLM         llmConfig              `yaml:"-"`
}

type serverConfig struct {
	Port         string `yaml:"port" env:"CHATBOT_PORT"`
	DataDir      string `yaml:"dataDir" env:"CHATBOT_DATA_DIR"`
	HistoryLimit int    `yaml:"historyLimit" env:"CHATBOT_HISTORY_LIMIT"`
}

type logConfig struct {
	Level       string `yaml:"level" env:"CHATBOT_LOG_LEVEL"`
	Development bool   `yaml:"development" env:"CHATBOT_LOG_DEVELOPMENT"`
}

type securityConfig struct {
	CSRF              bool    `yaml:"csrf" env:"CHATBOT_CSRF"`
	RequestsPerSecond float64 `yaml:"requestsPerSecond" env:"CHATBOT_RATE_LIMIT"`
	Burst             int     `yaml:"burst" env:"CHATBOT_RATE_BURST"`
}

type uploadConfig struct {
	MaxSize   int64 `yaml:"maxSize"`
	MaxPages  int   `yaml:"maxPages"`
	ChunkSize int   `yaml:"chunkSize"`
}

// preferenceConfig seeds the stored page preference at startup.
type preferenceConfig struct {
	DefaultRole         string `yaml:"defaultRole"`
	Theme               string `yaml:"theme"`
	EnableNotifications *bool  `yaml:"enableNotifications"`
}

func (p preferenceConfig) preference() models.Preference {
	pref := models.DefaultPreference
	if role, ok := models.ParseRole(p.DefaultRole); ok {
		pref.DefaultRole = role
	}
	if p.Theme != "" {
		pref.Theme = p.Theme
	}
	if p.EnableNotifications != nil {
		pref.EnableNotifications = *p.EnableNotifications
	}
	return pref
}

type ollamaConfig struct {
	BaseLLMConfig `yaml:",inline"`
	Host          string `yaml:"host"`
}

type anthropicConfig struct {
	BaseLLMConfig `yaml:",inline"`
	APIKey        string `yaml:"apiKey"`
	Endpoint      string `yaml:"endpoint"`
	MaxTokens     int    `yaml:"maxTokens"`
}

type openAIConfig struct {
	BaseLLMConfig `yaml:",inline"`
	APIKey        string `yaml:"apiKey"`
	BaseURL       string `yaml:"baseURL"`
	MaxTokens     int    `yaml:"maxTokens"`
}

func defaultConfig() config {
	return config{
		Server: serverConfig{
			Port:         "8000",
			HistoryLimit: 50,
		},
		Log: logConfig{
			Level: "info",
		},
		Security: securityConfig{
			CSRF:              true,
			RequestsPerSecond: 5,
			Burst:             10,
		},
		Upload: uploadConfig{
			MaxSize:   32 << 20,
			MaxPages:  50,
			ChunkSize: 1000,
		},
	}
}

// loadConfig decodes the YAML configuration at path over the defaults, then applies environment
// overrides.
func loadConfig(path string) (config, error) {
	f, err := os.Open(path)
	if err != nil {
		return config{}, fmt.Errorf("error opening config file: %w", err)
	}
	defer f.Close()

	cfg := defaultConfig()
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return config{}, fmt.Errorf("error decoding config file: %w", err)
	}
	for _, section := range []any{&cfg.Server, &cfg.Log, &cfg.Security} {
		if err := env.Parse(section); err != nil {
			return config{}, fmt.Errorf("error parsing environment: %w", err)
		}
	}
	if cfg.LLM == nil {
		return config{}, fmt.Errorf("llm is required")
	}
	return cfg, nil
}

func (c *config) UnmarshalYAML(value *yaml.Node) error {
	type plain config
	var rawConfig struct {
		plain `yaml:",inline"`
		LLM   map[string]any `yaml:"llm"`
	}
	rawConfig.plain = plain(*c)

	if err := value.Decode(&rawConfig); err != nil {
		return err
	}

	*c = config(rawConfig.plain)

	llmProvider, ok := rawConfig.LLM["provider"].(string)
	if !ok {
		return fmt.Errorf("llm provider is required")
	}

	llmRawYAML, err := yaml.Marshal(rawConfig.LLM)
	if err != nil {
		return err
	}

	var llm llmConfig
	switch llmProvider {
	case "ollama":
		llm = &ollamaConfig{}
	case "anthropic":
		llm = &anthropicConfig{}
	case "openai", "openrouter":
		llm = &openAIConfig{}
	default:
		return fmt.Errorf("unknown llm provider: %s", llmProvider)
	}

	if err := yaml.Unmarshal(llmRawYAML, llm); err != nil {
		return err
	}

	c.LLM = llm

	return nil
}

func (o ollamaConfig) llm(logger *zap.Logger) (services.LLM, error) {
	if o.Model == "" {
		return nil, fmt.Errorf("model is required")
	}

	host := o.Host
	if host == "" {
		host = os.Getenv("OLLAMA_HOST")
	}
	return services.NewOllama(host, o.Model, o.Parameters, logger)
}

func (a anthropicConfig) llm(logger *zap.Logger) (services.LLM, error) {
	if a.Model == "" {
		return nil, fmt.Errorf("model is required")
	}
	if a.MaxTokens == 0 {
		return nil, fmt.Errorf("maxTokens is required")
	}

	apiKey := a.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	return services.NewAnthropic(apiKey, a.Model, a.Endpoint, a.MaxTokens, a.Parameters, logger), nil
}

func (o openAIConfig) llm(logger *zap.Logger) (services.LLM, error) {
	if o.Model == "" {
		return nil, fmt.Errorf("model is required")
	}

	apiKey := o.APIKey
	baseURL := o.BaseURL
	if o.Provider == "openrouter" {
		if apiKey == "" {
			apiKey = os.Getenv("OPENROUTER_API_KEY")
		}
		if baseURL == "" {
			baseURL = "https://openrouter.ai/api/v1"
		}
	}
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	return services.NewOpenAI(apiKey, baseURL, o.Model, o.MaxTokens, o.Parameters, logger), nil
}

package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	ProviderBedrock = "bedrock"
	ProviderClaude  = "claude"
	ProviderOpenAI  = "openai"
	ProviderGemini  = "gemini"

	DefaultBedrockModel = "anthropic.claude-3-haiku-20240307-v1:0"
	DefaultMaxTokens    = 1024
	DefaultUploadLimit  = 10 << 20 // 10 MB
)

// Config represents runtime configuration for the service.
type Config struct {
	BasicConfig BasicConfig
	Analyzer    AnalyzerConfig
	Providers   map[string]ProviderConfig
}

type BasicConfig struct {
	Host           string `validate:"omitempty,hostname|ip"`
	Port           string `validate:"required,numeric"`
	MaxUploadBytes int64  `validate:"gt=0"`
	StaticDir      string
	LogLevel       string `validate:"oneof=debug info warn error"`
	GinMode        string `validate:"oneof=debug release test"`
}

type AnalyzerConfig struct {
	Provider  string        `validate:"oneof=bedrock claude openai gemini"`
	Region    string        `validate:"required"`
	ModelID   string        `validate:"required"`
	MaxTokens int           `validate:"gt=0"`
	Timeout   time.Duration `validate:"gte=0"`
}

type ProviderConfig struct {
	BaseURL string
	Model   string
	APIKey  string
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return c.BasicConfig.Host + ":" + c.BasicConfig.Port
}

// Provider returns the settings of the active non-Bedrock provider.
func (c *Config) Provider() ProviderConfig {
	return c.Providers[c.Analyzer.Provider]
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("HOST", "0.0.0.0")
	v.SetDefault("PORT", "3000")
	v.SetDefault("MAX_UPLOAD_BYTES", DefaultUploadLimit)
	v.SetDefault("STATIC_DIR", "public")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("GIN_MODE", "release")

	v.SetDefault("AWS_REGION", "us-west-2")
	v.SetDefault("ANALYZER_PROVIDER", ProviderBedrock)
	v.SetDefault("BEDROCK_MODEL_ID", DefaultBedrockModel)
	v.SetDefault("ANALYZER_MAX_TOKENS", DefaultMaxTokens)
	v.SetDefault("ANALYZE_TIMEOUT", "0s")

	v.SetDefault("CLAUDE_MODEL", "claude-3-haiku-20240307")
	v.SetDefault("OPENAI_MODEL", "gpt-4o-mini")
	v.SetDefault("GEMINI_MODEL", "gemini-2.0-flash")
}

// Load reads configuration from the environment, optionally layered over the
// JSON or YAML file at path. Environment variables win over file values.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if path != "" {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("resolve config path: %w", err)
		}
		v.SetConfigFile(absPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", absPath, err)
		}
	}

	cfg := &Config{
		BasicConfig: BasicConfig{
			Host:           v.GetString("HOST"),
			Port:           v.GetString("PORT"),
			MaxUploadBytes: v.GetInt64("MAX_UPLOAD_BYTES"),
			StaticDir:      v.GetString("STATIC_DIR"),
			LogLevel:       strings.ToLower(v.GetString("LOG_LEVEL")),
			GinMode:        strings.ToLower(v.GetString("GIN_MODE")),
		},
		Analyzer: AnalyzerConfig{
			Provider:  strings.ToLower(strings.TrimSpace(v.GetString("ANALYZER_PROVIDER"))),
			Region:    v.GetString("AWS_REGION"),
			ModelID:   v.GetString("BEDROCK_MODEL_ID"),
			MaxTokens: v.GetInt("ANALYZER_MAX_TOKENS"),
			Timeout:   v.GetDuration("ANALYZE_TIMEOUT"),
		},
		Providers: map[string]ProviderConfig{
			ProviderClaude: {
				BaseURL: v.GetString("CLAUDE_BASE_URL"),
				Model:   v.GetString("CLAUDE_MODEL"),
				APIKey:  v.GetString("CLAUDE_API_KEY"),
			},
			ProviderOpenAI: {
				BaseURL: v.GetString("OPENAI_BASE_URL"),
				Model:   v.GetString("OPENAI_MODEL"),
				APIKey:  v.GetString("OPENAI_API_KEY"),
			},
			ProviderGemini: {
				Model:  v.GetString("GEMINI_MODEL"),
				APIKey: v.GetString("GEMINI_API_KEY"),
			},
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks struct constraints and that the selected provider is usable.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Analyzer.Provider == ProviderBedrock {
		return nil
	}
	prov, ok := c.Providers[c.Analyzer.Provider]
	if !ok {
		return fmt.Errorf("provider %s not configured", c.Analyzer.Provider)
	}
	if prov.APIKey == "" {
		return fmt.Errorf("invalid config: %s_API_KEY must be set", strings.ToUpper(c.Analyzer.Provider))
	}
	if prov.Model == "" {
		return fmt.Errorf("invalid config: %s model must be set", c.Analyzer.Provider)
	}
	return nil
}

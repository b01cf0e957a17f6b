package config

import "time"

// Config holds hidef configuration.
// Stored at: ~/.hidef/config.yaml
type Config struct {
	LLMProviders map[string]LLMProviderCfg `mapstructure:"llm_providers" yaml:"llm_providers" json:"llm_providers"`
	Defaults     DefaultsCfg               `mapstructure:"defaults" yaml:"defaults" json:"defaults"`
	Server       ServerCfg                 `mapstructure:"server" yaml:"server" json:"server"`
}

// LLMProviderCfg configures an LLM provider.
type LLMProviderCfg struct {
	Type           string `mapstructure:"type" yaml:"type" json:"type"`                                 // "openai", "openrouter"
	Model          string `mapstructure:"model" yaml:"model" json:"model"`                              // Model name
	APIKey         string `mapstructure:"api_key" yaml:"api_key" json:"api_key"`                        // API key (supports ${ENV_VAR} syntax)
	BaseURL        string `mapstructure:"base_url" yaml:"base_url,omitempty" json:"base_url,omitempty"` // OpenAI-compatible endpoint
	TimeoutSeconds int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds" json:"timeout_seconds"`
	MaxRetries     int    `mapstructure:"max_retries" yaml:"max_retries" json:"max_retries"`
	RateLimit      int    `mapstructure:"rate_limit" yaml:"rate_limit" json:"rate_limit"` // Requests per minute, 0 = unlimited
	Enabled        bool   `mapstructure:"enabled" yaml:"enabled" json:"enabled"`
}

// DefaultsCfg specifies the oracle and warm-up defaults.
type DefaultsCfg struct {
	LLMProvider          string   `mapstructure:"llm_provider" yaml:"llm_provider" json:"llm_provider"`
	Model                string   `mapstructure:"model" yaml:"model,omitempty" json:"model,omitempty"` // Overrides the provider model
	Temperature          float64  `mapstructure:"temperature" yaml:"temperature" json:"temperature"`
	ContextMaxTokens     int      `mapstructure:"context_max_tokens" yaml:"context_max_tokens" json:"context_max_tokens"`
	OracleTimeoutSeconds int      `mapstructure:"oracle_timeout_seconds" yaml:"oracle_timeout_seconds" json:"oracle_timeout_seconds"`
	SeedTerms            []string `mapstructure:"seed_terms" yaml:"seed_terms" json:"seed_terms"`
}

// OracleTimeout returns the per-call oracle timeout.
func (d DefaultsCfg) OracleTimeout() time.Duration {
	return time.Duration(d.OracleTimeoutSeconds) * time.Second
}

// ServerCfg configures the HTTP listener.
type ServerCfg struct {
	Host string `mapstructure:"host" yaml:"host" json:"host"`
	Port string `mapstructure:"port" yaml:"port" json:"port"`
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		LLMProviders: map[string]LLMProviderCfg{
			"openai": {
				Type:           "openai",
				Model:          "gpt-4o",
				APIKey:         "${OPENAI_API_KEY}",
				TimeoutSeconds: 60,
				MaxRetries:     2,
				RateLimit:      500,
				Enabled:        true,
			},
			"openrouter": {
				Type:           "openrouter",
				Model:          "openai/gpt-4o",
				APIKey:         "${OPENROUTER_API_KEY}",
				TimeoutSeconds: 60,
				MaxRetries:     2,
				RateLimit:      200,
				Enabled:        false,
			},
		},
		Defaults: DefaultsCfg{
			LLMProvider:          "openai",
			Temperature:          0,
			ContextMaxTokens:     400,
			OracleTimeoutSeconds: 60,
			SeedTerms:            []string{"High definition"},
		},
		Server: ServerCfg{
			Host: "127.0.0.1",
			Port: "8080",
		},
	}
}

// GetLLMProvider returns an LLM provider config by name.
func (c *Config) GetLLMProvider(name string) (LLMProviderCfg, bool) {
	cfg, ok := c.LLMProviders[name]
	return cfg, ok
}

// EnabledLLMProviders returns all enabled LLM providers.
func (c *Config) EnabledLLMProviders() map[string]LLMProviderCfg {
	result := make(map[string]LLMProviderCfg)
	for name, cfg := range c.LLMProviders {
		if cfg.Enabled {
			result[name] = cfg
		}
	}
	return result
}

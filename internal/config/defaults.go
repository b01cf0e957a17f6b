package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode"
)

// ErrInvalidKey is returned when a config key contains invalid characters.
var ErrInvalidKey = errors.New("invalid config key")

var envKeyReplacer = strings.NewReplacer(".", "_")

// ValidateKey checks if a config key contains only allowed characters.
// Valid keys contain: letters, digits, dots, underscores, and hyphens.
func ValidateKey(key string) error {
	if key == "" {
		return fmt.Errorf("%w: key cannot be empty", ErrInvalidKey)
	}
	for i, r := range key {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '.' && r != '_' && r != '-' {
			return fmt.Errorf("%w: invalid character %q at position %d", ErrInvalidKey, r, i)
		}
	}
	if key[0] == '.' || key[len(key)-1] == '.' {
		return fmt.Errorf("%w: key cannot start or end with a dot", ErrInvalidKey)
	}
	return nil
}

// Entry is a single documented configuration value.
type Entry struct {
	Key         string `json:"key" yaml:"key"`
	Value       any    `json:"value" yaml:"value"`
	Description string `json:"description" yaml:"description"`
}

// Entries flattens the config into documented key/value pairs, sorted by key.
// API keys are reported unresolved.
func (c *Config) Entries() []Entry {
	entries := []Entry{
		{Key: "defaults.llm_provider", Value: c.Defaults.LLMProvider, Description: "LLM provider used by the resolution oracle"},
		{Key: "defaults.model", Value: c.Defaults.Model, Description: "Model override for oracle calls (empty uses the provider model)"},
		{Key: "defaults.temperature", Value: c.Defaults.Temperature, Description: "Sampling temperature for oracle calls (0 keeps answers stable)"},
		{Key: "defaults.context_max_tokens", Value: c.Defaults.ContextMaxTokens, Description: "Token cap for contextual definitions"},
		{Key: "defaults.oracle_timeout_seconds", Value: c.Defaults.OracleTimeoutSeconds, Description: "Per-call oracle timeout in seconds"},
		{Key: "defaults.seed_terms", Value: c.Defaults.SeedTerms, Description: "Terms resolved at server start"},
		{Key: "server.host", Value: c.Server.Host, Description: "HTTP listen host"},
		{Key: "server.port", Value: c.Server.Port, Description: "HTTP listen port"},
	}

	for name, p := range c.LLMProviders {
		prefix := "llm_providers." + name + "."
		entries = append(entries,
			Entry{Key: prefix + "type", Value: p.Type, Description: "Provider type for " + name},
			Entry{Key: prefix + "model", Value: p.Model, Description: "Default model for " + name},
			Entry{Key: prefix + "api_key", Value: p.APIKey, Description: name + " API key (supports ${ENV_VAR})"},
			Entry{Key: prefix + "base_url", Value: p.BaseURL, Description: "OpenAI-compatible endpoint for " + name},
			Entry{Key: prefix + "timeout_seconds", Value: p.TimeoutSeconds, Description: "HTTP timeout in seconds for " + name},
			Entry{Key: prefix + "max_retries", Value: p.MaxRetries, Description: "Transport retry attempts for " + name},
			Entry{Key: prefix + "rate_limit", Value: p.RateLimit, Description: "Requests per minute for " + name + " (0 = unlimited)"},
			Entry{Key: prefix + "enabled", Value: p.Enabled, Description: "Whether " + name + " is enabled"},
		)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })
	return entries
}

// EntriesWithPrefix returns the entries whose key starts with prefix.
func (c *Config) EntriesWithPrefix(prefix string) []Entry {
	var out []Entry
	for _, e := range c.Entries() {
		if strings.HasPrefix(e.Key, prefix) {
			out = append(out, e)
		}
	}
	return out
}

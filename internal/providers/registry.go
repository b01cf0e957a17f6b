package providers

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"
)

// Registry holds references to LLM clients.
// It supports config-driven instantiation, hot-reload, and provides thread-safe access.
type Registry struct {
	mu         sync.RWMutex
	llmClients map[string]LLMClient
	defaultLLM string
	logger     *slog.Logger
}

// NewRegistry creates a new empty provider registry.
func NewRegistry() *Registry {
	return &Registry{
		llmClients: make(map[string]LLMClient),
		logger:     slog.Default(),
	}
}

// SetLogger sets the logger for the registry.
func (r *Registry) SetLogger(logger *slog.Logger) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logger = logger
}

// RegisterLLM registers an LLM client by name.
func (r *Registry) RegisterLLM(name string, client LLMClient) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.llmClients[name] = client
	if r.logger != nil {
		r.logger.Info("registered LLM client", "name", name)
	}
}

// UnregisterLLM removes an LLM client by name.
func (r *Registry) UnregisterLLM(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.llmClients, name)
	if r.logger != nil {
		r.logger.Info("unregistered LLM client", "name", name)
	}
}

// GetLLM returns an LLM client by name.
func (r *Registry) GetLLM(name string) (LLMClient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	client, ok := r.llmClients[name]
	if !ok {
		return nil, fmt.Errorf("LLM client not found: %s", name)
	}
	return client, nil
}

// ListLLM returns all registered LLM client names, sorted.
func (r *Registry) ListLLM() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.llmClients))
	for name := range r.llmClients {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HasLLM checks if an LLM client is registered.
func (r *Registry) HasLLM(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.llmClients[name]
	return ok
}

// SetDefaultLLM selects the provider used by Default.
func (r *Registry) SetDefaultLLM(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.defaultLLM = name
}

// DefaultLLM returns the name of the default provider.
func (r *Registry) DefaultLLM() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.defaultLLM
}

// HasDefaultLLM reports whether the default provider is registered.
func (r *Registry) HasDefaultLLM() bool {
	return r.HasLLM(r.DefaultLLM())
}

// Client returns an LLMClient that looks up name on every call, so requests
// always go to the most recently reloaded client.
func (r *Registry) Client(name string) LLMClient {
	return &registryClient{registry: r, name: func() string { return name }}
}

// Default returns an LLMClient that resolves the default provider on every
// call, following both reloads and changes of the default.
func (r *Registry) Default() LLMClient {
	return &registryClient{registry: r, name: r.DefaultLLM}
}

type registryClient struct {
	registry *Registry
	name     func() string
}

func (c *registryClient) Name() string { return c.name() }

func (c *registryClient) Chat(ctx context.Context, req *ChatRequest) (*ChatResult, error) {
	client, err := c.registry.GetLLM(c.name())
	if err != nil {
		return nil, err
	}
	return client.Chat(ctx, req)
}

// RegistryConfig defines the providers to instantiate from config.
// This mirrors the config.Config structure for provider setup.
type RegistryConfig struct {
	// LLMProviders maps provider names to their config
	LLMProviders map[string]LLMProviderConfig
}

// LLMProviderConfig matches config.LLMProviderCfg with resolved API key.
type LLMProviderConfig struct {
	Type       string        // "openai"
	Model      string        // Model name
	APIKey     string        // Resolved API key
	BaseURL    string        // Optional OpenAI-compatible endpoint
	Timeout    time.Duration // HTTP timeout
	MaxRetries int           // SDK transport retries
	RateLimit  int           // Requests per minute (0 = unlimited)
	Enabled    bool
}

// NewRegistryFromConfig creates a registry with providers based on configuration.
// Only enabled providers with valid API keys will be registered.
func NewRegistryFromConfig(cfg RegistryConfig) *Registry {
	r := NewRegistry()
	r.Reload(cfg)
	return r
}

// Reload updates the registry based on new configuration.
// Providers that are no longer configured will be unregistered.
// Providers with changed settings will be re-registered.
func (r *Registry) Reload(cfg RegistryConfig) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Track which providers should exist
	want := make(map[string]bool)

	for name, provCfg := range cfg.LLMProviders {
		if !provCfg.Enabled || provCfg.APIKey == "" {
			continue
		}
		want[name] = true

		existing, hasExisting := r.llmClients[name]
		if hasExisting && !needsLLMUpdate(existing, provCfg) {
			continue
		}
		client := createLLMClient(provCfg)
		if client == nil {
			if r.logger != nil {
				r.logger.Warn("unknown LLM provider type", "name", name, "type", provCfg.Type)
			}
			continue
		}
		r.llmClients[name] = client
		if r.logger != nil {
			if hasExisting {
				r.logger.Info("updated LLM client", "name", name, "type", provCfg.Type)
			} else {
				r.logger.Info("registered LLM client", "name", name, "type", provCfg.Type)
			}
		}
	}

	// Remove providers that are no longer configured
	for name := range r.llmClients {
		if !want[name] {
			delete(r.llmClients, name)
			if r.logger != nil {
				r.logger.Info("unregistered LLM client", "name", name)
			}
		}
	}
}

// createLLMClient creates an LLM client based on provider type,
// rate limited when the config asks for it.
func createLLMClient(cfg LLMProviderConfig) LLMClient {
	client := createBaseLLMClient(cfg)
	if client == nil {
		return nil
	}
	if cfg.RateLimit > 0 {
		return NewRateLimitedClient(client, cfg.RateLimit)
	}
	return client
}

func createBaseLLMClient(cfg LLMProviderConfig) LLMClient {
	switch cfg.Type {
	case "openai":
		return NewOpenAIClient(openAIConfigFor(cfg))
	case "openrouter":
		if cfg.BaseURL == "" {
			cfg.BaseURL = OpenRouterBaseURL
		}
		return NewOpenAIClient(openAIConfigFor(cfg))
	default:
		return nil
	}
}

func openAIConfigFor(cfg LLMProviderConfig) OpenAIConfig {
	return OpenAIConfig{
		APIKey:       cfg.APIKey,
		DefaultModel: cfg.Model,
		BaseURL:      cfg.BaseURL,
		Timeout:      cfg.Timeout,
		MaxRetries:   cfg.MaxRetries,
	}
}

// needsLLMUpdate checks if an LLM client needs to be recreated.
func needsLLMUpdate(client LLMClient, cfg LLMProviderConfig) bool {
	if rl, ok := client.(*RateLimitedClient); ok {
		if rl.limiter.requestsPerMinute != cfg.RateLimit {
			return true
		}
		client = rl.Unwrap()
	} else if cfg.RateLimit > 0 {
		return true
	}

	switch c := client.(type) {
	case *OpenAIClient:
		fresh, ok := createBaseLLMClient(cfg).(*OpenAIClient)
		if !ok {
			return true
		}
		return c.apiKey != fresh.apiKey ||
			c.defaultModel != fresh.defaultModel ||
			c.baseURL != fresh.baseURL ||
			c.timeout != fresh.timeout ||
			c.maxRetries != fresh.maxRetries
	default:
		return true
	}
}

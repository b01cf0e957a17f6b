package providers

import (
	"context"
	"sync"
	"testing"
)

func TestRegistry(t *testing.T) {
	t.Run("register and get LLM", func(t *testing.T) {
		r := NewRegistry()
		mock := NewMockClient()

		r.RegisterLLM("test-llm", mock)

		client, err := r.GetLLM("test-llm")
		if err != nil {
			t.Fatalf("GetLLM() error = %v", err)
		}
		if client != mock {
			t.Error("got different client than registered")
		}
	})

	t.Run("get nonexistent LLM", func(t *testing.T) {
		r := NewRegistry()

		_, err := r.GetLLM("nonexistent")
		if err == nil {
			t.Error("expected error for nonexistent LLM")
		}
	})

	t.Run("list providers sorted", func(t *testing.T) {
		r := NewRegistry()
		r.RegisterLLM("llm2", NewMockClient())
		r.RegisterLLM("llm1", NewMockClient())

		llmList := r.ListLLM()
		if len(llmList) != 2 || llmList[0] != "llm1" || llmList[1] != "llm2" {
			t.Errorf("ListLLM() = %v, want [llm1 llm2]", llmList)
		}
	})

	t.Run("has and unregister", func(t *testing.T) {
		r := NewRegistry()
		r.RegisterLLM("my-llm", NewMockClient())

		if !r.HasLLM("my-llm") {
			t.Error("HasLLM() = false for registered LLM")
		}
		r.UnregisterLLM("my-llm")
		if r.HasLLM("my-llm") {
			t.Error("HasLLM() = true after unregister")
		}
	})
}

func TestRegistry_Default(t *testing.T) {
	r := NewRegistry()
	first := NewMockClient()
	first.ResponseText = "first"
	second := NewMockClient()
	second.ResponseText = "second"
	r.RegisterLLM("a", first)
	r.RegisterLLM("b", second)

	client := r.Default()
	if _, err := client.Chat(context.Background(), &ChatRequest{}); err == nil {
		t.Error("expected error with no default selected")
	}
	if r.HasDefaultLLM() {
		t.Error("HasDefaultLLM() = true with no default")
	}

	r.SetDefaultLLM("a")
	result, err := client.Chat(context.Background(), &ChatRequest{})
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if result.Content != "first" || client.Name() != "a" {
		t.Errorf("expected default a, got %q from %s", result.Content, client.Name())
	}

	// The same client follows a change of default.
	r.SetDefaultLLM("b")
	result, err = client.Chat(context.Background(), &ChatRequest{})
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if result.Content != "second" {
		t.Errorf("expected second, got %q", result.Content)
	}
}

func TestRegistry_ClientFollowsReplacement(t *testing.T) {
	r := NewRegistry()
	old := NewMockClient()
	r.RegisterLLM("llm", old)
	client := r.Client("llm")

	replacement := NewMockClient()
	r.RegisterLLM("llm", replacement)

	if _, err := client.Chat(context.Background(), &ChatRequest{}); err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if old.RequestCount() != 0 || replacement.RequestCount() != 1 {
		t.Error("expected request to reach the replacement client")
	}
}

func TestNewRegistryFromConfig(t *testing.T) {
	t.Run("registers providers from config", func(t *testing.T) {
		r := NewRegistryFromConfig(RegistryConfig{
			LLMProviders: map[string]LLMProviderConfig{
				"openai": {
					Type:    "openai",
					Model:   "gpt-4o",
					APIKey:  "test-openai-key",
					Enabled: true,
				},
				"openrouter": {
					Type:    "openrouter",
					Model:   "openai/gpt-4o",
					APIKey:  "test-openrouter-key",
					Enabled: true,
				},
			},
		})

		if !r.HasLLM("openai") {
			t.Error("expected openai to be registered")
		}
		if !r.HasLLM("openrouter") {
			t.Error("expected openrouter to be registered")
		}

		client, _ := r.GetLLM("openrouter")
		or, ok := client.(*OpenAIClient)
		if !ok {
			t.Fatalf("expected OpenAIClient, got %T", client)
		}
		if or.baseURL != OpenRouterBaseURL {
			t.Errorf("expected OpenRouter base URL, got %s", or.baseURL)
		}
	})

	t.Run("skips disabled providers", func(t *testing.T) {
		r := NewRegistryFromConfig(RegistryConfig{
			LLMProviders: map[string]LLMProviderConfig{
				"openai": {
					Type:    "openai",
					APIKey:  "test-key",
					Enabled: false, // Disabled
				},
			},
		})

		if r.HasLLM("openai") {
			t.Error("disabled provider should not be registered")
		}
	})

	t.Run("skips providers without API keys", func(t *testing.T) {
		r := NewRegistryFromConfig(RegistryConfig{
			LLMProviders: map[string]LLMProviderConfig{
				"openai": {
					Type:    "openai",
					APIKey:  "", // Empty
					Enabled: true,
				},
			},
		})

		if r.HasLLM("openai") {
			t.Error("provider without API key should not be registered")
		}
	})

	t.Run("skips unknown provider types", func(t *testing.T) {
		r := NewRegistryFromConfig(RegistryConfig{
			LLMProviders: map[string]LLMProviderConfig{
				"weird": {Type: "carrier-pigeon", APIKey: "k", Enabled: true},
			},
		})

		if r.HasLLM("weird") {
			t.Error("unknown provider type should not be registered")
		}
	})

	t.Run("uses custom model for LLM provider", func(t *testing.T) {
		r := NewRegistryFromConfig(RegistryConfig{
			LLMProviders: map[string]LLMProviderConfig{
				"openai": {
					Type:    "openai",
					Model:   "custom-model",
					APIKey:  "test-key",
					Enabled: true,
				},
			},
		})

		client, _ := r.GetLLM("openai")
		oaClient, ok := client.(*OpenAIClient)
		if !ok {
			t.Fatal("expected OpenAIClient")
		}
		if oaClient.Model() != "custom-model" {
			t.Errorf("expected custom-model, got %s", oaClient.Model())
		}
	})

	t.Run("wraps rate limited providers", func(t *testing.T) {
		r := NewRegistryFromConfig(RegistryConfig{
			LLMProviders: map[string]LLMProviderConfig{
				"openai": {
					Type:      "openai",
					APIKey:    "test-key",
					RateLimit: 120,
					Enabled:   true,
				},
			},
		})

		client, _ := r.GetLLM("openai")
		rl, ok := client.(*RateLimitedClient)
		if !ok {
			t.Fatalf("expected RateLimitedClient, got %T", client)
		}
		if rl.Limiter().Status().TokensLimit != 120 {
			t.Errorf("expected limit 120, got %d", rl.Limiter().Status().TokensLimit)
		}
		if _, ok := rl.Unwrap().(*OpenAIClient); !ok {
			t.Errorf("expected wrapped OpenAIClient, got %T", rl.Unwrap())
		}
	})
}

func TestRegistry_Reload(t *testing.T) {
	t.Run("adds new providers on reload", func(t *testing.T) {
		r := NewRegistryFromConfig(RegistryConfig{}) // Start empty

		if r.HasLLM("openai") {
			t.Error("should start without openai")
		}

		r.Reload(RegistryConfig{
			LLMProviders: map[string]LLMProviderConfig{
				"openai": {
					Type:    "openai",
					APIKey:  "new-key",
					Enabled: true,
				},
			},
		})

		if !r.HasLLM("openai") {
			t.Error("expected openai after reload")
		}
	})

	t.Run("removes providers on reload", func(t *testing.T) {
		r := NewRegistryFromConfig(RegistryConfig{
			LLMProviders: map[string]LLMProviderConfig{
				"openai": {
					Type:    "openai",
					APIKey:  "key",
					Enabled: true,
				},
			},
		})

		if !r.HasLLM("openai") {
			t.Error("should start with openai")
		}

		r.Reload(RegistryConfig{})

		if r.HasLLM("openai") {
			t.Error("openai should be removed after reload")
		}
	})

	t.Run("updates providers with changed API keys", func(t *testing.T) {
		r := NewRegistryFromConfig(RegistryConfig{
			LLMProviders: map[string]LLMProviderConfig{
				"openai": {
					Type:    "openai",
					APIKey:  "old-key",
					Enabled: true,
				},
			},
		})

		client, _ := r.GetLLM("openai")
		if client.(*OpenAIClient).apiKey != "old-key" {
			t.Error("should start with old key")
		}

		r.Reload(RegistryConfig{
			LLMProviders: map[string]LLMProviderConfig{
				"openai": {
					Type:    "openai",
					APIKey:  "new-key",
					Enabled: true,
				},
			},
		})

		client, _ = r.GetLLM("openai")
		if got := client.(*OpenAIClient).apiKey; got != "new-key" {
			t.Errorf("expected new-key, got %s", got)
		}
	})

	t.Run("keeps providers with unchanged config", func(t *testing.T) {
		cfg := RegistryConfig{
			LLMProviders: map[string]LLMProviderConfig{
				"openai": {
					Type:      "openai",
					Model:     "test-model",
					APIKey:    "same-key",
					RateLimit: 60,
					Enabled:   true,
				},
			},
		}
		r := NewRegistryFromConfig(cfg)
		client1, _ := r.GetLLM("openai")

		r.Reload(cfg)
		client2, _ := r.GetLLM("openai")

		// Should be the same instance
		if client1 != client2 {
			t.Error("client should not be replaced when config unchanged")
		}
	})

	t.Run("replaces provider when rate limit changes", func(t *testing.T) {
		cfg := RegistryConfig{
			LLMProviders: map[string]LLMProviderConfig{
				"openai": {Type: "openai", APIKey: "k", RateLimit: 60, Enabled: true},
			},
		}
		r := NewRegistryFromConfig(cfg)
		client1, _ := r.GetLLM("openai")

		p := cfg.LLMProviders["openai"]
		p.RateLimit = 0
		cfg.LLMProviders["openai"] = p
		r.Reload(cfg)

		client2, _ := r.GetLLM("openai")
		if client1 == client2 {
			t.Error("client should be replaced when rate limit changes")
		}
		if _, ok := client2.(*OpenAIClient); !ok {
			t.Errorf("expected unwrapped client, got %T", client2)
		}
	})

	t.Run("concurrent reload is safe", func(t *testing.T) {
		r := NewRegistryFromConfig(RegistryConfig{
			LLMProviders: map[string]LLMProviderConfig{
				"openai": {
					Type:    "openai",
					APIKey:  "key",
					Enabled: true,
				},
			},
		})

		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(2)
			go func(n int) {
				defer wg.Done()
				r.Reload(RegistryConfig{
					LLMProviders: map[string]LLMProviderConfig{
						"openai": {
							Type:    "openai",
							APIKey:  "key-" + string(rune('a'+n)),
							Enabled: true,
						},
					},
				})
			}(i)
			go func() {
				defer wg.Done()
				r.GetLLM("openai") // May fail, that's ok
			}()
		}
		wg.Wait()
	})
}

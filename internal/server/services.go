package server

import (
	"fmt"
	"log/slog"

	"github.com/jackzampolin/hidef/internal/config"
	"github.com/jackzampolin/hidef/internal/dictionary"
	"github.com/jackzampolin/hidef/internal/home"
	"github.com/jackzampolin/hidef/internal/llmcall"
	"github.com/jackzampolin/hidef/internal/providers"
	"github.com/jackzampolin/hidef/internal/svcctx"
)

// ServicesConfig configures the resolution stack.
type ServicesConfig struct {
	// ConfigManager supplies provider and oracle settings. When nil the
	// built-in defaults are used and nothing is reloaded.
	ConfigManager *config.Manager
	// Registry overrides the provider registry built from config.
	// An injected registry is never reloaded.
	Registry *providers.Registry
	// RecorderCapacity bounds the in-memory LLM call history.
	RecorderCapacity int
	Home             *home.Dir
	Logger           *slog.Logger
}

// Stack is the resolution stack shared by the server and the local CLI.
type Stack struct {
	Services *svcctx.Services
	Oracle   *dictionary.LLMOracle
}

// BuildServices wires the provider registry, the LLM oracle and the
// dictionary service from config. With a ConfigManager, config changes are
// applied to every component without rebuilding the caches.
func BuildServices(cfg ServicesConfig) (*Stack, error) {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	current := config.DefaultConfig()
	if cfg.ConfigManager != nil {
		current = cfg.ConfigManager.Get()
	}

	registry := cfg.Registry
	ownsRegistry := registry == nil
	if ownsRegistry {
		registry = providers.NewRegistry()
		registry.SetLogger(cfg.Logger)
		applyRegistryConfig(registry, current)
	}

	recorder := llmcall.NewRecorder(cfg.RecorderCapacity)

	oracle, err := dictionary.NewLLMOracle(dictionary.LLMOracleConfig{
		Client:   registry.Default(),
		Settings: oracleSettings(current),
		Recorder: recorder,
		Logger:   cfg.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create oracle: %w", err)
	}

	svc, err := dictionary.NewService(dictionary.Config{
		Oracle:        oracle,
		OracleTimeout: current.Defaults.OracleTimeout(),
		Logger:        cfg.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create dictionary service: %w", err)
	}

	if cfg.ConfigManager != nil {
		cfg.ConfigManager.OnChange(func(c *config.Config) {
			if ownsRegistry {
				applyRegistryConfig(registry, c)
			}
			oracle.UpdateSettings(oracleSettings(c))
			svc.SetOracleTimeout(c.Defaults.OracleTimeout())
			cfg.Logger.Info("resolution stack reloaded from config",
				"default_llm", registry.DefaultLLM(),
				"timeout", svc.OracleTimeout())
		})
	}

	return &Stack{
		Services: &svcctx.Services{
			Dictionary:    svc,
			Registry:      registry,
			LLMCalls:      recorder,
			ConfigManager: cfg.ConfigManager,
			Logger:        cfg.Logger,
			Home:          cfg.Home,
		},
		Oracle: oracle,
	}, nil
}

func applyRegistryConfig(registry *providers.Registry, c *config.Config) {
	registry.Reload(c.ToProviderRegistryConfig())
	registry.SetDefaultLLM(c.Defaults.LLMProvider)
}

func oracleSettings(c *config.Config) dictionary.OracleSettings {
	return dictionary.OracleSettings{
		Model:            c.Defaults.Model,
		Temperature:      providers.Float(c.Defaults.Temperature),
		ContextMaxTokens: c.Defaults.ContextMaxTokens,
	}
}

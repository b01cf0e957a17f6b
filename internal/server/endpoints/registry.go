package endpoints

import (
	"html/template"

	"github.com/jackzampolin/hidef/internal/api"
	"github.com/jackzampolin/hidef/internal/dictionary"
)

// Config holds dependencies needed by some endpoints.
type Config struct {
	Oracle    *dictionary.LLMOracle
	Templates *template.Template
	// Landing is the term "/" redirects to. Defaults to DefaultLandingTerm.
	Landing         string
	SwaggerSpecPath string
}

// All returns all endpoint instances.
func All(cfg Config) []api.Endpoint {
	swagger := &SwaggerEndpoint{SpecPath: cfg.SwaggerSpecPath}
	eps := []api.Endpoint{
		// Health endpoints
		&HealthEndpoint{},
		&ReadyEndpoint{},
		&StatusEndpoint{Oracle: cfg.Oracle},

		// Dictionary endpoints
		&DefineEndpoint{},
		&ClickEndpoint{},
		&CacheStatsEndpoint{},

		// HTML pages
		&RootEndpoint{Landing: cfg.Landing},
		&SearchEndpoint{},
		&TermPageEndpoint{Templates: cfg.Templates},
		&ClickPageEndpoint{Templates: cfg.Templates},

		// Settings endpoints
		&ListSettingsEndpoint{},
		&GetSettingEndpoint{},

		// LLM call history endpoints
		&ListLLMCallsEndpoint{},
		&GetLLMCallEndpoint{},
		&LLMCallCountsEndpoint{},
		&MetricsEndpoint{},

		// Swagger/OpenAPI endpoints
		swagger,
		&SwaggerUIEndpoint{},

		&StaticEndpoint{},
	}
	swagger.Endpoints = func() []api.Endpoint { return eps }
	return eps
}

// SettingsCommands returns endpoints for settings operations.
// This groups settings-related commands under "settings" subcommand.
func SettingsCommands() []api.Endpoint {
	return []api.Endpoint{
		&ListSettingsEndpoint{},
		&GetSettingEndpoint{},
	}
}

// LLMCallCommands returns endpoints for LLM call history operations.
// This groups llmcall-related commands under "llmcalls" subcommand.
func LLMCallCommands() []api.Endpoint {
	return []api.Endpoint{
		&ListLLMCallsEndpoint{},
		&GetLLMCallEndpoint{},
		&LLMCallCountsEndpoint{},
	}
}

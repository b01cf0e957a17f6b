package endpoints

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/hidef/internal/api"
	"github.com/jackzampolin/hidef/internal/dictionary"
	"github.com/jackzampolin/hidef/internal/svcctx"
)

// HealthResponse is the response for health check endpoints.
type HealthResponse struct {
	Status string `json:"status"`
	Oracle string `json:"oracle,omitempty"`
}

// HealthEndpoint handles GET /health.
type HealthEndpoint struct{}

func (e *HealthEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/health", e.handler
}

func (e *HealthEndpoint) RequiresInit() bool { return false }

func (e *HealthEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

func (e *HealthEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check server health",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp HealthResponse
			if err := client.Get(cmd.Context(), "/health", &resp); err != nil {
				return err
			}
			fmt.Printf("Status: %s\n", resp.Status)
			return nil
		},
	}
}

// ReadyEndpoint handles GET /ready.
// The server is ready once the default LLM provider is registered.
type ReadyEndpoint struct{}

func (e *ReadyEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/ready", e.handler
}

func (e *ReadyEndpoint) RequiresInit() bool { return false }

func (e *ReadyEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "ok", Oracle: "ok"}

	registry := svcctx.RegistryFrom(r.Context())
	switch {
	case registry == nil || svcctx.DictionaryFrom(r.Context()) == nil:
		resp.Status = "degraded"
		resp.Oracle = "not_initialized"
		writeJSON(w, http.StatusServiceUnavailable, resp)
		return
	case !registry.HasDefaultLLM():
		resp.Status = "degraded"
		resp.Oracle = "no_provider"
		writeJSON(w, http.StatusServiceUnavailable, resp)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (e *ReadyEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "ready",
		Short: "Check server readiness (includes the LLM provider)",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp HealthResponse
			if err := client.Get(cmd.Context(), "/ready", &resp); err != nil {
				return err
			}
			fmt.Printf("Status: %s\n", resp.Status)
			if resp.Oracle != "" {
				fmt.Printf("Oracle: %s\n", resp.Oracle)
			}
			return nil
		},
	}
}

// StatusResponse is the detailed status response.
type StatusResponse struct {
	Server    string          `json:"server" yaml:"server"`
	Providers ProvidersStatus `json:"providers" yaml:"providers"`
	Oracle    OracleStatus    `json:"oracle" yaml:"oracle"`
	Cache     CacheResponse   `json:"cache" yaml:"cache"`
	LLMCalls  int             `json:"llm_calls" yaml:"llm_calls"`
}

// ProvidersStatus shows registered LLM providers.
type ProvidersStatus struct {
	LLM     []string `json:"llm" yaml:"llm"`
	Default string   `json:"default" yaml:"default"`
}

// OracleStatus shows the oracle settings in effect.
type OracleStatus struct {
	Model            string   `json:"model,omitempty" yaml:"model,omitempty"`
	Temperature      *float64 `json:"temperature,omitempty" yaml:"temperature,omitempty"`
	ContextMaxTokens int      `json:"context_max_tokens" yaml:"context_max_tokens"`
	TimeoutSeconds   float64  `json:"timeout_seconds" yaml:"timeout_seconds"`
}

// StatusEndpoint handles GET /status.
type StatusEndpoint struct {
	// Oracle is set by the server since settings live on the oracle itself.
	Oracle *dictionary.LLMOracle
}

func (e *StatusEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/status", e.handler
}

func (e *StatusEndpoint) RequiresInit() bool { return false }

func (e *StatusEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	resp := StatusResponse{
		Server: "running",
	}

	if registry := svcctx.RegistryFrom(r.Context()); registry != nil {
		resp.Providers.LLM = registry.ListLLM()
		resp.Providers.Default = registry.DefaultLLM()
	}

	if e.Oracle != nil {
		settings := e.Oracle.Settings()
		resp.Oracle.Model = settings.Model
		resp.Oracle.Temperature = settings.Temperature
		resp.Oracle.ContextMaxTokens = settings.ContextMaxTokens
	}

	if svc := svcctx.DictionaryFrom(r.Context()); svc != nil {
		resp.Oracle.TimeoutSeconds = svc.OracleTimeout().Seconds()
		resp.Cache = cacheResponse(svc)
	}

	if rec := svcctx.LLMCallsFrom(r.Context()); rec != nil {
		resp.LLMCalls = rec.Len()
	}

	writeJSON(w, http.StatusOK, resp)
}

func (e *StatusEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Get detailed server status",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp StatusResponse
			if err := client.Get(cmd.Context(), "/status", &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

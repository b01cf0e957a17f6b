package endpoints

import (
	"fmt"
	"net/http"
	"net/url"
	"sort"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/hidef/internal/api"
	"github.com/jackzampolin/hidef/internal/llmcall"
	"github.com/jackzampolin/hidef/internal/metrics"
	"github.com/jackzampolin/hidef/internal/svcctx"
)

// MetricsResponse is the response for GET /api/metrics.
type MetricsResponse struct {
	Overall     *metrics.Stats            `json:"overall" yaml:"overall"`
	ByPromptKey map[string]*metrics.Stats `json:"by_prompt_key" yaml:"by_prompt_key"`
	ByProvider  map[string]*metrics.Stats `json:"by_provider" yaml:"by_provider"`
}

// MetricsEndpoint handles GET /api/metrics.
type MetricsEndpoint struct{}

func (e *MetricsEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/metrics", e.handler
}

func (e *MetricsEndpoint) RequiresInit() bool { return false }

// handler godoc
//
//	@Summary		Oracle call metrics
//	@Description	Latency percentiles and token totals over the held oracle calls
//	@Tags			metrics
//	@Produce		json
//	@Param			provider	query		string	false	"Filter by provider"
//	@Param			model		query		string	false	"Filter by model"
//	@Success		200			{object}	MetricsResponse
//	@Failure		500			{object}	ErrorResponse
//	@Router			/api/metrics [get]
func (e *MetricsEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	rec := svcctx.LLMCallsFrom(r.Context())
	if rec == nil {
		writeError(w, http.StatusInternalServerError, "LLM call recorder not available")
		return
	}

	calls := rec.List(llmcall.QueryFilter{
		Provider: r.URL.Query().Get("provider"),
		Model:    r.URL.Query().Get("model"),
		Limit:    rec.Len(),
	})

	writeJSON(w, http.StatusOK, MetricsResponse{
		Overall:     metrics.Compute(calls),
		ByPromptKey: metrics.ByPromptKey(calls),
		ByProvider:  metrics.ByProvider(calls),
	})
}

func (e *MetricsEndpoint) Command(getServerURL func() string) *cobra.Command {
	var provider, model string
	var table bool

	cmd := &cobra.Command{
		Use:   "metrics",
		Short: "Get oracle call latency and token metrics",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())

			params := url.Values{}
			if provider != "" {
				params.Set("provider", provider)
			}
			if model != "" {
				params.Set("model", model)
			}
			path := "/api/metrics"
			if len(params) > 0 {
				path += "?" + params.Encode()
			}

			var resp MetricsResponse
			if err := client.Get(cmd.Context(), path, &resp); err != nil {
				return err
			}
			if !table {
				return api.Output(resp)
			}

			fmt.Printf("%-32s %6s %6s %10s %10s %10s\n", "PROMPT KEY", "CALLS", "ERRORS", "P50 (ms)", "P95 (ms)", "AVG OUT")
			keys := make([]string, 0, len(resp.ByPromptKey))
			for k := range resp.ByPromptKey {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				s := resp.ByPromptKey[k]
				fmt.Printf("%-32s %6d %6d %10.0f %10.0f %10.1f\n", k, s.Count, s.ErrorCount, s.LatencyP50, s.LatencyP95, s.AvgOutputTokens)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&provider, "provider", "", "Filter by provider")
	cmd.Flags().StringVar(&model, "model", "", "Filter by model")
	cmd.Flags().BoolVar(&table, "table", false, "Print a per-operation table")
	return cmd
}

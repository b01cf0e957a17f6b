package endpoints

import (
	"net/http"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/hidef/internal/api"
	"github.com/jackzampolin/hidef/internal/dictionary"
	"github.com/jackzampolin/hidef/internal/svcctx"
)

// CacheResponse reports both resolution caches.
type CacheResponse struct {
	Terms  dictionary.CacheStats `json:"terms" yaml:"terms"`
	Clicks dictionary.CacheStats `json:"clicks" yaml:"clicks"`
}

func cacheResponse(svc *dictionary.Service) CacheResponse {
	return CacheResponse{
		Terms:  svc.Terms().Stats(),
		Clicks: svc.Clicks().Stats(),
	}
}

// CacheStatsEndpoint handles GET /api/cache.
type CacheStatsEndpoint struct{}

func (e *CacheStatsEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/cache", e.handler
}

func (e *CacheStatsEndpoint) RequiresInit() bool { return false }

// handler godoc
//
//	@Summary		Cache statistics
//	@Description	Entry counts, hits, misses, and duplicate writes for the term and click caches
//	@Tags			dictionary
//	@Produce		json
//	@Success		200	{object}	CacheResponse
//	@Failure		503	{object}	ErrorResponse
//	@Router			/api/cache [get]
func (e *CacheStatsEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	svc := svcctx.DictionaryFrom(r.Context())
	if svc == nil {
		writeError(w, http.StatusServiceUnavailable, "resolution service not available")
		return
	}
	writeJSON(w, http.StatusOK, cacheResponse(svc))
}

func (e *CacheStatsEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "cache",
		Short: "Show term and click cache statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp CacheResponse
			if err := client.Get(cmd.Context(), "/api/cache", &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

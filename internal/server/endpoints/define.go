package endpoints

import (
	"net/http"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/hidef/internal/api"
	"github.com/jackzampolin/hidef/internal/dictionary"
	"github.com/jackzampolin/hidef/internal/svcctx"
)

// DefineEndpoint handles GET /api/define/{word...}.
type DefineEndpoint struct{}

func (e *DefineEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/define/{word...}", e.handler
}

func (e *DefineEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Define a term
//	@Description	Resolve a term to its definition, consulting the term cache first
//	@Tags			dictionary
//	@Produce		json
//	@Param			word	path		string	true	"Term (URL-encoded)"
//	@Success		200		{object}	dictionary.Page
//	@Failure		400		{object}	ErrorResponse
//	@Failure		502		{object}	ErrorResponse
//	@Router			/api/define/{word} [get]
func (e *DefineEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	svc := svcctx.DictionaryFrom(r.Context())
	if svc == nil {
		writeError(w, http.StatusServiceUnavailable, "resolution service not available")
		return
	}

	res, err := svc.ResolveByTerm(r.Context(), r.PathValue("word"))
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dictionary.NewPage(res))
}

func (e *DefineEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "define <term>",
		Short: "Define a term",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var page dictionary.Page
			if err := client.Get(cmd.Context(), "/api/define/"+url.PathEscape(args[0]), &page); err != nil {
				return err
			}
			return api.Output(page)
		},
	}
}

// ClickEndpoint handles GET /api/click/{key...}.
type ClickEndpoint struct{}

func (e *ClickEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/click/{key...}", e.handler
}

func (e *ClickEndpoint) RequiresInit() bool { return true }

// handler godoc
//
//	@Summary		Resolve a clicked word
//	@Description	Resolve a clicked-span key (a definition with exactly one [bracketed] word) to the term it denotes in context
//	@Tags			dictionary
//	@Produce		json
//	@Param			key	path		string	true	"Clicked-span key (URL-encoded)"
//	@Success		200	{object}	dictionary.Page
//	@Failure		400	{object}	ErrorResponse
//	@Failure		502	{object}	ErrorResponse
//	@Router			/api/click/{key} [get]
func (e *ClickEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	svc := svcctx.DictionaryFrom(r.Context())
	if svc == nil {
		writeError(w, http.StatusServiceUnavailable, "resolution service not available")
		return
	}

	res, err := svc.ResolveByClick(r.Context(), r.PathValue("key"))
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dictionary.NewPage(res))
}

func (e *ClickEndpoint) Command(getServerURL func() string) *cobra.Command {
	var index int
	cmd := &cobra.Command{
		Use:   "click <definition-or-key>",
		Short: "Resolve a clicked word in the context of a definition",
		Long: `Resolve a clicked word in the context of a definition.

Pass a clicked-span key with exactly one [bracketed] word, or pass a plain
definition together with --index to select the clicked word (0-based).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := ClickKeyFromArgs(args[0], index)
			if err != nil {
				return err
			}
			client := api.NewClient(getServerURL())
			var page dictionary.Page
			if err := client.Get(cmd.Context(), "/api/click/"+url.PathEscape(key), &page); err != nil {
				return err
			}
			return api.Output(page)
		},
	}
	cmd.Flags().IntVar(&index, "index", -1, "Index of the clicked word when passing a plain definition")
	return cmd
}

// ClickKeyFromArgs builds the clicked-span key from a raw key, or from a
// plain definition and word index when index is non-negative.
func ClickKeyFromArgs(arg string, index int) (string, error) {
	if index < 0 {
		return arg, nil
	}
	key, err := dictionary.BuildClickedSpanKey(dictionary.Definition(arg), index)
	return string(key), err
}

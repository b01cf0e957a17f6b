package endpoints

import (
	"bytes"
	"html/template"
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/hidef/internal/dictionary"
	"github.com/jackzampolin/hidef/internal/svcctx"
)

// DefaultLandingTerm is the term "/" redirects to.
const DefaultLandingTerm = "High definition"

// errorPage is the data for the "error" template.
type errorPage struct {
	Message string
	Retry   string
}

// pageRenderer renders resolutions and failures as HTML.
type pageRenderer struct {
	templates *template.Template
}

func (p pageRenderer) render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	if p.templates == nil {
		http.Error(w, "templates not available", http.StatusInternalServerError)
		return
	}

	// Render into a buffer so a template failure can still produce a 500.
	var buf bytes.Buffer
	if err := p.templates.ExecuteTemplate(&buf, name, data); err != nil {
		if logger := svcctx.LoggerFrom(r.Context()); logger != nil {
			logger.Error("template render failed", "template", name, "error", err)
		}
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

func (p pageRenderer) renderResult(w http.ResponseWriter, r *http.Request, res dictionary.Resolution, err error) {
	if err != nil {
		status := statusFor(err)
		page := errorPage{Message: "This definition could not be resolved."}
		switch status {
		case http.StatusBadRequest:
			page.Message = err.Error()
		case http.StatusBadGateway:
			page.Message = "The dictionary is not answering right now."
			page.Retry = r.URL.RequestURI()
		}
		p.render(w, r, status, "error", page)
		return
	}
	p.render(w, r, http.StatusOK, "page", dictionary.NewPage(res))
}

// TermPageEndpoint handles GET /d/{word...}.
type TermPageEndpoint struct {
	Templates *template.Template
}

func (e *TermPageEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", strings.TrimSuffix(dictionary.TermRoutePrefix, "/") + "/{word...}", e.handler
}

func (e *TermPageEndpoint) RequiresInit() bool { return true }

func (e *TermPageEndpoint) Command(_ func() string) *cobra.Command { return nil }

func (e *TermPageEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	renderer := pageRenderer{templates: e.Templates}
	svc := svcctx.DictionaryFrom(r.Context())
	if svc == nil {
		renderer.render(w, r, http.StatusServiceUnavailable, "error", errorPage{Message: "The dictionary is starting up."})
		return
	}
	res, err := svc.ResolveByTerm(r.Context(), r.PathValue("word"))
	renderer.renderResult(w, r, res, err)
}

// ClickPageEndpoint handles GET /c/{key...}.
type ClickPageEndpoint struct {
	Templates *template.Template
}

func (e *ClickPageEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", strings.TrimSuffix(dictionary.ClickRoutePrefix, "/") + "/{key...}", e.handler
}

func (e *ClickPageEndpoint) RequiresInit() bool { return true }

func (e *ClickPageEndpoint) Command(_ func() string) *cobra.Command { return nil }

func (e *ClickPageEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	renderer := pageRenderer{templates: e.Templates}
	svc := svcctx.DictionaryFrom(r.Context())
	if svc == nil {
		renderer.render(w, r, http.StatusServiceUnavailable, "error", errorPage{Message: "The dictionary is starting up."})
		return
	}
	res, err := svc.ResolveByClick(r.Context(), r.PathValue("key"))
	renderer.renderResult(w, r, res, err)
}

// SearchEndpoint handles GET /define?q=term from the page's search form.
type SearchEndpoint struct{}

func (e *SearchEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/define", e.handler
}

func (e *SearchEndpoint) RequiresInit() bool { return false }

func (e *SearchEndpoint) Command(_ func() string) *cobra.Command { return nil }

func (e *SearchEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	http.Redirect(w, r, dictionary.TermRoute(q), http.StatusFound)
}

// RootEndpoint handles GET / by redirecting to the landing term.
type RootEndpoint struct {
	Landing string
}

func (e *RootEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/{$}", e.handler
}

func (e *RootEndpoint) RequiresInit() bool { return false }

func (e *RootEndpoint) Command(_ func() string) *cobra.Command { return nil }

func (e *RootEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	landing := e.Landing
	if landing == "" {
		landing = DefaultLandingTerm
	}
	http.Redirect(w, r, dictionary.TermRoute(landing), http.StatusFound)
}

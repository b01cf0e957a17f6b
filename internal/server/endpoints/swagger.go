package endpoints

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/hidef/internal/api"
	"github.com/jackzampolin/hidef/version"
)

// SwaggerEndpoint serves the OpenAPI spec. The document generated by
// `swag init` (see docs/doc.go) is served when present; otherwise a route
// listing is derived from Endpoints so a fresh checkout still answers.
type SwaggerEndpoint struct {
	// SpecPath is the path to the generated swagger.json.
	SpecPath string
	// Endpoints lists the routes for the derived document.
	Endpoints func() []api.Endpoint
}

func (e *SwaggerEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/swagger.json", e.handler
}

func (e *SwaggerEndpoint) RequiresInit() bool { return false }

func (e *SwaggerEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	if e.SpecPath != "" {
		if data, err := os.ReadFile(e.SpecPath); err == nil {
			w.Header().Set("Content-Type", "application/json")
			w.Write(data)
			return
		}
	}
	if e.Endpoints == nil {
		writeError(w, http.StatusNotFound, "swagger.json not generated; run go generate ./docs")
		return
	}
	writeJSON(w, http.StatusOK, routeSpec(e.Endpoints()))
}

// routeSpec builds a minimal Swagger 2.0 document from endpoint routes.
// Summaries come from each endpoint's CLI command when it has one.
func routeSpec(eps []api.Endpoint) map[string]any {
	paths := map[string]map[string]any{}
	for _, ep := range eps {
		method, pattern, _ := ep.Route()
		path, params := swaggerPath(pattern)

		op := map[string]any{
			"responses": map[string]any{"200": map[string]string{"description": "OK"}},
		}
		if cmd := ep.Command(func() string { return "" }); cmd != nil && cmd.Short != "" {
			op["summary"] = cmd.Short
		}
		if len(params) > 0 {
			op["parameters"] = params
		}
		if paths[path] == nil {
			paths[path] = map[string]any{}
		}
		paths[path][strings.ToLower(method)] = op
	}
	return map[string]any{
		"swagger":  "2.0",
		"info":     map[string]string{"title": "hidef API", "version": version.GitRelease},
		"basePath": "/",
		"paths":    paths,
	}
}

// swaggerPath converts a ServeMux pattern ("/d/{word...}", "/{$}") to a
// Swagger path and its path parameters.
func swaggerPath(pattern string) (string, []map[string]any) {
	var params []map[string]any
	segs := strings.Split(pattern, "/")
	for i, seg := range segs {
		if !strings.HasPrefix(seg, "{") || !strings.HasSuffix(seg, "}") {
			continue
		}
		name := strings.TrimSuffix(strings.Trim(seg, "{}"), "...")
		if name == "$" {
			segs[i] = ""
			continue
		}
		segs[i] = "{" + name + "}"
		params = append(params, map[string]any{
			"name": name, "in": "path", "required": true, "type": "string",
		})
	}
	return strings.Join(segs, "/"), params
}

func (e *SwaggerEndpoint) Command(getServerURL func() string) *cobra.Command {
	var outputFile string
	cmd := &cobra.Command{
		Use:   "swagger",
		Short: "Fetch OpenAPI spec from server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client := api.NewClient(getServerURL())

			var spec map[string]any
			if err := client.Get(ctx, "/swagger.json", &spec); err != nil {
				return err
			}

			if outputFile != "" {
				f, err := os.Create(outputFile)
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", outputFile, err)
				}
				defer f.Close()
				return api.OutputTo(f, api.GetOutputFormat(), spec)
			}
			return api.Output(spec)
		},
	}
	cmd.Flags().StringVarP(&outputFile, "file", "f", "", "Write the spec to this file")
	return cmd
}

// SwaggerUIEndpoint serves Swagger UI.
type SwaggerUIEndpoint struct{}

func (e *SwaggerUIEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/swagger", e.handler
}

func (e *SwaggerUIEndpoint) RequiresInit() bool { return false }

func (e *SwaggerUIEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	html := `<!DOCTYPE html>
<html>
<head>
  <title>hidef API</title>
  <link rel="stylesheet" type="text/css" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css">
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    SwaggerUIBundle({
      url: '/swagger.json',
      dom_id: '#swagger-ui',
      presets: [SwaggerUIBundle.presets.apis, SwaggerUIBundle.SwaggerUIStandalonePreset],
      layout: 'BaseLayout'
    });
  </script>
</body>
</html>`
	w.Header().Set("Content-Type", "text/html")
	w.Write([]byte(html))
}

func (e *SwaggerUIEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:    "swagger-ui",
		Hidden: true,
		Short:  "Open Swagger UI in browser",
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.Println("Open in browser:", getServerURL()+"/swagger")
			return nil
		},
	}
}

// GetSwaggerSpecPath returns the path to swagger.json based on executable location.
func GetSwaggerSpecPath() string {
	// Try relative to executable first
	if exe, err := os.Executable(); err == nil {
		specPath := filepath.Join(filepath.Dir(exe), "docs", "swagger", "swagger.json")
		if _, err := os.Stat(specPath); err == nil {
			return specPath
		}
	}
	// Fall back to working directory
	return "docs/swagger/swagger.json"
}

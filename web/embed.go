// Package web provides the embedded page templates and stylesheet.
package web

import (
	"embed"
	"html/template"
	"io/fs"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Templates parses the embedded page templates.
// The "page" template renders a resolved node; "error" renders a failed lookup.
func Templates() (*template.Template, error) {
	return template.ParseFS(templateFS, "templates/*.html")
}

// StaticFS returns the embedded static assets with "static" as the root,
// so files are accessed directly (e.g., "style.css").
func StaticFS() (fs.FS, error) {
	return fs.Sub(staticFS, "static")
}

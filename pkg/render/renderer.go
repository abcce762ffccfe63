// Package render turns the data structures produced by the gateway's
// aggregation routes into HTML pages. The forwarding core is
// indifferent to the markup; it hands over a plain data structure and
// a view name.
package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
)

//go:embed templates/*.html
var templateFS embed.FS

// Renderer renders named views from the embedded template set.
type Renderer struct {
	templates *template.Template
}

// New parses the embedded templates. Parse errors are programming
// errors and surface at startup, not per-request.
func New() (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &Renderer{templates: tmpl}, nil
}

// Render writes the named view with the given data.
func (r *Renderer) Render(w io.Writer, view string, data any) error {
	if err := r.templates.ExecuteTemplate(w, view+".html", data); err != nil {
		return fmt.Errorf("failed to render view %q: %w", view, err)
	}
	return nil
}

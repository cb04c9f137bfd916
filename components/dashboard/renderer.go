package dashboard

import (
	"embed"
	"fmt"
	"io"
	"io/fs"

	template "github.com/goliatone/go-template"
)

//go:embed templates/*.html
var embeddedTemplates embed.FS

// Renderer turns a named template and its context into HTML. When out is
// given the result is also written there.
type Renderer interface {
	Render(name string, data any, out ...io.Writer) (string, error)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(name string, data any, out ...io.Writer) (string, error)

func (f RendererFunc) Render(name string, data any, out ...io.Writer) (string, error) {
	return f(name, data, out...)
}

// NewTemplateRenderer renders the bundled dashboard page with go-template.
// Templates are read from the embedded filesystem only, so the renderer
// works from any working directory.
func NewTemplateRenderer() (Renderer, error) {
	templates, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		return nil, fmt.Errorf("dashboard: template fs: %w", err)
	}
	return template.NewRenderer(
		template.WithFS(templates),
		template.WithExtension(".html"),
	)
}

package dashboard

import (
	"context"
	"errors"
	"io"
	"strings"
)

const defaultDashboardTemplate = "dashboard.html"

// LayoutResolver is the subset of Service the controller needs.
type LayoutResolver interface {
	ConfigureLayout(ctx context.Context, viewer ViewerContext) (View, error)
}

// ControllerOptions wires the controller collaborators.
type ControllerOptions struct {
	Service  LayoutResolver
	Renderer Renderer
	Template string
	Title    string
	// BasePath prefixes the form targets in the page. Defaults to "/admin".
	BasePath string
}

// Controller orchestrates HTML and JSON rendering for the admin dashboard.
type Controller struct {
	opts ControllerOptions
}

// NewController wires the service into a controller.
func NewController(opts ControllerOptions) *Controller {
	if opts.Template == "" {
		opts.Template = defaultDashboardTemplate
	}
	if opts.Title == "" {
		opts.Title = "Sales Dashboard"
	}
	opts.BasePath = strings.TrimRight(opts.BasePath, "/")
	if opts.BasePath == "" {
		opts.BasePath = "/admin"
	}
	return &Controller{opts: opts}
}

// Render resolves the layout for a viewer and returns it to the caller.
func (c *Controller) Render(ctx context.Context, viewer ViewerContext) (View, error) {
	if c.opts.Service == nil {
		return View{}, errors.New("dashboard: controller has no layout resolver")
	}
	return c.opts.Service.ConfigureLayout(ctx, viewer)
}

// LayoutPayload builds the template context for a viewer.
func (c *Controller) LayoutPayload(ctx context.Context, viewer ViewerContext) (map[string]any, error) {
	view, err := c.Render(ctx, viewer)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"title":        c.opts.Title,
		"base_path":    c.opts.BasePath,
		"view":         view,
		"stats":        view.Stats,
		"rows":         view.Rows,
		"catalog":      view.Catalog,
		"theme":        string(view.Theme),
		"theme_css":    view.ThemeCSS,
		"toggle_label": view.Theme.ToggleLabel(),
		"status":       string(view.Status),
		"stale":        view.Stale,
		"error":        view.Error,
		"viewer":       viewer.UserID,
	}, nil
}

// RenderTemplate renders the dashboard HTML into out.
func (c *Controller) RenderTemplate(ctx context.Context, viewer ViewerContext, out io.Writer) error {
	if c.opts.Renderer == nil {
		return errors.New("dashboard: controller has no renderer")
	}
	payload, err := c.LayoutPayload(ctx, viewer)
	if err != nil {
		return err
	}
	_, err = c.opts.Renderer.Render(c.opts.Template, payload, out)
	return err
}

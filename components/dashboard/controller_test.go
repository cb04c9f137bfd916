package dashboard

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
)

type stubLayoutResolver struct {
	view View
	err  error
}

func (s *stubLayoutResolver) ConfigureLayout(ctx context.Context, viewer ViewerContext) (View, error) {
	return s.view, s.err
}

type stubRenderer struct {
	lastTemplate string
	lastPayload  map[string]any
	err          error
}

func (r *stubRenderer) Render(name string, data any, out ...io.Writer) (string, error) {
	r.lastTemplate = name
	if payload, ok := data.(map[string]any); ok {
		r.lastPayload = payload
	}
	if len(out) > 0 && out[0] != nil {
		out[0].Write([]byte("<html></html>"))
	}
	return "<html></html>", r.err
}

func TestControllerRenderTemplate(t *testing.T) {
	service := &stubLayoutResolver{
		view: View{
			Status: StatusReady,
			Theme:  ThemeDark,
			Rows: []RenderedRow{{
				Columns: "1fr",
				Weight:  1,
				Widgets: []RenderedWidget{{Widget: Widget{ID: "top-products-1", Type: WidgetTopProducts}, Payload: WidgetData{"title": "Top Products"}}},
			}},
		},
	}
	renderer := &stubRenderer{}
	controller := NewController(ControllerOptions{
		Service:  service,
		Renderer: renderer,
	})

	var buf bytes.Buffer
	if err := controller.RenderTemplate(context.Background(), ViewerContext{UserID: "user"}, &buf); err != nil {
		t.Fatalf("RenderTemplate returned error: %v", err)
	}
	if renderer.lastTemplate != "dashboard.html" {
		t.Fatalf("expected dashboard template to render, got %s", renderer.lastTemplate)
	}
	if buf.Len() == 0 {
		t.Fatalf("expected rendered output")
	}
	if renderer.lastPayload["toggle_label"] != "Switch to Light Mode" {
		t.Fatalf("expected toggle label in payload, got %v", renderer.lastPayload["toggle_label"])
	}
	if rows, ok := renderer.lastPayload["rows"].([]RenderedRow); !ok || len(rows) != 1 {
		t.Fatalf("expected rows in payload, got %#v", renderer.lastPayload["rows"])
	}
}

func TestControllerPropagatesLayoutError(t *testing.T) {
	controller := NewController(ControllerOptions{
		Service:  &stubLayoutResolver{err: errors.New("boom")},
		Renderer: &stubRenderer{},
	})
	if err := controller.RenderTemplate(context.Background(), ViewerContext{}, io.Discard); err == nil {
		t.Fatalf("expected layout error")
	}
}

func TestControllerRequiresRenderer(t *testing.T) {
	controller := NewController(ControllerOptions{Service: &stubLayoutResolver{}})
	if err := controller.RenderTemplate(context.Background(), ViewerContext{}, io.Discard); err == nil {
		t.Fatalf("expected missing renderer error")
	}
}

func TestControllerRendererErrorSurfaces(t *testing.T) {
	boom := errors.New("template missing")
	controller := NewController(ControllerOptions{
		Service: &stubLayoutResolver{view: View{Theme: ThemeLight}},
		Renderer: RendererFunc(func(name string, data any, out ...io.Writer) (string, error) {
			return "", boom
		}),
		Title: "Store Admin",
	})
	if err := controller.RenderTemplate(context.Background(), ViewerContext{}, io.Discard); !errors.Is(err, boom) {
		t.Fatalf("expected renderer error, got %v", err)
	}
	payload, err := controller.LayoutPayload(context.Background(), ViewerContext{})
	if err != nil {
		t.Fatalf("LayoutPayload returned error: %v", err)
	}
	if payload["title"] != "Store Admin" || payload["toggle_label"] != "Switch to Dark Mode" {
		t.Fatalf("unexpected payload %v", payload)
	}
}

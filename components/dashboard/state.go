package dashboard

import "time"

// Status is the lifecycle of the dashboard data.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusReady   Status = "ready"
	StatusError   Status = "error"
)

// State is a point-in-time copy of the dashboard composition.
type State struct {
	Status      Status    `json:"status"`
	Error       string    `json:"error,omitempty"`
	Stale       bool      `json:"stale"`
	GeneratedAt time.Time `json:"generated_at,omitempty"`
	Widgets     []Widget  `json:"widgets"`
	Active      string    `json:"active,omitempty"`
}

// RenderedWidget is a widget with its provider payload attached.
type RenderedWidget struct {
	Widget
	Name    string     `json:"name,omitempty"`
	Payload WidgetData `json:"payload,omitempty"`
	Error   string     `json:"error,omitempty"`
}

// RenderedRow is a packed row ready for the grid.
type RenderedRow struct {
	Columns string           `json:"columns"`
	Weight  int              `json:"weight"`
	Widgets []RenderedWidget `json:"widgets"`
}

// View is the resolved dashboard for one viewer.
type View struct {
	Status      Status             `json:"status"`
	Error       string             `json:"error,omitempty"`
	Stale       bool               `json:"stale"`
	GeneratedAt *time.Time         `json:"generated_at,omitempty"`
	Theme       ThemeMode          `json:"theme"`
	ThemeCSS    string             `json:"theme_css,omitempty"`
	Stats       []RenderedWidget   `json:"stats"`
	Rows        []RenderedRow      `json:"rows"`
	Order       []string           `json:"order"`
	Active      string             `json:"active,omitempty"`
	Catalog     []WidgetDefinition `json:"catalog"`
}

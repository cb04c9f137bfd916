package dashboard

import (
	"context"

	"github.com/goliatone/go-sales-dashboard/pkg/aggregate"
)

// WidgetType identifies a card kind in the widget catalog.
type WidgetType string

const (
	WidgetStat             WidgetType = "stat"
	WidgetRevenueChart     WidgetType = "revenue-chart"
	WidgetTopProducts      WidgetType = "top-products"
	WidgetOrdersTable      WidgetType = "orders-table"
	WidgetActivityFeed     WidgetType = "activity-feed"
	WidgetCustomerInsights WidgetType = "customer-insights"
)

// SizeClass is a layout weight, not a pixel size.
type SizeClass string

const (
	SizeStat   SizeClass = "stat"
	SizeSmall  SizeClass = "small"
	SizeMedium SizeClass = "medium"
	SizeLarge  SizeClass = "large"
)

// Weight returns the row-packing weight of the size class.
func (s SizeClass) Weight() int {
	switch s {
	case SizeLarge:
		return 3
	case SizeMedium:
		return 2
	default:
		return 1
	}
}

// Widget is a dashboard card instance.
type Widget struct {
	ID            string            `json:"id"`
	Type          WidgetType        `json:"type"`
	Size          SizeClass         `json:"size"`
	Data          *aggregate.Metric `json:"data,omitempty"`
	Configuration map[string]any    `json:"configuration,omitempty"`
}

// IsStat reports whether the widget is a pinned stat card.
func (w Widget) IsStat() bool {
	return w.Type == WidgetStat
}

// DataProvider recomputes the aggregated dashboard snapshot.
type DataProvider interface {
	Load(ctx context.Context) (aggregate.Snapshot, error)
}

// DataProviderFunc adapts a function into a DataProvider.
type DataProviderFunc func(ctx context.Context) (aggregate.Snapshot, error)

// Load calls f(ctx).
func (f DataProviderFunc) Load(ctx context.Context) (aggregate.Snapshot, error) {
	return f(ctx)
}

// PreferenceStore keeps per-viewer display preferences.
type PreferenceStore interface {
	ThemeMode(ctx context.Context, viewer ViewerContext) (ThemeMode, error)
	SaveThemeMode(ctx context.Context, viewer ViewerContext, mode ThemeMode) error
}

// ProviderRegistry stores widget definitions and their data providers.
type ProviderRegistry interface {
	RegisterDefinition(def WidgetDefinition) error
	RegisterProvider(code WidgetType, provider Provider) error
	Definition(code WidgetType) (WidgetDefinition, bool)
	Provider(code WidgetType) (Provider, bool)
	Definitions() []WidgetDefinition
}

// RefreshHook notifies transports (REST/WebSocket) about dashboard changes.
type RefreshHook interface {
	WidgetUpdated(ctx context.Context, event WidgetEvent) error
}

// WidgetDefinition describes an entry of the widget catalog.
type WidgetDefinition struct {
	Code        WidgetType     `json:"code" yaml:"code"`
	Name        string         `json:"name" yaml:"name"`
	Description string         `json:"description,omitempty" yaml:"description,omitempty"`
	Size        SizeClass      `json:"size" yaml:"size"`
	Category    string         `json:"category,omitempty" yaml:"category,omitempty"`
	Addable     bool           `json:"addable" yaml:"addable"`
	Schema      map[string]any `json:"schema,omitempty" yaml:"schema,omitempty"`
}

// ViewerContext captures the signed-in user the dashboard renders for.
type ViewerContext struct {
	UserID string
	Roles  []string
	Locale string
}

// WidgetEvent describes changes that transports might care about.
type WidgetEvent struct {
	Reason   string     `json:"reason"`
	WidgetID string     `json:"widget_id,omitempty"`
	Type     WidgetType `json:"type,omitempty"`
	Order    []string   `json:"order,omitempty"`
	Status   Status     `json:"status,omitempty"`
	Level    string     `json:"level,omitempty"`
	Message  string     `json:"message,omitempty"`
}

package dashboard

import (
	"context"

	"github.com/goliatone/go-sales-dashboard/pkg/aggregate"
)

// Provider fetches data required to render a widget instance.
type Provider interface {
	Fetch(ctx context.Context, meta WidgetContext) (WidgetData, error)
}

// ProviderFunc adapts a function into a Provider.
type ProviderFunc func(ctx context.Context, meta WidgetContext) (WidgetData, error)

// Fetch calls f(ctx, meta).
func (f ProviderFunc) Fetch(ctx context.Context, meta WidgetContext) (WidgetData, error) {
	return f(ctx, meta)
}

// WidgetContext contains the metadata needed by providers. Snapshot is never
// nil when a provider is invoked by the Service.
type WidgetContext struct {
	Widget   Widget
	Viewer   ViewerContext
	Snapshot *aggregate.Snapshot
	Theme    ThemeMode
}

// WidgetData is an opaque payload passed to templates.
type WidgetData map[string]any

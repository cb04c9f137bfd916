// Package dashboard is the public entry point for embedding the sales
// dashboard in another application.
package dashboard

import (
	"context"

	core "github.com/goliatone/go-sales-dashboard/components/dashboard"
)

// Service exposes the underlying components/dashboard.Service type.
type Service = core.Service

// Options re-export for convenience.
type Options = core.Options

// BootstrapOptions re-export for convenience.
type BootstrapOptions = core.BootstrapOptions

// View is the resolved dashboard for one viewer.
type View = core.View

// ViewerContext identifies the signed-in user.
type ViewerContext = core.ViewerContext

// NewService proxies to the internal constructor.
func NewService(opts Options) *Service {
	return core.NewService(opts)
}

// Bootstrap builds a service, applies manifests and loads the first snapshot.
func Bootstrap(ctx context.Context, opts BootstrapOptions) (*Service, error) {
	return core.Bootstrap(ctx, opts)
}

// NewBroadcastHook proxies to the internal constructor.
func NewBroadcastHook() *core.BroadcastHook {
	return core.NewBroadcastHook()
}

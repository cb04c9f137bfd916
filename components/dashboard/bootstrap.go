package dashboard

import (
	"context"
	"errors"
	"fmt"
)

// BootstrapOptions collects what a process needs to start a dashboard.
type BootstrapOptions struct {
	// Options are passed to NewService. A nil Providers gets a fresh Registry.
	Options Options
	// Manifests are applied to the registry in order. The last manifest that
	// declares a layout wins unless Options.DefaultLayout is set.
	Manifests []string
	// SkipRefresh leaves the service idle instead of loading the first snapshot.
	SkipRefresh bool
}

// LoadManifests applies every manifest to the registry. All files are
// attempted; failures are joined. The returned layout is nil when no manifest
// declares one.
func LoadManifests(registry *Registry, paths ...string) ([]WidgetType, error) {
	if registry == nil {
		return nil, errors.New("dashboard: registry is required to load manifests")
	}
	var (
		layout  []WidgetType
		loadErr error
	)
	for _, path := range paths {
		doc, err := registry.LoadManifestFile(path)
		if err != nil {
			loadErr = errors.Join(loadErr, err)
			continue
		}
		if len(doc.Layout) > 0 {
			layout = doc.LayoutTypes()
		}
	}
	return layout, loadErr
}

// Bootstrap builds the service and loads its first snapshot. A failed first
// refresh still returns the service, which renders its error state.
func Bootstrap(ctx context.Context, opts BootstrapOptions) (*Service, error) {
	svcOpts := opts.Options
	if len(opts.Manifests) > 0 {
		registry, ok := svcOpts.Providers.(*Registry)
		if svcOpts.Providers == nil {
			registry, ok = NewRegistry(), true
			svcOpts.Providers = registry
		}
		if !ok {
			return nil, fmt.Errorf("dashboard: manifests need a *Registry, got %T", svcOpts.Providers)
		}
		layout, err := LoadManifests(registry, opts.Manifests...)
		if err != nil {
			return nil, err
		}
		if svcOpts.DefaultLayout == nil {
			svcOpts.DefaultLayout = layout
		}
	}

	service := NewService(svcOpts)
	if opts.SkipRefresh {
		return service, nil
	}
	if err := service.Refresh(ctx); err != nil {
		return service, fmt.Errorf("dashboard: initial refresh: %w", err)
	}
	return service, nil
}

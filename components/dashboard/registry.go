package dashboard

import (
	"fmt"
	"sort"
	"sync"
)

// WidgetHook lets packages register widgets/providers during init().
type WidgetHook func(reg *Registry) error

var (
	globalHookMu sync.Mutex
	globalHooks  []WidgetHook
)

// RegisterWidgetHook registers a hook executed against new registries.
func RegisterWidgetHook(h WidgetHook) {
	globalHookMu.Lock()
	defer globalHookMu.Unlock()
	globalHooks = append(globalHooks, h)
}

// WidgetManifest represents config-driven registration entries.
type WidgetManifest struct {
	Definition WidgetDefinition
	Provider   Provider
}

// Registry maps widget types to their definition and data provider.
type Registry struct {
	mu           sync.RWMutex
	definitions  map[WidgetType]WidgetDefinition
	providers    map[WidgetType]Provider
	manifestMeta map[WidgetType]ManifestProvider
}

// NewRegistry builds a registry holding the default catalog and applies
// global hooks.
func NewRegistry() *Registry {
	reg := newEmptyRegistry()
	reg.registerDefaults()
	_ = reg.ApplyHooks()
	return reg
}

func newEmptyRegistry() *Registry {
	return &Registry{
		definitions:  map[WidgetType]WidgetDefinition{},
		providers:    map[WidgetType]Provider{},
		manifestMeta: map[WidgetType]ManifestProvider{},
	}
}

func (r *Registry) registerDefaults() {
	for _, def := range DefaultWidgetDefinitions() {
		_ = r.RegisterDefinition(def)
		if provider, ok := defaultProviders()[def.Code]; ok {
			_ = r.RegisterProvider(def.Code, provider)
		}
	}
}

// ApplyHooks executes registered widget hooks.
func (r *Registry) ApplyHooks() error {
	globalHookMu.Lock()
	defer globalHookMu.Unlock()
	for _, hook := range globalHooks {
		if err := hook(r); err != nil {
			return err
		}
	}
	return nil
}

// LoadManifest registers definitions/providers from config manifests.
func (r *Registry) LoadManifest(items []WidgetManifest) error {
	for _, item := range items {
		if err := r.RegisterDefinition(item.Definition); err != nil {
			return err
		}
		if item.Provider != nil {
			if err := r.RegisterProvider(item.Definition.Code, item.Provider); err != nil {
				return err
			}
		}
	}
	return nil
}

// RegisterDefinition stores widget metadata. Redefining a code replaces the
// previous entry but keeps its provider.
func (r *Registry) RegisterDefinition(def WidgetDefinition) error {
	if def.Code == "" {
		return fmt.Errorf("dashboard: widget definition code is required")
	}
	if def.Size == "" {
		def.Size = SizeSmall
	}
	switch def.Size {
	case SizeStat, SizeSmall, SizeMedium, SizeLarge:
	default:
		return fmt.Errorf("dashboard: widget %s has unknown size %q", def.Code, def.Size)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.definitions[def.Code] = def
	return nil
}

// RegisterProvider associates a provider implementation with a definition.
func (r *Registry) RegisterProvider(code WidgetType, provider Provider) error {
	if code == "" {
		return fmt.Errorf("dashboard: widget definition code is required to register provider")
	}
	if provider == nil {
		return fmt.Errorf("dashboard: provider cannot be nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.definitions[code]; !ok {
		return fmt.Errorf("dashboard: widget definition %s not found", code)
	}
	r.providers[code] = provider
	return nil
}

// Definition fetches a widget definition by code.
func (r *Registry) Definition(code WidgetType) (WidgetDefinition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.definitions[code]
	return def, ok
}

// Provider fetches a widget provider by code.
func (r *Registry) Provider(code WidgetType) (Provider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	provider, ok := r.providers[code]
	return provider, ok
}

// ProviderMetadata returns any manifest metadata registered for a widget.
func (r *Registry) ProviderMetadata(code WidgetType) (ManifestProvider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	meta, ok := r.manifestMeta[code]
	return meta, ok
}

// Definitions returns all registered definitions sorted by code.
func (r *Registry) Definitions() []WidgetDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	defs := make([]WidgetDefinition, 0, len(r.definitions))
	for _, def := range r.definitions {
		defs = append(defs, def)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Code < defs[j].Code })
	return defs
}

// Addable returns the definitions users may add from the catalog.
func (r *Registry) Addable() []WidgetDefinition {
	var out []WidgetDefinition
	for _, def := range r.Definitions() {
		if def.Addable {
			out = append(out, def)
		}
	}
	return out
}

func (r *Registry) recordProviderMetadata(code WidgetType, meta ManifestProvider) {
	if meta.isZero() {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.manifestMeta[code] = meta
}

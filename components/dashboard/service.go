package dashboard

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ettle/strcase"
	"github.com/google/uuid"

	"github.com/goliatone/go-sales-dashboard/pkg/aggregate"
)

const statPrefix = "stat-"

// Options configures the dashboard Service. Every collaborator is provided via
// interface so applications can swap implementations.
type Options struct {
	Providers       ProviderRegistry
	DataProvider    DataProvider
	ConfigValidator ConfigValidator
	RefreshHook     RefreshHook
	Telemetry       Telemetry
	PreferenceStore PreferenceStore
	// DefaultLayout lists the card types seeded on start. Nil uses DefaultLayout().
	DefaultLayout []WidgetType
	// DefaultTheme applies to viewers without a stored preference.
	DefaultTheme ThemeMode
	// MoveTimeout expires an abandoned drag. Zero uses DefaultMoveTimeout,
	// a negative value disables expiry.
	MoveTimeout time.Duration
	Now         func() time.Time
}

// Service owns the widget list, the committed order and the latest snapshot
// for a single dashboard.
type Service struct {
	opts  Options
	order *Reorderer
	stats sync.Map

	mu         sync.RWMutex
	widgets    map[string]Widget
	snapshot   *aggregate.Snapshot
	status     Status
	lastErr    string
	stale      bool
	generation uint64
}

// NewService builds a Service instance with safe defaults and seeds the
// default card layout.
func NewService(opts Options) *Service {
	if opts.RefreshHook == nil {
		opts.RefreshHook = noopRefreshHook{}
	}
	if opts.Providers == nil {
		opts.Providers = NewRegistry()
	}
	if opts.ConfigValidator == nil {
		opts.ConfigValidator = NewJSONSchemaValidator()
	}
	opts.Telemetry = normalizeTelemetry(opts.Telemetry)
	if opts.PreferenceStore == nil {
		opts.PreferenceStore = NewInMemoryPreferenceStore()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.DefaultLayout == nil {
		opts.DefaultLayout = DefaultLayout()
	}
	if opts.DefaultTheme == "" {
		opts.DefaultTheme = DefaultThemeMode
	}
	if opts.MoveTimeout == 0 {
		opts.MoveTimeout = DefaultMoveTimeout
	}
	s := &Service{
		opts:    opts,
		widgets: make(map[string]Widget),
		status:  StatusIdle,
	}
	s.order = NewReorderer(nil, s.partition,
		WithMoveTimeout(opts.MoveTimeout),
		WithReorderClock(opts.Now),
	)
	s.seedLayout()
	return s
}

func (s *Service) partition(id string) string {
	if _, ok := s.stats.Load(id); ok {
		return "stats"
	}
	return "cards"
}

func (s *Service) seedLayout() {
	counts := map[WidgetType]int{}
	for _, code := range s.opts.DefaultLayout {
		def, ok := s.opts.Providers.Definition(code)
		if !ok || code == WidgetStat {
			continue
		}
		counts[code]++
		id := fmt.Sprintf("%s-%d", code, counts[code])
		s.widgets[id] = Widget{ID: id, Type: code, Size: def.Size}
		s.order.Append(id)
	}
}

// NormalizeWidgetType maps user input such as "Top Products" or "topProducts"
// onto a catalog code.
func NormalizeWidgetType(value string) WidgetType {
	return WidgetType(strcase.ToKebab(strings.TrimSpace(value)))
}

// AddWidgetRequest captures the data required to add a card.
type AddWidgetRequest struct {
	Type          WidgetType     `json:"type"`
	Configuration map[string]any `json:"configuration,omitempty"`
}

// AddWidget appends a new card of an addable catalog type.
func (s *Service) AddWidget(ctx context.Context, req AddWidgetRequest) (Widget, error) {
	code := NormalizeWidgetType(string(req.Type))
	def, ok := s.opts.Providers.Definition(code)
	if !ok || !def.Addable {
		return Widget{}, fmt.Errorf("%w: %q", ErrUnknownWidgetType, req.Type)
	}
	if err := s.opts.ConfigValidator.Validate(def, req.Configuration); err != nil {
		return Widget{}, err
	}

	s.mu.Lock()
	id := fmt.Sprintf("%s-%d", code, s.opts.Now().UnixMilli())
	if _, taken := s.widgets[id]; taken {
		id = fmt.Sprintf("%s-%s", code, uuid.NewString())
	}
	if _, taken := s.widgets[id]; taken {
		s.mu.Unlock()
		return Widget{}, fmt.Errorf("%w: %s", ErrDuplicateWidgetID, id)
	}
	widget := Widget{
		ID:            id,
		Type:          code,
		Size:          def.Size,
		Configuration: cloneConfig(req.Configuration),
	}
	s.widgets[id] = widget
	s.order.Append(id)
	s.mu.Unlock()

	s.notify(ctx, WidgetEvent{
		Reason:   "add",
		WidgetID: id,
		Type:     code,
		Level:    "success",
		Message:  fmt.Sprintf("%s added", def.Name),
	})
	s.recordTelemetry(ctx, "dashboard.widget.add", map[string]any{
		"widget_id": id,
		"type":      string(code),
	})
	return widget, nil
}

// RemoveWidget deletes a card. Stat widgets and unknown ids are left alone
// and report false.
func (s *Service) RemoveWidget(ctx context.Context, widgetID string) (bool, error) {
	s.mu.Lock()
	widget, ok := s.widgets[widgetID]
	if !ok || widget.IsStat() {
		s.mu.Unlock()
		return false, nil
	}
	delete(s.widgets, widgetID)
	s.order.Remove(widgetID)
	s.mu.Unlock()

	s.notify(ctx, WidgetEvent{Reason: "remove", WidgetID: widgetID, Type: widget.Type})
	s.recordTelemetry(ctx, "dashboard.widget.remove", map[string]any{"widget_id": widgetID})
	return true, nil
}

// ReorderWidgets moves sourceID into the slot held by targetID.
func (s *Service) ReorderWidgets(ctx context.Context, sourceID, targetID string) (bool, error) {
	moved := s.order.CommitMove(sourceID, targetID)
	if moved {
		s.notifyOrder(ctx, sourceID)
	}
	return moved, nil
}

// MoveWidget shifts a widget by delta positions among widgets of its group.
// Unknown ids leave the order untouched.
func (s *Service) MoveWidget(ctx context.Context, widgetID string, delta int) (bool, error) {
	if _, ok := s.widget(widgetID); !ok {
		return false, nil
	}
	moved := s.order.MoveBy(widgetID, delta)
	if moved {
		s.notifyOrder(ctx, widgetID)
	}
	return moved, nil
}

// BeginMove starts a drag of widgetID.
func (s *Service) BeginMove(ctx context.Context, widgetID string) error {
	if err := s.order.BeginMove(widgetID); err != nil {
		return err
	}
	s.recordTelemetry(ctx, "dashboard.widget.move_begin", map[string]any{"widget_id": widgetID})
	return nil
}

// ProposeMove previews the order produced by dropping the active drag on overID.
func (s *Service) ProposeMove(overID string) []string {
	return s.order.ProposeMove(overID)
}

// CancelMove abandons the active drag.
func (s *Service) CancelMove(ctx context.Context) {
	s.order.CancelMove()
	s.recordTelemetry(ctx, "dashboard.widget.move_cancel", nil)
}

// DropMove commits the active drag onto overID.
func (s *Service) DropMove(ctx context.Context, overID string) (bool, error) {
	source, _ := s.order.Active()
	moved, err := s.order.Drop(overID)
	if err != nil {
		return false, err
	}
	if moved {
		s.notifyOrder(ctx, source)
	}
	return moved, nil
}

func (s *Service) notifyOrder(ctx context.Context, widgetID string) {
	order := s.order.Order()
	s.notify(ctx, WidgetEvent{Reason: "reorder", WidgetID: widgetID, Order: order})
	s.recordTelemetry(ctx, "dashboard.widget.reorder", map[string]any{
		"widget_id": widgetID,
		"count":     len(order),
	})
}

// Refresh reloads the snapshot. When refreshes overlap only the most recently
// started one is applied. On failure the previous snapshot is kept and marked
// stale.
func (s *Service) Refresh(ctx context.Context) error {
	if s.opts.DataProvider == nil {
		return errMissingDataProvider
	}
	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.status = StatusLoading
	s.lastErr = ""
	s.mu.Unlock()
	s.notify(ctx, WidgetEvent{Reason: "refresh", Status: StatusLoading})

	started := s.opts.Now()
	snapshot, err := s.opts.DataProvider.Load(ctx)

	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		return nil
	}
	if err != nil {
		s.status = StatusError
		s.lastErr = err.Error()
		s.stale = s.snapshot != nil
		s.mu.Unlock()
		s.notify(ctx, WidgetEvent{
			Reason:  "refresh",
			Status:  StatusError,
			Level:   "error",
			Message: "Failed to load dashboard data",
		})
		s.recordTelemetry(ctx, "dashboard.refresh.error", map[string]any{"error": err.Error()})
		return fmt.Errorf("%w: %w", ErrRefreshFailed, err)
	}
	s.snapshot = &snapshot
	s.status = StatusReady
	s.stale = false
	fresh := s.applyStatsLocked(snapshot)
	s.mu.Unlock()

	if len(fresh) > 0 {
		s.order.Prepend(fresh...)
	}
	s.notify(ctx, WidgetEvent{
		Reason:  "refresh",
		Status:  StatusReady,
		Level:   "success",
		Message: "Dashboard data refreshed",
	})
	s.recordTelemetry(ctx, "dashboard.refresh", map[string]any{
		"duration_ms": s.opts.Now().Sub(started).Milliseconds(),
		"orders":      len(snapshot.Orders),
	})
	return nil
}

// applyStatsLocked updates stat widgets in place and returns ids created for
// metrics seen for the first time.
func (s *Service) applyStatsLocked(snapshot aggregate.Snapshot) []string {
	var fresh []string
	for _, metric := range snapshot.Stats {
		id := statPrefix + metric.ID
		widget, ok := s.widgets[id]
		if !ok {
			widget = Widget{ID: id, Type: WidgetStat, Size: SizeStat}
			s.stats.Store(id, struct{}{})
			fresh = append(fresh, id)
		}
		widget.Data = &metric
		s.widgets[id] = widget
	}
	return fresh
}

// State returns the widget list in committed order plus refresh status.
func (s *Service) State() State {
	order := s.order.Order()
	active, _ := s.order.Active()
	s.mu.RLock()
	defer s.mu.RUnlock()
	state := State{
		Status:  s.status,
		Error:   s.lastErr,
		Stale:   s.stale,
		Widgets: make([]Widget, 0, len(order)),
		Active:  active,
	}
	if s.snapshot != nil {
		state.GeneratedAt = s.snapshot.GeneratedAt
	}
	for _, id := range order {
		if widget, ok := s.widgets[id]; ok {
			state.Widgets = append(state.Widgets, widget)
		}
	}
	return state
}

// Snapshot returns the latest successfully loaded snapshot.
func (s *Service) Snapshot() (aggregate.Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snapshot == nil {
		return aggregate.Snapshot{}, false
	}
	return *s.snapshot, true
}

// Definitions lists every registered widget type, stat cards included.
func (s *Service) Definitions() []WidgetDefinition {
	return s.opts.Providers.Definitions()
}

// Catalog lists the widget types users may add.
func (s *Service) Catalog() []WidgetDefinition {
	var out []WidgetDefinition
	for _, def := range s.opts.Providers.Definitions() {
		if def.Addable {
			out = append(out, def)
		}
	}
	return out
}

// ConfigureLayout resolves the dashboard for a viewer: stat cards, packed
// rows and provider payloads. Payloads are omitted while loading or before
// the first snapshot.
func (s *Service) ConfigureLayout(ctx context.Context, viewer ViewerContext) (View, error) {
	mode, err := s.ThemeMode(ctx, viewer)
	if err != nil {
		return View{}, err
	}
	state := s.State()
	s.mu.RLock()
	snapshot := s.snapshot
	s.mu.RUnlock()

	view := View{
		Status:   state.Status,
		Error:    state.Error,
		Stale:    state.Stale,
		Theme:    mode,
		ThemeCSS: ThemeFor(mode).CSSVariablesInline(),
		Stats:    []RenderedWidget{},
		Rows:     []RenderedRow{},
		Order:    make([]string, 0, len(state.Widgets)),
		Active:   state.Active,
		Catalog:  s.Catalog(),
	}
	if snapshot != nil {
		generated := snapshot.GeneratedAt
		view.GeneratedAt = &generated
	}
	attach := snapshot != nil && state.Status != StatusLoading

	var cards []Widget
	for _, widget := range state.Widgets {
		view.Order = append(view.Order, widget.ID)
		if widget.IsStat() {
			view.Stats = append(view.Stats, s.render(ctx, viewer, mode, snapshot, widget, attach))
			continue
		}
		cards = append(cards, widget)
	}
	for _, row := range PackRows(cards) {
		rendered := RenderedRow{
			Columns: row.Columns(),
			Weight:  row.Weight,
			Widgets: make([]RenderedWidget, 0, len(row.Widgets)),
		}
		for _, widget := range row.Widgets {
			rendered.Widgets = append(rendered.Widgets, s.render(ctx, viewer, mode, snapshot, widget, attach))
		}
		view.Rows = append(view.Rows, rendered)
	}
	s.recordTelemetry(ctx, "dashboard.layout.resolve", map[string]any{
		"viewer":  viewer.UserID,
		"widgets": len(state.Widgets),
	})
	return view, nil
}

func (s *Service) render(ctx context.Context, viewer ViewerContext, mode ThemeMode, snapshot *aggregate.Snapshot, widget Widget, attach bool) RenderedWidget {
	rendered := RenderedWidget{Widget: widget}
	if def, ok := s.opts.Providers.Definition(widget.Type); ok {
		rendered.Name = def.Name
	}
	if !attach {
		return rendered
	}
	provider, ok := s.opts.Providers.Provider(widget.Type)
	if !ok || provider == nil {
		return rendered
	}
	data, err := provider.Fetch(ctx, WidgetContext{
		Widget:   widget,
		Viewer:   viewer,
		Snapshot: snapshot,
		Theme:    mode,
	})
	if err != nil {
		rendered.Error = err.Error()
		s.recordTelemetry(ctx, "dashboard.widget.provider_error", map[string]any{
			"widget_id": widget.ID,
			"error":     err.Error(),
		})
		return rendered
	}
	rendered.Payload = data
	return rendered
}

// ThemeMode returns the viewer's display mode.
func (s *Service) ThemeMode(ctx context.Context, viewer ViewerContext) (ThemeMode, error) {
	mode, err := s.opts.PreferenceStore.ThemeMode(ctx, viewer)
	if err != nil {
		return "", fmt.Errorf("dashboard: load theme preference: %w", err)
	}
	if mode == "" {
		mode = s.opts.DefaultTheme
	}
	return mode, nil
}

// SetThemeMode stores the viewer's display mode.
func (s *Service) SetThemeMode(ctx context.Context, viewer ViewerContext, mode ThemeMode) error {
	if err := s.opts.PreferenceStore.SaveThemeMode(ctx, viewer, mode); err != nil {
		return err
	}
	s.notify(ctx, WidgetEvent{Reason: "theme", Message: string(mode)})
	return nil
}

// ToggleTheme flips the viewer's display mode and returns the new mode.
func (s *Service) ToggleTheme(ctx context.Context, viewer ViewerContext) (ThemeMode, error) {
	current, err := s.ThemeMode(ctx, viewer)
	if err != nil {
		return "", err
	}
	next := current.Toggle()
	if err := s.SetThemeMode(ctx, viewer, next); err != nil {
		return "", err
	}
	return next, nil
}

func (s *Service) widget(id string) (Widget, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w, ok := s.widgets[id]
	return w, ok
}

func (s *Service) notify(ctx context.Context, event WidgetEvent) {
	if err := s.opts.RefreshHook.WidgetUpdated(ctx, event); err != nil {
		s.recordTelemetry(ctx, "dashboard.hook.error", map[string]any{
			"reason": event.Reason,
			"error":  err.Error(),
		})
	}
}

func (s *Service) recordTelemetry(ctx context.Context, event string, payload map[string]any) {
	s.opts.Telemetry.Record(ctx, event, payload)
}

func cloneConfig(cfg map[string]any) map[string]any {
	if cfg == nil {
		return nil
	}
	out := make(map[string]any, len(cfg))
	for key, value := range cfg {
		out[key] = value
	}
	return out
}

type noopRefreshHook struct{}

func (noopRefreshHook) WidgetUpdated(context.Context, WidgetEvent) error {
	return nil
}

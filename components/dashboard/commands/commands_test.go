package commands

import (
	"context"
	"errors"
	"testing"

	dashboard "github.com/goliatone/go-sales-dashboard/components/dashboard"
)

type stubService struct {
	addCalls     int
	removeCalls  int
	reorderCalls int
	moveCalls    int
	refreshCalls int
	begin        string
	cancelled    bool
	dropOver     string
	theme        dashboard.ThemeMode
	err          error
}

func (s *stubService) AddWidget(_ context.Context, req dashboard.AddWidgetRequest) (dashboard.Widget, error) {
	s.addCalls++
	return dashboard.Widget{ID: string(req.Type) + "-1", Type: req.Type}, s.err
}

func (s *stubService) RemoveWidget(context.Context, string) (bool, error) {
	s.removeCalls++
	return true, s.err
}

func (s *stubService) ReorderWidgets(context.Context, string, string) (bool, error) {
	s.reorderCalls++
	return true, s.err
}

func (s *stubService) MoveWidget(context.Context, string, int) (bool, error) {
	s.moveCalls++
	return false, s.err
}

func (s *stubService) BeginMove(_ context.Context, id string) error {
	s.begin = id
	return s.err
}

func (s *stubService) CancelMove(context.Context) {
	s.cancelled = true
}

func (s *stubService) DropMove(_ context.Context, over string) (bool, error) {
	s.dropOver = over
	return true, s.err
}

func (s *stubService) Refresh(context.Context) error {
	s.refreshCalls++
	return s.err
}

func (s *stubService) SetThemeMode(_ context.Context, _ dashboard.ViewerContext, mode dashboard.ThemeMode) error {
	s.theme = mode
	return s.err
}

func (s *stubService) ToggleTheme(context.Context, dashboard.ViewerContext) (dashboard.ThemeMode, error) {
	s.theme = dashboard.ThemeLight
	return s.theme, s.err
}

type stubTelemetry struct {
	calls  int
	events []string
}

func (s *stubTelemetry) Record(_ context.Context, event string, _ map[string]any) {
	s.calls++
	s.events = append(s.events, event)
}

func TestAddWidgetCommand(t *testing.T) {
	service := &stubService{}
	telemetry := &stubTelemetry{}
	cmd := NewAddWidgetCommand(service, telemetry)
	var created dashboard.Widget
	if err := cmd.Execute(context.Background(), AddWidgetInput{Type: dashboard.WidgetTopProducts, Result: &created}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if service.addCalls != 1 {
		t.Fatalf("expected add call")
	}
	if created.ID != "top-products-1" {
		t.Fatalf("expected result to be filled, got %#v", created)
	}
	if telemetry.calls != 1 {
		t.Fatalf("expected telemetry event")
	}
}

func TestAddWidgetCommandPropagatesError(t *testing.T) {
	service := &stubService{err: dashboard.ErrUnknownWidgetType}
	telemetry := &stubTelemetry{}
	cmd := NewAddWidgetCommand(service, telemetry)
	err := cmd.Execute(context.Background(), AddWidgetInput{Type: "weather"})
	if !errors.Is(err, dashboard.ErrUnknownWidgetType) {
		t.Fatalf("expected ErrUnknownWidgetType, got %v", err)
	}
	if telemetry.calls != 0 {
		t.Fatalf("failed commands should not record telemetry")
	}
}

func TestRemoveWidgetCommand(t *testing.T) {
	service := &stubService{}
	cmd := NewRemoveWidgetCommand(service, nil)
	var removed bool
	if err := cmd.Execute(context.Background(), RemoveWidgetInput{WidgetID: "widget-1", Removed: &removed}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if service.removeCalls != 1 || !removed {
		t.Fatalf("expected remove call")
	}
	if err := cmd.Execute(context.Background(), RemoveWidgetInput{}); err == nil {
		t.Fatalf("expected missing id error")
	}
}

func TestReorderAndMoveCommands(t *testing.T) {
	service := &stubService{}
	var moved bool
	if err := NewReorderWidgetsCommand(service, nil).Execute(context.Background(), ReorderWidgetsInput{
		SourceID: "w1",
		TargetID: "w2",
		Moved:    &moved,
	}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if service.reorderCalls != 1 || !moved {
		t.Fatalf("expected reorder call")
	}
	if err := NewMoveWidgetCommand(service, nil).Execute(context.Background(), MoveWidgetInput{WidgetID: "w1", Delta: -1, Moved: &moved}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if service.moveCalls != 1 || moved {
		t.Fatalf("expected move call reporting no-op")
	}
}

func TestDragWidgetCommandPhases(t *testing.T) {
	service := &stubService{}
	cmd := NewDragWidgetCommand(service, nil)
	ctx := context.Background()
	if err := cmd.Execute(ctx, DragWidgetInput{Phase: DragBegin, WidgetID: "w1"}); err != nil {
		t.Fatalf("begin returned error: %v", err)
	}
	if service.begin != "w1" {
		t.Fatalf("expected begin on w1")
	}
	var moved bool
	if err := cmd.Execute(ctx, DragWidgetInput{Phase: DragDrop, OverID: "w3", Moved: &moved}); err != nil {
		t.Fatalf("drop returned error: %v", err)
	}
	if service.dropOver != "w3" || !moved {
		t.Fatalf("expected drop over w3")
	}
	if err := cmd.Execute(ctx, DragWidgetInput{Phase: DragCancel}); err != nil || !service.cancelled {
		t.Fatalf("expected cancel, err=%v", err)
	}
	if err := cmd.Execute(ctx, DragWidgetInput{Phase: "hover"}); err == nil {
		t.Fatalf("expected unknown phase error")
	}
}

func TestRefreshDashboardCommand(t *testing.T) {
	service := &stubService{}
	telemetry := &stubTelemetry{}
	cmd := NewRefreshDashboardCommand(service, telemetry)
	if err := cmd.Execute(context.Background(), RefreshDashboardInput{Reason: "manual"}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if err := cmd.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}
	if service.refreshCalls != 2 || telemetry.calls != 2 {
		t.Fatalf("expected two refreshes, got %d", service.refreshCalls)
	}

	service.err = dashboard.ErrRefreshFailed
	if err := cmd.Execute(context.Background(), RefreshDashboardInput{}); !errors.Is(err, dashboard.ErrRefreshFailed) {
		t.Fatalf("expected refresh error, got %v", err)
	}
	if telemetry.calls != 3 {
		t.Fatalf("failed refreshes are still recorded")
	}
}

func TestSetThemeCommand(t *testing.T) {
	service := &stubService{}
	cmd := NewSetThemeCommand(service, nil)
	var mode dashboard.ThemeMode
	if err := cmd.Execute(context.Background(), SetThemeInput{Result: &mode}); err != nil {
		t.Fatalf("toggle returned error: %v", err)
	}
	if mode != dashboard.ThemeLight {
		t.Fatalf("expected toggled mode, got %q", mode)
	}
	if err := cmd.Execute(context.Background(), SetThemeInput{Mode: "DARK", Result: &mode}); err != nil {
		t.Fatalf("set returned error: %v", err)
	}
	if mode != dashboard.ThemeDark || service.theme != dashboard.ThemeDark {
		t.Fatalf("expected dark mode, got %q", mode)
	}
	if err := cmd.Execute(context.Background(), SetThemeInput{Mode: "sepia"}); err == nil {
		t.Fatalf("expected invalid mode error")
	}
}

func TestCommandsRequireService(t *testing.T) {
	ctx := context.Background()
	if err := NewAddWidgetCommand(nil, nil).Execute(ctx, AddWidgetInput{}); err == nil {
		t.Fatalf("expected error for nil service")
	}
	if err := NewRefreshDashboardCommand(nil, nil).Execute(ctx, RefreshDashboardInput{}); err == nil {
		t.Fatalf("expected error for nil service")
	}
}

func TestRefreshTelemetryCarriesOutcome(t *testing.T) {
	service := &stubService{err: dashboard.ErrRefreshFailed}
	var (
		event   string
		payload map[string]any
	)
	cmd := NewRefreshDashboardCommand(service, TelemetryFunc(func(_ context.Context, e string, p map[string]any) {
		event, payload = e, p
	}))
	_ = cmd.Refresh(context.Background())

	if event != "dashboard.command.refresh" {
		t.Fatalf("unexpected event %q", event)
	}
	if payload["ok"] != false || payload["reason"] != "schedule" {
		t.Fatalf("unexpected payload %v", payload)
	}
	if payload["error"] == nil {
		t.Fatalf("expected error message in payload")
	}
}

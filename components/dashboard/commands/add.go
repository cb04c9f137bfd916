package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-sales-dashboard/components/dashboard"
)

// AddWidgetInput carries the card type and configuration to add. Result is
// filled with the created widget when set.
type AddWidgetInput struct {
	Type          dashboard.WidgetType `json:"type"`
	Configuration map[string]any       `json:"configuration,omitempty"`
	ActorID       string               `json:"actor_id,omitempty"`
	Result        *dashboard.Widget    `json:"-"`
}

type addService interface {
	AddWidget(ctx context.Context, req dashboard.AddWidgetRequest) (dashboard.Widget, error)
}

// AddWidgetCommand translates incoming requests into service calls and emits
// telemetry so operators can observe catalog usage.
type AddWidgetCommand struct {
	service   addService
	telemetry Telemetry
}

// NewAddWidgetCommand creates a command instance.
func NewAddWidgetCommand(service addService, telemetry Telemetry) *AddWidgetCommand {
	return &AddWidgetCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[AddWidgetInput] = (*AddWidgetCommand)(nil)

// Execute delegates to the dashboard service.
func (c *AddWidgetCommand) Execute(ctx context.Context, msg AddWidgetInput) error {
	if c.service == nil {
		return errors.New("add command requires service")
	}
	widget, err := c.service.AddWidget(ctx, dashboard.AddWidgetRequest{
		Type:          msg.Type,
		Configuration: msg.Configuration,
	})
	if err != nil {
		return err
	}
	if msg.Result != nil {
		*msg.Result = widget
	}
	record(ctx, c.telemetry, "add", nil, map[string]any{
		"widget_id": widget.ID,
		"type":      string(widget.Type),
		"actor_id":  msg.ActorID,
	})
	return nil
}

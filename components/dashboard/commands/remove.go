package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
)

// RemoveWidgetInput identifies the card to remove. Removed reports whether a
// card was actually dropped.
type RemoveWidgetInput struct {
	WidgetID string `json:"widget_id"`
	ActorID  string `json:"actor_id,omitempty"`
	Removed  *bool  `json:"-"`
}

type removeService interface {
	RemoveWidget(ctx context.Context, widgetID string) (bool, error)
}

// RemoveWidgetCommand removes cards through the service and records telemetry
// for auditing purposes.
type RemoveWidgetCommand struct {
	service   removeService
	telemetry Telemetry
}

// NewRemoveWidgetCommand builds the command.
func NewRemoveWidgetCommand(service removeService, telemetry Telemetry) *RemoveWidgetCommand {
	return &RemoveWidgetCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[RemoveWidgetInput] = (*RemoveWidgetCommand)(nil)

// Execute removes the card. Unknown ids and stat cards are not errors.
func (c *RemoveWidgetCommand) Execute(ctx context.Context, msg RemoveWidgetInput) error {
	if c.service == nil {
		return errors.New("remove command requires service")
	}
	if msg.WidgetID == "" {
		return errors.New("remove command requires widget id")
	}
	removed, err := c.service.RemoveWidget(ctx, msg.WidgetID)
	if err != nil {
		return err
	}
	if msg.Removed != nil {
		*msg.Removed = removed
	}
	record(ctx, c.telemetry, "remove", nil, map[string]any{
		"widget_id": msg.WidgetID,
		"removed":   removed,
		"actor_id":  msg.ActorID,
	})
	return nil
}

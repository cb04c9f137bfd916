package commands

import (
	"context"
	"errors"
	"fmt"

	gocommand "github.com/goliatone/go-command"
)

// DragPhase is a step of a pointer driven move.
type DragPhase string

const (
	DragBegin  DragPhase = "begin"
	DragCancel DragPhase = "cancel"
	DragDrop   DragPhase = "drop"
)

// DragWidgetInput drives the begin/cancel/drop lifecycle of a move.
type DragWidgetInput struct {
	Phase    DragPhase `json:"phase"`
	WidgetID string    `json:"widget_id,omitempty"`
	OverID   string    `json:"over_id,omitempty"`
	Moved    *bool     `json:"-"`
}

type dragService interface {
	BeginMove(ctx context.Context, widgetID string) error
	CancelMove(ctx context.Context)
	DropMove(ctx context.Context, overID string) (bool, error)
}

// DragWidgetCommand routes drag phases to the service.
type DragWidgetCommand struct {
	service   dragService
	telemetry Telemetry
}

// NewDragWidgetCommand builds the command.
func NewDragWidgetCommand(service dragService, telemetry Telemetry) *DragWidgetCommand {
	return &DragWidgetCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[DragWidgetInput] = (*DragWidgetCommand)(nil)

// Execute applies a single drag phase.
func (c *DragWidgetCommand) Execute(ctx context.Context, msg DragWidgetInput) error {
	if c.service == nil {
		return errors.New("drag command requires service")
	}
	moved := false
	switch msg.Phase {
	case DragBegin:
		if err := c.service.BeginMove(ctx, msg.WidgetID); err != nil {
			return err
		}
	case DragCancel:
		c.service.CancelMove(ctx)
	case DragDrop:
		var err error
		if moved, err = c.service.DropMove(ctx, msg.OverID); err != nil {
			return err
		}
	default:
		return fmt.Errorf("drag command: unknown phase %q", msg.Phase)
	}
	if msg.Moved != nil {
		*msg.Moved = moved
	}
	record(ctx, c.telemetry, "drag", nil, map[string]any{
		"phase":     string(msg.Phase),
		"widget_id": msg.WidgetID,
		"over_id":   msg.OverID,
	})
	return nil
}

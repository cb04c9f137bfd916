package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
)

// ReorderWidgetsInput moves SourceID into the slot held by TargetID.
type ReorderWidgetsInput struct {
	SourceID string `json:"source_id"`
	TargetID string `json:"target_id"`
	Moved    *bool  `json:"-"`
}

// MoveWidgetInput shifts a widget by Delta positions within its group.
type MoveWidgetInput struct {
	WidgetID string `json:"widget_id"`
	Delta    int    `json:"delta"`
	Moved    *bool  `json:"-"`
}

type reorderService interface {
	ReorderWidgets(ctx context.Context, sourceID, targetID string) (bool, error)
	MoveWidget(ctx context.Context, widgetID string, delta int) (bool, error)
}

// ReorderWidgetsCommand wraps Service.ReorderWidgets.
type ReorderWidgetsCommand struct {
	service   reorderService
	telemetry Telemetry
}

// NewReorderWidgetsCommand builds the command.
func NewReorderWidgetsCommand(service reorderService, telemetry Telemetry) *ReorderWidgetsCommand {
	return &ReorderWidgetsCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[ReorderWidgetsInput] = (*ReorderWidgetsCommand)(nil)

// Execute applies the move. No-op moves are not errors.
func (c *ReorderWidgetsCommand) Execute(ctx context.Context, msg ReorderWidgetsInput) error {
	if c.service == nil {
		return errors.New("reorder command requires service")
	}
	moved, err := c.service.ReorderWidgets(ctx, msg.SourceID, msg.TargetID)
	if err != nil {
		return err
	}
	if msg.Moved != nil {
		*msg.Moved = moved
	}
	record(ctx, c.telemetry, "reorder", nil, map[string]any{
		"source_id": msg.SourceID,
		"target_id": msg.TargetID,
		"moved":     moved,
	})
	return nil
}

// MoveWidgetCommand wraps Service.MoveWidget for keyboard driven moves.
type MoveWidgetCommand struct {
	service   reorderService
	telemetry Telemetry
}

// NewMoveWidgetCommand builds the command.
func NewMoveWidgetCommand(service reorderService, telemetry Telemetry) *MoveWidgetCommand {
	return &MoveWidgetCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[MoveWidgetInput] = (*MoveWidgetCommand)(nil)

// Execute shifts the widget.
func (c *MoveWidgetCommand) Execute(ctx context.Context, msg MoveWidgetInput) error {
	if c.service == nil {
		return errors.New("move command requires service")
	}
	moved, err := c.service.MoveWidget(ctx, msg.WidgetID, msg.Delta)
	if err != nil {
		return err
	}
	if msg.Moved != nil {
		*msg.Moved = moved
	}
	record(ctx, c.telemetry, "move", nil, map[string]any{
		"widget_id": msg.WidgetID,
		"delta":     msg.Delta,
		"moved":     moved,
	})
	return nil
}

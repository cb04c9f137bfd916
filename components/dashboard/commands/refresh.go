package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
)

// RefreshDashboardInput requests a snapshot reload.
type RefreshDashboardInput struct {
	Reason string `json:"reason,omitempty"`
}

type refreshService interface {
	Refresh(ctx context.Context) error
}

// RefreshDashboardCommand reloads the dashboard snapshot.
type RefreshDashboardCommand struct {
	service   refreshService
	telemetry Telemetry
}

// NewRefreshDashboardCommand creates the command.
func NewRefreshDashboardCommand(service refreshService, telemetry Telemetry) *RefreshDashboardCommand {
	return &RefreshDashboardCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[RefreshDashboardInput] = (*RefreshDashboardCommand)(nil)

// Execute runs the refresh and reports the outcome to telemetry.
func (c *RefreshDashboardCommand) Execute(ctx context.Context, msg RefreshDashboardInput) error {
	if c.service == nil {
		return errors.New("refresh command requires service")
	}
	err := c.service.Refresh(ctx)
	record(ctx, c.telemetry, "refresh", err, map[string]any{"reason": msg.Reason})
	return err
}

// Refresh lets the command act as a scheduler target.
func (c *RefreshDashboardCommand) Refresh(ctx context.Context) error {
	return c.Execute(ctx, RefreshDashboardInput{Reason: "schedule"})
}

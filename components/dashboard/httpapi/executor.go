package httpapi

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-sales-dashboard/components/dashboard/commands"
)

// Executor is the write side shared by the net/http and go-router transports.
type Executor interface {
	Add(ctx context.Context, input commands.AddWidgetInput) error
	Remove(ctx context.Context, input commands.RemoveWidgetInput) error
	Reorder(ctx context.Context, input commands.ReorderWidgetsInput) error
	Move(ctx context.Context, input commands.MoveWidgetInput) error
	Drag(ctx context.Context, input commands.DragWidgetInput) error
	Refresh(ctx context.Context, input commands.RefreshDashboardInput) error
	Theme(ctx context.Context, input commands.SetThemeInput) error
}

var errCommandNotConfigured = errors.New("httpapi: command not configured")

// CommandExecutor dispatches to go-command commanders.
type CommandExecutor struct {
	AddCmd     gocommand.Commander[commands.AddWidgetInput]
	RemoveCmd  gocommand.Commander[commands.RemoveWidgetInput]
	ReorderCmd gocommand.Commander[commands.ReorderWidgetsInput]
	MoveCmd    gocommand.Commander[commands.MoveWidgetInput]
	DragCmd    gocommand.Commander[commands.DragWidgetInput]
	RefreshCmd gocommand.Commander[commands.RefreshDashboardInput]
	ThemeCmd   gocommand.Commander[commands.SetThemeInput]
}

var _ Executor = (*CommandExecutor)(nil)

func (e *CommandExecutor) Add(ctx context.Context, input commands.AddWidgetInput) error {
	return execute(ctx, e.AddCmd, input)
}

func (e *CommandExecutor) Remove(ctx context.Context, input commands.RemoveWidgetInput) error {
	return execute(ctx, e.RemoveCmd, input)
}

func (e *CommandExecutor) Reorder(ctx context.Context, input commands.ReorderWidgetsInput) error {
	return execute(ctx, e.ReorderCmd, input)
}

func (e *CommandExecutor) Move(ctx context.Context, input commands.MoveWidgetInput) error {
	return execute(ctx, e.MoveCmd, input)
}

func (e *CommandExecutor) Drag(ctx context.Context, input commands.DragWidgetInput) error {
	return execute(ctx, e.DragCmd, input)
}

func (e *CommandExecutor) Refresh(ctx context.Context, input commands.RefreshDashboardInput) error {
	return execute(ctx, e.RefreshCmd, input)
}

func (e *CommandExecutor) Theme(ctx context.Context, input commands.SetThemeInput) error {
	return execute(ctx, e.ThemeCmd, input)
}

func execute[T any](ctx context.Context, cmd gocommand.Commander[T], input T) error {
	if cmd == nil {
		return errCommandNotConfigured
	}
	return cmd.Execute(ctx, input)
}

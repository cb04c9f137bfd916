package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-sales-dashboard/components/dashboard"
)

// SetThemeInput stores a display mode for the viewer. An empty Mode toggles
// the current one.
type SetThemeInput struct {
	Viewer dashboard.ViewerContext `json:"-"`
	Mode   dashboard.ThemeMode     `json:"mode,omitempty"`
	Result *dashboard.ThemeMode    `json:"-"`
}

type themeService interface {
	SetThemeMode(ctx context.Context, viewer dashboard.ViewerContext, mode dashboard.ThemeMode) error
	ToggleTheme(ctx context.Context, viewer dashboard.ViewerContext) (dashboard.ThemeMode, error)
}

// SetThemeCommand persists theme preferences.
type SetThemeCommand struct {
	service   themeService
	telemetry Telemetry
}

// NewSetThemeCommand builds the command.
func NewSetThemeCommand(service themeService, telemetry Telemetry) *SetThemeCommand {
	return &SetThemeCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[SetThemeInput] = (*SetThemeCommand)(nil)

// Execute sets or toggles the mode.
func (c *SetThemeCommand) Execute(ctx context.Context, msg SetThemeInput) error {
	if c.service == nil {
		return errors.New("theme command requires service")
	}
	mode := msg.Mode
	if mode == "" {
		next, err := c.service.ToggleTheme(ctx, msg.Viewer)
		if err != nil {
			return err
		}
		mode = next
	} else {
		parsed, err := dashboard.ParseThemeMode(string(mode))
		if err != nil {
			return err
		}
		if err := c.service.SetThemeMode(ctx, msg.Viewer, parsed); err != nil {
			return err
		}
		mode = parsed
	}
	if msg.Result != nil {
		*msg.Result = mode
	}
	record(ctx, c.telemetry, "theme", nil, map[string]any{
		"viewer": msg.Viewer.UserID,
		"mode":   string(mode),
	})
	return nil
}

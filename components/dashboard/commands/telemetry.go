package commands

import "context"

const eventPrefix = "dashboard.command."

// Telemetry receives one event per executed command.
type Telemetry interface {
	Record(ctx context.Context, event string, payload map[string]any)
}

// TelemetryFunc adapts a function to Telemetry.
type TelemetryFunc func(ctx context.Context, event string, payload map[string]any)

// Record calls f.
func (f TelemetryFunc) Record(ctx context.Context, event string, payload map[string]any) {
	if f != nil {
		f(ctx, event, payload)
	}
}

type noopTelemetry struct{}

func (noopTelemetry) Record(context.Context, string, map[string]any) {}

func normalizeTelemetry(t Telemetry) Telemetry {
	if t == nil {
		return noopTelemetry{}
	}
	return t
}

// record emits dashboard.command.<name> with the command outcome attached.
func record(ctx context.Context, t Telemetry, name string, err error, payload map[string]any) {
	if payload == nil {
		payload = map[string]any{}
	}
	payload["ok"] = err == nil
	if err != nil {
		payload["error"] = err.Error()
	}
	t.Record(ctx, eventPrefix+name, payload)
}

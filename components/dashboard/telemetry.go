package dashboard

import (
	"context"

	"go.uber.org/zap"
)

// Telemetry records dashboard events for observability.
type Telemetry interface {
	Record(ctx context.Context, event string, payload map[string]any)
}

type noopTelemetry struct{}

func (noopTelemetry) Record(context.Context, string, map[string]any) {}

func normalizeTelemetry(t Telemetry) Telemetry {
	if t == nil {
		return noopTelemetry{}
	}
	return t
}

// ZapTelemetry writes telemetry events as structured debug logs.
type ZapTelemetry struct {
	Logger *zap.Logger
}

// NewZapTelemetry wraps a logger. A nil logger yields a no-op logger.
func NewZapTelemetry(logger *zap.Logger) ZapTelemetry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return ZapTelemetry{Logger: logger.Named("telemetry")}
}

// Record logs the event with its payload fields.
func (t ZapTelemetry) Record(_ context.Context, event string, payload map[string]any) {
	if t.Logger == nil {
		return
	}
	fields := make([]zap.Field, 0, len(payload))
	for key, value := range payload {
		fields = append(fields, zap.Any(key, value))
	}
	t.Logger.Debug(event, fields...)
}

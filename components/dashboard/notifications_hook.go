package dashboard

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// Notification is a user facing message derived from a widget event.
type Notification struct {
	Level   string    `json:"level"`
	Message string    `json:"message"`
	Reason  string    `json:"reason"`
	At      time.Time `json:"at"`
}

// NotificationsClient delivers notifications to users (toasts, email, chat).
type NotificationsClient interface {
	Publish(ctx context.Context, n Notification) error
}

// NotificationsHook forwards events that carry a message to a notifications
// client. Events without a message are ignored.
type NotificationsHook struct {
	Client NotificationsClient
	Now    func() time.Time
}

// WidgetUpdated publishes the event as a notification.
func (h *NotificationsHook) WidgetUpdated(ctx context.Context, event WidgetEvent) error {
	if h == nil || h.Client == nil || event.Message == "" {
		return nil
	}
	now := time.Now
	if h.Now != nil {
		now = h.Now
	}
	level := event.Level
	if level == "" {
		level = "info"
	}
	return h.Client.Publish(ctx, Notification{
		Level:   level,
		Message: event.Message,
		Reason:  event.Reason,
		At:      now(),
	})
}

// ZapNotifier writes notifications to a logger.
type ZapNotifier struct {
	Logger *zap.Logger
}

// Publish logs the notification at a level matching its severity.
func (z ZapNotifier) Publish(_ context.Context, n Notification) error {
	if z.Logger == nil {
		return nil
	}
	fields := []zap.Field{zap.String("reason", n.Reason), zap.Time("at", n.At)}
	switch n.Level {
	case "error":
		z.Logger.Error(n.Message, fields...)
	case "warning":
		z.Logger.Warn(n.Message, fields...)
	default:
		z.Logger.Info(n.Message, fields...)
	}
	return nil
}

// MultiHook fans an event out to several hooks. Every hook runs; errors are
// joined.
type MultiHook []RefreshHook

// WidgetUpdated calls each hook in order.
func (m MultiHook) WidgetUpdated(ctx context.Context, event WidgetEvent) error {
	var err error
	for _, hook := range m {
		if hook == nil {
			continue
		}
		err = errors.Join(err, hook.WidgetUpdated(ctx, event))
	}
	return err
}

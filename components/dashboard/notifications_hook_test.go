package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type recordingClient struct {
	published []Notification
	err       error
}

func (c *recordingClient) Publish(_ context.Context, n Notification) error {
	c.published = append(c.published, n)
	return c.err
}

func TestNotificationsHookSkipsSilentEvents(t *testing.T) {
	client := &recordingClient{}
	hook := &NotificationsHook{Client: client, Now: func() time.Time { return fixedNow }}

	require.NoError(t, hook.WidgetUpdated(context.Background(), WidgetEvent{Reason: "reorder"}))
	require.NoError(t, hook.WidgetUpdated(context.Background(), WidgetEvent{
		Reason:  "refresh",
		Level:   "error",
		Message: "Failed to load dashboard data",
	}))
	require.NoError(t, hook.WidgetUpdated(context.Background(), WidgetEvent{Reason: "theme", Message: "light"}))

	require.Len(t, client.published, 2)
	assert.Equal(t, Notification{Level: "error", Message: "Failed to load dashboard data", Reason: "refresh", At: fixedNow}, client.published[0])
	assert.Equal(t, "info", client.published[1].Level)
}

func TestNilNotificationsHookIsNoop(t *testing.T) {
	var hook *NotificationsHook
	assert.NoError(t, hook.WidgetUpdated(context.Background(), WidgetEvent{Message: "x"}))
}

func TestMultiHookJoinsErrors(t *testing.T) {
	boom := errors.New("boom")
	first := &recordingClient{err: boom}
	second := &recordingClient{}
	broadcast := NewBroadcastHook()
	events, cancel := broadcast.Subscribe()
	defer cancel()

	hooks := MultiHook{
		&NotificationsHook{Client: first},
		nil,
		&NotificationsHook{Client: second},
		broadcast,
	}
	err := hooks.WidgetUpdated(context.Background(), WidgetEvent{Reason: "add", Level: "success", Message: "Orders added"})
	assert.ErrorIs(t, err, boom)
	assert.Len(t, second.published, 1)

	select {
	case event := <-events:
		assert.Equal(t, "add", event.Reason)
	default:
		t.Fatalf("expected broadcast subscriber to receive event")
	}
}

func TestZapNotifierLevels(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	notifier := ZapNotifier{Logger: zap.New(core)}

	require.NoError(t, notifier.Publish(context.Background(), Notification{Level: "error", Message: "failed"}))
	require.NoError(t, notifier.Publish(context.Background(), Notification{Level: "success", Message: "ok"}))

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, zap.ErrorLevel, entries[0].Level)
	assert.Equal(t, zap.InfoLevel, entries[1].Level)
}

func TestServiceNotifiesThroughHook(t *testing.T) {
	client := &recordingClient{}
	svc := NewService(Options{
		DataProvider: staticProvider(demoSnapshot(fixedNow)),
		RefreshHook:  &NotificationsHook{Client: client},
		Now:          func() time.Time { return fixedNow },
	})
	require.NoError(t, svc.Refresh(context.Background()))
	require.Len(t, client.published, 1)
	assert.Equal(t, "Dashboard data refreshed", client.published[0].Message)
	assert.Equal(t, "success", client.published[0].Level)
}

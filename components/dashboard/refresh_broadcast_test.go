package dashboard

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroadcastHookSubscribe(t *testing.T) {
	hook := NewBroadcastHook()
	ch, cancel := hook.Subscribe()
	defer cancel()
	event := WidgetEvent{Reason: "add", WidgetID: "top-products-1"}
	if err := hook.WidgetUpdated(context.Background(), event); err != nil {
		t.Fatalf("WidgetUpdated returned error: %v", err)
	}
	select {
	case e := <-ch:
		if e.WidgetID != event.WidgetID {
			t.Fatalf("expected widget %s, got %s", event.WidgetID, e.WidgetID)
		}
	default:
		t.Fatalf("expected event to be delivered")
	}
}

func TestBroadcastHookDropsWhenSubscriberIsFull(t *testing.T) {
	hook := NewBroadcastHook()
	_, cancel := hook.Subscribe()
	defer cancel()
	for i := 0; i < defaultSubscriberBuffer*2; i++ {
		require.NoError(t, hook.WidgetUpdated(context.Background(), WidgetEvent{Reason: "refresh"}))
	}
	assert.Equal(t, 1, hook.Subscribers())
}

func TestBroadcastHookClose(t *testing.T) {
	hook := NewBroadcastHook()
	ch, _ := hook.Subscribe()
	hook.Close()
	_, ok := <-ch
	assert.False(t, ok)
	late, _ := hook.Subscribe()
	_, ok = <-late
	assert.False(t, ok)
	assert.Equal(t, 0, hook.Subscribers())
}

func TestBroadcastHookServeWebSocket(t *testing.T) {
	hook := NewBroadcastHook()
	server := httptest.NewServer(http.HandlerFunc(hook.ServeWebSocket))
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hook.Subscribers() == 1 }, time.Second, 5*time.Millisecond)
	require.NoError(t, hook.WidgetUpdated(context.Background(), WidgetEvent{Reason: "refresh", Status: StatusReady}))

	var got WidgetEvent
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, "refresh", got.Reason)
	assert.Equal(t, StatusReady, got.Status)
}

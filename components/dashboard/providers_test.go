package dashboard

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-sales-dashboard/pkg/aggregate"
)

func TestStatProviderUsesWidgetMetric(t *testing.T) {
	metric := aggregate.Metric{ID: "orders", Title: "Total Orders", Value: "125", Change: "+8.2%", Trend: aggregate.TrendUp}
	data, err := statProvider(context.Background(), WidgetContext{Widget: Widget{ID: "stat-orders", Type: WidgetStat, Data: &metric}})
	require.NoError(t, err)
	assert.Equal(t, "125", data["value"])
	assert.Equal(t, aggregate.TrendUp, data["trend"])

	empty, err := statProvider(context.Background(), WidgetContext{Widget: Widget{ID: "stat-x", Type: WidgetStat}})
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestOrdersTableProviderFilters(t *testing.T) {
	snap := &aggregate.Snapshot{Orders: []aggregate.Order{
		{ID: "ORD-001", Customer: "John Doe", Product: "Backpack", Status: aggregate.StatusCompleted},
		{ID: "ORD-002", Customer: "Jane Roe", Product: "Jacket", Status: aggregate.StatusPending},
		{ID: "ORD-003", Customer: "Jim Poe", Product: "Ring", Status: aggregate.StatusPending},
	}}
	fetch := func(cfg map[string]any) []aggregate.Order {
		data, err := ordersTableProvider(context.Background(), WidgetContext{Widget: Widget{Configuration: cfg}, Snapshot: snap})
		require.NoError(t, err)
		assert.Equal(t, 3, data["total"])
		return data["orders"].([]aggregate.Order)
	}

	assert.Len(t, fetch(nil), 3)
	assert.Len(t, fetch(map[string]any{"status": "Pending"}), 2)
	assert.Len(t, fetch(map[string]any{"status": "Pending", "limit": 1}), 1)
	got := fetch(map[string]any{"search": "jacket"})
	require.Len(t, got, 1)
	assert.Equal(t, "ORD-002", got[0].ID)
	assert.Len(t, fetch(map[string]any{"limit": float64(2)}), 2)
}

func TestListProvidersHonourLimit(t *testing.T) {
	snap := &aggregate.Snapshot{
		TopProducts: make([]aggregate.TopProduct, 4),
		Activity:    make([]aggregate.Activity, 6),
	}
	top, err := topProductsProvider(context.Background(), WidgetContext{Widget: Widget{Configuration: map[string]any{"limit": 2}}, Snapshot: snap})
	require.NoError(t, err)
	assert.Len(t, top["products"], 2)

	feed, err := activityFeedProvider(context.Background(), WidgetContext{Snapshot: snap})
	require.NoError(t, err)
	assert.Len(t, feed["items"], 6)
}

func TestDefaultProvidersCoverCatalog(t *testing.T) {
	providers := defaultProviders()
	for _, def := range DefaultWidgetDefinitions() {
		_, ok := providers[def.Code]
		assert.Truef(t, ok, "missing provider for %s", def.Code)
	}
}

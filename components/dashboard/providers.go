package dashboard

import (
	"context"
	"strings"

	"github.com/goliatone/go-sales-dashboard/pkg/aggregate"
)

func defaultProviders() map[WidgetType]Provider {
	return map[WidgetType]Provider{
		WidgetStat:             ProviderFunc(statProvider),
		WidgetRevenueChart:     NewRevenueChartProvider(),
		WidgetTopProducts:      ProviderFunc(topProductsProvider),
		WidgetOrdersTable:      ProviderFunc(ordersTableProvider),
		WidgetActivityFeed:     ProviderFunc(activityFeedProvider),
		WidgetCustomerInsights: NewCustomerInsightsProvider(),
	}
}

func statProvider(_ context.Context, meta WidgetContext) (WidgetData, error) {
	if meta.Widget.Data == nil {
		return WidgetData{}, nil
	}
	metric := *meta.Widget.Data
	return WidgetData{
		"id":     metric.ID,
		"title":  metric.Title,
		"value":  metric.Value,
		"change": metric.Change,
		"trend":  metric.Trend,
		"icon":   metric.Icon,
		"color":  metric.Color,
	}, nil
}

func topProductsProvider(_ context.Context, meta WidgetContext) (WidgetData, error) {
	products := meta.Snapshot.TopProducts
	if limit := intValue(meta.Widget.Configuration["limit"]); limit > 0 && limit < len(products) {
		products = products[:limit]
	}
	return WidgetData{
		"title":    "Top Products",
		"products": products,
	}, nil
}

func ordersTableProvider(_ context.Context, meta WidgetContext) (WidgetData, error) {
	cfg := meta.Widget.Configuration
	status := aggregate.OrderStatus(stringValue(cfg["status"], ""))
	search := strings.ToLower(strings.TrimSpace(stringValue(cfg["search"], "")))
	orders := make([]aggregate.Order, 0, len(meta.Snapshot.Orders))
	for _, order := range meta.Snapshot.Orders {
		if status != "" && order.Status != status {
			continue
		}
		if search != "" && !orderMatches(order, search) {
			continue
		}
		orders = append(orders, order)
	}
	if limit := intValue(cfg["limit"]); limit > 0 && limit < len(orders) {
		orders = orders[:limit]
	}
	return WidgetData{
		"title":  "Recent Orders",
		"orders": orders,
		"total":  len(meta.Snapshot.Orders),
	}, nil
}

func orderMatches(order aggregate.Order, needle string) bool {
	for _, field := range []string{order.ID, order.Customer, order.Product, order.Email} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

func activityFeedProvider(_ context.Context, meta WidgetContext) (WidgetData, error) {
	items := meta.Snapshot.Activity
	if limit := intValue(meta.Widget.Configuration["limit"]); limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return WidgetData{
		"title": "Recent Activity",
		"items": items,
	}, nil
}

func intValue(v any) int {
	switch val := v.(type) {
	case int:
		return val
	case int64:
		return int(val)
	case float64:
		return int(val)
	default:
		return 0
	}
}

func stringValue(v any, fallback string) string {
	if s, ok := v.(string); ok && s != "" {
		return s
	}
	return fallback
}

func boolValue(v any, fallback bool) bool {
	switch val := v.(type) {
	case bool:
		return val
	case string:
		return strings.EqualFold(val, "true")
	default:
		return fallback
	}
}

package dashboard

var defaultWidgetDefinitions = []WidgetDefinition{
	{
		Code:        WidgetStat,
		Name:        "Stat Card",
		Description: "Headline metric with trend",
		Size:        SizeStat,
		Category:    "stats",
		Schema:      objectSchema(nil),
	},
	{
		Code:        WidgetRevenueChart,
		Name:        "Revenue Chart",
		Description: "Monthly revenue overview with area/bar charts",
		Size:        SizeLarge,
		Category:    "charts",
		Addable:     true,
		Schema: objectSchema(map[string]any{
			"view":        map[string]any{"type": "string", "enum": []string{"area", "bar"}, "default": "area"},
			"show_weekly": map[string]any{"type": "boolean", "default": true},
		}),
	},
	{
		Code:        WidgetOrdersTable,
		Name:        "Orders Table",
		Description: "Recent orders with search and pagination",
		Size:        SizeLarge,
		Category:    "tables",
		Addable:     true,
		Schema: objectSchema(map[string]any{
			"limit":  map[string]any{"type": "integer", "minimum": 1, "maximum": 10, "default": 10},
			"status": map[string]any{"type": "string", "enum": []string{"Completed", "Processing", "Pending", "Cancelled"}},
			"search": map[string]any{"type": "string"},
		}),
	},
	{
		Code:        WidgetTopProducts,
		Name:        "Top Products",
		Description: "Best selling products by revenue",
		Size:        SizeSmall,
		Category:    "lists",
		Addable:     true,
		Schema: objectSchema(map[string]any{
			"limit": map[string]any{"type": "integer", "minimum": 1, "maximum": 4, "default": 4},
		}),
	},
	{
		Code:        WidgetActivityFeed,
		Name:        "Activity Feed",
		Description: "Live activity updates",
		Size:        SizeSmall,
		Category:    "activity",
		Addable:     true,
		Schema: objectSchema(map[string]any{
			"limit": map[string]any{"type": "integer", "minimum": 1, "maximum": 6, "default": 6},
		}),
	},
	{
		Code:        WidgetCustomerInsights,
		Name:        "Customer Insights",
		Description: "Customer segments and metrics",
		Size:        SizeMedium,
		Category:    "analytics",
		Addable:     true,
		Schema: objectSchema(map[string]any{
			"chart": map[string]any{"type": "boolean", "default": true},
		}),
	},
}

var defaultLayout = []WidgetType{
	WidgetRevenueChart,
	WidgetTopProducts,
	WidgetOrdersTable,
	WidgetActivityFeed,
}

// DefaultWidgetDefinitions exposes the built-in widget catalog.
func DefaultWidgetDefinitions() []WidgetDefinition {
	out := make([]WidgetDefinition, len(defaultWidgetDefinitions))
	copy(out, defaultWidgetDefinitions)
	return out
}

// DefaultLayout lists the non-stat widgets a fresh dashboard starts with.
func DefaultLayout() []WidgetType {
	return append([]WidgetType(nil), defaultLayout...)
}

func objectSchema(properties map[string]any) map[string]any {
	if properties == nil {
		properties = map[string]any{}
	}
	return map[string]any{
		"type":                 "object",
		"properties":           properties,
		"additionalProperties": false,
	}
}

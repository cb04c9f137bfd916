package dashboard

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

const defaultChartHeight = "320px"

var sharedChartCache = NewChartCache(5 * time.Minute)

// ChartSeries represents a set of values plotted for a given legend entry.
type ChartSeries struct {
	Name   string
	Points []ChartPoint
}

// ChartPoint represents an individual labelled value.
type ChartPoint struct {
	Label string
	Value float64
}

// SeriesFunc projects the snapshot into axis labels and chart series.
type SeriesFunc func(meta WidgetContext) (xAxis []string, series []ChartSeries)

// EChartsProvider renders server-side chart HTML from snapshot series.
type EChartsProvider struct {
	chartType  string
	title      string
	series     SeriesFunc
	cache      RenderCache
	assetsHost string
}

// EChartsProviderOption customizes provider behavior.
type EChartsProviderOption func(*EChartsProvider)

// WithChartCache injects a render cache. A nil cache disables caching.
func WithChartCache(cache RenderCache) EChartsProviderOption {
	return func(p *EChartsProvider) {
		p.cache = cache
	}
}

// WithChartTitle sets the title rendered above the chart.
func WithChartTitle(title string) EChartsProviderOption {
	return func(p *EChartsProvider) {
		p.title = title
	}
}

// WithChartAssetsHost rewrites the assets host so ECharts JS loads from a CDN.
func WithChartAssetsHost(host string) EChartsProviderOption {
	return func(p *EChartsProvider) {
		p.assetsHost = host
	}
}

// NewEChartsProvider builds a provider for a chart type ("line", "area",
// "bar" or "pie") fed by the given series function.
func NewEChartsProvider(chartType string, series SeriesFunc, options ...EChartsProviderOption) *EChartsProvider {
	p := &EChartsProvider{
		chartType: strings.ToLower(chartType),
		series:    series,
		cache:     sharedChartCache,
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

// Fetch renders the chart. The "view" configuration key overrides the chart
// type for line based providers.
func (p *EChartsProvider) Fetch(_ context.Context, meta WidgetContext) (WidgetData, error) {
	if p.series == nil {
		return nil, fmt.Errorf("dashboard: chart %s has no series source", meta.Widget.Type)
	}
	chartType := p.chartType
	if view := stringValue(meta.Widget.Configuration["view"], ""); view != "" && chartType != "pie" {
		chartType = strings.ToLower(view)
	}
	theme := ThemeFor(meta.Theme).ChartTheme
	xAxis, series := p.series(meta)
	if len(series) == 0 {
		return nil, fmt.Errorf("dashboard: chart %s has no series", meta.Widget.Type)
	}

	renderFn := func() (string, error) {
		return p.render(chartType, theme, xAxis, series)
	}

	var (
		html string
		err  error
	)
	if p.cache != nil {
		generated := ""
		if meta.Snapshot != nil {
			generated = meta.Snapshot.GeneratedAt.Format(time.RFC3339Nano)
		}
		key := fmt.Sprintf("%s:%s:%s:%s:%s", meta.Widget.ID, chartType, theme, generated, configHash(meta.Widget.Configuration))
		html, err = p.cache.GetOrRender(key, renderFn)
	} else {
		html, err = renderFn()
	}
	if err != nil {
		return nil, err
	}

	return WidgetData{
		"chart_html": html,
		"chart_type": chartType,
		"title":      p.title,
		"theme":      theme,
	}, nil
}

func (p *EChartsProvider) render(chartType, theme string, xAxis []string, series []ChartSeries) (string, error) {
	switch chartType {
	case "bar":
		bar := charts.NewBar()
		bar.SetGlobalOptions(p.globalChartOptions(theme)...)
		bar.SetXAxis(xAxis)
		for _, s := range series {
			bar.AddSeries(s.Name, toBarData(s.Points))
		}
		return renderChart(bar)
	case "line", "area":
		line := charts.NewLine()
		line.SetGlobalOptions(p.globalChartOptions(theme)...)
		line.SetXAxis(xAxis)
		for _, s := range series {
			line.AddSeries(s.Name, toLineData(s.Points))
		}
		seriesOpts := []charts.SeriesOpts{charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)})}
		if chartType == "area" {
			seriesOpts = append(seriesOpts, charts.WithAreaStyleOpts(opts.AreaStyle{}))
		}
		line.SetSeriesOptions(seriesOpts...)
		return renderChart(line)
	case "pie":
		pie := charts.NewPie()
		pie.SetGlobalOptions(p.globalChartOptions(theme)...)
		for _, s := range series {
			pie.AddSeries(s.Name, toPieData(s.Points))
		}
		return renderChart(pie)
	default:
		return "", fmt.Errorf("unsupported chart type: %s", chartType)
	}
}

func renderChart(renderable interface{ Render(io.Writer) error }) (string, error) {
	var buf bytes.Buffer
	if err := renderable.Render(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (p *EChartsProvider) globalChartOptions(theme string) []charts.GlobalOpts {
	initOpts := opts.Initialization{
		Theme:  theme,
		Width:  "100%",
		Height: defaultChartHeight,
	}
	if p.assetsHost != "" {
		initOpts.AssetsHost = p.assetsHost
	}
	return []charts.GlobalOpts{
		charts.WithTitleOpts(opts.Title{Title: p.title}),
		charts.WithInitializationOpts(initOpts),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	}
}

func toBarData(points []ChartPoint) []opts.BarData {
	data := make([]opts.BarData, len(points))
	for i, point := range points {
		data[i] = opts.BarData{Name: point.Label, Value: point.Value}
	}
	return data
}

func toLineData(points []ChartPoint) []opts.LineData {
	data := make([]opts.LineData, len(points))
	for i, point := range points {
		data[i] = opts.LineData{Name: point.Label, Value: point.Value}
	}
	return data
}

func toPieData(points []ChartPoint) []opts.PieData {
	data := make([]opts.PieData, len(points))
	for i, point := range points {
		name := point.Label
		if name == "" {
			name = fmt.Sprintf("Slice %d", i+1)
		}
		data[i] = opts.PieData{Name: name, Value: point.Value}
	}
	return data
}

func revenueSeries(meta WidgetContext) ([]string, []ChartSeries) {
	points := meta.Snapshot.Revenue
	months := make([]string, len(points))
	revenue := ChartSeries{Name: "Revenue", Points: make([]ChartPoint, len(points))}
	orders := ChartSeries{Name: "Orders", Points: make([]ChartPoint, len(points))}
	for i, point := range points {
		months[i] = point.Month
		revenue.Points[i] = ChartPoint{Label: point.Month, Value: float64(point.Revenue)}
		orders.Points[i] = ChartPoint{Label: point.Month, Value: float64(point.Orders)}
	}
	return months, []ChartSeries{revenue, orders}
}

func weeklySeries(meta WidgetContext) ([]string, []ChartSeries) {
	points := meta.Snapshot.Weekly
	days := make([]string, len(points))
	sales := ChartSeries{Name: "Sales", Points: make([]ChartPoint, len(points))}
	for i, point := range points {
		days[i] = point.Day
		sales.Points[i] = ChartPoint{Label: point.Day, Value: float64(point.Sales)}
	}
	return days, []ChartSeries{sales}
}

func segmentSeries(meta WidgetContext) ([]string, []ChartSeries) {
	segments := meta.Snapshot.CustomerInsights.Segments
	slices := ChartSeries{Name: "Customers", Points: make([]ChartPoint, len(segments))}
	for i, seg := range segments {
		slices.Points[i] = ChartPoint{Label: seg.Name, Value: float64(seg.Value)}
	}
	return nil, []ChartSeries{slices}
}

// NewRevenueChartProvider renders the monthly revenue chart (area or bar) and,
// unless show_weekly is false, the weekly sales bar chart.
func NewRevenueChartProvider(options ...EChartsProviderOption) Provider {
	monthly := NewEChartsProvider("area", revenueSeries, append([]EChartsProviderOption{WithChartTitle("Revenue Overview")}, options...)...)
	weekly := NewEChartsProvider("bar", weeklySeries, append([]EChartsProviderOption{WithChartTitle("Weekly Sales")}, options...)...)
	return ProviderFunc(func(ctx context.Context, meta WidgetContext) (WidgetData, error) {
		data, err := monthly.Fetch(ctx, meta)
		if err != nil {
			return nil, err
		}
		data["revenue"] = meta.Snapshot.Revenue
		if boolValue(meta.Widget.Configuration["show_weekly"], true) {
			weekMeta := meta
			weekMeta.Widget.Configuration = nil
			weekMeta.Widget.ID = meta.Widget.ID + ":weekly"
			weekData, err := weekly.Fetch(ctx, weekMeta)
			if err != nil {
				return nil, err
			}
			data["weekly_html"] = weekData["chart_html"]
			data["weekly"] = meta.Snapshot.Weekly
		}
		return data, nil
	})
}

// NewCustomerInsightsProvider renders segment shares as a pie chart next to
// the customer KPIs.
func NewCustomerInsightsProvider(options ...EChartsProviderOption) Provider {
	pie := NewEChartsProvider("pie", segmentSeries, append([]EChartsProviderOption{WithChartTitle("Customer Segments")}, options...)...)
	return ProviderFunc(func(ctx context.Context, meta WidgetContext) (WidgetData, error) {
		insights := meta.Snapshot.CustomerInsights
		data := WidgetData{
			"title":    "Customer Insights",
			"segments": insights.Segments,
			"metrics":  insights.Metrics,
		}
		if !boolValue(meta.Widget.Configuration["chart"], true) {
			return data, nil
		}
		chart, err := pie.Fetch(ctx, meta)
		if err != nil {
			return nil, err
		}
		data["chart_html"] = chart["chart_html"]
		data["theme"] = chart["theme"]
		return data, nil
	})
}

package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/goliatone/go-sales-dashboard/pkg/aggregate"
)

var exportedAt = time.Date(2026, 3, 14, 22, 15, 0, 0, time.UTC)

func sampleSnapshot() *aggregate.Snapshot {
	return &aggregate.Snapshot{
		Stats: []aggregate.Metric{
			{ID: "revenue", Title: "Total Revenue", Value: "$1,234.56", Change: "+12.5%", Trend: aggregate.TrendUp},
			{ID: "orders", Title: "Total Orders", Value: "500", Change: "+8.2%", Trend: aggregate.TrendUp},
		},
		Orders: []aggregate.Order{
			{ID: "ORD-001", Customer: "John Doe", Product: "Backpack, Large", Amount: "$109.95", Status: aggregate.StatusCompleted, Date: "Mar 2, 2020"},
		},
		TopProducts: []aggregate.TopProduct{
			{ID: 1, Name: "Backpack", FullName: "Fjallraven Backpack", Revenue: "$2,345", Sales: 360, Percentage: 42},
			{ID: 2, Name: "Jacket", FullName: "Mens Cotton Jacket", Revenue: "$1,100", Sales: 120, Percentage: 20},
		},
		Revenue: []aggregate.RevenuePoint{
			{Month: "Jan", Revenue: 12500, Orders: 90},
		},
		GeneratedAt: exportedAt.Add(-time.Hour),
	}
}

func readCSV(t *testing.T, body []byte) [][]string {
	t.Helper()
	r := csv.NewReader(bytes.NewReader(body))
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	require.NoError(t, err)
	return records
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("  XLSX ")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, f)

	_, err = ParseFormat("docx")
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestFilenames(t *testing.T) {
	cases := map[Format]string{
		FormatCSV:         "dashboard_full_export_2026-03-14.csv",
		FormatOrdersCSV:   "orders_export_2026-03-14.csv",
		FormatProductsCSV: "products_export_2026-03-14.csv",
		FormatRevenueCSV:  "revenue_export_2026-03-14.csv",
		FormatJSON:        "dashboard_export_2026-03-14.json",
		FormatXLSX:        "dashboard_export_2026-03-14.xlsx",
		FormatPDF:         "dashboard_report_2026-03-14.pdf",
	}
	for format, want := range cases {
		if got := Filename(format, exportedAt); got != want {
			t.Fatalf("%s: expected %s, got %s", format, want, got)
		}
	}
}

func TestRenderFullCSVSections(t *testing.T) {
	doc, err := Render(sampleSnapshot(), FormatCSV, exportedAt)
	require.NoError(t, err)
	assert.Equal(t, "text/csv; charset=utf-8", doc.ContentType)

	records := readCSV(t, doc.Body)
	titles := []string{}
	for _, rec := range records {
		if len(rec) == 1 && strings.ToUpper(rec[0]) == rec[0] {
			titles = append(titles, rec[0])
		}
	}
	assert.Equal(t, []string{"DASHBOARD STATISTICS", "RECENT ORDERS", "TOP PRODUCTS", "REVENUE DATA"}, titles)

	assert.Equal(t, []string{"Metric", "Value", "Change", "Trend"}, records[1])
	assert.Equal(t, []string{"Total Revenue", "$1,234.56", "+12.5%", "up"}, records[2])
	assert.Contains(t, records, []string{"ORD-001", "John Doe", "Backpack, Large", "$109.95", "Completed", "Mar 2, 2020"})
	assert.Contains(t, records, []string{"1", "Backpack", "$2,345", "360", "42%"})
	assert.Contains(t, records, []string{"Jan", "$12,500", "90"})
}

func TestRenderFullCSVSkipsEmptySections(t *testing.T) {
	snap := sampleSnapshot()
	snap.Orders = nil
	snap.Revenue = nil

	doc, err := Render(snap, FormatCSV, exportedAt)
	require.NoError(t, err)

	body := string(doc.Body)
	assert.NotContains(t, body, "RECENT ORDERS")
	assert.NotContains(t, body, "REVENUE DATA")
	assert.Contains(t, body, "TOP PRODUCTS")
}

func TestRenderSingleSectionCSV(t *testing.T) {
	doc, err := Render(sampleSnapshot(), FormatProductsCSV, exportedAt)
	require.NoError(t, err)

	records := readCSV(t, doc.Body)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"Rank", "Product Name", "Revenue", "Units Sold", "Growth %"}, records[0])
	assert.Equal(t, []string{"2", "Jacket", "$1,100", "120", "20%"}, records[2])

	doc, err = Render(sampleSnapshot(), FormatRevenueCSV, exportedAt)
	require.NoError(t, err)
	records = readCSV(t, doc.Body)
	assert.Equal(t, []string{"Jan", "12500", "90"}, records[1])
}

func TestRenderJSONStampsExportTime(t *testing.T) {
	doc, err := Render(sampleSnapshot(), FormatJSON, exportedAt)
	require.NoError(t, err)
	assert.Equal(t, "application/json", doc.ContentType)
	assert.Contains(t, string(doc.Body), "\n  \"statsData\"")

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(doc.Body, &decoded))
	assert.Equal(t, "2026-03-14T22:15:00Z", decoded["exportedAt"])
	assert.Len(t, decoded["ordersData"], 1)
}

func TestRenderXLSXOneSheetPerSection(t *testing.T) {
	doc, err := Render(sampleSnapshot(), FormatXLSX, exportedAt)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(doc.Body))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Statistics", "Orders", "Top Products", "Revenue"}, f.GetSheetList())

	header, err := f.GetCellValue("Orders", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Order ID", header)

	customer, err := f.GetCellValue("Orders", "B2")
	require.NoError(t, err)
	assert.Equal(t, "John Doe", customer)
}

func TestRenderPDF(t *testing.T) {
	doc, err := Render(sampleSnapshot(), FormatPDF, exportedAt)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", doc.ContentType)
	if !bytes.HasPrefix(doc.Body, []byte("%PDF")) {
		t.Fatalf("expected a PDF header, got %q", doc.Body[:8])
	}
}

func TestRenderRequiresSnapshot(t *testing.T) {
	_, err := Render(nil, FormatJSON, exportedAt)
	if !errors.Is(err, ErrNoSnapshot) {
		t.Fatalf("expected ErrNoSnapshot, got %v", err)
	}

	_, err = Render(sampleSnapshot(), Format("docx"), exportedAt)
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestColumnWidthsFillGrid(t *testing.T) {
	for n := 1; n <= 6; n++ {
		var total uint
		for _, w := range columnWidths(n) {
			total += w
		}
		if total != gridColumns {
			t.Fatalf("%d columns: expected %d, got %d", n, gridColumns, total)
		}
	}
}

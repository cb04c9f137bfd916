// Package export renders a dashboard snapshot into downloadable documents.
package export

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-sales-dashboard/pkg/aggregate"
)

// Format identifies a document kind.
type Format string

const (
	FormatCSV         Format = "csv"
	FormatOrdersCSV   Format = "orders"
	FormatProductsCSV Format = "products"
	FormatRevenueCSV  Format = "revenue"
	FormatJSON        Format = "json"
	FormatXLSX        Format = "xlsx"
	FormatPDF         Format = "pdf"
)

var (
	ErrUnsupportedFormat = errors.New("export: unsupported format")
	ErrNoSnapshot        = errors.New("export: snapshot is required")
)

// Formats lists every supported format in display order.
func Formats() []Format {
	return []Format{FormatCSV, FormatOrdersCSV, FormatProductsCSV, FormatRevenueCSV, FormatJSON, FormatXLSX, FormatPDF}
}

// ParseFormat normalizes a user supplied format name.
func ParseFormat(raw string) (Format, error) {
	candidate := Format(strings.ToLower(strings.TrimSpace(raw)))
	for _, f := range Formats() {
		if f == candidate {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, raw)
}

// Document is a rendered export ready to be served or written to disk.
type Document struct {
	Filename    string
	ContentType string
	Body        []byte
}

// Filename returns the download name for format on the given day (UTC).
func Filename(format Format, at time.Time) string {
	day := at.UTC().Format("2006-01-02")
	switch format {
	case FormatCSV:
		return "dashboard_full_export_" + day + ".csv"
	case FormatOrdersCSV:
		return "orders_export_" + day + ".csv"
	case FormatProductsCSV:
		return "products_export_" + day + ".csv"
	case FormatRevenueCSV:
		return "revenue_export_" + day + ".csv"
	case FormatJSON:
		return "dashboard_export_" + day + ".json"
	case FormatXLSX:
		return "dashboard_export_" + day + ".xlsx"
	case FormatPDF:
		return "dashboard_report_" + day + ".pdf"
	}
	return "dashboard_export_" + day
}

// ContentType returns the MIME type served for format.
func ContentType(format Format) string {
	switch format {
	case FormatJSON:
		return "application/json"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatPDF:
		return "application/pdf"
	default:
		return "text/csv; charset=utf-8"
	}
}

// Render builds the document for format. at stamps the filename and the
// exportedAt field of JSON documents.
func Render(snap *aggregate.Snapshot, format Format, at time.Time) (Document, error) {
	if snap == nil {
		return Document{}, ErrNoSnapshot
	}

	var (
		body []byte
		err  error
	)
	switch format {
	case FormatCSV:
		body, err = writeCSV(fullSections(snap))
	case FormatOrdersCSV:
		body, err = writeCSV([]section{ordersSection(snap.Orders)})
	case FormatProductsCSV:
		body, err = writeCSV([]section{productsSection(snap.TopProducts)})
	case FormatRevenueCSV:
		body, err = writeCSV([]section{revenueSection(snap.Revenue, false)})
	case FormatJSON:
		body, err = writeJSON(snap, at)
	case FormatXLSX:
		body, err = writeXLSX(fullSections(snap))
	case FormatPDF:
		body, err = writePDF(snap, fullSections(snap), at)
	default:
		return Document{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return Document{}, fmt.Errorf("export: render %s: %w", format, err)
	}

	return Document{
		Filename:    Filename(format, at),
		ContentType: ContentType(format),
		Body:        body,
	}, nil
}

package dashboard

import "strings"

// MaxRowWeight is the weight budget of a single layout row.
const MaxRowWeight = 4

// Row is a packed group of widgets rendered side by side.
type Row struct {
	Widgets []Widget `json:"widgets"`
	Weight  int      `json:"weight"`
}

// Columns returns the CSS grid template for the row.
func (r Row) Columns() string {
	return ColumnTemplate(r.Widgets)
}

// PackRows greedily partitions widgets into rows whose summed weight never
// exceeds MaxRowWeight, preserving input order.
func PackRows(widgets []Widget) []Row {
	var (
		rows    []Row
		current []Widget
		weight  int
	)
	flush := func() {
		if len(current) == 0 {
			return
		}
		rows = append(rows, Row{Widgets: current, Weight: weight})
		current, weight = nil, 0
	}
	for _, w := range widgets {
		size := w.Size.Weight()
		if weight+size > MaxRowWeight {
			flush()
			current, weight = []Widget{w}, size
			continue
		}
		current = append(current, w)
		weight += size
		// a large card joining another card closes the row
		if weight >= MaxRowWeight || (w.Size == SizeLarge && len(current) >= 2) {
			flush()
		}
	}
	flush()
	return rows
}

// ColumnTemplate derives the grid template from the row composition.
func ColumnTemplate(row []Widget) string {
	switch len(row) {
	case 0, 1:
		return "1fr"
	case 2:
		a, b := row[0].Size, row[1].Size
		switch {
		case a == SizeLarge && b == SizeSmall:
			return "3fr 1fr"
		case a == SizeSmall && b == SizeLarge:
			return "1fr 3fr"
		default:
			return "1fr 1fr"
		}
	default:
		return strings.TrimSpace(strings.Repeat("1fr ", len(row)))
	}
}

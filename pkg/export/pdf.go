package export

import (
	"time"

	"github.com/goliatone/go-sales-dashboard/pkg/aggregate"
	"github.com/johnfercher/maroto/pkg/color"
	"github.com/johnfercher/maroto/pkg/consts"
	"github.com/johnfercher/maroto/pkg/pdf"
	"github.com/johnfercher/maroto/pkg/props"
)

const gridColumns = 12

var (
	pdfInk   = color.Color{Red: 38, Green: 38, Blue: 34}
	pdfMuted = color.Color{Red: 121, Green: 119, Blue: 109}
)

// writePDF renders a printable report: a heading followed by one table per
// section.
func writePDF(snap *aggregate.Snapshot, sections []section, at time.Time) ([]byte, error) {
	m := pdf.NewMaroto(consts.Portrait, consts.A4)
	m.SetPageMargins(15, 15, 15)

	m.Row(14, func() {
		m.Col(gridColumns, func() {
			m.Text("SALES DASHBOARD REPORT", props.Text{
				Size:  20,
				Style: consts.Bold,
				Color: pdfInk,
			})
		})
	})

	generated := snap.GeneratedAt
	if generated.IsZero() {
		generated = at
	}
	m.Row(6, func() {
		m.Col(gridColumns, func() {
			m.Text("Generated "+generated.UTC().Format("Jan 2, 2006 15:04 MST"), props.Text{
				Size:  9,
				Color: pdfMuted,
			})
		})
	})

	for _, s := range sections {
		m.Row(8, func() {})
		pdfSection(m, s)
	}

	out, err := m.Output()
	if err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func pdfSection(m pdf.Maroto, s section) {
	widths := columnWidths(len(s.Header))

	m.Row(8, func() {
		m.Col(gridColumns, func() {
			m.Text(s.Title, props.Text{Size: 11, Style: consts.Bold, Color: pdfInk})
		})
	})

	m.Row(6, func() {
		for i, h := range s.Header {
			m.Col(widths[i], func() {
				m.Text(h, props.Text{Size: 8, Style: consts.Bold, Color: pdfMuted})
			})
		}
	})

	for _, row := range s.Rows {
		m.Row(5, func() {
			for i, value := range row {
				m.Col(widths[i], func() {
					m.Text(value, props.Text{Size: 8, Color: pdfInk})
				})
			}
		})
	}
}

// columnWidths splits the 12 column grid; the first column absorbs the
// remainder.
func columnWidths(n int) []uint {
	if n <= 0 {
		return nil
	}
	if n > gridColumns {
		n = gridColumns
	}
	base := gridColumns / n
	widths := make([]uint, n)
	for i := range widths {
		widths[i] = uint(base)
	}
	widths[0] += uint(gridColumns - base*n)
	return widths
}

package export

import (
	"strconv"

	"github.com/goliatone/go-sales-dashboard/pkg/aggregate"
	"github.com/shopspring/decimal"
)

// section is a titled table shared by the CSV, XLSX and PDF writers.
type section struct {
	Title  string
	Sheet  string
	Header []string
	Rows   [][]string
}

func (s section) empty() bool { return len(s.Rows) == 0 }

// fullSections returns the non-empty sections of the full report. Sections
// without rows are left out.
func fullSections(snap *aggregate.Snapshot) []section {
	all := []section{
		statsSection(snap.Stats),
		ordersSection(snap.Orders),
		rankedProductsSection(snap.TopProducts),
		revenueSection(snap.Revenue, true),
	}
	out := make([]section, 0, len(all))
	for _, s := range all {
		if !s.empty() {
			out = append(out, s)
		}
	}
	return out
}

func statsSection(stats []aggregate.Metric) section {
	s := section{
		Title:  "DASHBOARD STATISTICS",
		Sheet:  "Statistics",
		Header: []string{"Metric", "Value", "Change", "Trend"},
	}
	for _, m := range stats {
		s.Rows = append(s.Rows, []string{m.Title, m.Value, m.Change, string(m.Trend)})
	}
	return s
}

func ordersSection(orders []aggregate.Order) section {
	s := section{
		Title:  "RECENT ORDERS",
		Sheet:  "Orders",
		Header: []string{"Order ID", "Customer", "Product", "Amount", "Status", "Date"},
	}
	for _, o := range orders {
		s.Rows = append(s.Rows, []string{o.ID, o.Customer, o.Product, o.Amount, string(o.Status), o.Date})
	}
	return s
}

func rankedProductsSection(products []aggregate.TopProduct) section {
	s := section{
		Title:  "TOP PRODUCTS",
		Sheet:  "Top Products",
		Header: []string{"Rank", "Product Name", "Revenue", "Sales", "Percentage"},
	}
	for i, p := range products {
		s.Rows = append(s.Rows, []string{
			strconv.Itoa(i + 1),
			p.Name,
			p.Revenue,
			strconv.Itoa(p.Sales),
			strconv.Itoa(p.Percentage) + "%",
		})
	}
	return s
}

// productsSection is the standalone product export. It labels the columns the
// way the top products card does.
func productsSection(products []aggregate.TopProduct) section {
	s := section{
		Title:  "TOP PRODUCTS",
		Sheet:  "Top Products",
		Header: []string{"Rank", "Product Name", "Revenue", "Units Sold", "Growth %"},
	}
	for i, p := range products {
		s.Rows = append(s.Rows, []string{
			strconv.Itoa(i + 1),
			p.Name,
			p.Revenue,
			strconv.Itoa(p.Sales),
			strconv.Itoa(p.Percentage) + "%",
		})
	}
	return s
}

func revenueSection(points []aggregate.RevenuePoint, money bool) section {
	s := section{
		Title:  "REVENUE DATA",
		Sheet:  "Revenue",
		Header: []string{"Month", "Revenue", "Orders"},
	}
	for _, p := range points {
		revenue := strconv.FormatInt(p.Revenue, 10)
		if money {
			revenue = aggregate.FormatMoney(decimal.NewFromInt(p.Revenue), 0)
		}
		s.Rows = append(s.Rows, []string{p.Month, revenue, strconv.FormatInt(p.Orders, 10)})
	}
	return s
}

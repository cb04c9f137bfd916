package aggregate

import "time"

// Trend is the direction arrow shown on a stat card.
type Trend string

const (
	TrendUp   Trend = "up"
	TrendDown Trend = "down"
)

// OrderStatus is the display status of a derived order row.
type OrderStatus string

const (
	StatusCompleted  OrderStatus = "Completed"
	StatusProcessing OrderStatus = "Processing"
	StatusPending    OrderStatus = "Pending"
	StatusCancelled  OrderStatus = "Cancelled"
)

// Metric feeds a stat card. Value keeps its display formatting.
type Metric struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Value  string `json:"value"`
	Change string `json:"change"`
	Trend  Trend  `json:"trend"`
	Icon   string `json:"icon"`
	Color  string `json:"color"`
}

// TopProduct is a ranked product row.
type TopProduct struct {
	ID         int     `json:"id"`
	Name       string  `json:"name"`
	FullName   string  `json:"fullName"`
	Sales      int     `json:"sales"`
	Revenue    string  `json:"revenue"`
	Percentage int     `json:"percentage"`
	Image      string  `json:"image,omitempty"`
	Category   string  `json:"category"`
	Rating     float64 `json:"rating"`
}

// Order is a cart joined against its user and products.
type Order struct {
	ID           string      `json:"id"`
	Customer     string      `json:"customer"`
	Email        string      `json:"email"`
	Phone        string      `json:"phone"`
	Product      string      `json:"product"`
	ProductImage string      `json:"productImage,omitempty"`
	Amount       string      `json:"amount"`
	Status       OrderStatus `json:"status"`
	Date         string      `json:"date"`
	RawDate      time.Time   `json:"rawDate"`
	UserID       int         `json:"userId"`
	TotalItems   int         `json:"totalItems"`
	City         string      `json:"city"`
}

// RevenuePoint is one month of the synthetic revenue series.
type RevenuePoint struct {
	Month   string `json:"month"`
	Revenue int64  `json:"revenue"`
	Orders  int64  `json:"orders"`
}

// WeeklyPoint is one weekday of the synthetic sales series.
type WeeklyPoint struct {
	Day   string `json:"day"`
	Sales int64  `json:"sales"`
}

// Activity is a feed entry.
type Activity struct {
	ID      int    `json:"id"`
	Type    string `json:"type"`
	Message string `json:"message"`
	Time    string `json:"time"`
	Icon    string `json:"icon"`
}

// Segment is a customer share slice.
type Segment struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
	Color string `json:"color"`
}

// InsightMetric is a labelled customer KPI.
type InsightMetric struct {
	Label  string `json:"label"`
	Value  string `json:"value"`
	Change string `json:"change"`
}

// CustomerInsights groups segments and KPIs.
type CustomerInsights struct {
	Segments []Segment      `json:"segments"`
	Metrics  []InsightMetric `json:"metrics"`
}

// CategorySummary is the per-category product breakdown.
type CategorySummary struct {
	Name    string  `json:"name"`
	Count   int     `json:"count"`
	Revenue float64 `json:"revenue"`
}

// Totals keeps the scaled headline numbers in raw form.
type Totals struct {
	Revenue   float64 `json:"revenue"`
	Orders    int     `json:"orders"`
	Customers int     `json:"customers"`
	AvgRating float64 `json:"avgRating"`
	ItemsSold int     `json:"itemsSold"`
}

// Snapshot is the full derived dashboard state. It is rebuilt wholesale and
// must be treated as read-only once published.
type Snapshot struct {
	Stats            []Metric          `json:"statsData"`
	TopProducts      []TopProduct      `json:"topProductsData"`
	Orders           []Order           `json:"ordersData"`
	Revenue          []RevenuePoint    `json:"revenueData"`
	Weekly           []WeeklyPoint     `json:"weeklyData"`
	Activity         []Activity        `json:"activityData"`
	CustomerInsights CustomerInsights  `json:"customerInsightsData"`
	Categories       []CategorySummary `json:"categoryData"`
	Totals           Totals            `json:"totals"`
	GeneratedAt      time.Time         `json:"generatedAt"`
}

// Metric returns the stat with the given id.
func (s *Snapshot) Metric(id string) (Metric, bool) {
	if s == nil {
		return Metric{}, false
	}
	for _, m := range s.Stats {
		if m.ID == id {
			return m, true
		}
	}
	return Metric{}, false
}

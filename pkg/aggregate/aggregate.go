package aggregate

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/goliatone/go-sales-dashboard/pkg/storeapi"
)

const (
	topProductLimit   = 4
	orderRowLimit     = 10
	activityUserLimit = 6
	productNameLimit  = 28
	orderTitleLimit   = 25
	salesPerRating    = 3
)

var (
	monthLabels    = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}
	weekdayLabels  = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}
	weekdayWeights = []float64{0.9, 1.0, 1.1, 1.15, 1.3, 1.4, 1.2}
	activityTimes  = []string{"2 min ago", "15 min ago", "32 min ago", "1 hour ago", "2 hours ago", "3 hours ago"}
)

// statusWeights is the categorical distribution used for order statuses.
var statusWeights = []struct {
	status OrderStatus
	weight float64
}{
	{StatusCompleted, 0.5},
	{StatusProcessing, 0.25},
	{StatusPending, 0.15},
	{StatusCancelled, 0.1},
}

// Options tunes the aggregation. Zero values fall back to the demo defaults.
type Options struct {
	RevenueMultiplier  int64
	OrderMultiplier    int
	CustomerMultiplier int
	Random             RandomSource
	Now                func() time.Time
}

// DefaultOptions returns the demo scaling constants.
func DefaultOptions() Options {
	return Options{
		RevenueMultiplier:  150,
		OrderMultiplier:    25,
		CustomerMultiplier: 80,
		Random:             DefaultRandom(),
		Now:                time.Now,
	}
}

func (o Options) normalized() Options {
	def := DefaultOptions()
	if o.RevenueMultiplier <= 0 {
		o.RevenueMultiplier = def.RevenueMultiplier
	}
	if o.OrderMultiplier <= 0 {
		o.OrderMultiplier = def.OrderMultiplier
	}
	if o.CustomerMultiplier <= 0 {
		o.CustomerMultiplier = def.CustomerMultiplier
	}
	if o.Random == nil {
		o.Random = def.Random
	}
	if o.Now == nil {
		o.Now = def.Now
	}
	return o
}

// Build turns the raw collections into a Snapshot. Apart from the injected
// random source it has no side effects and never fails.
func Build(c storeapi.Collections, opts Options) Snapshot {
	opts = opts.normalized()
	b := builder{
		opts:     opts,
		products: c.Products,
		carts:    c.Carts,
		users:    c.Users,
		byID:     make(map[int]storeapi.Product, len(c.Products)),
	}
	for _, p := range c.Products {
		b.byID[p.ID] = p
	}
	b.computeTotals()

	snap := Snapshot{
		Stats:       b.stats(),
		TopProducts: b.topProducts(),
		Orders:      b.orders(),
		Revenue:     b.revenueSeries(),
		Weekly:      b.weeklySeries(),
		Activity:    b.activity(),
		Categories:  b.categories(),
		GeneratedAt: opts.Now().UTC(),
	}
	snap.CustomerInsights = b.insights()
	snap.Totals = Totals{
		Revenue:   b.revenue.InexactFloat64(),
		Orders:    b.totalOrders,
		Customers: b.totalCustomers,
		AvgRating: b.avgRating,
		ItemsSold: b.itemsSold,
	}
	return snap
}

type builder struct {
	opts     Options
	products []storeapi.Product
	carts    []storeapi.Cart
	users    []storeapi.User
	byID     map[int]storeapi.Product

	revenue        decimal.Decimal
	itemsSold      int
	totalOrders    int
	totalCustomers int
	avgRating      float64
}

func (b *builder) computeTotals() {
	cartRevenue := decimal.Zero
	for _, cart := range b.carts {
		for _, line := range cart.Products {
			product, ok := b.byID[line.ProductID]
			if !ok {
				continue
			}
			cartRevenue = cartRevenue.Add(decimal.NewFromFloat(product.Price).Mul(decimal.NewFromInt(int64(line.Quantity))))
			b.itemsSold += line.Quantity
		}
	}
	b.revenue = cartRevenue.Mul(decimal.NewFromInt(b.opts.RevenueMultiplier))
	b.totalOrders = len(b.carts) * b.opts.OrderMultiplier
	b.totalCustomers = len(b.users) * b.opts.CustomerMultiplier
	if len(b.products) > 0 {
		sum := 0.0
		for _, p := range b.products {
			sum += p.Rating.Rate
		}
		b.avgRating = sum / float64(len(b.products))
	}
}

func (b *builder) stats() []Metric {
	return []Metric{
		{ID: "revenue", Title: "Total Revenue", Value: FormatMoney(b.revenue, 2), Change: "+12.5%", Trend: TrendUp, Icon: "revenue", Color: "#00d4ff"},
		{ID: "orders", Title: "Total Orders", Value: FormatCount(int64(b.totalOrders)), Change: "+8.2%", Trend: TrendUp, Icon: "orders", Color: "#7c4dff"},
		{ID: "customers", Title: "Active Customers", Value: FormatCount(int64(b.totalCustomers)), Change: "+15.3%", Trend: TrendUp, Icon: "customers", Color: "#00e676"},
		{ID: "rating", Title: "Avg. Rating", Value: fmt.Sprintf("%.1f / 5", b.avgRating), Change: "+0.3", Trend: TrendUp, Icon: "conversion", Color: "#ffab40"},
	}
}

// topProducts ranks by rating count. Each percentage is rounded on its own
// against the top-N subtotal and is not renormalised to 100.
func (b *builder) topProducts() []TopProduct {
	ranked := append([]storeapi.Product(nil), b.products...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Rating.Count > ranked[j].Rating.Count
	})
	if len(ranked) > topProductLimit {
		ranked = ranked[:topProductLimit]
	}
	revenues := make([]decimal.Decimal, len(ranked))
	subtotal := decimal.Zero
	for i, p := range ranked {
		revenues[i] = decimal.NewFromFloat(p.Price).Mul(decimal.NewFromInt(int64(p.Rating.Count * salesPerRating)))
		subtotal = subtotal.Add(revenues[i])
	}
	hundred := decimal.NewFromInt(100)
	out := make([]TopProduct, len(ranked))
	for i, p := range ranked {
		pct := 0
		if subtotal.IsPositive() {
			pct = int(revenues[i].Div(subtotal).Mul(hundred).Round(0).IntPart())
		}
		out[i] = TopProduct{
			ID:         p.ID,
			Name:       truncate(p.Title, productNameLimit),
			FullName:   p.Title,
			Sales:      p.Rating.Count * salesPerRating,
			Revenue:    FormatMoney(revenues[i], 0),
			Percentage: pct,
			Image:      p.Image,
			Category:   p.Category,
			Rating:     p.Rating.Rate,
		}
	}
	return out
}

func (b *builder) orders() []Order {
	carts := b.carts
	if len(carts) > orderRowLimit {
		carts = carts[:orderRowLimit]
	}
	out := make([]Order, 0, len(carts))
	for _, cart := range carts {
		user := b.userFor(cart.UserID)
		amount := decimal.Zero
		items := 0
		for _, line := range cart.Products {
			items += line.Quantity
			if product, ok := b.byID[line.ProductID]; ok {
				amount = amount.Add(decimal.NewFromFloat(product.Price).Mul(decimal.NewFromInt(int64(line.Quantity))))
			}
		}
		title, image := b.firstProduct(cart)
		out = append(out, Order{
			ID:           fmt.Sprintf("ORD-%03d", cart.ID),
			Customer:     fullName(user),
			Email:        user.Email,
			Phone:        user.Phone,
			Product:      title,
			ProductImage: image,
			Amount:       "$" + amount.StringFixed(2),
			Status:       b.drawStatus(),
			Date:         cart.Date.UTC().Format("Jan 2, 2006"),
			RawDate:      cart.Date,
			UserID:       user.ID,
			TotalItems:   items,
			City:         capitalize(user.Address.City),
		})
	}
	return out
}

func (b *builder) userFor(id int) storeapi.User {
	for _, u := range b.users {
		if u.ID == id {
			return u
		}
	}
	if len(b.users) > 0 {
		return b.users[0]
	}
	return storeapi.User{}
}

func (b *builder) firstProduct(cart storeapi.Cart) (string, string) {
	var (
		product storeapi.Product
		ok      bool
	)
	if len(cart.Products) > 0 {
		product, ok = b.byID[cart.Products[0].ProductID]
	}
	if !ok && len(b.products) > 0 {
		product, ok = b.products[0], true
	}
	if !ok || product.Title == "" {
		return "Product Bundle", product.Image
	}
	return truncate(product.Title, orderTitleLimit), product.Image
}

func (b *builder) drawStatus() OrderStatus {
	r := b.opts.Random.Float64()
	cumulative := 0.0
	for _, w := range statusWeights {
		cumulative += w.weight
		if r < cumulative {
			return w.status
		}
	}
	return StatusCompleted
}

func (b *builder) revenueSeries() []RevenuePoint {
	revenue := b.revenue.InexactFloat64()
	baseRevenue := revenue / float64(len(monthLabels))
	baseOrders := float64(b.totalOrders) / float64(len(monthLabels))
	out := make([]RevenuePoint, len(monthLabels))
	for i, month := range monthLabels {
		growth := 0.7 + float64(i)*0.05 + b.opts.Random.Float64()*0.2
		out[i] = RevenuePoint{
			Month:   month,
			Revenue: int64(math.Floor(baseRevenue * growth)),
			Orders:  int64(math.Floor(baseOrders * growth)),
		}
	}
	return out
}

func (b *builder) weeklySeries() []WeeklyPoint {
	base := b.revenue.InexactFloat64() / 365
	out := make([]WeeklyPoint, len(weekdayLabels))
	for i, day := range weekdayLabels {
		jitter := 0.9 + b.opts.Random.Float64()*0.2
		out[i] = WeeklyPoint{
			Day:   day,
			Sales: int64(math.Floor(base * weekdayWeights[i] * jitter)),
		}
	}
	return out
}

type activityTemplate struct {
	kind    string
	icon    string
	message func(a activityInput) string
}

type activityInput struct {
	user, orderID, amount, city string
	rating                      int
}

var activityTemplates = []activityTemplate{
	{"order", "shopping_cart", func(a activityInput) string { return fmt.Sprintf("New order #%s from %s", a.orderID, a.user) }},
	{"customer", "person_add", func(a activityInput) string { return "New customer registered: " + a.user }},
	{"payment", "payment", func(a activityInput) string { return fmt.Sprintf("Payment of %s received for #%s", a.amount, a.orderID) }},
	{"order", "local_shipping", func(a activityInput) string { return fmt.Sprintf("Order #%s shipped to %s", a.orderID, a.city) }},
	{"review", "star", func(a activityInput) string { return fmt.Sprintf("%s left a %d-star review", a.user, a.rating) }},
}

func (b *builder) activity() []Activity {
	users := b.users
	if len(users) > activityUserLimit {
		users = users[:activityUserLimit]
	}
	out := make([]Activity, len(users))
	for i, user := range users {
		tpl := activityTemplates[i%len(activityTemplates)]
		in := activityInput{
			user:    fullName(user),
			orderID: fmt.Sprintf("ORD-%03d", 100+i),
			amount:  fmt.Sprintf("$%.2f", b.opts.Random.Float64()*200+50),
			city:    capitalize(user.Address.City),
			rating:  int(math.Floor(b.opts.Random.Float64()*2)) + 4,
		}
		out[i] = Activity{
			ID:      i + 1,
			Type:    tpl.kind,
			Message: tpl.message(in),
			Time:    activityTimes[i],
			Icon:    tpl.icon,
		}
	}
	return out
}

func (b *builder) insights() CustomerInsights {
	avgOrder := decimal.Zero
	if b.totalOrders > 0 {
		avgOrder = b.revenue.Div(decimal.NewFromInt(int64(b.totalOrders)))
	}
	cities := make(map[string]struct{}, len(b.users))
	for _, u := range b.users {
		cities[u.Address.City] = struct{}{}
	}
	itemsPerOrder := 0.0
	if len(b.carts) > 0 {
		itemsPerOrder = float64(b.itemsSold) / float64(len(b.carts))
	}
	return CustomerInsights{
		Segments: []Segment{
			{Name: "Premium", Value: 35, Color: "#00d4ff"},
			{Name: "Regular", Value: 45, Color: "#7c4dff"},
			{Name: "New", Value: 20, Color: "#00e676"},
		},
		Metrics: []InsightMetric{
			{Label: "Avg. Order Value", Value: "$" + avgOrder.StringFixed(2), Change: "+5.2%"},
			{Label: "Customer Locations", Value: fmt.Sprintf("%d cities", len(cities)), Change: "+2"},
			{Label: "Avg. Items/Order", Value: fmt.Sprintf("%.1f", itemsPerOrder), Change: "+0.3"},
		},
	}
}

func (b *builder) categories() []CategorySummary {
	index := map[string]int{}
	var (
		out      []CategorySummary
		revenues []decimal.Decimal
	)
	for _, p := range b.products {
		pos, ok := index[p.Category]
		if !ok {
			pos = len(out)
			index[p.Category] = pos
			out = append(out, CategorySummary{Name: p.Category})
			revenues = append(revenues, decimal.Zero)
		}
		out[pos].Count++
		revenues[pos] = revenues[pos].Add(decimal.NewFromFloat(p.Price).Mul(decimal.NewFromInt(int64(p.Rating.Count))))
	}
	for i := range out {
		out[i].Revenue = revenues[i].Round(2).InexactFloat64()
	}
	return out
}

func fullName(u storeapi.User) string {
	return capitalize(u.Name.Firstname) + " " + capitalize(u.Name.Lastname)
}

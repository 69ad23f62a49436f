package basket

import (
	"math"
	"sort"
	"time"

	"github.com/andresuchdata/salesintel/backend-go/internal/domain"
)

// itemGroup aggregates the order lines of one product/variant key
type itemGroup struct {
	key         domain.ProductKey
	productName string
	variantName string
	quantities  []float64
	unitCounts  map[string]int
	unitOrder   []string
	orderIDs    map[string]struct{}
	retailerIDs map[string]struct{}
	lastOrdered time.Time
}

func (g *itemGroup) add(o domain.Order, item domain.OrderItem) {
	if g.productName == "" {
		g.productName = item.ProductName
	}
	if g.variantName == "" {
		g.variantName = item.VariantName
	}
	g.quantities = append(g.quantities, item.Quantity)
	if _, ok := g.unitCounts[item.Unit]; !ok {
		g.unitOrder = append(g.unitOrder, item.Unit)
	}
	g.unitCounts[item.Unit]++
	g.orderIDs[o.ID] = struct{}{}
	g.retailerIDs[o.RetailerID] = struct{}{}
	if o.CreatedAt.After(g.lastOrdered) {
		g.lastOrdered = o.CreatedAt
	}
}

// preferredUnit returns the most frequent unit; ties keep the first seen.
func (g *itemGroup) preferredUnit() string {
	best, bestCount := "", 0
	for _, u := range g.unitOrder {
		if g.unitCounts[u] > bestCount {
			best, bestCount = u, g.unitCounts[u]
		}
	}
	return best
}

// groupOrderItems groups confirmed order lines by key, in first-seen order.
func groupOrderItems(orders []domain.Order, include func(domain.Order) bool) []*itemGroup {
	index := make(map[domain.ProductKey]*itemGroup)
	groups := make([]*itemGroup, 0)

	for _, o := range orders {
		if !o.IsConfirmed() {
			continue
		}
		if include != nil && !include(o) {
			continue
		}
		for _, item := range o.Items {
			if item.ProductID == "" || item.Quantity <= 0 {
				continue
			}
			key := item.Key()
			g, ok := index[key]
			if !ok {
				g = &itemGroup{
					key:         key,
					unitCounts:  make(map[string]int),
					orderIDs:    make(map[string]struct{}),
					retailerIDs: make(map[string]struct{}),
				}
				index[key] = g
				groups = append(groups, g)
			}
			g.add(o, item)
		}
	}
	return groups
}

// PurchaseStat summarises how a retailer bought one product/variant key
type PurchaseStat struct {
	Key           domain.ProductKey
	OrderCount    int
	LastOrderedAt time.Time
}

// PurchaseHistory is the set of keys a retailer has ordered
type PurchaseHistory map[domain.ProductKey]PurchaseStat

// NewPurchaseHistory builds the purchase history of the confirmed orders given.
func NewPurchaseHistory(orders []domain.Order) PurchaseHistory {
	history := make(PurchaseHistory)
	for _, g := range groupOrderItems(orders, nil) {
		history[g.key] = PurchaseStat{
			Key:           g.key,
			OrderCount:    len(g.orderIDs),
			LastOrderedAt: g.lastOrdered,
		}
	}
	return history
}

// Has reports whether the key was ordered
func (h PurchaseHistory) Has(key domain.ProductKey) bool {
	_, ok := h[key]
	return ok
}

// BaseProductIDs returns the products ordered as base SKU, sorted for stable output.
func (h PurchaseHistory) BaseProductIDs() []string {
	ids := make([]string, 0)
	for key := range h {
		if key.IsBase() {
			ids = append(ids, key.ProductID)
		}
	}
	sort.Strings(ids)
	return ids
}

// median returns the middle observation; for an even count the upper middle,
// so the suggestion is always a quantity that was actually ordered.
func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	return sorted[len(sorted)/2]
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// stdDev is the population standard deviation
func stdDev(values []float64, avg float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sq float64
	for _, v := range values {
		d := v - avg
		sq += d * d
	}
	return math.Sqrt(sq / float64(len(values)))
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

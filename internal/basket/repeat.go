package basket

import (
	"math"
	"sort"
	"time"

	"github.com/andresuchdata/salesintel/backend-go/internal/domain"
)

const (
	// RepeatWindowDays is the order history window of a retailer
	RepeatWindowDays = 90

	maxRepeatSuggestions = 15

	frequencyWeight   = 0.5
	recencyWeight     = 0.3
	consistencyWeight = 0.2
)

// AnalyzeRepeatOrders ranks the products a retailer is likely to reorder from its
// confirmed orders of the last 90 days. Orders of other windows are ignored.
func AnalyzeRepeatOrders(orders []domain.Order, now time.Time) []domain.RepeatOrderSuggestion {
	since := now.AddDate(0, 0, -RepeatWindowDays)
	inWindow := func(o domain.Order) bool {
		return !o.CreatedAt.Before(since) && !o.CreatedAt.After(now)
	}

	totalOrders := 0
	for _, o := range orders {
		if o.IsConfirmed() && inWindow(o) {
			totalOrders++
		}
	}
	if totalOrders == 0 {
		return make([]domain.RepeatOrderSuggestion, 0)
	}

	groups := groupOrderItems(orders, inWindow)
	suggestions := make([]domain.RepeatOrderSuggestion, 0, len(groups))
	for _, g := range groups {
		orderCount := len(g.orderIDs)
		frequency := float64(orderCount) / float64(totalOrders)

		typical := median(g.quantities)
		avg := mean(g.quantities)

		daysSince := now.Sub(g.lastOrdered).Hours() / 24
		recency := math.Min(1, math.Max(0, 1-daysSince/RepeatWindowDays))

		consistency := 0.0
		if avg > 0 {
			consistency = math.Max(0, 1-stdDev(g.quantities, avg)/avg)
		}

		confidence := frequencyWeight*frequency + recencyWeight*recency + consistencyWeight*consistency

		suggestions = append(suggestions, domain.RepeatOrderSuggestion{
			ProductID:         g.key.ProductID,
			ProductName:       g.productName,
			VariantID:         g.key.VariantID,
			VariantName:       g.variantName,
			SuggestedQuantity: typical,
			Unit:              g.preferredUnit(),
			Confidence:        roundTo(confidence, 2),
			OrderCount:        orderCount,
			LastOrderedAt:     g.lastOrdered,
			AvgQuantity:       roundTo(avg, 1),
		})
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Confidence > suggestions[j].Confidence
	})
	if len(suggestions) > maxRepeatSuggestions {
		suggestions = suggestions[:maxRepeatSuggestions]
	}
	return suggestions
}

package basket

import (
	"fmt"
	"math"
	"sort"

	"github.com/andresuchdata/salesintel/backend-go/internal/domain"
)

const (
	// TrendWindowDays is the beat order window used for cross-sell detection
	TrendWindowDays = 30

	maxTrendingSuggestions = 5

	// minPenetration is 30%, kept as a ratio so the gate is evaluated on integers
	minPenetrationNum = 3
	minPenetrationDen = 10
)

// AnalyzeBeatTrends finds products ordered by at least 30% of the beat's active
// retailers that the target retailer has never ordered. beatOrders should hold the
// beat's last 30 days of orders; orders from retailers outside activeRetailerIDs
// are ignored. An empty roster yields an empty result.
func AnalyzeBeatTrends(beatOrders []domain.Order, activeRetailerIDs []string, target PurchaseHistory) []domain.BeatTrendingSuggestion {
	roster := make(map[string]struct{}, len(activeRetailerIDs))
	for _, id := range activeRetailerIDs {
		if id != "" {
			roster[id] = struct{}{}
		}
	}
	if len(roster) == 0 {
		return make([]domain.BeatTrendingSuggestion, 0)
	}

	groups := groupOrderItems(beatOrders, func(o domain.Order) bool {
		_, ok := roster[o.RetailerID]
		return ok
	})

	suggestions := make([]domain.BeatTrendingSuggestion, 0)
	for _, g := range groups {
		if target.Has(g.key) {
			continue
		}
		buyers := len(g.retailerIDs)
		if buyers*minPenetrationDen < len(roster)*minPenetrationNum {
			continue
		}

		penetration := float64(buyers) / float64(len(roster))
		suggestions = append(suggestions, domain.BeatTrendingSuggestion{
			ProductID:         g.key.ProductID,
			ProductName:       g.productName,
			VariantID:         g.key.VariantID,
			VariantName:       g.variantName,
			SuggestedQuantity: median(g.quantities),
			Unit:              g.preferredUnit(),
			Penetration:       roundTo(penetration, 2),
			RetailerCount:     buyers,
			Reason:            fmt.Sprintf("%d%% of retailers in this beat order this", int(math.Round(penetration*100))),
		})
	}

	// same roster for every group, so buyer count orders by penetration
	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].RetailerCount > suggestions[j].RetailerCount
	})
	if len(suggestions) > maxTrendingSuggestions {
		suggestions = suggestions[:maxTrendingSuggestions]
	}
	return suggestions
}

package basket

import (
	"fmt"
	"sort"

	"github.com/andresuchdata/salesintel/backend-go/internal/domain"
	"github.com/shopspring/decimal"
)

const maxUpsellSuggestions = 5

// minSavingsPercent is inclusive: exactly 10% qualifies
var minSavingsPercent = decimal.NewFromInt(10)

var hundred = decimal.NewFromInt(100)

// sizedVariant is an active variant with a parsed pack size
type sizedVariant struct {
	variant      domain.Variant
	grams        decimal.Decimal
	pricePerGram decimal.Decimal
}

// AnalyzePackUpsells proposes bigger packs with a lower per-gram price.
//
// Only products the retailer ordered as base SKU are considered. When the retailer
// also buys one of the product's sized variants, the most ordered one is the current
// pack and the cheapest-per-gram strictly larger variant is proposed; otherwise the
// largest pack is compared against the smallest. A suggestion needs at least two
// sized variants and a saving of 10% or more; variants the retailer already buys are
// never proposed. Results are ranked by savings and capped at 5.
func AnalyzePackUpsells(products []domain.Product, history PurchaseHistory) []domain.UpsellSuggestion {
	type ranked struct {
		suggestion domain.UpsellSuggestion
		savings    decimal.Decimal
	}
	candidates := make([]ranked, 0)

	for _, p := range products {
		if !history.Has(domain.ProductKey{ProductID: p.ID}) {
			continue
		}

		sized := sizedVariants(p.Variants)
		if len(sized) < 2 {
			continue
		}

		var from, to *sizedVariant
		if current := currentVariant(p.ID, sized, history); current != nil {
			from = current
			to = cheapestLarger(current, sized)
		} else {
			from = &sized[0]
			to = &sized[len(sized)-1]
			if !to.grams.GreaterThan(from.grams) {
				to = nil
			}
		}
		if to == nil {
			continue
		}
		if history.Has(domain.ProductKey{ProductID: p.ID, VariantID: to.variant.ID}) {
			continue
		}

		pct := savingsPercent(from.pricePerGram, to.pricePerGram)
		if pct.LessThan(minSavingsPercent) {
			continue
		}

		candidates = append(candidates, ranked{savings: pct, suggestion: domain.UpsellSuggestion{
			ProductID:             p.ID,
			ProductName:           p.Name,
			CurrentVariantID:      currentID(from, history, p.ID),
			CurrentVariantName:    from.variant.Name,
			CurrentSizeGrams:      from.grams.InexactFloat64(),
			CurrentPricePerGram:   from.pricePerGram.Round(4).InexactFloat64(),
			SuggestedVariantID:    to.variant.ID,
			SuggestedVariantName:  to.variant.Name,
			SuggestedSizeGrams:    to.grams.InexactFloat64(),
			SuggestedPricePerGram: to.pricePerGram.Round(4).InexactFloat64(),
			SuggestedPrice:        to.variant.Price,
			SavingsPercent:        pct.Round(1).InexactFloat64(),
			Reason:                fmt.Sprintf("Save %s%% per unit with %s", pct.Round(0).String(), to.variant.Name),
		}})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].savings.GreaterThan(candidates[j].savings)
	})

	suggestions := make([]domain.UpsellSuggestion, 0, min(len(candidates), maxUpsellSuggestions))
	for _, c := range candidates {
		if len(suggestions) == maxUpsellSuggestions {
			break
		}
		suggestions = append(suggestions, c.suggestion)
	}
	return suggestions
}

// sizedVariants keeps active, priced variants with a parseable size, sorted by size ascending.
func sizedVariants(variants []domain.Variant) []sizedVariant {
	sized := make([]sizedVariant, 0, len(variants))
	for _, v := range variants {
		if !v.Active || v.Price <= 0 {
			continue
		}
		grams, ok := ParseSizeGrams(v.Name)
		if !ok {
			continue
		}
		g := decimal.NewFromFloat(grams)
		sized = append(sized, sizedVariant{
			variant:      v,
			grams:        g,
			pricePerGram: decimal.NewFromFloat(v.Price).Div(g),
		})
	}
	sort.SliceStable(sized, func(i, j int) bool {
		return sized[i].grams.LessThan(sized[j].grams)
	})
	return sized
}

// currentVariant returns the sized variant the retailer orders most, or nil.
func currentVariant(productID string, sized []sizedVariant, history PurchaseHistory) *sizedVariant {
	var (
		best      *sizedVariant
		bestCount int
	)
	for i := range sized {
		stat, ok := history[domain.ProductKey{ProductID: productID, VariantID: sized[i].variant.ID}]
		if !ok {
			continue
		}
		if stat.OrderCount > bestCount {
			best = &sized[i]
			bestCount = stat.OrderCount
		}
	}
	return best
}

// cheapestLarger picks, among strictly larger and strictly cheaper-per-gram
// variants, the one with the lowest per-gram price.
func cheapestLarger(current *sizedVariant, sized []sizedVariant) *sizedVariant {
	var best *sizedVariant
	for i := range sized {
		c := &sized[i]
		if !c.grams.GreaterThan(current.grams) || !c.pricePerGram.LessThan(current.pricePerGram) {
			continue
		}
		if best == nil || c.pricePerGram.LessThan(best.pricePerGram) {
			best = c
		}
	}
	return best
}

func savingsPercent(from, to decimal.Decimal) decimal.Decimal {
	if from.IsZero() {
		return decimal.Zero
	}
	return from.Sub(to).Div(from).Mul(hundred)
}

// currentID is empty when the comparison starts from the base SKU
func currentID(from *sizedVariant, history PurchaseHistory, productID string) string {
	if history.Has(domain.ProductKey{ProductID: productID, VariantID: from.variant.ID}) {
		return from.variant.ID
	}
	return ""
}

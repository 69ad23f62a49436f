package basket

import (
	"testing"

	"github.com/andresuchdata/salesintel/backend-go/internal/domain"
)

func variant(id, name string, price float64) domain.Variant {
	return domain.Variant{ID: id, Name: name, Price: price, Active: true}
}

func historyOf(keys ...domain.ProductKey) PurchaseHistory {
	h := make(PurchaseHistory)
	for _, k := range keys {
		h[k] = PurchaseStat{Key: k, OrderCount: 1}
	}
	return h
}

func TestAnalyzePackUpsells_BoundaryIsInclusive(t *testing.T) {
	products := []domain.Product{{
		ID:   "P",
		Name: "Tea",
		Variants: []domain.Variant{
			variant("big", "1KG", 180),
			variant("small", "250G", 50),
		},
	}}

	got := AnalyzePackUpsells(products, historyOf(domain.ProductKey{ProductID: "P"}))

	if len(got) != 1 {
		t.Fatalf("expected one suggestion, got %+v", got)
	}
	s := got[0]
	if s.SuggestedVariantID != "big" || s.CurrentVariantName != "250G" {
		t.Errorf("expected 250G -> 1KG, got %+v", s)
	}
	if s.SavingsPercent != 10 {
		t.Errorf("expected 10%% savings, got %v", s.SavingsPercent)
	}
	if s.Reason != "Save 10% per unit with 1KG" {
		t.Errorf("unexpected reason %q", s.Reason)
	}
	if s.CurrentVariantID != "" {
		t.Errorf("expected base comparison without current variant id, got %q", s.CurrentVariantID)
	}
	if s.SuggestedSizeGrams <= s.CurrentSizeGrams {
		t.Errorf("suggested size must be larger: %+v", s)
	}
}

func TestAnalyzePackUpsells_BelowThreshold(t *testing.T) {
	products := []domain.Product{{
		ID: "P",
		Variants: []domain.Variant{
			variant("small", "250G", 50),
			variant("big", "1KG", 181),
		},
	}}

	got := AnalyzePackUpsells(products, historyOf(domain.ProductKey{ProductID: "P"}))

	if len(got) != 0 {
		t.Errorf("expected no suggestion below 10%%, got %+v", got)
	}
}

func TestAnalyzePackUpsells_RequiresBaseOrder(t *testing.T) {
	products := []domain.Product{{
		ID: "P",
		Variants: []domain.Variant{
			variant("small", "250G", 50),
			variant("big", "1KG", 100),
		},
	}}

	got := AnalyzePackUpsells(products, historyOf(domain.ProductKey{ProductID: "P", VariantID: "small"}))

	if len(got) != 0 {
		t.Errorf("expected no suggestion without a base order, got %+v", got)
	}
}

func TestAnalyzePackUpsells_NeedsTwoSizedVariants(t *testing.T) {
	products := []domain.Product{{
		ID: "P",
		Variants: []domain.Variant{
			variant("small", "250G", 50),
			variant("family", "Family Pack", 10),
			{ID: "off", Name: "5KG", Price: 1, Active: false},
		},
	}}

	got := AnalyzePackUpsells(products, historyOf(domain.ProductKey{ProductID: "P"}))

	if len(got) != 0 {
		t.Errorf("expected no suggestion, got %+v", got)
	}
}

func TestAnalyzePackUpsells_FromCurrentVariant(t *testing.T) {
	products := []domain.Product{{
		ID: "P",
		Variants: []domain.Variant{
			variant("v250", "250G", 50),  // 0.200/g
			variant("v500", "500G", 100), // 0.200/g, not cheaper
			variant("v1k", "1KG", 150),   // 0.150/g
			variant("v2k", "2KG", 320),   // 0.160/g
			variant("v100", "100G", 15),  // smaller, ignored
		},
	}}
	history := historyOf(
		domain.ProductKey{ProductID: "P"},
		domain.ProductKey{ProductID: "P", VariantID: "v500"},
	)

	got := AnalyzePackUpsells(products, history)

	if len(got) != 1 {
		t.Fatalf("expected one suggestion, got %+v", got)
	}
	s := got[0]
	if s.CurrentVariantID != "v500" {
		t.Errorf("expected current variant v500, got %q", s.CurrentVariantID)
	}
	if s.SuggestedVariantID != "v1k" {
		t.Errorf("expected lowest per-gram larger variant v1k, got %q", s.SuggestedVariantID)
	}
	if s.SavingsPercent != 25 {
		t.Errorf("expected 25%% savings, got %v", s.SavingsPercent)
	}
}

func TestAnalyzePackUpsells_SkipsAlreadyBoughtPack(t *testing.T) {
	products := []domain.Product{{
		ID: "P",
		Variants: []domain.Variant{
			variant("small", "250G", 50),
			variant("big", "1KG", 100),
		},
	}}
	history := historyOf(
		domain.ProductKey{ProductID: "P"},
		domain.ProductKey{ProductID: "P", VariantID: "big"},
	)

	got := AnalyzePackUpsells(products, history)

	if len(got) != 0 {
		t.Errorf("expected no suggestion for a pack already bought, got %+v", got)
	}
}

func TestAnalyzePackUpsells_RankedAndCapped(t *testing.T) {
	var products []domain.Product
	history := make(PurchaseHistory)
	for i := 0; i < 7; i++ {
		id := string(rune('A' + i))
		products = append(products, domain.Product{
			ID: id,
			Variants: []domain.Variant{
				variant(id+"s", "100G", 10),
				variant(id+"l", "1KG", float64(50+i*5)),
			},
		})
		history[domain.ProductKey{ProductID: id}] = PurchaseStat{OrderCount: 1}
	}

	got := AnalyzePackUpsells(products, history)

	if len(got) != maxUpsellSuggestions {
		t.Fatalf("expected %d suggestions, got %d", maxUpsellSuggestions, len(got))
	}
	if got[0].ProductID != "A" {
		t.Errorf("expected the biggest saving first, got %s", got[0].ProductID)
	}
	for i, s := range got {
		if s.SavingsPercent < 10 {
			t.Errorf("suggestion below savings gate: %+v", s)
		}
		if i > 0 && s.SavingsPercent > got[i-1].SavingsPercent {
			t.Errorf("suggestions not ranked by savings at %d", i)
		}
	}
}

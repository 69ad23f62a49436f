package basket

import (
	"fmt"
	"testing"
	"time"

	"github.com/andresuchdata/salesintel/backend-go/internal/domain"
)

var refNow = time.Date(2026, 3, 18, 10, 0, 0, 0, time.UTC)

func confirmedOrder(id, retailerID string, daysAgo int, items ...domain.OrderItem) domain.Order {
	return domain.Order{
		ID:         id,
		RetailerID: retailerID,
		Status:     domain.OrderStatusConfirmed,
		CreatedAt:  refNow.AddDate(0, 0, -daysAgo),
		Items:      items,
	}
}

func line(productID, variantID string, qty float64, unit string) domain.OrderItem {
	return domain.OrderItem{
		ProductID:   productID,
		ProductName: "Product " + productID,
		VariantID:   variantID,
		Quantity:    qty,
		Unit:        unit,
	}
}

func TestAnalyzeRepeatOrders_Scenario(t *testing.T) {
	quantities := []float64{10, 10, 12, 10, 11, 10}
	var orders []domain.Order
	for i := 0; i < 10; i++ {
		daysAgo := 2 + i*5
		var items []domain.OrderItem
		if i < len(quantities) {
			items = append(items, line("P", "", quantities[i], "KG"))
		} else {
			items = append(items, line("Q", "", 1, "PCS"))
		}
		orders = append(orders, confirmedOrder(fmt.Sprintf("o%d", i), "r1", daysAgo, items...))
	}

	got := AnalyzeRepeatOrders(orders, refNow)

	if len(got) != 2 {
		t.Fatalf("expected 2 suggestions, got %d", len(got))
	}
	p := got[0]
	if p.ProductID != "P" {
		t.Fatalf("expected P to rank first, got %s", p.ProductID)
	}
	if p.OrderCount != 6 {
		t.Errorf("expected order count 6, got %d", p.OrderCount)
	}
	if p.SuggestedQuantity != 10 {
		t.Errorf("expected typical quantity 10, got %v", p.SuggestedQuantity)
	}
	if p.AvgQuantity != 10.5 {
		t.Errorf("expected avg quantity 10.5, got %v", p.AvgQuantity)
	}
	if p.Unit != "KG" {
		t.Errorf("expected unit KG, got %s", p.Unit)
	}
	if p.Confidence < 0.77 || p.Confidence > 0.80 {
		t.Errorf("expected confidence within [0.77, 0.80], got %v", p.Confidence)
	}
	if !p.LastOrderedAt.Equal(refNow.AddDate(0, 0, -2)) {
		t.Errorf("unexpected last ordered at %s", p.LastOrderedAt)
	}
}

func TestAnalyzeRepeatOrders_VariantsAreSeparateKeys(t *testing.T) {
	orders := []domain.Order{
		confirmedOrder("o1", "r1", 1, line("P", "", 5, "KG"), line("P", "v1", 2, "PCS")),
		confirmedOrder("o2", "r1", 3, line("P", "v1", 2, "PCS")),
	}

	got := AnalyzeRepeatOrders(orders, refNow)

	if len(got) != 2 {
		t.Fatalf("expected 2 suggestions, got %d", len(got))
	}
	if got[0].VariantID != "v1" || got[0].OrderCount != 2 {
		t.Errorf("expected variant v1 with 2 orders first, got %+v", got[0])
	}
	if got[1].VariantID != "" {
		t.Errorf("expected base SKU second, got %+v", got[1])
	}
}

func TestAnalyzeRepeatOrders_IgnoresUnconfirmedAndOldOrders(t *testing.T) {
	pending := confirmedOrder("o2", "r1", 2, line("X", "", 1, "KG"))
	pending.Status = "draft"
	orders := []domain.Order{
		confirmedOrder("o1", "r1", 100, line("OLD", "", 1, "KG")),
		pending,
		confirmedOrder("o3", "r1", 5, line("P", "", 3, "G"), line("P", "", 3, "KG"), line("P", "", 3, "KG")),
	}

	got := AnalyzeRepeatOrders(orders, refNow)

	if len(got) != 1 {
		t.Fatalf("expected only P, got %+v", got)
	}
	if got[0].Unit != "KG" {
		t.Errorf("expected most frequent unit KG, got %s", got[0].Unit)
	}
	if got[0].OrderCount != 1 {
		t.Errorf("expected one distinct order, got %d", got[0].OrderCount)
	}
}

func TestAnalyzeRepeatOrders_EmptyInput(t *testing.T) {
	got := AnalyzeRepeatOrders(nil, refNow)
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil result, got %#v", got)
	}
}

func TestAnalyzeRepeatOrders_BoundsAndCap(t *testing.T) {
	var orders []domain.Order
	for i := 0; i < 30; i++ {
		var items []domain.OrderItem
		for p := 0; p <= i%20; p++ {
			items = append(items, line(fmt.Sprintf("P%d", p), "", float64(1+(i*p)%7), "PCS"))
		}
		orders = append(orders, confirmedOrder(fmt.Sprintf("o%d", i), "r1", i*3, items...))
	}

	got := AnalyzeRepeatOrders(orders, refNow)

	if len(got) != maxRepeatSuggestions {
		t.Fatalf("expected %d suggestions, got %d", maxRepeatSuggestions, len(got))
	}
	for i, s := range got {
		if s.Confidence < 0 || s.Confidence > 1 {
			t.Errorf("confidence out of bounds: %+v", s)
		}
		if i > 0 && s.Confidence > got[i-1].Confidence {
			t.Errorf("suggestions not sorted by confidence at %d", i)
		}
	}
}

func TestMedian(t *testing.T) {
	cases := []struct {
		in   []float64
		want float64
	}{
		{nil, 0},
		{[]float64{4}, 4},
		{[]float64{3, 1, 2}, 2},
		{[]float64{1, 2, 3, 4}, 3},
	}
	for _, tc := range cases {
		if got := median(tc.in); got != tc.want {
			t.Errorf("median(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

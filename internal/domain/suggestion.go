package domain

import "time"

// RepeatOrderSuggestion is a product the retailer is likely to reorder
type RepeatOrderSuggestion struct {
	ProductID         string    `json:"product_id"`
	ProductName       string    `json:"product_name"`
	VariantID         string    `json:"variant_id,omitempty"`
	VariantName       string    `json:"variant_name,omitempty"`
	SuggestedQuantity float64   `json:"suggested_quantity"`
	Unit              string    `json:"unit"`
	Confidence        float64   `json:"confidence"`
	OrderCount        int       `json:"order_count"`
	LastOrderedAt     time.Time `json:"last_ordered_at"`
	AvgQuantity       float64   `json:"avg_quantity"`
}

// BeatTrendingSuggestion is a cross-sell candidate popular across the retailer's beat
type BeatTrendingSuggestion struct {
	ProductID         string  `json:"product_id"`
	ProductName       string  `json:"product_name"`
	VariantID         string  `json:"variant_id,omitempty"`
	VariantName       string  `json:"variant_name,omitempty"`
	SuggestedQuantity float64 `json:"suggested_quantity"`
	Unit              string  `json:"unit"`
	Penetration       float64 `json:"penetration"`
	RetailerCount     int     `json:"retailer_count"`
	Reason            string  `json:"reason"`
}

// UpsellSuggestion proposes a bigger pack with a lower per-gram price
type UpsellSuggestion struct {
	ProductID             string  `json:"product_id"`
	ProductName           string  `json:"product_name"`
	CurrentVariantID      string  `json:"current_variant_id,omitempty"`
	CurrentVariantName    string  `json:"current_variant_name"`
	CurrentSizeGrams      float64 `json:"current_size_grams"`
	CurrentPricePerGram   float64 `json:"current_price_per_gram"`
	SuggestedVariantID    string  `json:"suggested_variant_id"`
	SuggestedVariantName  string  `json:"suggested_variant_name"`
	SuggestedSizeGrams    float64 `json:"suggested_size_grams"`
	SuggestedPricePerGram float64 `json:"suggested_price_per_gram"`
	SuggestedPrice        float64 `json:"suggested_price"`
	SavingsPercent        float64 `json:"savings_percent"`
	Reason                string  `json:"reason"`
}

// SuggestionSummary counts the suggestions of a bundle
type SuggestionSummary struct {
	RepeatOrders int `json:"repeat_orders"`
	BeatTrending int `json:"beat_trending"`
	PackUpsells  int `json:"pack_upsells"`
	Total        int `json:"total"`
}

// SuggestionBundle is the smart basket for one retailer
type SuggestionBundle struct {
	RetailerID   string                   `json:"retailer_id"`
	GeneratedAt  time.Time                `json:"generated_at"`
	RepeatOrders []RepeatOrderSuggestion  `json:"repeat_orders"`
	BeatTrending []BeatTrendingSuggestion `json:"beat_trending"`
	PackUpsells  []UpsellSuggestion       `json:"pack_upsells"`
	Summary      SuggestionSummary        `json:"summary"`
}

// NewSuggestionBundle assembles a bundle and its summary; nil lists become empty.
func NewSuggestionBundle(retailerID string, at time.Time, repeat []RepeatOrderSuggestion, trending []BeatTrendingSuggestion, upsells []UpsellSuggestion) *SuggestionBundle {
	if repeat == nil {
		repeat = make([]RepeatOrderSuggestion, 0)
	}
	if trending == nil {
		trending = make([]BeatTrendingSuggestion, 0)
	}
	if upsells == nil {
		upsells = make([]UpsellSuggestion, 0)
	}
	return &SuggestionBundle{
		RetailerID:   retailerID,
		GeneratedAt:  at,
		RepeatOrders: repeat,
		BeatTrending: trending,
		PackUpsells:  upsells,
		Summary: SuggestionSummary{
			RepeatOrders: len(repeat),
			BeatTrending: len(trending),
			PackUpsells:  len(upsells),
			Total:        len(repeat) + len(trending) + len(upsells),
		},
	}
}

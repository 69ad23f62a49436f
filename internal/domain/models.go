// backend-go/internal/domain/models.go
package domain

import "time"

// User is a field sales rep who owns beats
type User struct {
	ID     string `json:"id" db:"id"`
	Name   string `json:"name" db:"name"`
	Active bool   `json:"active" db:"active"`
}

// Beat is a sales territory; the unit of day assignment
type Beat struct {
	ID     string `json:"id" db:"id"`
	Name   string `json:"name" db:"name"`
	UserID string `json:"user_id" db:"user_id"`
	Active bool   `json:"active" db:"active"`
}

// Retailer represents an outlet visited by a rep
type Retailer struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	BeatID        string        `json:"beat_id"`
	Potential     PotentialTier `json:"potential"`
	Priority      PriorityFlag  `json:"priority"`
	PendingAmount float64       `json:"pending_amount"`
	LastVisitAt   *time.Time    `json:"last_visit_at,omitempty"`
	AvgOrderValue float64       `json:"avg_order_value"`
	Active        bool          `json:"active"`
}

// Order is a retailer order together with its line items
type Order struct {
	ID          string      `json:"id"`
	RetailerID  string      `json:"retailer_id"`
	UserID      string      `json:"user_id"`
	TotalAmount float64     `json:"total_amount"`
	CreatedAt   time.Time   `json:"created_at"`
	Status      string      `json:"status"`
	Items       []OrderItem `json:"items"`
}

// IsConfirmed reports whether the order counts toward scoring and suggestions
func (o Order) IsConfirmed() bool {
	return o.Status == OrderStatusConfirmed
}

// OrderItem is a single order line. An empty VariantID means the base SKU was ordered.
type OrderItem struct {
	OrderID     string  `json:"order_id"`
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	VariantID   string  `json:"variant_id,omitempty"`
	VariantName string  `json:"variant_name,omitempty"`
	Quantity    float64 `json:"quantity"`
	Unit        string  `json:"unit"`
	UnitPrice   float64 `json:"unit_price"`
}

// Key returns the canonical product/variant key of the line
func (i OrderItem) Key() ProductKey {
	return ProductKey{ProductID: i.ProductID, VariantID: i.VariantID}
}

// Visit is a planned or completed retailer visit
type Visit struct {
	UserID     string    `json:"user_id"`
	RetailerID string    `json:"retailer_id"`
	VisitDate  time.Time `json:"visit_date"`
	Status     string    `json:"status"`
}

// Product is a catalog entry with its pack variants
type Product struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	BasePrice float64   `json:"base_price"`
	Unit      string    `json:"unit"`
	Variants  []Variant `json:"variants"`
}

// Variant is a pack of a product, its name often encodes the pack size ("250G", "1KG")
type Variant struct {
	ID        string  `json:"id"`
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Active    bool    `json:"active"`
}

// ProductKey identifies a product, or one variant of it, across orders.
// It is the only key used for exclusion checks.
type ProductKey struct {
	ProductID string
	VariantID string
}

// IsBase reports whether the key refers to the base SKU
func (k ProductKey) IsBase() bool {
	return k.VariantID == ""
}

func (k ProductKey) String() string {
	if k.VariantID == "" {
		return k.ProductID
	}
	return k.ProductID + "_" + k.VariantID
}

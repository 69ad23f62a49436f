package postgres

import (
	"database/sql"
	"strings"

	"github.com/andresuchdata/salesintel/backend-go/internal/domain"
	"github.com/shopspring/decimal"
)

// Row types mirror the loose column shapes of the data layer. Nulls are
// normalised here so nothing past the repository sees them.

type retailerRow struct {
	ID            string              `db:"id"`
	Name          sql.NullString      `db:"name"`
	BeatID        sql.NullString      `db:"beat_id"`
	Potential     sql.NullString      `db:"potential"`
	Priority      sql.NullString      `db:"priority"`
	PendingAmount decimal.NullDecimal `db:"pending_amount"`
	LastVisitAt   sql.NullTime        `db:"last_visit_at"`
	AvgOrderValue decimal.NullDecimal `db:"avg_order_value"`
	IsActive      sql.NullBool        `db:"is_active"`
}

func (r retailerRow) toDomain() domain.Retailer {
	out := domain.Retailer{
		ID:            r.ID,
		Name:          r.Name.String,
		BeatID:        r.BeatID.String,
		Potential:     domain.ParsePotentialTier(r.Potential.String),
		Priority:      domain.ParsePriorityFlag(r.Priority.String),
		PendingAmount: nonNegative(r.PendingAmount),
		AvgOrderValue: nonNegative(r.AvgOrderValue),
		Active:        !r.IsActive.Valid || r.IsActive.Bool,
	}
	if r.LastVisitAt.Valid {
		t := r.LastVisitAt.Time
		out.LastVisitAt = &t
	}
	return out
}

type orderRow struct {
	ID          string              `db:"id"`
	RetailerID  string              `db:"retailer_id"`
	UserID      sql.NullString      `db:"user_id"`
	TotalAmount decimal.NullDecimal `db:"total_amount"`
	CreatedAt   sql.NullTime        `db:"created_at"`
	Status      sql.NullString      `db:"status"`
}

func (r orderRow) toDomain() domain.Order {
	return domain.Order{
		ID:          r.ID,
		RetailerID:  r.RetailerID,
		UserID:      r.UserID.String,
		TotalAmount: nonNegative(r.TotalAmount),
		CreatedAt:   r.CreatedAt.Time,
		Status:      strings.ToLower(strings.TrimSpace(r.Status.String)),
		Items:       make([]domain.OrderItem, 0),
	}
}

type orderItemRow struct {
	OrderID     string              `db:"order_id"`
	ProductID   string              `db:"product_id"`
	ProductName sql.NullString      `db:"product_name"`
	VariantID   sql.NullString      `db:"variant_id"`
	VariantName sql.NullString      `db:"variant_name"`
	Quantity    decimal.NullDecimal `db:"quantity"`
	Unit        sql.NullString      `db:"unit"`
	UnitPrice   decimal.NullDecimal `db:"unit_price"`
}

func (r orderItemRow) toDomain() domain.OrderItem {
	return domain.OrderItem{
		OrderID:     r.OrderID,
		ProductID:   r.ProductID,
		ProductName: r.ProductName.String,
		VariantID:   r.VariantID.String,
		VariantName: r.VariantName.String,
		Quantity:    nonNegative(r.Quantity),
		Unit:        strings.ToUpper(strings.TrimSpace(r.Unit.String)),
		UnitPrice:   nonNegative(r.UnitPrice),
	}
}

type visitRow struct {
	UserID     string         `db:"user_id"`
	RetailerID string         `db:"retailer_id"`
	VisitDate  sql.NullTime   `db:"visit_date"`
	Status     sql.NullString `db:"status"`
}

func (r visitRow) toDomain() domain.Visit {
	return domain.Visit{
		UserID:     r.UserID,
		RetailerID: r.RetailerID,
		VisitDate:  r.VisitDate.Time,
		Status:     strings.ToLower(strings.TrimSpace(r.Status.String)),
	}
}

type productVariantRow struct {
	ProductID     string              `db:"product_id"`
	ProductName   sql.NullString      `db:"product_name"`
	BasePrice     decimal.NullDecimal `db:"base_price"`
	Unit          sql.NullString      `db:"unit"`
	VariantID     sql.NullString      `db:"variant_id"`
	VariantName   sql.NullString      `db:"variant_name"`
	VariantPrice  decimal.NullDecimal `db:"variant_price"`
	VariantActive sql.NullBool        `db:"variant_active"`
}

// groupProducts folds product/variant join rows into products, keeping row order.
func groupProducts(rows []productVariantRow) []domain.Product {
	index := make(map[string]int)
	products := make([]domain.Product, 0)
	for _, r := range rows {
		i, ok := index[r.ProductID]
		if !ok {
			products = append(products, domain.Product{
				ID:        r.ProductID,
				Name:      r.ProductName.String,
				BasePrice: nonNegative(r.BasePrice),
				Unit:      r.Unit.String,
				Variants:  make([]domain.Variant, 0),
			})
			i = len(products) - 1
			index[r.ProductID] = i
		}
		if !r.VariantID.Valid || r.VariantID.String == "" {
			continue
		}
		products[i].Variants = append(products[i].Variants, domain.Variant{
			ID:        r.VariantID.String,
			ProductID: r.ProductID,
			Name:      r.VariantName.String,
			Price:     nonNegative(r.VariantPrice),
			Active:    r.VariantActive.Valid && r.VariantActive.Bool,
		})
	}
	return products
}

func nonNegative(d decimal.NullDecimal) float64 {
	if !d.Valid || d.Decimal.IsNegative() {
		return 0
	}
	return d.Decimal.InexactFloat64()
}

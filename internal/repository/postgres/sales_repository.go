package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/andresuchdata/salesintel/backend-go/internal/domain"
	"github.com/lib/pq"
)

type salesRepository struct {
	db *DB
}

func NewSalesRepository(db *DB) *salesRepository {
	return &salesRepository{db: db}
}

func (r *salesRepository) ListActiveUsers(ctx context.Context) ([]domain.User, error) {
	query := `
		SELECT id::text AS id, COALESCE(full_name, '') AS name, TRUE AS active
		FROM profiles
		WHERE COALESCE(is_active, TRUE)
		ORDER BY created_at, id
	`

	var users []domain.User
	if err := r.db.SelectContext(ctx, &users, query); err != nil {
		return nil, fmt.Errorf("failed to list active users: %w", err)
	}
	return users, nil
}

func (r *salesRepository) ListActiveBeats(ctx context.Context, userID string) ([]domain.Beat, error) {
	query := `
		SELECT id::text AS id, COALESCE(name, '') AS name, user_id::text AS user_id, TRUE AS active
		FROM beats
		WHERE user_id = $1::uuid AND COALESCE(is_active, TRUE)
		ORDER BY created_at, id
	`

	var beats []domain.Beat
	if err := r.db.SelectContext(ctx, &beats, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list beats: %w", err)
	}
	return beats, nil
}

const retailerColumns = `
	r.id::text AS id,
	r.name,
	r.beat_id::text AS beat_id,
	r.potential,
	r.priority,
	r.pending_amount,
	r.last_visit_date AS last_visit_at,
	r.avg_order_value,
	r.is_active
`

func (r *salesRepository) ListRetailersByBeats(ctx context.Context, beatIDs []string) ([]domain.Retailer, error) {
	if len(beatIDs) == 0 {
		return nil, nil
	}

	query := `SELECT ` + retailerColumns + `
		FROM retailers r
		WHERE r.beat_id = ANY($1::uuid[]) AND COALESCE(r.is_active, TRUE)
		ORDER BY r.name, r.id
	`

	var rows []retailerRow
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(beatIDs)); err != nil {
		return nil, fmt.Errorf("failed to list retailers: %w", err)
	}

	retailers := make([]domain.Retailer, 0, len(rows))
	for _, row := range rows {
		retailers = append(retailers, row.toDomain())
	}
	return retailers, nil
}

func (r *salesRepository) GetRetailer(ctx context.Context, retailerID string) (*domain.Retailer, error) {
	query := `SELECT ` + retailerColumns + `
		FROM retailers r
		WHERE r.id = $1::uuid
	`

	var row retailerRow
	if err := r.db.GetContext(ctx, &row, query, retailerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("retailer %s: %w", retailerID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get retailer: %w", err)
	}

	retailer := row.toDomain()
	return &retailer, nil
}

func (r *salesRepository) ListActiveRetailerIDsByBeat(ctx context.Context, beatID string) ([]string, error) {
	if beatID == "" {
		return nil, nil
	}

	query := `
		SELECT id::text
		FROM retailers
		WHERE beat_id = $1::uuid AND COALESCE(is_active, TRUE)
		ORDER BY id
	`

	var ids []string
	if err := r.db.SelectContext(ctx, &ids, query, beatID); err != nil {
		return nil, fmt.Errorf("failed to list beat retailers: %w", err)
	}
	return ids, nil
}

func (r *salesRepository) ListConfirmedOrders(ctx context.Context, retailerIDs []string, since time.Time) ([]domain.Order, error) {
	if len(retailerIDs) == 0 {
		return nil, nil
	}

	orderQuery := `
		SELECT id::text AS id, retailer_id::text AS retailer_id, user_id::text AS user_id,
			total_amount, created_at, status
		FROM orders
		WHERE retailer_id = ANY($1::uuid[])
			AND created_at >= $2
			AND LOWER(status) = 'confirmed'
		ORDER BY created_at DESC, id
	`

	var orderRows []orderRow
	if err := r.db.SelectContext(ctx, &orderRows, orderQuery, pq.Array(retailerIDs), since); err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	if len(orderRows) == 0 {
		return nil, nil
	}

	orderIDs := make([]string, 0, len(orderRows))
	for _, o := range orderRows {
		orderIDs = append(orderIDs, o.ID)
	}

	itemQuery := `
		SELECT
			oi.order_id::text AS order_id,
			oi.product_id::text AS product_id,
			p.name AS product_name,
			oi.variant_id::text AS variant_id,
			v.variant_name AS variant_name,
			oi.quantity,
			oi.unit,
			oi.unit_price
		FROM order_items oi
		LEFT JOIN products p ON p.id = oi.product_id
		LEFT JOIN product_variants v ON v.id = oi.variant_id
		WHERE oi.order_id = ANY($1::uuid[])
		ORDER BY oi.order_id, oi.id
	`

	var itemRows []orderItemRow
	if err := r.db.SelectContext(ctx, &itemRows, itemQuery, pq.Array(orderIDs)); err != nil {
		return nil, fmt.Errorf("failed to list order items: %w", err)
	}

	itemsByOrder := make(map[string][]domain.OrderItem, len(orderRows))
	for _, it := range itemRows {
		itemsByOrder[it.OrderID] = append(itemsByOrder[it.OrderID], it.toDomain())
	}

	orders := make([]domain.Order, 0, len(orderRows))
	for _, row := range orderRows {
		o := row.toDomain()
		if items, ok := itemsByOrder[o.ID]; ok {
			o.Items = items
		}
		orders = append(orders, o)
	}
	return orders, nil
}

func (r *salesRepository) ListVisits(ctx context.Context, userID string, since time.Time) ([]domain.Visit, error) {
	query := `
		SELECT user_id::text AS user_id, retailer_id::text AS retailer_id,
			COALESCE(actual_date, planned_date) AS visit_date, status
		FROM visits
		WHERE user_id = $1::uuid AND COALESCE(actual_date, planned_date) >= $2
		ORDER BY visit_date DESC
	`

	var rows []visitRow
	if err := r.db.SelectContext(ctx, &rows, query, userID, since); err != nil {
		return nil, fmt.Errorf("failed to list visits: %w", err)
	}

	visits := make([]domain.Visit, 0, len(rows))
	for _, row := range rows {
		visits = append(visits, row.toDomain())
	}
	return visits, nil
}

func (r *salesRepository) ListProductsWithVariants(ctx context.Context, productIDs []string) ([]domain.Product, error) {
	if len(productIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT
			p.id::text AS product_id,
			p.name AS product_name,
			p.base_price,
			p.unit,
			v.id::text AS variant_id,
			v.variant_name,
			v.price AS variant_price,
			v.is_active AS variant_active
		FROM products p
		LEFT JOIN product_variants v ON v.product_id = p.id
		WHERE p.id = ANY($1::uuid[])
		ORDER BY p.name, p.id, v.price
	`

	var rows []productVariantRow
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(productIDs)); err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return groupProducts(rows), nil
}

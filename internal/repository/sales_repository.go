// backend-go/internal/repository/sales_repository.go
package repository

import (
	"context"
	"time"

	"github.com/andresuchdata/salesintel/backend-go/internal/domain"
)

// SalesRepository is the read-only feed consumed by the recommendation core
type SalesRepository interface {
	ListActiveUsers(ctx context.Context) ([]domain.User, error)
	ListActiveBeats(ctx context.Context, userID string) ([]domain.Beat, error)
	ListRetailersByBeats(ctx context.Context, beatIDs []string) ([]domain.Retailer, error)
	GetRetailer(ctx context.Context, retailerID string) (*domain.Retailer, error)
	ListActiveRetailerIDsByBeat(ctx context.Context, beatID string) ([]string, error)

	// ListConfirmedOrders returns confirmed orders with their items created at or after since
	ListConfirmedOrders(ctx context.Context, retailerIDs []string, since time.Time) ([]domain.Order, error)
	ListVisits(ctx context.Context, userID string, since time.Time) ([]domain.Visit, error)
	ListProductsWithVariants(ctx context.Context, productIDs []string) ([]domain.Product, error)
}

package repository

import (
	"context"

	"github.com/nyumba-homes/storefront-api/internal/domain"
	"github.com/nyumba-homes/storefront-api/internal/schemas"
	"github.com/nyumba-homes/storefront-api/internal/storage"
	"go.uber.org/zap"
)

// OrderRepository keeps the append-only order log of one visitor
type OrderRepository struct {
	store  storage.Store
	logger *zap.Logger
}

// NewOrderRepository creates a repository over a session-scoped store
func NewOrderRepository(store storage.Store, logger *zap.Logger) *OrderRepository {
	return &OrderRepository{store: store, logger: logger}
}

// List returns every order, oldest first. An unreadable log loads as empty.
func (r *OrderRepository) List(ctx context.Context) []domain.Order {
	return loadJSON(ctx, r.store, r.logger, KeyOrders, schemas.Orders, []domain.Order{})
}

// Append adds order to the end of the log with a single write.
// A log that cannot be read is left untouched.
func (r *OrderRepository) Append(ctx context.Context, order domain.Order) error {
	orders, err := loadForUpdate(ctx, r.store, r.logger, KeyOrders, schemas.Orders, []domain.Order{})
	if err != nil {
		return err
	}
	return saveJSON(ctx, r.store, KeyOrders, append(orders, order))
}

package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, stock *Stock) error
	Update(ctx context.Context, db *gorm.DB, stock *Stock) error
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*Stock, error)
	FindByProduct(ctx context.Context, db *gorm.DB, productID int64) (*Stock, error)
	FindAll(ctx context.Context, db *gorm.DB) ([]Stock, error)

	// DeleteByProducts removes the stock rows owned by the given
	// products; used when a product (or its catalog ancestor) is removed.
	DeleteByProducts(ctx context.Context, db *gorm.DB, productIDs []int64) error

	// AddQuantity adds amount unconditionally and stamps the restock
	// date; used by the restock escape hatch which bypasses the
	// product-quantity ceiling.
	AddQuantity(ctx context.Context, db *gorm.DB, id int64, amount int64, restockedAt time.Time) (int64, error)

	// DecrementForProduct subtracts qty only when enough stock remains,
	// returning the number of rows touched (0 means insufficient stock).
	DecrementForProduct(ctx context.Context, db *gorm.DB, productID, qty int64) (int64, error)
}

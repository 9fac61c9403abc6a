package domain

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

type Repository interface {
	Append(ctx context.Context, db *gorm.DB, entry *Purchase) error
	FindByProduct(ctx context.Context, db *gorm.DB, productID int64) ([]Purchase, error)
	FindAll(ctx context.Context, db *gorm.DB) ([]Purchase, error)

	// DeleteByProducts removes the ledger entries owned by the given
	// products. The ledger is append-only in normal operation; entries
	// only leave with their product.
	DeleteByProducts(ctx context.Context, db *gorm.DB, productIDs []int64) error

	// TotalPurchased reconstructs a product's cumulative quantity
	// growth from the ledger.
	TotalPurchased(ctx context.Context, db *gorm.DB, productID int64) (int64, error)
}

var ErrNonPositivePurchase = errors.New("invalid_purchase_quantity")

package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, order *Order) error
	Update(ctx context.Context, db *gorm.DB, order *Order) error
	Delete(ctx context.Context, db *gorm.DB, id int64) error
	DeleteByProducts(ctx context.Context, db *gorm.DB, productIDs []int64) error
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*Order, error)
	FindAll(ctx context.Context, db *gorm.DB) ([]Order, error)
	FindByProduct(ctx context.Context, db *gorm.DB, productID int64) ([]Order, error)

	// MarkPaid flips is_paid only when the order is still unpaid,
	// reporting the number of rows touched. Zero rows means another
	// actor already won the transition.
	MarkPaid(ctx context.Context, db *gorm.DB, id int64) (int64, error)
}

package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, product *Product) error
	Update(ctx context.Context, db *gorm.DB, product *Product) error
	Delete(ctx context.Context, db *gorm.DB, id int64) error
	DeleteByIDs(ctx context.Context, db *gorm.DB, ids []int64) error
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*Product, error)
	FindByCode(ctx context.Context, db *gorm.DB, code string) (*Product, error)
	FindAll(ctx context.Context, db *gorm.DB) ([]Product, error)

	// FindIDsByHierarchy lists the ids of products matching the catalog
	// references set on ref; zero-valued references are ignored.
	FindIDsByHierarchy(ctx context.Context, db *gorm.DB, ref *Product) ([]int64, error)

	// DecrementQuantity subtracts qty from the authorized total only
	// when enough remains, reporting the number of rows touched.
	DecrementQuantity(ctx context.Context, db *gorm.DB, id, qty int64) (int64, error)
}

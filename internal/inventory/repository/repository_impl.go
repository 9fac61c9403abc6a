package repository

import (
	"context"
	"errors"
	"time"

	"github.com/storenow/backoffice/internal/inventory/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, stock *domain.Stock) error {
	return db.WithContext(ctx).Create(stock).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, stock *domain.Stock) error {
	return db.WithContext(ctx).Save(stock).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id int64) (*domain.Stock, error) {
	var s domain.Stock
	err := db.WithContext(ctx).First(&s, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repo) FindByProduct(ctx context.Context, db *gorm.DB, productID int64) (*domain.Stock, error) {
	var s domain.Stock
	err := db.WithContext(ctx).First(&s, "product_id = ?", productID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repo) FindAll(ctx context.Context, db *gorm.DB) ([]domain.Stock, error) {
	var items []domain.Stock
	if err := db.WithContext(ctx).Order("updated_at DESC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) DeleteByProducts(ctx context.Context, db *gorm.DB, productIDs []int64) error {
	if len(productIDs) == 0 {
		return nil
	}
	return db.WithContext(ctx).Where("product_id IN ?", productIDs).Delete(&domain.Stock{}).Error
}

func (r *repo) AddQuantity(ctx context.Context, db *gorm.DB, id int64, amount int64, restockedAt time.Time) (int64, error) {
	result := db.WithContext(ctx).
		Model(&domain.Stock{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"quantity_in_stock": gorm.Expr("quantity_in_stock + ?", amount),
			"restock_date":      restockedAt,
			"updated_at":        restockedAt,
		})
	return result.RowsAffected, result.Error
}

func (r *repo) DecrementForProduct(ctx context.Context, db *gorm.DB, productID, qty int64) (int64, error) {
	result := db.WithContext(ctx).
		Model(&domain.Stock{}).
		Where("product_id = ? AND quantity_in_stock >= ?", productID, qty).
		Updates(map[string]any{
			"quantity_in_stock": gorm.Expr("quantity_in_stock - ?", qty),
			"updated_at":        time.Now().UTC(),
		})
	return result.RowsAffected, result.Error
}

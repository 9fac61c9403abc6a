package repository

import (
	"context"

	"github.com/storenow/backoffice/internal/purchase/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Append(ctx context.Context, db *gorm.DB, entry *domain.Purchase) error {
	if entry.QuantityPurchased <= 0 {
		return domain.ErrNonPositivePurchase
	}
	return db.WithContext(ctx).Create(entry).Error
}

func (r *repo) FindByProduct(ctx context.Context, db *gorm.DB, productID int64) ([]domain.Purchase, error) {
	var entries []domain.Purchase
	err := db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("purchase_date ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *repo) FindAll(ctx context.Context, db *gorm.DB) ([]domain.Purchase, error) {
	var entries []domain.Purchase
	if err := db.WithContext(ctx).Order("purchase_date ASC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *repo) DeleteByProducts(ctx context.Context, db *gorm.DB, productIDs []int64) error {
	if len(productIDs) == 0 {
		return nil
	}
	return db.WithContext(ctx).Where("product_id IN ?", productIDs).Delete(&domain.Purchase{}).Error
}

func (r *repo) TotalPurchased(ctx context.Context, db *gorm.DB, productID int64) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.Purchase{}).
		Where("product_id = ?", productID).
		Select("COALESCE(SUM(quantity_purchased), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}

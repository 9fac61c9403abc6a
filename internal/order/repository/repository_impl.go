package repository

import (
	"context"
	"errors"

	"github.com/storenow/backoffice/internal/order/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, order *domain.Order) error {
	return db.WithContext(ctx).Create(order).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, order *domain.Order) error {
	return db.WithContext(ctx).Save(order).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id int64) error {
	return db.WithContext(ctx).Delete(&domain.Order{}, "id = ?", id).Error
}

func (r *repo) DeleteByProducts(ctx context.Context, db *gorm.DB, productIDs []int64) error {
	if len(productIDs) == 0 {
		return nil
	}
	return db.WithContext(ctx).Where("product_id IN ?", productIDs).Delete(&domain.Order{}).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id int64) (*domain.Order, error) {
	var o domain.Order
	err := db.WithContext(ctx).First(&o, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *repo) FindAll(ctx context.Context, db *gorm.DB) ([]domain.Order, error) {
	var orders []domain.Order
	if err := db.WithContext(ctx).Order("order_date DESC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *repo) FindByProduct(ctx context.Context, db *gorm.DB, productID int64) ([]domain.Order, error) {
	var orders []domain.Order
	err := db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("order_date DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *repo) MarkPaid(ctx context.Context, db *gorm.DB, id int64) (int64, error) {
	res := db.WithContext(ctx).
		Model(&domain.Order{}).
		Where("id = ? AND is_paid = ?", id, false).
		Update("is_paid", true)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

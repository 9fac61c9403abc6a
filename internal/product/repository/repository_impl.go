package repository

import (
	"context"
	"errors"

	"github.com/storenow/backoffice/internal/product/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, product *domain.Product) error {
	return db.WithContext(ctx).Create(product).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, product *domain.Product) error {
	return db.WithContext(ctx).Save(product).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id int64) error {
	return db.WithContext(ctx).Delete(&domain.Product{}, "id = ?", id).Error
}

func (r *repo) DeleteByIDs(ctx context.Context, db *gorm.DB, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	return db.WithContext(ctx).Where("id IN ?", ids).Delete(&domain.Product{}).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id int64) (*domain.Product, error) {
	var p domain.Product
	err := db.WithContext(ctx).First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repo) FindByCode(ctx context.Context, db *gorm.DB, code string) (*domain.Product, error) {
	var p domain.Product
	err := db.WithContext(ctx).First(&p, "code = ?", code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repo) FindAll(ctx context.Context, db *gorm.DB) ([]domain.Product, error) {
	var items []domain.Product
	if err := db.WithContext(ctx).Order("created_at ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) FindIDsByHierarchy(ctx context.Context, db *gorm.DB, ref *domain.Product) ([]int64, error) {
	var ids []int64
	err := db.WithContext(ctx).
		Model(&domain.Product{}).
		Where(ref).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *repo) DecrementQuantity(ctx context.Context, db *gorm.DB, id, qty int64) (int64, error) {
	res := db.WithContext(ctx).
		Model(&domain.Product{}).
		Where("id = ? AND quantity >= ?", id, qty).
		Update("quantity", gorm.Expr("quantity - ?", qty))
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

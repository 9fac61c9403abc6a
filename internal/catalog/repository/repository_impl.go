package repository

import (
	"context"
	"errors"

	"github.com/storenow/backoffice/internal/catalog/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) CreateCategory(ctx context.Context, db *gorm.DB, category *domain.Category) error {
	return db.WithContext(ctx).Create(category).Error
}

func (r *repo) FindCategoryByID(ctx context.Context, db *gorm.DB, id int64) (*domain.Category, error) {
	var c domain.Category
	err := db.WithContext(ctx).First(&c, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repo) FindAllCategories(ctx context.Context, db *gorm.DB) ([]domain.Category, error) {
	var items []domain.Category
	if err := db.WithContext(ctx).Order("name ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) UpdateCategory(ctx context.Context, db *gorm.DB, category *domain.Category) error {
	return db.WithContext(ctx).Save(category).Error
}

func (r *repo) DeleteCategory(ctx context.Context, db *gorm.DB, id int64) error {
	return db.WithContext(ctx).Delete(&domain.Category{}, "id = ?", id).Error
}

func (r *repo) CreateSubcategory(ctx context.Context, db *gorm.DB, subcategory *domain.Subcategory) error {
	return db.WithContext(ctx).Create(subcategory).Error
}

func (r *repo) FindSubcategoryByID(ctx context.Context, db *gorm.DB, id int64) (*domain.Subcategory, error) {
	var s domain.Subcategory
	err := db.WithContext(ctx).First(&s, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repo) FindSubcategoriesByCategory(ctx context.Context, db *gorm.DB, categoryID int64) ([]domain.Subcategory, error) {
	var items []domain.Subcategory
	if err := db.WithContext(ctx).Where("category_id = ?", categoryID).Order("name ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) FindAllSubcategories(ctx context.Context, db *gorm.DB) ([]domain.Subcategory, error) {
	var items []domain.Subcategory
	if err := db.WithContext(ctx).Order("name ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) UpdateSubcategory(ctx context.Context, db *gorm.DB, subcategory *domain.Subcategory) error {
	return db.WithContext(ctx).Save(subcategory).Error
}

func (r *repo) DeleteSubcategory(ctx context.Context, db *gorm.DB, id int64) error {
	return db.WithContext(ctx).Delete(&domain.Subcategory{}, "id = ?", id).Error
}

func (r *repo) CreateBrand(ctx context.Context, db *gorm.DB, brand *domain.Brand) error {
	return db.WithContext(ctx).Create(brand).Error
}

func (r *repo) FindBrandByID(ctx context.Context, db *gorm.DB, id int64) (*domain.Brand, error) {
	var b domain.Brand
	err := db.WithContext(ctx).First(&b, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *repo) FindAllBrands(ctx context.Context, db *gorm.DB) ([]domain.Brand, error) {
	var items []domain.Brand
	if err := db.WithContext(ctx).Order("name ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) UpdateBrand(ctx context.Context, db *gorm.DB, brand *domain.Brand) error {
	return db.WithContext(ctx).Save(brand).Error
}

func (r *repo) DeleteBrand(ctx context.Context, db *gorm.DB, id int64) error {
	return db.WithContext(ctx).Delete(&domain.Brand{}, "id = ?", id).Error
}

func (r *repo) CreateModel(ctx context.Context, db *gorm.DB, model *domain.ProductModel) error {
	return db.WithContext(ctx).Create(model).Error
}

func (r *repo) FindModelByID(ctx context.Context, db *gorm.DB, id int64) (*domain.ProductModel, error) {
	var m domain.ProductModel
	err := db.WithContext(ctx).First(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *repo) FindAllModels(ctx context.Context, db *gorm.DB) ([]domain.ProductModel, error) {
	var items []domain.ProductModel
	if err := db.WithContext(ctx).Order("name ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) UpdateModel(ctx context.Context, db *gorm.DB, model *domain.ProductModel) error {
	return db.WithContext(ctx).Save(model).Error
}

func (r *repo) DeleteModel(ctx context.Context, db *gorm.DB, id int64) error {
	return db.WithContext(ctx).Delete(&domain.ProductModel{}, "id = ?", id).Error
}

func (r *repo) DeleteSubcategoriesByCategory(ctx context.Context, db *gorm.DB, categoryID int64) error {
	return db.WithContext(ctx).
		Where("category_id = ?", categoryID).
		Delete(&domain.Subcategory{}).Error
}

func (r *repo) DeleteBrandsByCategory(ctx context.Context, db *gorm.DB, categoryID int64) error {
	subcategories := db.Model(&domain.Subcategory{}).Select("id").Where("category_id = ?", categoryID)
	return db.WithContext(ctx).
		Where("subcategory_id IN (?)", subcategories).
		Delete(&domain.Brand{}).Error
}

func (r *repo) DeleteBrandsBySubcategory(ctx context.Context, db *gorm.DB, subcategoryID int64) error {
	return db.WithContext(ctx).
		Where("subcategory_id = ?", subcategoryID).
		Delete(&domain.Brand{}).Error
}

func (r *repo) DeleteModelsByCategory(ctx context.Context, db *gorm.DB, categoryID int64) error {
	// A model references both a subcategory and a brand; match either
	// path so nothing under the category survives.
	subcategories := db.Model(&domain.Subcategory{}).Select("id").Where("category_id = ?", categoryID)
	brands := db.Model(&domain.Brand{}).Select("id").Where("subcategory_id IN (?)", subcategories)
	return db.WithContext(ctx).
		Where("subcategory_id IN (?) OR brand_id IN (?)", subcategories, brands).
		Delete(&domain.ProductModel{}).Error
}

func (r *repo) DeleteModelsBySubcategory(ctx context.Context, db *gorm.DB, subcategoryID int64) error {
	brands := db.Model(&domain.Brand{}).Select("id").Where("subcategory_id = ?", subcategoryID)
	return db.WithContext(ctx).
		Where("subcategory_id = ? OR brand_id IN (?)", subcategoryID, brands).
		Delete(&domain.ProductModel{}).Error
}

func (r *repo) DeleteModelsByBrand(ctx context.Context, db *gorm.DB, brandID int64) error {
	return db.WithContext(ctx).
		Where("brand_id = ?", brandID).
		Delete(&domain.ProductModel{}).Error
}

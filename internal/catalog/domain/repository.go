package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	CreateCategory(ctx context.Context, db *gorm.DB, category *Category) error
	FindCategoryByID(ctx context.Context, db *gorm.DB, id int64) (*Category, error)
	FindAllCategories(ctx context.Context, db *gorm.DB) ([]Category, error)
	UpdateCategory(ctx context.Context, db *gorm.DB, category *Category) error
	DeleteCategory(ctx context.Context, db *gorm.DB, id int64) error

	CreateSubcategory(ctx context.Context, db *gorm.DB, subcategory *Subcategory) error
	FindSubcategoryByID(ctx context.Context, db *gorm.DB, id int64) (*Subcategory, error)
	FindSubcategoriesByCategory(ctx context.Context, db *gorm.DB, categoryID int64) ([]Subcategory, error)
	FindAllSubcategories(ctx context.Context, db *gorm.DB) ([]Subcategory, error)
	UpdateSubcategory(ctx context.Context, db *gorm.DB, subcategory *Subcategory) error
	DeleteSubcategory(ctx context.Context, db *gorm.DB, id int64) error

	CreateBrand(ctx context.Context, db *gorm.DB, brand *Brand) error
	FindBrandByID(ctx context.Context, db *gorm.DB, id int64) (*Brand, error)
	FindAllBrands(ctx context.Context, db *gorm.DB) ([]Brand, error)
	UpdateBrand(ctx context.Context, db *gorm.DB, brand *Brand) error
	DeleteBrand(ctx context.Context, db *gorm.DB, id int64) error

	CreateModel(ctx context.Context, db *gorm.DB, model *ProductModel) error
	FindModelByID(ctx context.Context, db *gorm.DB, id int64) (*ProductModel, error)
	FindAllModels(ctx context.Context, db *gorm.DB) ([]ProductModel, error)
	UpdateModel(ctx context.Context, db *gorm.DB, model *ProductModel) error
	DeleteModel(ctx context.Context, db *gorm.DB, id int64) error

	// Subtree deletes used when a parent node is removed. Callers run
	// them inside one transaction, children before parents.
	DeleteSubcategoriesByCategory(ctx context.Context, db *gorm.DB, categoryID int64) error
	DeleteBrandsByCategory(ctx context.Context, db *gorm.DB, categoryID int64) error
	DeleteBrandsBySubcategory(ctx context.Context, db *gorm.DB, subcategoryID int64) error
	DeleteModelsByCategory(ctx context.Context, db *gorm.DB, categoryID int64) error
	DeleteModelsBySubcategory(ctx context.Context, db *gorm.DB, subcategoryID int64) error
	DeleteModelsByBrand(ctx context.Context, db *gorm.DB, brandID int64) error
}

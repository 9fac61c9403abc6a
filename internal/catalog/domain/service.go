package domain

import (
	"context"
	"errors"
	"time"
)

type Service interface {
	CreateCategory(ctx context.Context, req CreateCategoryRequest) (*CategoryResponse, error)
	ListCategories(ctx context.Context) ([]CategoryResponse, error)
	GetCategory(ctx context.Context, id string) (*CategoryResponse, error)
	UpdateCategory(ctx context.Context, id string, req UpdateNameRequest) (*CategoryResponse, error)
	DeleteCategory(ctx context.Context, id string) error

	CreateSubcategory(ctx context.Context, req CreateSubcategoryRequest) (*SubcategoryResponse, error)
	ListSubcategories(ctx context.Context) ([]SubcategoryResponse, error)
	ListSubcategoriesOf(ctx context.Context, categoryID string) ([]SubcategoryResponse, error)
	GetSubcategory(ctx context.Context, id string) (*SubcategoryResponse, error)
	UpdateSubcategory(ctx context.Context, id string, req UpdateNameRequest) (*SubcategoryResponse, error)
	DeleteSubcategory(ctx context.Context, id string) error

	CreateBrand(ctx context.Context, req CreateBrandRequest) (*BrandResponse, error)
	ListBrands(ctx context.Context) ([]BrandResponse, error)
	GetBrand(ctx context.Context, id string) (*BrandResponse, error)
	UpdateBrand(ctx context.Context, id string, req UpdateNameRequest) (*BrandResponse, error)
	DeleteBrand(ctx context.Context, id string) error

	CreateModel(ctx context.Context, req CreateModelRequest) (*ModelResponse, error)
	ListModels(ctx context.Context) ([]ModelResponse, error)
	GetModel(ctx context.Context, id string) (*ModelResponse, error)
	UpdateModel(ctx context.Context, id string, req UpdateNameRequest) (*ModelResponse, error)
	DeleteModel(ctx context.Context, id string) error
}

type CreateCategoryRequest struct {
	Name string `json:"name"`
}

type CreateSubcategoryRequest struct {
	Name       string `json:"name"`
	CategoryID string `json:"category_id"`
}

type CreateBrandRequest struct {
	Name          string `json:"name"`
	SubcategoryID string `json:"subcategory_id"`
}

type CreateModelRequest struct {
	Name          string `json:"name"`
	BrandID       string `json:"brand_id"`
	SubcategoryID string `json:"subcategory_id"`
}

type UpdateNameRequest struct {
	Name string `json:"name"`
}

type CategoryResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type SubcategoryResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Slug       string    `json:"slug"`
	CategoryID string    `json:"category_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type BrandResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Slug          string    `json:"slug"`
	SubcategoryID string    `json:"subcategory_id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type ModelResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Slug          string    `json:"slug"`
	BrandID       string    `json:"brand_id"`
	SubcategoryID string    `json:"subcategory_id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

var (
	ErrInvalidName         = errors.New("invalid_name")
	ErrInvalidID           = errors.New("invalid_id")
	ErrNotFound            = errors.New("not_found")
	ErrCategoryRequired    = errors.New("category_required")
	ErrSubcategoryRequired = errors.New("subcategory_required")
	ErrBrandRequired       = errors.New("brand_required")
)

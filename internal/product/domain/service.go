package domain

import (
	"context"
	"errors"
	"time"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	Update(ctx context.Context, req UpdateRequest) (*Response, error)
	List(ctx context.Context) ([]Response, error)
	Get(ctx context.Context, id string) (*Response, error)
	Delete(ctx context.Context, id string) error

	// History reconstructs a product's quantity growth from the
	// purchase ledger.
	History(ctx context.Context, id string) (*HistoryResponse, error)
}

type CreateRequest struct {
	Code          string         `json:"code"`
	Name          string         `json:"name"`
	Description   *string        `json:"description"`
	ImageURL      *string        `json:"image_url"`
	CategoryID    string         `json:"category_id"`
	SubcategoryID string         `json:"subcategory_id"`
	BrandID       string         `json:"brand_id"`
	ModelID       string         `json:"model_id"`
	Quantity      int64          `json:"quantity"`
	Price         string         `json:"price"`
	Metadata      map[string]any `json:"metadata"`
}

type UpdateRequest struct {
	ID          string         `json:"-"`
	Name        *string        `json:"name"`
	Description *string        `json:"description"`
	ImageURL    *string        `json:"image_url"`
	Quantity    *int64         `json:"quantity"`
	Price       *string        `json:"price"`
	Metadata    map[string]any `json:"metadata"`
}

type Response struct {
	ID             string         `json:"id"`
	Code           string         `json:"code"`
	Name           string         `json:"name"`
	Slug           string         `json:"slug"`
	Description    *string        `json:"description,omitempty"`
	ImageURL       *string        `json:"image_url,omitempty"`
	CategoryID     string         `json:"category_id"`
	SubcategoryID  string         `json:"subcategory_id"`
	BrandID        string         `json:"brand_id"`
	ModelID        string         `json:"model_id"`
	Quantity       int64          `json:"quantity"`
	Price          string         `json:"price"`
	AvailableStock int64          `json:"available_stock"`
	Metadata       map[string]any `json:"metadata,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

type HistoryEntry struct {
	QuantityPurchased int64     `json:"quantity_purchased"`
	PurchaseDate      time.Time `json:"purchase_date"`
	AddedBy           string    `json:"added_by,omitempty"`
}

type HistoryResponse struct {
	ProductID      string         `json:"product_id"`
	TotalPurchased int64          `json:"total_purchased"`
	Entries        []HistoryEntry `json:"entries"`
}

var (
	ErrCategoryNotFound     = errors.New("category_not_found")
	ErrSubcategoryNotFound  = errors.New("subcategory_not_found")
	ErrBrandNotFound        = errors.New("brand_not_found")
	ErrModelNotFound        = errors.New("model_not_found")
	ErrInvalidCode          = errors.New("invalid_code")
	ErrInvalidName          = errors.New("invalid_name")
	ErrInvalidQuantity      = errors.New("invalid_quantity")
	ErrInvalidPrice         = errors.New("invalid_price")
	ErrDuplicateCode        = errors.New("duplicate_code")
	ErrNotFound             = errors.New("not_found")
	ErrInvalidID            = errors.New("invalid_id")
	ErrInsufficientQuantity = errors.New("insufficient_quantity")
)

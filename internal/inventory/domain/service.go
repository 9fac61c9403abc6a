package domain

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

type Service interface {
	Get(ctx context.Context, id string) (*Response, error)
	GetByProduct(ctx context.Context, productID string) (*Response, error)
	List(ctx context.Context) ([]Response, error)

	// Upsert applies a product-save quantity delta to the stock row
	// inside the caller's transaction: first save creates the row at
	// the product's full quantity, later saves add the delta.
	Upsert(ctx context.Context, tx *gorm.DB, params UpsertParams) (*Stock, bool, error)

	// Decrement atomically subtracts qty inside the caller's
	// transaction, failing with ErrInsufficientStock when the row
	// holds less than qty.
	Decrement(ctx context.Context, tx *gorm.DB, productID, qty int64) error

	// Restock is the administrator bulk action: it adds a fixed amount
	// to each selected row, bypassing the product-quantity ceiling.
	Restock(ctx context.Context, req RestockRequest) (int, error)
}

type UpsertParams struct {
	ProductID       int64
	ProductQuantity int64
	Delta           int64
	Actor           string
}

type RestockRequest struct {
	IDs    []string `json:"ids"`
	Amount *int64   `json:"amount"`
}

type Response struct {
	ID              string     `json:"id"`
	ProductID       string     `json:"product_id"`
	QuantityInStock int64      `json:"quantity_in_stock"`
	RestockDate     *time.Time `json:"restock_date,omitempty"`
	AddedBy         string     `json:"added_by,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

var (
	ErrInvalidID          = errors.New("invalid_id")
	ErrNotFound           = errors.New("not_found")
	ErrStockMissing       = errors.New("stock_missing")
	ErrNonPositiveStock   = errors.New("invalid_stock_quantity")
	ErrStockExceedsCeil   = errors.New("stock_exceeds_product_quantity")
	ErrInsufficientStock  = errors.New("insufficient_stock")
	ErrInvalidRestockRows = errors.New("invalid_restock_rows")
)

// Validate enforces the stock invariants: the quantity must be positive
// and must not exceed the product's authorized total.
func Validate(quantityInStock, productQuantity int64) error {
	if quantityInStock <= 0 {
		return ErrNonPositiveStock
	}
	if quantityInStock > productQuantity {
		return ErrStockExceedsCeil
	}
	return nil
}

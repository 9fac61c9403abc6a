package domain

import (
	"context"
	"errors"
	"fmt"
	"time"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	List(ctx context.Context) ([]Response, error)
	Get(ctx context.Context, id string) (*Response, error)
	Update(ctx context.Context, req UpdateRequest) (*Response, error)
	Delete(ctx context.Context, id string) error

	// ConfirmPayment records the buyer's transfer reference and chosen
	// channel. It never flips the paid flag.
	ConfirmPayment(ctx context.Context, id string, req ConfirmPaymentRequest) (*Response, error)

	// MarkPaid performs the unpaid-to-paid transition and draws down
	// both the stock row and the product's authorized quantity. A
	// repeat call is a no-op.
	MarkPaid(ctx context.Context, id string) (*Response, error)
}

type CreateRequest struct {
	ProductID     string  `json:"product_id"`
	FullName      string  `json:"full_name"`
	Address       string  `json:"address"`
	PhoneNumber   string  `json:"phone_number"`
	Comment       *string `json:"comment"`
	Quantity      int64   `json:"quantity"`
	OrderType     string  `json:"order_type"`
	PaymentMethod string  `json:"payment_method"`
}

type UpdateRequest struct {
	ID          string  `json:"-"`
	FullName    *string `json:"full_name"`
	Address     *string `json:"address"`
	PhoneNumber *string `json:"phone_number"`
	Comment     *string `json:"comment"`
}

type ConfirmPaymentRequest struct {
	PaymentMethod string `json:"payment_method"`
	PaymentRef    string `json:"payment_ref"`
}

type Response struct {
	ID            string    `json:"id"`
	ProductID     string    `json:"product_id"`
	ProductName   string    `json:"product_name,omitempty"`
	FullName      string    `json:"full_name"`
	Address       string    `json:"address"`
	PhoneNumber   string    `json:"phone_number"`
	Comment       *string   `json:"comment,omitempty"`
	Quantity      int64     `json:"quantity"`
	TotalPrice    string    `json:"total_price"`
	OrderType     string    `json:"order_type"`
	PaymentMethod string    `json:"payment_method"`
	PaymentRef    *string   `json:"payment_ref,omitempty"`
	IsPaid        bool      `json:"is_paid"`
	OrderDate     time.Time `json:"order_date"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

var (
	ErrInvalidID            = errors.New("invalid_id")
	ErrNotFound             = errors.New("not_found")
	ErrProductNotFound      = errors.New("product_not_found")
	ErrInvalidFullName      = errors.New("invalid_full_name")
	ErrInvalidAddress       = errors.New("invalid_address")
	ErrInvalidPhoneNumber   = errors.New("invalid_phone_number")
	ErrInvalidQuantity      = errors.New("invalid_quantity")
	ErrInvalidPaymentMethod = errors.New("invalid_payment_method")
	ErrInvalidPaymentRef    = errors.New("invalid_payment_ref")
	ErrAlreadyPaid          = errors.New("order_already_paid")
)

// ExceedsStockError rejects an order asking for more units than the
// product's stock row currently holds.
type ExceedsStockError struct {
	Available int64
}

func (e *ExceedsStockError) Error() string {
	return fmt.Sprintf("cannot order more than available stock of %d units", e.Available)
}

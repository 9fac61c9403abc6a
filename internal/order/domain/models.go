package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	PaymentMethodChapa    = "chapa"
	PaymentMethodCBE      = "cbe"
	PaymentMethodBOA      = "boa"
	PaymentMethodAwash    = "awash"
	PaymentMethodEnat     = "enat"
	PaymentMethodDashen   = "dashen"
	PaymentMethodTelebirr = "telebirr"
)

const (
	OrderTypeWebApp = "webapp"
	OrderTypeManual = "manual"
)

// PaymentMethods lists the accepted manual transfer channels.
var PaymentMethods = []string{
	PaymentMethodChapa,
	PaymentMethodCBE,
	PaymentMethodBOA,
	PaymentMethodAwash,
	PaymentMethodEnat,
	PaymentMethodDashen,
	PaymentMethodTelebirr,
}

// Order is a buyer's reservation against a product's stock. Payment is
// confirmed manually: the buyer submits a transfer reference, then an
// operator flips IsPaid, which is the only transition that draws down
// stock.
type Order struct {
	ID            int64           `json:"id" gorm:"primaryKey"`
	ProductID     int64           `json:"product_id" gorm:"not null;index"`
	FullName      string          `json:"full_name" gorm:"type:text;not null"`
	Address       string          `json:"address" gorm:"type:text;not null"`
	PhoneNumber   string          `json:"phone_number" gorm:"type:text;not null"`
	Comment       *string         `json:"comment,omitempty" gorm:"type:text"`
	Quantity      int64           `json:"quantity" gorm:"not null"`
	TotalPrice    decimal.Decimal `json:"total_price" gorm:"type:decimal(10,2);not null"`
	OrderType     string          `json:"order_type" gorm:"type:text;not null;default:'webapp'"`
	PaymentMethod string          `json:"payment_method" gorm:"type:text;not null;default:'cbe'"`
	PaymentRef    *string         `json:"payment_ref,omitempty" gorm:"type:text"`
	IsPaid        bool            `json:"is_paid" gorm:"not null;default:false"`
	OrderDate     time.Time       `json:"order_date" gorm:"not null;default:CURRENT_TIMESTAMP"`
	CreatedAt     time.Time       `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt     time.Time       `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Order) TableName() string { return "orders" }

// ValidPaymentMethod reports whether method is an accepted channel.
func ValidPaymentMethod(method string) bool {
	for _, candidate := range PaymentMethods {
		if candidate == method {
			return true
		}
	}
	return false
}

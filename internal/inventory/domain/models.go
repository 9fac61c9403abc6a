package domain

import "time"

// Stock tracks the available-to-sell quantity for a product. It is
// distinct from the product's authorized total quantity: stock is what
// paid orders draw down, the product quantity is the ceiling stock may
// never exceed (except through the manual restock escape hatch).
type Stock struct {
	ID              int64      `json:"id" gorm:"primaryKey"`
	ProductID       int64      `json:"product_id" gorm:"not null;uniqueIndex:ux_stocks_product"`
	QuantityInStock int64      `json:"quantity_in_stock" gorm:"not null"`
	RestockDate     *time.Time `json:"restock_date,omitempty"`
	AddedBy         string     `json:"added_by" gorm:"type:text"`
	CreatedAt       time.Time  `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt       time.Time  `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Stock) TableName() string { return "stocks" }

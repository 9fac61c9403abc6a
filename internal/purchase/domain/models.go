package domain

import "time"

// Purchase is an append-only ledger entry recording a positive increase
// of a product's authorized quantity. Decreases are never recorded, so
// summing a product's entries reconstructs how its quantity grew.
type Purchase struct {
	ID                int64     `json:"id" gorm:"primaryKey"`
	ProductID         int64     `json:"product_id" gorm:"not null;index"`
	QuantityPurchased int64     `json:"quantity_purchased" gorm:"not null"`
	PurchaseDate      time.Time `json:"purchase_date" gorm:"not null;default:CURRENT_TIMESTAMP"`
	AddedBy           string    `json:"added_by" gorm:"type:text"`
}

func (Purchase) TableName() string { return "purchases" }

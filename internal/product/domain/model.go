package domain

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Product is the leaf of the catalog hierarchy. Quantity is the
// authorized total ever made sellable; the available-to-sell count
// lives on the stock row and the save pipeline keeps the two aligned.
type Product struct {
	ID            int64             `json:"id" gorm:"primaryKey"`
	Code          string            `json:"code" gorm:"type:text;not null;uniqueIndex:ux_products_code"`
	Name          string            `json:"name" gorm:"type:text;not null"`
	Slug          string            `json:"slug" gorm:"type:text;not null;index"`
	Description   *string           `json:"description,omitempty" gorm:"type:text"`
	ImageURL      *string           `json:"image_url,omitempty" gorm:"type:text"`
	CategoryID    int64             `json:"category_id" gorm:"not null;index"`
	SubcategoryID int64             `json:"subcategory_id" gorm:"not null;index"`
	BrandID       int64             `json:"brand_id" gorm:"not null;index"`
	ModelID       int64             `json:"model_id" gorm:"not null;index"`
	Quantity      int64             `json:"quantity" gorm:"not null;default:0"`
	Price         decimal.Decimal   `json:"price" gorm:"type:decimal(10,2);not null"`
	Metadata      datatypes.JSONMap `json:"metadata,omitempty" gorm:"type:jsonb"`
	CreatedAt     time.Time         `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt     time.Time         `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Product) TableName() string { return "products" }

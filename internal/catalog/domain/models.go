package domain

import "time"

// The catalog is a four level tree: Category > Subcategory > Brand >
// ProductModel. Children keep plain foreign keys; parent presence is
// validated at write time by the service, and removing a parent deletes
// its subtree inside the same transaction. The postgres schema carries
// matching ON DELETE CASCADE constraints.

type Category struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"type:text;not null"`
	Slug      string    `json:"slug" gorm:"type:text;not null;index"`
	CreatedAt time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Category) TableName() string { return "categories" }

type Subcategory struct {
	ID         int64     `json:"id" gorm:"primaryKey"`
	Name       string    `json:"name" gorm:"type:text;not null"`
	Slug       string    `json:"slug" gorm:"type:text;not null;index"`
	CategoryID int64     `json:"category_id" gorm:"not null;index"`
	CreatedAt  time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt  time.Time `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Subcategory) TableName() string { return "subcategories" }

type Brand struct {
	ID            int64     `json:"id" gorm:"primaryKey"`
	Name          string    `json:"name" gorm:"type:text;not null"`
	Slug          string    `json:"slug" gorm:"type:text;not null;index"`
	SubcategoryID int64     `json:"subcategory_id" gorm:"not null;index"`
	CreatedAt     time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt     time.Time `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Brand) TableName() string { return "brands" }

// ProductModel is the model level under a brand. It carries its own
// subcategory reference in addition to the brand one.
type ProductModel struct {
	ID            int64     `json:"id" gorm:"primaryKey"`
	Name          string    `json:"name" gorm:"type:text;not null"`
	Slug          string    `json:"slug" gorm:"type:text;not null;index"`
	BrandID       int64     `json:"brand_id" gorm:"not null;index"`
	SubcategoryID int64     `json:"subcategory_id" gorm:"not null;index"`
	CreatedAt     time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt     time.Time `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (ProductModel) TableName() string { return "product_models" }

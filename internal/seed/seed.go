package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/storenow/backoffice/internal/catalog/domain"
	"gorm.io/gorm"
)

const (
	defaultCategoryName    = "General"
	defaultCategorySlug    = "general"
	defaultSubcategoryName = "General"
	defaultSubcategorySlug = "general"
)

// EnsureDefaultCatalog seeds a fallback category and subcategory so a
// fresh install can accept products immediately.
func EnsureDefaultCatalog(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		category, err := ensureDefaultCategoryTx(ctx, tx, node)
		if err != nil {
			return err
		}
		return ensureDefaultSubcategoryTx(ctx, tx, node, category.ID)
	})
}

func ensureDefaultCategoryTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node) (catalogdomain.Category, error) {
	var category catalogdomain.Category
	err := tx.WithContext(ctx).Where("slug = ?", defaultCategorySlug).First(&category).Error
	if err == nil {
		return category, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return category, err
	}

	now := time.Now().UTC()
	category = catalogdomain.Category{
		ID:        node.Generate().Int64(),
		Name:      defaultCategoryName,
		Slug:      defaultCategorySlug,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := tx.WithContext(ctx).Create(&category).Error; err != nil {
		return category, err
	}
	return category, nil
}

func ensureDefaultSubcategoryTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node, categoryID int64) error {
	var subcategory catalogdomain.Subcategory
	err := tx.WithContext(ctx).
		Where("category_id = ? AND slug = ?", categoryID, defaultSubcategorySlug).
		First(&subcategory).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	now := time.Now().UTC()
	subcategory = catalogdomain.Subcategory{
		ID:         node.Generate().Int64(),
		Name:       defaultSubcategoryName,
		Slug:       defaultSubcategorySlug,
		CategoryID: categoryID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	return tx.WithContext(ctx).Create(&subcategory).Error
}

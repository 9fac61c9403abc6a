package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/storenow/backoffice/internal/clock"
	"github.com/storenow/backoffice/internal/config"
	"github.com/storenow/backoffice/internal/inventory/domain"
	"github.com/storenow/backoffice/internal/inventory/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupStockService(t *testing.T) (domain.Service, *gorm.DB, *snowflake.Node) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Stock{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: clock.NewFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)),
		Cfg:   config.Config{RestockAmount: 10},
		Repo:  repository.Provide(),
	})
	return svc, db, node
}

func TestValidateRejectsNonPositive(t *testing.T) {
	assert.ErrorIs(t, domain.Validate(0, 10), domain.ErrNonPositiveStock)
	assert.ErrorIs(t, domain.Validate(-3, 10), domain.ErrNonPositiveStock)
	assert.NoError(t, domain.Validate(1, 10))
}

func TestValidateRejectsExceedingProductQuantity(t *testing.T) {
	assert.ErrorIs(t, domain.Validate(11, 10), domain.ErrStockExceedsCeil)
	assert.NoError(t, domain.Validate(10, 10))
}

func TestUpsertCreatesAtFullQuantity(t *testing.T) {
	svc, db, node := setupStockService(t)
	productID := node.Generate().Int64()

	var stock *domain.Stock
	var created bool
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		stock, created, err = svc.Upsert(context.Background(), tx, domain.UpsertParams{
			ProductID:       productID,
			ProductQuantity: 50,
			Delta:           50,
			Actor:           "tester",
		})
		return err
	})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, int64(50), stock.QuantityInStock)
	assert.Equal(t, "tester", stock.AddedBy)
}

func TestUpsertAppliesDelta(t *testing.T) {
	svc, db, node := setupStockService(t)
	productID := node.Generate().Int64()

	err := db.Transaction(func(tx *gorm.DB) error {
		_, _, err := svc.Upsert(context.Background(), tx, domain.UpsertParams{
			ProductID:       productID,
			ProductQuantity: 50,
			Delta:           50,
		})
		return err
	})
	require.NoError(t, err)

	var stock *domain.Stock
	err = db.Transaction(func(tx *gorm.DB) error {
		var err error
		stock, _, err = svc.Upsert(context.Background(), tx, domain.UpsertParams{
			ProductID:       productID,
			ProductQuantity: 70,
			Delta:           20,
		})
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, int64(70), stock.QuantityInStock)
}

func TestUpsertRejectsNonPositiveResult(t *testing.T) {
	svc, db, node := setupStockService(t)
	productID := node.Generate().Int64()

	err := db.Transaction(func(tx *gorm.DB) error {
		_, _, err := svc.Upsert(context.Background(), tx, domain.UpsertParams{
			ProductID:       productID,
			ProductQuantity: 10,
			Delta:           10,
		})
		return err
	})
	require.NoError(t, err)

	// Lowering the product quantity to 2 would leave stock at -8.
	err = db.Transaction(func(tx *gorm.DB) error {
		_, _, err := svc.Upsert(context.Background(), tx, domain.UpsertParams{
			ProductID:       productID,
			ProductQuantity: 2,
			Delta:           -10,
		})
		return err
	})
	assert.ErrorIs(t, err, domain.ErrNonPositiveStock)
}

func TestDecrementInsufficientStock(t *testing.T) {
	svc, db, node := setupStockService(t)
	productID := node.Generate().Int64()

	err := db.Transaction(func(tx *gorm.DB) error {
		_, _, err := svc.Upsert(context.Background(), tx, domain.UpsertParams{
			ProductID:       productID,
			ProductQuantity: 5,
			Delta:           5,
		})
		return err
	})
	require.NoError(t, err)

	err = db.Transaction(func(tx *gorm.DB) error {
		return svc.Decrement(context.Background(), tx, productID, 6)
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	err = db.Transaction(func(tx *gorm.DB) error {
		return svc.Decrement(context.Background(), tx, productID, 5)
	})
	require.NoError(t, err)

	var remaining domain.Stock
	require.NoError(t, db.First(&remaining, "product_id = ?", productID).Error)
	assert.Equal(t, int64(0), remaining.QuantityInStock)
}

func TestRestockAddsDefaultAmountAndBypassesCeiling(t *testing.T) {
	svc, db, node := setupStockService(t)
	productID := node.Generate().Int64()

	err := db.Transaction(func(tx *gorm.DB) error {
		_, _, err := svc.Upsert(context.Background(), tx, domain.UpsertParams{
			ProductID:       productID,
			ProductQuantity: 5,
			Delta:           5,
		})
		return err
	})
	require.NoError(t, err)

	var stock domain.Stock
	require.NoError(t, db.First(&stock, "product_id = ?", productID).Error)
	require.Nil(t, stock.RestockDate)

	touched, err := svc.Restock(context.Background(), domain.RestockRequest{
		IDs: []string{snowflake.ID(stock.ID).String()},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, touched)

	require.NoError(t, db.First(&stock, "product_id = ?", productID).Error)
	// 5 + default 10 exceeds the product quantity; restock ignores the ceiling.
	assert.Equal(t, int64(15), stock.QuantityInStock)
	assert.NotNil(t, stock.RestockDate)
}

func TestRestockUnknownRowFails(t *testing.T) {
	svc, _, node := setupStockService(t)

	_, err := svc.Restock(context.Background(), domain.RestockRequest{
		IDs: []string{node.Generate().String()},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRestockRejectsEmptySelection(t *testing.T) {
	svc, _, _ := setupStockService(t)

	_, err := svc.Restock(context.Background(), domain.RestockRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidRestockRows)
}

package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	catalogdomain "github.com/storenow/backoffice/internal/catalog/domain"
	catalogrepo "github.com/storenow/backoffice/internal/catalog/repository"
	"github.com/storenow/backoffice/internal/clock"
	"github.com/storenow/backoffice/internal/config"
	inventorydomain "github.com/storenow/backoffice/internal/inventory/domain"
	inventoryrepo "github.com/storenow/backoffice/internal/inventory/repository"
	inventoryservice "github.com/storenow/backoffice/internal/inventory/service"
	orderdomain "github.com/storenow/backoffice/internal/order/domain"
	orderrepo "github.com/storenow/backoffice/internal/order/repository"
	outboxdomain "github.com/storenow/backoffice/internal/outbox/domain"
	outboxrepo "github.com/storenow/backoffice/internal/outbox/repository"
	"github.com/storenow/backoffice/internal/product/domain"
	"github.com/storenow/backoffice/internal/product/repository"
	purchasedomain "github.com/storenow/backoffice/internal/purchase/domain"
	purchaserepo "github.com/storenow/backoffice/internal/purchase/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type productFixture struct {
	svc  domain.Service
	db   *gorm.DB
	node *snowflake.Node

	categoryID    string
	subcategoryID string
	brandID       string
	modelID       string
}

func setupProductService(t *testing.T) *productFixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&catalogdomain.Category{},
		&catalogdomain.Subcategory{},
		&catalogdomain.Brand{},
		&catalogdomain.ProductModel{},
		&domain.Product{},
		&inventorydomain.Stock{},
		&purchasedomain.Purchase{},
		&orderdomain.Order{},
		&outboxdomain.Event{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	clk := clock.NewFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	log := zap.NewNop()

	inventory := inventoryservice.New(inventoryservice.Params{
		DB:    db,
		Log:   log,
		GenID: node,
		Clock: clk,
		Cfg:   config.Config{RestockAmount: 10},
		Repo:  inventoryrepo.Provide(),
	})

	svc := New(Params{
		DB:        db,
		Log:       log,
		GenID:     node,
		Clock:     clk,
		Repo:      repository.Provide(),
		Catalog:   catalogrepo.Provide(),
		Inventory: inventory,
		Stocks:    inventoryrepo.Provide(),
		Purchases: purchaserepo.Provide(),
		Orders:    orderrepo.Provide(),
		Outbox:    outboxrepo.Provide(),
	})

	f := &productFixture{svc: svc, db: db, node: node}
	f.seedCatalog(t)
	return f
}

func (f *productFixture) seedCatalog(t *testing.T) {
	t.Helper()

	now := time.Now().UTC()
	category := catalogdomain.Category{ID: f.node.Generate().Int64(), Name: "Phones", Slug: "phones", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, f.db.Create(&category).Error)
	subcategory := catalogdomain.Subcategory{ID: f.node.Generate().Int64(), Name: "Smartphones", Slug: "smartphones", CategoryID: category.ID, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, f.db.Create(&subcategory).Error)
	brand := catalogdomain.Brand{ID: f.node.Generate().Int64(), Name: "Acme", Slug: "acme", SubcategoryID: subcategory.ID, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, f.db.Create(&brand).Error)
	model := catalogdomain.ProductModel{ID: f.node.Generate().Int64(), Name: "A1", Slug: "a1", BrandID: brand.ID, SubcategoryID: subcategory.ID, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, f.db.Create(&model).Error)

	f.categoryID = snowflake.ID(category.ID).String()
	f.subcategoryID = snowflake.ID(subcategory.ID).String()
	f.brandID = snowflake.ID(brand.ID).String()
	f.modelID = snowflake.ID(model.ID).String()
}

func (f *productFixture) createRequest(code string, quantity int64) domain.CreateRequest {
	return domain.CreateRequest{
		Code:          code,
		Name:          "Acme A1",
		CategoryID:    f.categoryID,
		SubcategoryID: f.subcategoryID,
		BrandID:       f.brandID,
		ModelID:       f.modelID,
		Quantity:      quantity,
		Price:         "199.99",
	}
}

func TestCreateProductSavesStockPurchaseAndEvents(t *testing.T) {
	f := setupProductService(t)
	ctx := context.Background()

	resp, err := f.svc.Create(ctx, f.createRequest("SKU-1", 50))
	require.NoError(t, err)
	assert.Equal(t, int64(50), resp.Quantity)
	assert.Equal(t, int64(50), resp.AvailableStock)
	assert.Equal(t, "199.99", resp.Price)
	assert.Equal(t, "acme-a1", resp.Slug)

	productID, err := snowflake.ParseString(resp.ID)
	require.NoError(t, err)

	var stock inventorydomain.Stock
	require.NoError(t, f.db.First(&stock, "product_id = ?", productID.Int64()).Error)
	assert.Equal(t, int64(50), stock.QuantityInStock)

	var purchases []purchasedomain.Purchase
	require.NoError(t, f.db.Find(&purchases, "product_id = ?", productID.Int64()).Error)
	require.Len(t, purchases, 1)
	assert.Equal(t, int64(50), purchases[0].QuantityPurchased)
	assert.Equal(t, "system", purchases[0].AddedBy)

	var events []outboxdomain.Event
	require.NoError(t, f.db.Order("created_at").Find(&events).Error)
	require.Len(t, events, 2)
	types := []string{events[0].EventType, events[1].EventType}
	assert.Contains(t, types, outboxdomain.EventProductCreated)
	assert.Contains(t, types, outboxdomain.EventStockCreated)
	for _, ev := range events {
		assert.Equal(t, outboxdomain.StatusPending, ev.Status)
	}
}

func TestCreateProductValidation(t *testing.T) {
	f := setupProductService(t)
	ctx := context.Background()

	req := f.createRequest("", 10)
	_, err := f.svc.Create(ctx, req)
	assert.ErrorIs(t, err, domain.ErrInvalidCode)

	req = f.createRequest("SKU-1", 0)
	_, err = f.svc.Create(ctx, req)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	req = f.createRequest("SKU-1", 10)
	req.Price = "-1"
	_, err = f.svc.Create(ctx, req)
	assert.ErrorIs(t, err, domain.ErrInvalidPrice)

	req = f.createRequest("SKU-1", 10)
	req.Name = "  "
	_, err = f.svc.Create(ctx, req)
	assert.ErrorIs(t, err, domain.ErrInvalidName)
}

func TestCreateProductMissingAncestorAborts(t *testing.T) {
	f := setupProductService(t)
	ctx := context.Background()

	req := f.createRequest("SKU-1", 10)
	req.BrandID = f.node.Generate().String()
	_, err := f.svc.Create(ctx, req)
	assert.ErrorIs(t, err, domain.ErrBrandNotFound)

	// Nothing from the aborted save may remain.
	var count int64
	require.NoError(t, f.db.Model(&domain.Product{}).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, f.db.Model(&purchasedomain.Purchase{}).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, f.db.Model(&outboxdomain.Event{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateProductDuplicateCode(t *testing.T) {
	f := setupProductService(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, f.createRequest("SKU-1", 10))
	require.NoError(t, err)

	_, err = f.svc.Create(ctx, f.createRequest("SKU-1", 5))
	assert.ErrorIs(t, err, domain.ErrDuplicateCode)
}

func TestUpdateQuantityRaiseAppendsPurchaseAndRaisesStock(t *testing.T) {
	f := setupProductService(t)
	ctx := context.Background()

	resp, err := f.svc.Create(ctx, f.createRequest("SKU-1", 50))
	require.NoError(t, err)

	newQuantity := int64(70)
	updated, err := f.svc.Update(ctx, domain.UpdateRequest{ID: resp.ID, Quantity: &newQuantity})
	require.NoError(t, err)
	assert.Equal(t, int64(70), updated.Quantity)
	assert.Equal(t, int64(70), updated.AvailableStock)

	productID, err := snowflake.ParseString(resp.ID)
	require.NoError(t, err)

	var purchases []purchasedomain.Purchase
	require.NoError(t, f.db.Order("id").Find(&purchases, "product_id = ?", productID.Int64()).Error)
	require.Len(t, purchases, 2)
	assert.Equal(t, int64(50), purchases[0].QuantityPurchased)
	assert.Equal(t, int64(20), purchases[1].QuantityPurchased)
}

func TestUpdateQuantityLowerAdjustsStockWithoutPurchase(t *testing.T) {
	f := setupProductService(t)
	ctx := context.Background()

	resp, err := f.svc.Create(ctx, f.createRequest("SKU-1", 50))
	require.NoError(t, err)

	newQuantity := int64(40)
	updated, err := f.svc.Update(ctx, domain.UpdateRequest{ID: resp.ID, Quantity: &newQuantity})
	require.NoError(t, err)
	assert.Equal(t, int64(40), updated.AvailableStock)

	productID, err := snowflake.ParseString(resp.ID)
	require.NoError(t, err)

	var count int64
	require.NoError(t, f.db.Model(&purchasedomain.Purchase{}).Where("product_id = ?", productID.Int64()).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestUpdateUnknownProduct(t *testing.T) {
	f := setupProductService(t)

	name := "renamed"
	_, err := f.svc.Update(context.Background(), domain.UpdateRequest{ID: f.node.Generate().String(), Name: &name})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteProductRemovesOwnedRows(t *testing.T) {
	f := setupProductService(t)
	ctx := context.Background()

	resp, err := f.svc.Create(ctx, f.createRequest("SKU-1", 50))
	require.NoError(t, err)
	productID, err := snowflake.ParseString(resp.ID)
	require.NoError(t, err)

	now := time.Now().UTC()
	order := orderdomain.Order{
		ID:            f.node.Generate().Int64(),
		ProductID:     productID.Int64(),
		FullName:      "Abebe Kebede",
		Address:       "Bole, Addis Ababa",
		PhoneNumber:   "+251911000000",
		Quantity:      2,
		TotalPrice:    decimal.RequireFromString("399.98"),
		OrderType:     orderdomain.OrderTypeWebApp,
		PaymentMethod: orderdomain.PaymentMethodCBE,
		OrderDate:     now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	require.NoError(t, f.db.Create(&order).Error)

	require.NoError(t, f.svc.Delete(ctx, resp.ID))

	_, err = f.svc.Get(ctx, resp.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// Stock, purchase and order rows leave with the product.
	var count int64
	require.NoError(t, f.db.Model(&inventorydomain.Stock{}).Where("product_id = ?", productID.Int64()).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, f.db.Model(&purchasedomain.Purchase{}).Where("product_id = ?", productID.Int64()).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, f.db.Model(&orderdomain.Order{}).Where("product_id = ?", productID.Int64()).Count(&count).Error)
	assert.Zero(t, count)
}

func TestDeleteProductLeavesOthersAlone(t *testing.T) {
	f := setupProductService(t)
	ctx := context.Background()

	doomed, err := f.svc.Create(ctx, f.createRequest("SKU-1", 10))
	require.NoError(t, err)
	kept, err := f.svc.Create(ctx, f.createRequest("SKU-2", 20))
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, doomed.ID))

	got, err := f.svc.Get(ctx, kept.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(20), got.AvailableStock)

	history, err := f.svc.History(ctx, kept.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(20), history.TotalPurchased)
}

func TestDeleteUnknownProduct(t *testing.T) {
	f := setupProductService(t)

	err := f.svc.Delete(context.Background(), f.node.Generate().String())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestHistoryTotalsPurchases(t *testing.T) {
	f := setupProductService(t)
	ctx := context.Background()

	resp, err := f.svc.Create(ctx, f.createRequest("SKU-1", 50))
	require.NoError(t, err)

	newQuantity := int64(70)
	_, err = f.svc.Update(ctx, domain.UpdateRequest{ID: resp.ID, Quantity: &newQuantity})
	require.NoError(t, err)

	history, err := f.svc.History(ctx, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(70), history.TotalPurchased)
	assert.Len(t, history.Entries, 2)
}

func TestGetIncludesAvailableStock(t *testing.T) {
	f := setupProductService(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, f.createRequest("SKU-1", 25))
	require.NoError(t, err)

	got, err := f.svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(25), got.AvailableStock)

	list, err := f.svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, int64(25), list[0].AvailableStock)
}

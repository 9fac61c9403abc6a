package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	catalogdomain "github.com/storenow/backoffice/internal/catalog/domain"
	catalogrepo "github.com/storenow/backoffice/internal/catalog/repository"
	"github.com/storenow/backoffice/internal/clock"
	"github.com/storenow/backoffice/internal/config"
	inventorydomain "github.com/storenow/backoffice/internal/inventory/domain"
	inventoryrepo "github.com/storenow/backoffice/internal/inventory/repository"
	inventoryservice "github.com/storenow/backoffice/internal/inventory/service"
	"github.com/storenow/backoffice/internal/order/domain"
	"github.com/storenow/backoffice/internal/order/repository"
	outboxdomain "github.com/storenow/backoffice/internal/outbox/domain"
	outboxrepo "github.com/storenow/backoffice/internal/outbox/repository"
	productdomain "github.com/storenow/backoffice/internal/product/domain"
	productrepo "github.com/storenow/backoffice/internal/product/repository"
	productservice "github.com/storenow/backoffice/internal/product/service"
	purchasedomain "github.com/storenow/backoffice/internal/purchase/domain"
	purchaserepo "github.com/storenow/backoffice/internal/purchase/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type orderFixture struct {
	svc      domain.Service
	products productdomain.Service
	db       *gorm.DB
	node     *snowflake.Node

	categoryID    string
	subcategoryID string
	brandID       string
	modelID       string
}

func setupOrderService(t *testing.T) *orderFixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&catalogdomain.Category{},
		&catalogdomain.Subcategory{},
		&catalogdomain.Brand{},
		&catalogdomain.ProductModel{},
		&productdomain.Product{},
		&inventorydomain.Stock{},
		&purchasedomain.Purchase{},
		&domain.Order{},
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

	products := productservice.New(productservice.Params{
		DB:        db,
		Log:       log,
		GenID:     node,
		Clock:     clk,
		Repo:      productrepo.Provide(),
		Catalog:   catalogrepo.Provide(),
		Inventory: inventory,
		Stocks:    inventoryrepo.Provide(),
		Purchases: purchaserepo.Provide(),
		Orders:    repository.Provide(),
		Outbox:    outboxrepo.Provide(),
	})

	svc := New(Params{
		DB:        db,
		Log:       log,
		GenID:     node,
		Clock:     clk,
		Repo:      repository.Provide(),
		Products:  productrepo.Provide(),
		Stocks:    inventoryrepo.Provide(),
		Inventory: inventory,
		Outbox:    outboxrepo.Provide(),
	})

	f := &orderFixture{svc: svc, products: products, db: db, node: node}
	f.seedCatalog(t)
	return f
}

func (f *orderFixture) seedCatalog(t *testing.T) {
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

func (f *orderFixture) seedProduct(t *testing.T, code string, quantity int64) *productdomain.Response {
	t.Helper()

	resp, err := f.products.Create(context.Background(), productdomain.CreateRequest{
		Code:          code,
		Name:          "Acme A1",
		CategoryID:    f.categoryID,
		SubcategoryID: f.subcategoryID,
		BrandID:       f.brandID,
		ModelID:       f.modelID,
		Quantity:      quantity,
		Price:         "100.00",
	})
	require.NoError(t, err)
	return resp
}

func (f *orderFixture) orderRequest(productID string, quantity int64) domain.CreateRequest {
	return domain.CreateRequest{
		ProductID:   productID,
		FullName:    "Abebe Kebede",
		Address:     "Bole, Addis Ababa",
		PhoneNumber: "+251911000000",
		Quantity:    quantity,
	}
}

func TestCreateOrderComputesTotalAndDefaults(t *testing.T) {
	f := setupOrderService(t)
	product := f.seedProduct(t, "SKU-1", 20)

	resp, err := f.svc.Create(context.Background(), f.orderRequest(product.ID, 3))
	require.NoError(t, err)
	assert.Equal(t, "300.00", resp.TotalPrice)
	assert.Equal(t, domain.OrderTypeWebApp, resp.OrderType)
	assert.Equal(t, domain.PaymentMethodCBE, resp.PaymentMethod)
	assert.False(t, resp.IsPaid)
	assert.Equal(t, "Acme A1", resp.ProductName)
}

func TestCreateOrderHonorsPaymentMethod(t *testing.T) {
	f := setupOrderService(t)
	product := f.seedProduct(t, "SKU-1", 20)
	ctx := context.Background()

	req := f.orderRequest(product.ID, 1)
	req.PaymentMethod = "Telebirr"
	resp, err := f.svc.Create(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentMethodTelebirr, resp.PaymentMethod)

	req = f.orderRequest(product.ID, 1)
	req.PaymentMethod = "paypal"
	_, err = f.svc.Create(ctx, req)
	assert.ErrorIs(t, err, domain.ErrInvalidPaymentMethod)
}

func TestCreateOrderUnknownProduct(t *testing.T) {
	f := setupOrderService(t)

	_, err := f.svc.Create(context.Background(), f.orderRequest(f.node.Generate().String(), 1))
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestCreateOrderStockRowMissing(t *testing.T) {
	f := setupOrderService(t)

	// A product row without a stock row cannot be ordered.
	now := time.Now().UTC()
	product := productdomain.Product{
		ID:        f.node.Generate().Int64(),
		Code:      "SKU-RAW",
		Name:      "Raw",
		Slug:      "raw",
		Quantity:  5,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, f.db.Create(&product).Error)

	_, err := f.svc.Create(context.Background(), f.orderRequest(snowflake.ID(product.ID).String(), 1))
	assert.ErrorIs(t, err, inventorydomain.ErrStockMissing)
}

func TestCreateOrderExceedsStock(t *testing.T) {
	f := setupOrderService(t)
	product := f.seedProduct(t, "SKU-1", 5)

	_, err := f.svc.Create(context.Background(), f.orderRequest(product.ID, 6))

	var exceeds *domain.ExceedsStockError
	require.ErrorAs(t, err, &exceeds)
	assert.Equal(t, int64(5), exceeds.Available)
	assert.Equal(t, "cannot order more than available stock of 5 units", exceeds.Error())
}

func TestConfirmPaymentValidatesMethodAndRef(t *testing.T) {
	f := setupOrderService(t)
	product := f.seedProduct(t, "SKU-1", 10)
	ctx := context.Background()

	order, err := f.svc.Create(ctx, f.orderRequest(product.ID, 2))
	require.NoError(t, err)

	_, err = f.svc.ConfirmPayment(ctx, order.ID, domain.ConfirmPaymentRequest{PaymentMethod: "paypal", PaymentRef: "TX-1"})
	assert.ErrorIs(t, err, domain.ErrInvalidPaymentMethod)

	_, err = f.svc.ConfirmPayment(ctx, order.ID, domain.ConfirmPaymentRequest{PaymentMethod: "telebirr"})
	assert.ErrorIs(t, err, domain.ErrInvalidPaymentRef)

	confirmed, err := f.svc.ConfirmPayment(ctx, order.ID, domain.ConfirmPaymentRequest{PaymentMethod: "Telebirr", PaymentRef: "TX-1"})
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentMethodTelebirr, confirmed.PaymentMethod)
	require.NotNil(t, confirmed.PaymentRef)
	assert.Equal(t, "TX-1", *confirmed.PaymentRef)
	assert.False(t, confirmed.IsPaid)
}

func TestConfirmPaymentRejectedOncePaid(t *testing.T) {
	f := setupOrderService(t)
	product := f.seedProduct(t, "SKU-1", 10)
	ctx := context.Background()

	order, err := f.svc.Create(ctx, f.orderRequest(product.ID, 2))
	require.NoError(t, err)
	_, err = f.svc.MarkPaid(ctx, order.ID)
	require.NoError(t, err)

	_, err = f.svc.ConfirmPayment(ctx, order.ID, domain.ConfirmPaymentRequest{PaymentMethod: "cbe", PaymentRef: "TX-1"})
	assert.ErrorIs(t, err, domain.ErrAlreadyPaid)
}

func TestMarkPaidDecrementsStockAndProductOnce(t *testing.T) {
	f := setupOrderService(t)
	product := f.seedProduct(t, "SKU-1", 20)
	ctx := context.Background()

	order, err := f.svc.Create(ctx, f.orderRequest(product.ID, 7))
	require.NoError(t, err)

	paid, err := f.svc.MarkPaid(ctx, order.ID)
	require.NoError(t, err)
	assert.True(t, paid.IsPaid)

	productID, err := snowflake.ParseString(product.ID)
	require.NoError(t, err)

	var stock inventorydomain.Stock
	require.NoError(t, f.db.First(&stock, "product_id = ?", productID.Int64()).Error)
	assert.Equal(t, int64(13), stock.QuantityInStock)

	var stored productdomain.Product
	require.NoError(t, f.db.First(&stored, "id = ?", productID.Int64()).Error)
	assert.Equal(t, int64(13), stored.Quantity)

	var events []outboxdomain.Event
	require.NoError(t, f.db.Find(&events, "event_type = ?", outboxdomain.EventOrderPaid).Error)
	require.Len(t, events, 1)
	assert.Equal(t, "700.00", events[0].Payload["total_price"])

	// A second call is a no-op: no further decrement, no new event.
	again, err := f.svc.MarkPaid(ctx, order.ID)
	require.NoError(t, err)
	assert.True(t, again.IsPaid)

	require.NoError(t, f.db.First(&stock, "product_id = ?", productID.Int64()).Error)
	assert.Equal(t, int64(13), stock.QuantityInStock)

	var count int64
	require.NoError(t, f.db.Model(&outboxdomain.Event{}).Where("event_type = ?", outboxdomain.EventOrderPaid).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestMarkPaidInsufficientStockRollsBack(t *testing.T) {
	f := setupOrderService(t)
	product := f.seedProduct(t, "SKU-1", 10)
	ctx := context.Background()

	first, err := f.svc.Create(ctx, f.orderRequest(product.ID, 8))
	require.NoError(t, err)
	second, err := f.svc.Create(ctx, f.orderRequest(product.ID, 8))
	require.NoError(t, err)

	_, err = f.svc.MarkPaid(ctx, first.ID)
	require.NoError(t, err)

	_, err = f.svc.MarkPaid(ctx, second.ID)
	require.True(t, errors.Is(err, inventorydomain.ErrInsufficientStock))

	// The failed transition must leave the order unpaid and stock intact.
	orderID, err := snowflake.ParseString(second.ID)
	require.NoError(t, err)
	var stored domain.Order
	require.NoError(t, f.db.First(&stored, "id = ?", orderID.Int64()).Error)
	assert.False(t, stored.IsPaid)

	productID, err := snowflake.ParseString(product.ID)
	require.NoError(t, err)
	var stock inventorydomain.Stock
	require.NoError(t, f.db.First(&stock, "product_id = ?", productID.Int64()).Error)
	assert.Equal(t, int64(2), stock.QuantityInStock)
}

func TestOrderLifecycleKeepsLedgersConsistent(t *testing.T) {
	f := setupOrderService(t)
	ctx := context.Background()

	product := f.seedProduct(t, "SKU-1", 50)
	productID, err := snowflake.ParseString(product.ID)
	require.NoError(t, err)

	var total int64
	require.NoError(t, f.db.Model(&purchasedomain.Purchase{}).
		Where("product_id = ?", productID.Int64()).
		Select("COALESCE(SUM(quantity_purchased), 0)").Scan(&total).Error)
	assert.Equal(t, int64(50), total)

	newQuantity := int64(70)
	_, err = f.products.Update(ctx, productdomain.UpdateRequest{ID: product.ID, Quantity: &newQuantity})
	require.NoError(t, err)

	require.NoError(t, f.db.Model(&purchasedomain.Purchase{}).
		Where("product_id = ?", productID.Int64()).
		Select("COALESCE(SUM(quantity_purchased), 0)").Scan(&total).Error)
	assert.Equal(t, int64(70), total)

	order, err := f.svc.Create(ctx, f.orderRequest(product.ID, 10))
	require.NoError(t, err)
	_, err = f.svc.MarkPaid(ctx, order.ID)
	require.NoError(t, err)

	var stock inventorydomain.Stock
	require.NoError(t, f.db.First(&stock, "product_id = ?", productID.Int64()).Error)
	assert.Equal(t, int64(60), stock.QuantityInStock)

	var stored productdomain.Product
	require.NoError(t, f.db.First(&stored, "id = ?", productID.Int64()).Error)
	assert.Equal(t, int64(60), stored.Quantity)

	// The ledger keeps the full growth history even after sales.
	require.NoError(t, f.db.Model(&purchasedomain.Purchase{}).
		Where("product_id = ?", productID.Int64()).
		Select("COALESCE(SUM(quantity_purchased), 0)").Scan(&total).Error)
	assert.Equal(t, int64(70), total)

	_, err = f.svc.Create(ctx, f.orderRequest(product.ID, 61))
	var exceeds *domain.ExceedsStockError
	require.ErrorAs(t, err, &exceeds)
	assert.Equal(t, int64(60), exceeds.Available)
}

package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	inventorydomain "github.com/storenow/backoffice/internal/inventory/domain"
	inventoryrepo "github.com/storenow/backoffice/internal/inventory/repository"
	orderdomain "github.com/storenow/backoffice/internal/order/domain"
	orderrepo "github.com/storenow/backoffice/internal/order/repository"
	productdomain "github.com/storenow/backoffice/internal/product/domain"
	productrepo "github.com/storenow/backoffice/internal/product/repository"
	purchasedomain "github.com/storenow/backoffice/internal/purchase/domain"
	purchaserepo "github.com/storenow/backoffice/internal/purchase/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupExportService(t *testing.T) (Service, *gorm.DB, *snowflake.Node) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&productdomain.Product{},
		&inventorydomain.Stock{},
		&purchasedomain.Purchase{},
		&orderdomain.Order{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := New(Params{
		DB:        db,
		Log:       zap.NewNop(),
		Orders:    orderrepo.Provide(),
		Products:  productrepo.Provide(),
		Stocks:    inventoryrepo.Provide(),
		Purchases: purchaserepo.Provide(),
	})
	return svc, db, node
}

func seedOrder(t *testing.T, db *gorm.DB, node *snowflake.Node) *orderdomain.Order {
	t.Helper()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	ref := "TX-42"
	order := &orderdomain.Order{
		ID:            node.Generate().Int64(),
		ProductID:     node.Generate().Int64(),
		FullName:      "Abebe Kebede",
		Address:       "Bole, Addis Ababa",
		PhoneNumber:   "+251911000000",
		Quantity:      2,
		TotalPrice:    decimal.RequireFromString("399.98"),
		OrderType:     orderdomain.OrderTypeWebApp,
		PaymentMethod: orderdomain.PaymentMethodTelebirr,
		PaymentRef:    &ref,
		IsPaid:        true,
		OrderDate:     now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	require.NoError(t, db.Create(order).Error)
	return order
}

func TestOrdersCSV(t *testing.T) {
	svc, db, node := setupExportService(t)
	order := seedOrder(t, db, node)

	payload, err := svc.Orders(context.Background(), FormatCSV)
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(payload)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "id", records[0][0])
	assert.Equal(t, snowflake.ID(order.ID).String(), records[1][0])
	assert.Equal(t, "Abebe Kebede", records[1][2])
	assert.Equal(t, "399.98", records[1][6])
	assert.Equal(t, "telebirr", records[1][8])
	assert.Equal(t, "TX-42", records[1][9])
	assert.Equal(t, "true", records[1][10])
}

func TestProductsXLSX(t *testing.T) {
	svc, db, node := setupExportService(t)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	product := productdomain.Product{
		ID:        node.Generate().Int64(),
		Code:      "SKU-1",
		Name:      "Acme A1",
		Slug:      "acme-a1",
		Quantity:  50,
		Price:     decimal.RequireFromString("199.99"),
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, db.Create(&product).Error)
	require.NoError(t, db.Create(&inventorydomain.Stock{
		ID:              node.Generate().Int64(),
		ProductID:       product.ID,
		QuantityInStock: 40,
		CreatedAt:       now,
		UpdatedAt:       now,
	}).Error)

	payload, err := svc.Products(context.Background(), FormatXLSX)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(payload))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Products")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "SKU-1", rows[1][1])
	assert.Equal(t, "50", rows[1][3])
	assert.Equal(t, "40", rows[1][4])
	assert.Equal(t, "199.99", rows[1][5])
}

func TestPurchasesCSV(t *testing.T) {
	svc, db, node := setupExportService(t)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, db.Create(&purchasedomain.Purchase{
		ID:                node.Generate().Int64(),
		ProductID:         node.Generate().Int64(),
		QuantityPurchased: 50,
		PurchaseDate:      now,
		AddedBy:           "admin",
	}).Error)

	payload, err := svc.Purchases(context.Background(), FormatCSV)
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(payload)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "50", records[1][2])
	assert.Equal(t, "admin", records[1][4])
}

func TestUnsupportedFormat(t *testing.T) {
	svc, _, _ := setupExportService(t)

	_, err := svc.Orders(context.Background(), Format("pdf"))
	assert.Error(t, err)
}

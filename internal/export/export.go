package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/bwmarrin/snowflake"
	inventorydomain "github.com/storenow/backoffice/internal/inventory/domain"
	orderdomain "github.com/storenow/backoffice/internal/order/domain"
	productdomain "github.com/storenow/backoffice/internal/product/domain"
	purchasedomain "github.com/storenow/backoffice/internal/purchase/domain"
	"github.com/xuri/excelize/v2"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Format selects the rendering of an export dataset.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// Service renders back-office datasets as downloadable files.
type Service interface {
	Orders(ctx context.Context, format Format) ([]byte, error)
	Products(ctx context.Context, format Format) ([]byte, error)
	Purchases(ctx context.Context, format Format) ([]byte, error)
}

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	Orders    orderdomain.Repository
	Products  productdomain.Repository
	Stocks    inventorydomain.Repository
	Purchases purchasedomain.Repository
}

type service struct {
	db        *gorm.DB
	log       *zap.Logger
	orders    orderdomain.Repository
	products  productdomain.Repository
	stocks    inventorydomain.Repository
	purchases purchasedomain.Repository
}

func New(p Params) Service {
	return &service{
		db:        p.DB,
		log:       p.Log.Named("export.service"),
		orders:    p.Orders,
		products:  p.Products,
		stocks:    p.Stocks,
		purchases: p.Purchases,
	}
}

func (s *service) Orders(ctx context.Context, format Format) ([]byte, error) {
	orders, err := s.orders.FindAll(ctx, s.db)
	if err != nil {
		return nil, err
	}

	rows := [][]string{{
		"id", "product_id", "full_name", "address", "phone_number",
		"quantity", "total_price", "order_type", "payment_method",
		"payment_ref", "is_paid", "order_date",
	}}
	for i := range orders {
		o := &orders[i]
		ref := ""
		if o.PaymentRef != nil {
			ref = *o.PaymentRef
		}
		rows = append(rows, []string{
			snowflake.ID(o.ID).String(),
			snowflake.ID(o.ProductID).String(),
			o.FullName,
			o.Address,
			o.PhoneNumber,
			strconv.FormatInt(o.Quantity, 10),
			o.TotalPrice.StringFixed(2),
			o.OrderType,
			o.PaymentMethod,
			ref,
			strconv.FormatBool(o.IsPaid),
			o.OrderDate.Format(time.RFC3339),
		})
	}
	return render(format, "Orders", rows)
}

func (s *service) Products(ctx context.Context, format Format) ([]byte, error) {
	products, err := s.products.FindAll(ctx, s.db)
	if err != nil {
		return nil, err
	}
	stocks, err := s.stocks.FindAll(ctx, s.db)
	if err != nil {
		return nil, err
	}
	available := make(map[int64]int64, len(stocks))
	for i := range stocks {
		available[stocks[i].ProductID] = stocks[i].QuantityInStock
	}

	rows := [][]string{{
		"id", "code", "name", "quantity", "available_stock", "price", "created_at",
	}}
	for i := range products {
		p := &products[i]
		rows = append(rows, []string{
			snowflake.ID(p.ID).String(),
			p.Code,
			p.Name,
			strconv.FormatInt(p.Quantity, 10),
			strconv.FormatInt(available[p.ID], 10),
			p.Price.StringFixed(2),
			p.CreatedAt.Format(time.RFC3339),
		})
	}
	return render(format, "Products", rows)
}

func (s *service) Purchases(ctx context.Context, format Format) ([]byte, error) {
	entries, err := s.purchases.FindAll(ctx, s.db)
	if err != nil {
		return nil, err
	}

	rows := [][]string{{
		"id", "product_id", "quantity_purchased", "purchase_date", "added_by",
	}}
	for i := range entries {
		e := &entries[i]
		rows = append(rows, []string{
			snowflake.ID(e.ID).String(),
			snowflake.ID(e.ProductID).String(),
			strconv.FormatInt(e.QuantityPurchased, 10),
			e.PurchaseDate.Format(time.RFC3339),
			e.AddedBy,
		})
	}
	return render(format, "Purchases", rows)
}

func render(format Format, sheet string, rows [][]string) ([]byte, error) {
	switch format {
	case FormatCSV:
		return renderCSV(rows)
	case FormatXLSX:
		return renderXLSX(sheet, rows)
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
}

func renderCSV(rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(rows); err != nil {
		return nil, err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func renderXLSX(sheet string, rows [][]string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, err
		}
		values := make([]any, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

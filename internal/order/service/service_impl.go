package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
	"github.com/storenow/backoffice/internal/clock"
	inventorydomain "github.com/storenow/backoffice/internal/inventory/domain"
	"github.com/storenow/backoffice/internal/observability/metrics"
	"github.com/storenow/backoffice/internal/order/domain"
	outboxdomain "github.com/storenow/backoffice/internal/outbox/domain"
	productdomain "github.com/storenow/backoffice/internal/product/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	GenID     *snowflake.Node
	Clock     clock.Clock
	Repo      domain.Repository
	Products  productdomain.Repository
	Stocks    inventorydomain.Repository
	Inventory inventorydomain.Service
	Outbox    outboxdomain.Repository
	Metrics   *metrics.StoreMetrics `optional:"true"`
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	repo      domain.Repository
	products  productdomain.Repository
	stocks    inventorydomain.Repository
	inventory inventorydomain.Service
	outbox    outboxdomain.Repository
	genID     *snowflake.Node
	clock     clock.Clock
	metrics   *metrics.StoreMetrics
}

func New(p Params) domain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("order.service"),
		repo:      p.Repo,
		products:  p.Products,
		stocks:    p.Stocks,
		inventory: p.Inventory,
		outbox:    p.Outbox,
		genID:     p.GenID,
		clock:     p.Clock,
		metrics:   p.Metrics,
	}
}

// Create accepts an order when the product has a stock row holding at
// least the requested quantity. Stock is not reserved here; the paid
// transition re-checks it atomically.
func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	productID, err := parseID(req.ProductID)
	if err != nil {
		return nil, err
	}
	fullName := strings.TrimSpace(req.FullName)
	if fullName == "" {
		return nil, domain.ErrInvalidFullName
	}
	address := strings.TrimSpace(req.Address)
	if address == "" {
		return nil, domain.ErrInvalidAddress
	}
	phone := strings.TrimSpace(req.PhoneNumber)
	if phone == "" {
		return nil, domain.ErrInvalidPhoneNumber
	}
	if req.Quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}

	orderType := strings.TrimSpace(req.OrderType)
	if orderType == "" {
		orderType = domain.OrderTypeWebApp
	}
	if orderType != domain.OrderTypeWebApp && orderType != domain.OrderTypeManual {
		orderType = domain.OrderTypeWebApp
	}

	method := strings.TrimSpace(strings.ToLower(req.PaymentMethod))
	if method == "" {
		method = domain.PaymentMethodCBE
	}
	if !domain.ValidPaymentMethod(method) {
		return nil, domain.ErrInvalidPaymentMethod
	}

	product, err := s.products.FindByID(ctx, s.db, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}

	stock, err := s.stocks.FindByProduct(ctx, s.db, productID)
	if err != nil {
		return nil, err
	}
	if stock == nil {
		return nil, inventorydomain.ErrStockMissing
	}
	if req.Quantity > stock.QuantityInStock {
		return nil, &domain.ExceedsStockError{Available: stock.QuantityInStock}
	}

	now := s.clock.Now()
	order := &domain.Order{
		ID:            s.genID.Generate().Int64(),
		ProductID:     productID,
		FullName:      fullName,
		Address:       address,
		PhoneNumber:   phone,
		Comment:       req.Comment,
		Quantity:      req.Quantity,
		TotalPrice:    product.Price.Mul(decimal.NewFromInt(req.Quantity)),
		OrderType:     orderType,
		PaymentMethod: method,
		OrderDate:     now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.Create(ctx, s.db, order); err != nil {
		return nil, err
	}

	s.metrics.RecordOrderCreated()
	s.log.Info("order created",
		zap.String("order_id", snowflake.ID(order.ID).String()),
		zap.String("product_id", snowflake.ID(productID).String()),
		zap.Int64("quantity", order.Quantity),
	)

	resp := toResponse(order, product.Name)
	return &resp, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Response, error) {
	orders, err := s.repo.FindAll(ctx, s.db)
	if err != nil {
		return nil, err
	}
	resp := make([]domain.Response, 0, len(orders))
	for i := range orders {
		resp = append(resp, toResponse(&orders[i], ""))
	}
	return resp, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Response, error) {
	orderID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	order, err := s.repo.FindByID(ctx, s.db, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}

	name := ""
	if product, err := s.products.FindByID(ctx, s.db, order.ProductID); err == nil && product != nil {
		name = product.Name
	}
	resp := toResponse(order, name)
	return &resp, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateRequest) (*domain.Response, error) {
	orderID, err := parseID(req.ID)
	if err != nil {
		return nil, err
	}
	order, err := s.repo.FindByID(ctx, s.db, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}

	if req.FullName != nil {
		fullName := strings.TrimSpace(*req.FullName)
		if fullName == "" {
			return nil, domain.ErrInvalidFullName
		}
		order.FullName = fullName
	}
	if req.Address != nil {
		address := strings.TrimSpace(*req.Address)
		if address == "" {
			return nil, domain.ErrInvalidAddress
		}
		order.Address = address
	}
	if req.PhoneNumber != nil {
		phone := strings.TrimSpace(*req.PhoneNumber)
		if phone == "" {
			return nil, domain.ErrInvalidPhoneNumber
		}
		order.PhoneNumber = phone
	}
	if req.Comment != nil {
		order.Comment = req.Comment
	}

	order.UpdatedAt = s.clock.Now()
	if err := s.repo.Update(ctx, s.db, order); err != nil {
		return nil, err
	}
	resp := toResponse(order, "")
	return &resp, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	orderID, err := parseID(id)
	if err != nil {
		return err
	}
	order, err := s.repo.FindByID(ctx, s.db, orderID)
	if err != nil {
		return err
	}
	if order == nil {
		return domain.ErrNotFound
	}
	return s.repo.Delete(ctx, s.db, orderID)
}

func (s *Service) ConfirmPayment(ctx context.Context, id string, req domain.ConfirmPaymentRequest) (*domain.Response, error) {
	orderID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	order, err := s.repo.FindByID(ctx, s.db, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	if order.IsPaid {
		return nil, domain.ErrAlreadyPaid
	}

	method := strings.TrimSpace(strings.ToLower(req.PaymentMethod))
	if method == "" {
		method = domain.PaymentMethodCBE
	}
	if !domain.ValidPaymentMethod(method) {
		return nil, domain.ErrInvalidPaymentMethod
	}
	ref := strings.TrimSpace(req.PaymentRef)
	if ref == "" {
		return nil, domain.ErrInvalidPaymentRef
	}

	order.PaymentMethod = method
	order.PaymentRef = &ref
	order.UpdatedAt = s.clock.Now()
	if err := s.repo.Update(ctx, s.db, order); err != nil {
		return nil, err
	}

	s.log.Info("payment reference recorded",
		zap.String("order_id", snowflake.ID(order.ID).String()),
		zap.String("payment_method", method),
	)
	resp := toResponse(order, "")
	return &resp, nil
}

// MarkPaid wins the unpaid-to-paid transition with a guarded update, so
// two concurrent calls decrement stock exactly once. The stock row and
// the product's authorized total are both drawn down; if either holds
// less than the ordered quantity the transition rolls back.
func (s *Service) MarkPaid(ctx context.Context, id string) (*domain.Response, error) {
	orderID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	order, err := s.repo.FindByID(ctx, s.db, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	if order.IsPaid {
		resp := toResponse(order, "")
		return &resp, nil
	}

	var productName string
	transitioned := false
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rows, err := s.repo.MarkPaid(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if rows == 0 {
			return nil
		}
		transitioned = true

		if err := s.inventory.Decrement(ctx, tx, order.ProductID, order.Quantity); err != nil {
			return err
		}
		productRows, err := s.products.DecrementQuantity(ctx, tx, order.ProductID, order.Quantity)
		if err != nil {
			return err
		}
		if productRows == 0 {
			return productdomain.ErrInsufficientQuantity
		}

		if product, err := s.products.FindByID(ctx, tx, order.ProductID); err == nil && product != nil {
			productName = product.Name
		}
		return s.enqueueOrderPaid(ctx, tx, order, productName)
	})
	if err != nil {
		return nil, err
	}

	if transitioned {
		order.IsPaid = true
		s.metrics.RecordOrderPaid()
		s.log.Info("order paid",
			zap.String("order_id", snowflake.ID(order.ID).String()),
			zap.String("product_id", snowflake.ID(order.ProductID).String()),
			zap.Int64("quantity", order.Quantity),
		)
	} else {
		// Another actor won the transition; reread for the caller.
		if refreshed, err := s.repo.FindByID(ctx, s.db, orderID); err == nil && refreshed != nil {
			order = refreshed
		}
	}

	resp := toResponse(order, productName)
	return &resp, nil
}

func (s *Service) enqueueOrderPaid(ctx context.Context, tx *gorm.DB, order *domain.Order, productName string) error {
	payload := datatypes.JSONMap{
		"order_id":       snowflake.ID(order.ID).String(),
		"product_id":     snowflake.ID(order.ProductID).String(),
		"product_name":   productName,
		"full_name":      order.FullName,
		"quantity":       order.Quantity,
		"total_price":    order.TotalPrice.StringFixed(2),
		"payment_method": order.PaymentMethod,
	}
	return s.outbox.Append(ctx, tx, &outboxdomain.Event{
		ID:          ulid.Make().String(),
		EventType:   outboxdomain.EventOrderPaid,
		AggregateID: order.ID,
		Payload:     payload,
		Status:      outboxdomain.StatusPending,
		CreatedAt:   s.clock.Now(),
	})
}

func parseID(raw string) (int64, error) {
	parsed, err := snowflake.ParseString(strings.TrimSpace(raw))
	if err != nil {
		return 0, domain.ErrInvalidID
	}
	return parsed.Int64(), nil
}

func toResponse(o *domain.Order, productName string) domain.Response {
	return domain.Response{
		ID:            snowflake.ID(o.ID).String(),
		ProductID:     snowflake.ID(o.ProductID).String(),
		ProductName:   productName,
		FullName:      o.FullName,
		Address:       o.Address,
		PhoneNumber:   o.PhoneNumber,
		Comment:       o.Comment,
		Quantity:      o.Quantity,
		TotalPrice:    o.TotalPrice.StringFixed(2),
		OrderType:     o.OrderType,
		PaymentMethod: o.PaymentMethod,
		PaymentRef:    o.PaymentRef,
		IsPaid:        o.IsPaid,
		OrderDate:     o.OrderDate,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}

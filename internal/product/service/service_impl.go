package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
	catalogdomain "github.com/storenow/backoffice/internal/catalog/domain"
	"github.com/storenow/backoffice/internal/clock"
	inventorydomain "github.com/storenow/backoffice/internal/inventory/domain"
	obscontext "github.com/storenow/backoffice/internal/observability/context"
	"github.com/storenow/backoffice/internal/observability/metrics"
	orderdomain "github.com/storenow/backoffice/internal/order/domain"
	outboxdomain "github.com/storenow/backoffice/internal/outbox/domain"
	"github.com/storenow/backoffice/internal/product/domain"
	purchasedomain "github.com/storenow/backoffice/internal/purchase/domain"
	"github.com/storenow/backoffice/pkg/db"
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
	Catalog   catalogdomain.Repository
	Inventory inventorydomain.Service
	Stocks    inventorydomain.Repository
	Purchases purchasedomain.Repository
	Orders    orderdomain.Repository
	Outbox    outboxdomain.Repository
	Metrics   *metrics.StoreMetrics `optional:"true"`
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	repo      domain.Repository
	catalog   catalogdomain.Repository
	inventory inventorydomain.Service
	stocks    inventorydomain.Repository
	purchases purchasedomain.Repository
	orders    orderdomain.Repository
	outbox    outboxdomain.Repository
	genID     *snowflake.Node
	clock     clock.Clock
	metrics   *metrics.StoreMetrics
}

func New(p Params) domain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("product.service"),
		repo:      p.Repo,
		catalog:   p.Catalog,
		inventory: p.Inventory,
		stocks:    p.Stocks,
		purchases: p.Purchases,
		orders:    p.Orders,
		outbox:    p.Outbox,
		genID:     p.GenID,
		clock:     p.Clock,
		metrics:   p.Metrics,
	}
}

// Create persists a product together with its opening purchase entry,
// its stock row and the outbox events announcing both, all in one
// transaction. Any invariant violation rolls back the whole save.
func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	code := strings.TrimSpace(req.Code)
	if code == "" {
		return nil, domain.ErrInvalidCode
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}
	if req.Quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	price, err := parsePrice(req.Price)
	if err != nil {
		return nil, err
	}

	categoryID, err := parseID(req.CategoryID)
	if err != nil {
		return nil, err
	}
	subcategoryID, err := parseID(req.SubcategoryID)
	if err != nil {
		return nil, err
	}
	brandID, err := parseID(req.BrandID)
	if err != nil {
		return nil, err
	}
	modelID, err := parseID(req.ModelID)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByCode(ctx, s.db, code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicateCode
	}

	actor := actorFrom(ctx)
	now := s.clock.Now()
	product := &domain.Product{
		ID:            s.genID.Generate().Int64(),
		Code:          code,
		Name:          name,
		Slug:          slug.Make(name),
		Description:   req.Description,
		ImageURL:      req.ImageURL,
		CategoryID:    categoryID,
		SubcategoryID: subcategoryID,
		BrandID:       brandID,
		ModelID:       modelID,
		Quantity:      req.Quantity,
		Price:         price,
		Metadata:      datatypes.JSONMap(req.Metadata),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	var stock *inventorydomain.Stock
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.validateHierarchy(ctx, tx, product); err != nil {
			return err
		}
		if err := s.repo.Create(ctx, tx, product); err != nil {
			if db.IsDuplicateKeyErr(err) {
				return domain.ErrDuplicateCode
			}
			return err
		}

		if err := s.purchases.Append(ctx, tx, &purchasedomain.Purchase{
			ID:                s.genID.Generate().Int64(),
			ProductID:         product.ID,
			QuantityPurchased: product.Quantity,
			PurchaseDate:      now,
			AddedBy:           actor,
		}); err != nil {
			return err
		}

		created, _, err := s.inventory.Upsert(ctx, tx, inventorydomain.UpsertParams{
			ProductID:       product.ID,
			ProductQuantity: product.Quantity,
			Delta:           product.Quantity,
			Actor:           actor,
		})
		if err != nil {
			return err
		}
		stock = created

		if err := s.enqueueProductCreated(ctx, tx, product); err != nil {
			return err
		}
		return s.enqueueStockCreated(ctx, tx, product, created)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordPurchaseAppended()
	s.log.Info("product created",
		zap.String("product_id", snowflake.ID(product.ID).String()),
		zap.String("code", product.Code),
		zap.Int64("quantity", product.Quantity),
	)

	resp := s.toResponse(product, stock)
	return &resp, nil
}

// Update applies field changes and, when the authorized quantity grows,
// records the growth in the purchase ledger and raises the stock by the
// same delta. Quantity decreases adjust stock without a ledger entry.
func (s *Service) Update(ctx context.Context, req domain.UpdateRequest) (*domain.Response, error) {
	productID, err := parseID(req.ID)
	if err != nil {
		return nil, err
	}

	product, err := s.repo.FindByID(ctx, s.db, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.ErrInvalidName
		}
		product.Name = name
		product.Slug = slug.Make(name)
	}
	if req.Description != nil {
		product.Description = req.Description
	}
	if req.ImageURL != nil {
		product.ImageURL = req.ImageURL
	}
	if req.Price != nil {
		price, err := parsePrice(*req.Price)
		if err != nil {
			return nil, err
		}
		product.Price = price
	}
	if req.Metadata != nil {
		product.Metadata = datatypes.JSONMap(req.Metadata)
	}

	previousQuantity := product.Quantity
	if req.Quantity != nil {
		if *req.Quantity <= 0 {
			return nil, domain.ErrInvalidQuantity
		}
		product.Quantity = *req.Quantity
	}
	delta := product.Quantity - previousQuantity

	actor := actorFrom(ctx)
	now := s.clock.Now()
	product.UpdatedAt = now

	var stock *inventorydomain.Stock
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.validateHierarchy(ctx, tx, product); err != nil {
			return err
		}
		if err := s.repo.Update(ctx, tx, product); err != nil {
			return err
		}

		if delta > 0 {
			if err := s.purchases.Append(ctx, tx, &purchasedomain.Purchase{
				ID:                s.genID.Generate().Int64(),
				ProductID:         product.ID,
				QuantityPurchased: delta,
				PurchaseDate:      now,
				AddedBy:           actor,
			}); err != nil {
				return err
			}
		}

		updated, created, err := s.inventory.Upsert(ctx, tx, inventorydomain.UpsertParams{
			ProductID:       product.ID,
			ProductQuantity: product.Quantity,
			Delta:           delta,
			Actor:           actor,
		})
		if err != nil {
			return err
		}
		stock = updated

		if created {
			return s.enqueueStockCreated(ctx, tx, product, updated)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if delta > 0 {
		s.metrics.RecordPurchaseAppended()
	}
	s.log.Info("product updated",
		zap.String("product_id", snowflake.ID(product.ID).String()),
		zap.Int64("quantity_delta", delta),
	)

	resp := s.toResponse(product, stock)
	return &resp, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Response, error) {
	items, err := s.repo.FindAll(ctx, s.db)
	if err != nil {
		return nil, err
	}
	stocks, err := s.stocks.FindAll(ctx, s.db)
	if err != nil {
		return nil, err
	}
	byProduct := make(map[int64]*inventorydomain.Stock, len(stocks))
	for i := range stocks {
		byProduct[stocks[i].ProductID] = &stocks[i]
	}

	resp := make([]domain.Response, 0, len(items))
	for i := range items {
		resp = append(resp, s.toResponse(&items[i], byProduct[items[i].ID]))
	}
	return resp, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Response, error) {
	productID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	product, err := s.repo.FindByID(ctx, s.db, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	stock, err := s.stocks.FindByProduct(ctx, s.db, productID)
	if err != nil {
		return nil, err
	}
	resp := s.toResponse(product, stock)
	return &resp, nil
}

// Delete removes a product together with the stock, purchase and order
// rows it owns, in one transaction.
func (s *Service) Delete(ctx context.Context, id string) error {
	productID, err := parseID(id)
	if err != nil {
		return err
	}
	product, err := s.repo.FindByID(ctx, s.db, productID)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		owned := []int64{productID}
		if err := s.stocks.DeleteByProducts(ctx, tx, owned); err != nil {
			return err
		}
		if err := s.purchases.DeleteByProducts(ctx, tx, owned); err != nil {
			return err
		}
		if err := s.orders.DeleteByProducts(ctx, tx, owned); err != nil {
			return err
		}
		return s.repo.Delete(ctx, tx, productID)
	})
	if err != nil {
		return err
	}

	s.log.Info("product deleted",
		zap.String("product_id", snowflake.ID(productID).String()),
		zap.String("code", product.Code),
	)
	return nil
}

func (s *Service) History(ctx context.Context, id string) (*domain.HistoryResponse, error) {
	productID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	product, err := s.repo.FindByID(ctx, s.db, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}

	entries, err := s.purchases.FindByProduct(ctx, s.db, productID)
	if err != nil {
		return nil, err
	}
	total, err := s.purchases.TotalPurchased(ctx, s.db, productID)
	if err != nil {
		return nil, err
	}

	history := make([]domain.HistoryEntry, 0, len(entries))
	for _, entry := range entries {
		history = append(history, domain.HistoryEntry{
			QuantityPurchased: entry.QuantityPurchased,
			PurchaseDate:      entry.PurchaseDate,
			AddedBy:           entry.AddedBy,
		})
	}
	return &domain.HistoryResponse{
		ProductID:      snowflake.ID(productID).String(),
		TotalPurchased: total,
		Entries:        history,
	}, nil
}

// validateHierarchy confirms every ancestor still exists before the
// product row is written.
func (s *Service) validateHierarchy(ctx context.Context, tx *gorm.DB, product *domain.Product) error {
	category, err := s.catalog.FindCategoryByID(ctx, tx, product.CategoryID)
	if err != nil {
		return err
	}
	if category == nil {
		return domain.ErrCategoryNotFound
	}
	subcategory, err := s.catalog.FindSubcategoryByID(ctx, tx, product.SubcategoryID)
	if err != nil {
		return err
	}
	if subcategory == nil {
		return domain.ErrSubcategoryNotFound
	}
	brand, err := s.catalog.FindBrandByID(ctx, tx, product.BrandID)
	if err != nil {
		return err
	}
	if brand == nil {
		return domain.ErrBrandNotFound
	}
	model, err := s.catalog.FindModelByID(ctx, tx, product.ModelID)
	if err != nil {
		return err
	}
	if model == nil {
		return domain.ErrModelNotFound
	}
	return nil
}

func (s *Service) enqueueProductCreated(ctx context.Context, tx *gorm.DB, product *domain.Product) error {
	payload := datatypes.JSONMap{
		"product_id": snowflake.ID(product.ID).String(),
		"code":       product.Code,
		"name":       product.Name,
		"slug":       product.Slug,
		"quantity":   product.Quantity,
		"price":      product.Price.StringFixed(2),
	}
	if product.ImageURL != nil {
		payload["image_url"] = *product.ImageURL
	}
	return s.outbox.Append(ctx, tx, &outboxdomain.Event{
		ID:          ulid.Make().String(),
		EventType:   outboxdomain.EventProductCreated,
		AggregateID: product.ID,
		Payload:     payload,
		Status:      outboxdomain.StatusPending,
		CreatedAt:   s.clock.Now(),
	})
}

func (s *Service) enqueueStockCreated(ctx context.Context, tx *gorm.DB, product *domain.Product, stock *inventorydomain.Stock) error {
	payload := datatypes.JSONMap{
		"stock_id":          snowflake.ID(stock.ID).String(),
		"product_id":        snowflake.ID(product.ID).String(),
		"name":              product.Name,
		"quantity_in_stock": stock.QuantityInStock,
		"price":             product.Price.StringFixed(2),
	}
	if product.ImageURL != nil {
		payload["image_url"] = *product.ImageURL
	}
	return s.outbox.Append(ctx, tx, &outboxdomain.Event{
		ID:          ulid.Make().String(),
		EventType:   outboxdomain.EventStockCreated,
		AggregateID: stock.ID,
		Payload:     payload,
		Status:      outboxdomain.StatusPending,
		CreatedAt:   s.clock.Now(),
	})
}

func (s *Service) toResponse(p *domain.Product, stock *inventorydomain.Stock) domain.Response {
	resp := domain.Response{
		ID:            snowflake.ID(p.ID).String(),
		Code:          p.Code,
		Name:          p.Name,
		Slug:          p.Slug,
		Description:   p.Description,
		ImageURL:      p.ImageURL,
		CategoryID:    snowflake.ID(p.CategoryID).String(),
		SubcategoryID: snowflake.ID(p.SubcategoryID).String(),
		BrandID:       snowflake.ID(p.BrandID).String(),
		ModelID:       snowflake.ID(p.ModelID).String(),
		Quantity:      p.Quantity,
		Price:         p.Price.StringFixed(2),
		Metadata:      map[string]any(p.Metadata),
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
	if stock != nil {
		resp.AvailableStock = stock.QuantityInStock
	}
	return resp
}

func actorFrom(ctx context.Context) string {
	if operator := obscontext.OperatorFromContext(ctx); operator != "" {
		return operator
	}
	return "system"
}

func parseID(raw string) (int64, error) {
	parsed, err := snowflake.ParseString(strings.TrimSpace(raw))
	if err != nil {
		return 0, domain.ErrInvalidID
	}
	return parsed.Int64(), nil
}

func parsePrice(raw string) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil || price.IsNegative() {
		return decimal.Zero, domain.ErrInvalidPrice
	}
	return price, nil
}

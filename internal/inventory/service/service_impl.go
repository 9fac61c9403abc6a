package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/storenow/backoffice/internal/clock"
	"github.com/storenow/backoffice/internal/config"
	"github.com/storenow/backoffice/internal/inventory/domain"
	"github.com/storenow/backoffice/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Clock   clock.Clock
	Cfg     config.Config
	Repo    domain.Repository
	Metrics *metrics.StoreMetrics `optional:"true"`
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	repo    domain.Repository
	genID   *snowflake.Node
	clock   clock.Clock
	metrics *metrics.StoreMetrics

	defaultRestock int64
}

func New(p Params) domain.Service {
	return &Service{
		db:             p.DB,
		log:            p.Log.Named("inventory.service"),
		repo:           p.Repo,
		genID:          p.GenID,
		clock:          p.Clock,
		metrics:        p.Metrics,
		defaultRestock: p.Cfg.RestockAmount,
	}
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Response, error) {
	stockID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	item, err := s.repo.FindByID(ctx, s.db, stockID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	resp := toResponse(item)
	return &resp, nil
}

func (s *Service) GetByProduct(ctx context.Context, productID string) (*domain.Response, error) {
	id, err := parseID(productID)
	if err != nil {
		return nil, err
	}
	item, err := s.repo.FindByProduct(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrStockMissing
	}
	resp := toResponse(item)
	return &resp, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Response, error) {
	items, err := s.repo.FindAll(ctx, s.db)
	if err != nil {
		return nil, err
	}
	resp := make([]domain.Response, 0, len(items))
	for i := range items {
		resp = append(resp, toResponse(&items[i]))
	}
	return resp, nil
}

// Upsert runs inside the product-save transaction. A new product gets a
// stock row at its full authorized quantity; a quantity change applies
// the delta. The resulting quantity must satisfy the stock invariants
// or the whole product save rolls back.
func (s *Service) Upsert(ctx context.Context, tx *gorm.DB, params domain.UpsertParams) (*domain.Stock, bool, error) {
	existing, err := s.repo.FindByProduct(ctx, tx, params.ProductID)
	if err != nil {
		return nil, false, err
	}

	now := s.clock.Now()
	if existing == nil {
		if err := domain.Validate(params.ProductQuantity, params.ProductQuantity); err != nil {
			return nil, false, err
		}
		created := &domain.Stock{
			ID:              s.genID.Generate().Int64(),
			ProductID:       params.ProductID,
			QuantityInStock: params.ProductQuantity,
			AddedBy:         strings.TrimSpace(params.Actor),
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := s.repo.Create(ctx, tx, created); err != nil {
			return nil, false, err
		}
		return created, true, nil
	}

	if params.Delta == 0 {
		return existing, false, nil
	}

	next := existing.QuantityInStock + params.Delta
	if err := domain.Validate(next, params.ProductQuantity); err != nil {
		return nil, false, err
	}

	existing.QuantityInStock = next
	existing.UpdatedAt = now
	if err := s.repo.Update(ctx, tx, existing); err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

func (s *Service) Decrement(ctx context.Context, tx *gorm.DB, productID, qty int64) error {
	rows, err := s.repo.DecrementForProduct(ctx, tx, productID, qty)
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrInsufficientStock
	}
	return nil
}

func (s *Service) Restock(ctx context.Context, req domain.RestockRequest) (int, error) {
	if len(req.IDs) == 0 {
		return 0, domain.ErrInvalidRestockRows
	}

	amount := s.defaultRestock
	if req.Amount != nil {
		amount = *req.Amount
	}
	if amount <= 0 {
		return 0, domain.ErrInvalidRestockRows
	}

	ids := make([]int64, 0, len(req.IDs))
	for _, raw := range req.IDs {
		id, err := parseID(raw)
		if err != nil {
			return 0, err
		}
		ids = append(ids, id)
	}

	now := s.clock.Now()
	touched := 0
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, id := range ids {
			rows, err := s.repo.AddQuantity(ctx, tx, id, amount, now)
			if err != nil {
				return err
			}
			if rows == 0 {
				return domain.ErrNotFound
			}
			touched += int(rows)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.metrics.RecordRestock(touched)
	s.log.Info("stock restocked",
		zap.Int("rows", touched),
		zap.Int64("amount", amount),
	)
	return touched, nil
}

func parseID(raw string) (int64, error) {
	parsed, err := snowflake.ParseString(strings.TrimSpace(raw))
	if err != nil {
		return 0, domain.ErrInvalidID
	}
	return parsed.Int64(), nil
}

func toResponse(s *domain.Stock) domain.Response {
	return domain.Response{
		ID:              snowflake.ID(s.ID).String(),
		ProductID:       snowflake.ID(s.ProductID).String(),
		QuantityInStock: s.QuantityInStock,
		RestockDate:     s.RestockDate,
		AddedBy:         s.AddedBy,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

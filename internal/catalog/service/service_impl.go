package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"github.com/storenow/backoffice/internal/catalog/domain"
	inventorydomain "github.com/storenow/backoffice/internal/inventory/domain"
	orderdomain "github.com/storenow/backoffice/internal/order/domain"
	productdomain "github.com/storenow/backoffice/internal/product/domain"
	purchasedomain "github.com/storenow/backoffice/internal/purchase/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	GenID     *snowflake.Node
	Repo      domain.Repository
	Products  productdomain.Repository
	Stocks    inventorydomain.Repository
	Purchases purchasedomain.Repository
	Orders    orderdomain.Repository
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	repo      domain.Repository
	products  productdomain.Repository
	stocks    inventorydomain.Repository
	purchases purchasedomain.Repository
	orders    orderdomain.Repository
	genID     *snowflake.Node
}

func New(p Params) domain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("catalog.service"),
		repo:      p.Repo,
		products:  p.Products,
		stocks:    p.Stocks,
		purchases: p.Purchases,
		orders:    p.Orders,
		genID:     p.GenID,
	}
}

// deleteProductsTx removes the products matching ref along with the
// stock, purchase and order rows they own. Runs inside the caller's
// transaction.
func (s *Service) deleteProductsTx(ctx context.Context, tx *gorm.DB, ref *productdomain.Product) error {
	ids, err := s.products.FindIDsByHierarchy(ctx, tx, ref)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}
	if err := s.stocks.DeleteByProducts(ctx, tx, ids); err != nil {
		return err
	}
	if err := s.purchases.DeleteByProducts(ctx, tx, ids); err != nil {
		return err
	}
	if err := s.orders.DeleteByProducts(ctx, tx, ids); err != nil {
		return err
	}
	return s.products.DeleteByIDs(ctx, tx, ids)
}

func (s *Service) CreateCategory(ctx context.Context, req domain.CreateCategoryRequest) (*domain.CategoryResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	now := time.Now().UTC()
	c := &domain.Category{
		ID:        s.genID.Generate().Int64(),
		Name:      name,
		Slug:      slug.Make(name),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.CreateCategory(ctx, s.db, c); err != nil {
		return nil, err
	}
	resp := toCategoryResponse(c)
	return &resp, nil
}

func (s *Service) ListCategories(ctx context.Context) ([]domain.CategoryResponse, error) {
	items, err := s.repo.FindAllCategories(ctx, s.db)
	if err != nil {
		return nil, err
	}
	resp := make([]domain.CategoryResponse, 0, len(items))
	for i := range items {
		resp = append(resp, toCategoryResponse(&items[i]))
	}
	return resp, nil
}

func (s *Service) GetCategory(ctx context.Context, id string) (*domain.CategoryResponse, error) {
	categoryID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	item, err := s.repo.FindCategoryByID(ctx, s.db, categoryID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	resp := toCategoryResponse(item)
	return &resp, nil
}

func (s *Service) UpdateCategory(ctx context.Context, id string, req domain.UpdateNameRequest) (*domain.CategoryResponse, error) {
	categoryID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	item, err := s.repo.FindCategoryByID(ctx, s.db, categoryID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}

	item.Name = name
	item.Slug = slug.Make(name)
	item.UpdatedAt = time.Now().UTC()
	if err := s.repo.UpdateCategory(ctx, s.db, item); err != nil {
		return nil, err
	}
	resp := toCategoryResponse(item)
	return &resp, nil
}

// DeleteCategory removes a category and everything beneath it: its
// subcategories, brands, models and the products (with their stock,
// purchase and order rows) that reference it.
func (s *Service) DeleteCategory(ctx context.Context, id string) error {
	categoryID, err := parseID(id)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.deleteProductsTx(ctx, tx, &productdomain.Product{CategoryID: categoryID}); err != nil {
			return err
		}
		if err := s.repo.DeleteModelsByCategory(ctx, tx, categoryID); err != nil {
			return err
		}
		if err := s.repo.DeleteBrandsByCategory(ctx, tx, categoryID); err != nil {
			return err
		}
		if err := s.repo.DeleteSubcategoriesByCategory(ctx, tx, categoryID); err != nil {
			return err
		}
		return s.repo.DeleteCategory(ctx, tx, categoryID)
	})
}

func (s *Service) CreateSubcategory(ctx context.Context, req domain.CreateSubcategoryRequest) (*domain.SubcategoryResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}
	categoryID, err := parseID(req.CategoryID)
	if err != nil {
		return nil, domain.ErrCategoryRequired
	}

	now := time.Now().UTC()
	sc := &domain.Subcategory{
		ID:         s.genID.Generate().Int64(),
		Name:       name,
		Slug:       slug.Make(name),
		CategoryID: categoryID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	// Parent check and insert share one transaction so a concurrently
	// deleted category cannot leave an orphan row behind.
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		parent, err := s.repo.FindCategoryByID(ctx, tx, categoryID)
		if err != nil {
			return err
		}
		if parent == nil {
			return domain.ErrCategoryRequired
		}
		return s.repo.CreateSubcategory(ctx, tx, sc)
	})
	if err != nil {
		return nil, err
	}
	resp := toSubcategoryResponse(sc)
	return &resp, nil
}

func (s *Service) ListSubcategories(ctx context.Context) ([]domain.SubcategoryResponse, error) {
	items, err := s.repo.FindAllSubcategories(ctx, s.db)
	if err != nil {
		return nil, err
	}
	resp := make([]domain.SubcategoryResponse, 0, len(items))
	for i := range items {
		resp = append(resp, toSubcategoryResponse(&items[i]))
	}
	return resp, nil
}

func (s *Service) ListSubcategoriesOf(ctx context.Context, categoryID string) ([]domain.SubcategoryResponse, error) {
	parentID, err := parseID(categoryID)
	if err != nil {
		return nil, err
	}
	parent, err := s.repo.FindCategoryByID(ctx, s.db, parentID)
	if err != nil {
		return nil, err
	}
	if parent == nil {
		return nil, domain.ErrNotFound
	}

	items, err := s.repo.FindSubcategoriesByCategory(ctx, s.db, parentID)
	if err != nil {
		return nil, err
	}
	resp := make([]domain.SubcategoryResponse, 0, len(items))
	for i := range items {
		resp = append(resp, toSubcategoryResponse(&items[i]))
	}
	return resp, nil
}

func (s *Service) GetSubcategory(ctx context.Context, id string) (*domain.SubcategoryResponse, error) {
	subID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	item, err := s.repo.FindSubcategoryByID(ctx, s.db, subID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	resp := toSubcategoryResponse(item)
	return &resp, nil
}

func (s *Service) UpdateSubcategory(ctx context.Context, id string, req domain.UpdateNameRequest) (*domain.SubcategoryResponse, error) {
	subID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	item, err := s.repo.FindSubcategoryByID(ctx, s.db, subID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}

	item.Name = name
	item.Slug = slug.Make(name)
	item.UpdatedAt = time.Now().UTC()
	if err := s.repo.UpdateSubcategory(ctx, s.db, item); err != nil {
		return nil, err
	}
	resp := toSubcategoryResponse(item)
	return &resp, nil
}

func (s *Service) DeleteSubcategory(ctx context.Context, id string) error {
	subID, err := parseID(id)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.deleteProductsTx(ctx, tx, &productdomain.Product{SubcategoryID: subID}); err != nil {
			return err
		}
		if err := s.repo.DeleteModelsBySubcategory(ctx, tx, subID); err != nil {
			return err
		}
		if err := s.repo.DeleteBrandsBySubcategory(ctx, tx, subID); err != nil {
			return err
		}
		return s.repo.DeleteSubcategory(ctx, tx, subID)
	})
}

func (s *Service) CreateBrand(ctx context.Context, req domain.CreateBrandRequest) (*domain.BrandResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}
	subcategoryID, err := parseID(req.SubcategoryID)
	if err != nil {
		return nil, domain.ErrSubcategoryRequired
	}

	now := time.Now().UTC()
	b := &domain.Brand{
		ID:            s.genID.Generate().Int64(),
		Name:          name,
		Slug:          slug.Make(name),
		SubcategoryID: subcategoryID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		parent, err := s.repo.FindSubcategoryByID(ctx, tx, subcategoryID)
		if err != nil {
			return err
		}
		if parent == nil {
			return domain.ErrSubcategoryRequired
		}
		return s.repo.CreateBrand(ctx, tx, b)
	})
	if err != nil {
		return nil, err
	}
	resp := toBrandResponse(b)
	return &resp, nil
}

func (s *Service) ListBrands(ctx context.Context) ([]domain.BrandResponse, error) {
	items, err := s.repo.FindAllBrands(ctx, s.db)
	if err != nil {
		return nil, err
	}
	resp := make([]domain.BrandResponse, 0, len(items))
	for i := range items {
		resp = append(resp, toBrandResponse(&items[i]))
	}
	return resp, nil
}

func (s *Service) GetBrand(ctx context.Context, id string) (*domain.BrandResponse, error) {
	brandID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	item, err := s.repo.FindBrandByID(ctx, s.db, brandID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	resp := toBrandResponse(item)
	return &resp, nil
}

func (s *Service) UpdateBrand(ctx context.Context, id string, req domain.UpdateNameRequest) (*domain.BrandResponse, error) {
	brandID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	item, err := s.repo.FindBrandByID(ctx, s.db, brandID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}

	item.Name = name
	item.Slug = slug.Make(name)
	item.UpdatedAt = time.Now().UTC()
	if err := s.repo.UpdateBrand(ctx, s.db, item); err != nil {
		return nil, err
	}
	resp := toBrandResponse(item)
	return &resp, nil
}

func (s *Service) DeleteBrand(ctx context.Context, id string) error {
	brandID, err := parseID(id)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.deleteProductsTx(ctx, tx, &productdomain.Product{BrandID: brandID}); err != nil {
			return err
		}
		if err := s.repo.DeleteModelsByBrand(ctx, tx, brandID); err != nil {
			return err
		}
		return s.repo.DeleteBrand(ctx, tx, brandID)
	})
}

func (s *Service) CreateModel(ctx context.Context, req domain.CreateModelRequest) (*domain.ModelResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}
	brandID, err := parseID(req.BrandID)
	if err != nil {
		return nil, domain.ErrBrandRequired
	}
	subcategoryID, err := parseID(req.SubcategoryID)
	if err != nil {
		return nil, domain.ErrSubcategoryRequired
	}

	now := time.Now().UTC()
	m := &domain.ProductModel{
		ID:            s.genID.Generate().Int64(),
		Name:          name,
		Slug:          slug.Make(name),
		BrandID:       brandID,
		SubcategoryID: subcategoryID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		brand, err := s.repo.FindBrandByID(ctx, tx, brandID)
		if err != nil {
			return err
		}
		if brand == nil {
			return domain.ErrBrandRequired
		}
		subcategory, err := s.repo.FindSubcategoryByID(ctx, tx, subcategoryID)
		if err != nil {
			return err
		}
		if subcategory == nil {
			return domain.ErrSubcategoryRequired
		}
		return s.repo.CreateModel(ctx, tx, m)
	})
	if err != nil {
		return nil, err
	}
	resp := toModelResponse(m)
	return &resp, nil
}

func (s *Service) ListModels(ctx context.Context) ([]domain.ModelResponse, error) {
	items, err := s.repo.FindAllModels(ctx, s.db)
	if err != nil {
		return nil, err
	}
	resp := make([]domain.ModelResponse, 0, len(items))
	for i := range items {
		resp = append(resp, toModelResponse(&items[i]))
	}
	return resp, nil
}

func (s *Service) GetModel(ctx context.Context, id string) (*domain.ModelResponse, error) {
	modelID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	item, err := s.repo.FindModelByID(ctx, s.db, modelID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	resp := toModelResponse(item)
	return &resp, nil
}

func (s *Service) UpdateModel(ctx context.Context, id string, req domain.UpdateNameRequest) (*domain.ModelResponse, error) {
	modelID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	item, err := s.repo.FindModelByID(ctx, s.db, modelID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}

	item.Name = name
	item.Slug = slug.Make(name)
	item.UpdatedAt = time.Now().UTC()
	if err := s.repo.UpdateModel(ctx, s.db, item); err != nil {
		return nil, err
	}
	resp := toModelResponse(item)
	return &resp, nil
}

func (s *Service) DeleteModel(ctx context.Context, id string) error {
	modelID, err := parseID(id)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.deleteProductsTx(ctx, tx, &productdomain.Product{ModelID: modelID}); err != nil {
			return err
		}
		return s.repo.DeleteModel(ctx, tx, modelID)
	})
}

func parseID(raw string) (int64, error) {
	parsed, err := snowflake.ParseString(strings.TrimSpace(raw))
	if err != nil {
		return 0, domain.ErrInvalidID
	}
	return parsed.Int64(), nil
}

func toCategoryResponse(c *domain.Category) domain.CategoryResponse {
	return domain.CategoryResponse{
		ID:        snowflake.ID(c.ID).String(),
		Name:      c.Name,
		Slug:      c.Slug,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func toSubcategoryResponse(sc *domain.Subcategory) domain.SubcategoryResponse {
	return domain.SubcategoryResponse{
		ID:         snowflake.ID(sc.ID).String(),
		Name:       sc.Name,
		Slug:       sc.Slug,
		CategoryID: snowflake.ID(sc.CategoryID).String(),
		CreatedAt:  sc.CreatedAt,
		UpdatedAt:  sc.UpdatedAt,
	}
}

func toBrandResponse(b *domain.Brand) domain.BrandResponse {
	return domain.BrandResponse{
		ID:            snowflake.ID(b.ID).String(),
		Name:          b.Name,
		Slug:          b.Slug,
		SubcategoryID: snowflake.ID(b.SubcategoryID).String(),
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

func toModelResponse(m *domain.ProductModel) domain.ModelResponse {
	return domain.ModelResponse{
		ID:            snowflake.ID(m.ID).String(),
		Name:          m.Name,
		Slug:          m.Slug,
		BrandID:       snowflake.ID(m.BrandID).String(),
		SubcategoryID: snowflake.ID(m.SubcategoryID).String(),
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/storenow/backoffice/internal/catalog"
	catalogdomain "github.com/storenow/backoffice/internal/catalog/domain"
	"github.com/storenow/backoffice/internal/config"
	"github.com/storenow/backoffice/internal/export"
	"github.com/storenow/backoffice/internal/inventory"
	inventorydomain "github.com/storenow/backoffice/internal/inventory/domain"
	"github.com/storenow/backoffice/internal/notification"
	"github.com/storenow/backoffice/internal/observability"
	obsmiddleware "github.com/storenow/backoffice/internal/observability/logger"
	obsmetrics "github.com/storenow/backoffice/internal/observability/metrics"
	obstracing "github.com/storenow/backoffice/internal/observability/tracing"
	"github.com/storenow/backoffice/internal/order"
	orderdomain "github.com/storenow/backoffice/internal/order/domain"
	"github.com/storenow/backoffice/internal/outbox"
	"github.com/storenow/backoffice/internal/product"
	productdomain "github.com/storenow/backoffice/internal/product/domain"
	"github.com/storenow/backoffice/internal/purchase"
	purchasedomain "github.com/storenow/backoffice/internal/purchase/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	outbox.Module,
	catalog.Module,
	inventory.Module,
	purchase.Module,
	product.Module,
	order.Module,
	export.Module,
	notification.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine       *gin.Engine
	cfg          config.Config
	db           *gorm.DB
	genID        *snowflake.Node
	catalogSvc   catalogdomain.Service
	productSvc   productdomain.Service
	stockSvc     inventorydomain.Service
	orderSvc     orderdomain.Service
	exportSvc    export.Service
	purchaseRepo purchasedomain.Repository
}

type ServerParams struct {
	fx.In

	Gin          *gin.Engine
	Cfg          config.Config
	DB           *gorm.DB
	GenID        *snowflake.Node
	CatalogSvc   catalogdomain.Service
	ProductSvc   productdomain.Service
	StockSvc     inventorydomain.Service
	OrderSvc     orderdomain.Service
	ExportSvc    export.Service
	PurchaseRepo purchasedomain.Repository
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:       p.Gin,
		cfg:          p.Cfg,
		db:           p.DB,
		genID:        p.GenID,
		catalogSvc:   p.CatalogSvc,
		productSvc:   p.ProductSvc,
		stockSvc:     p.StockSvc,
		orderSvc:     p.OrderSvc,
		exportSvc:    p.ExportSvc,
		purchaseRepo: p.PurchaseRepo,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	// -------- Catalog --------
	api.GET("/categories", s.ListCategories)
	api.POST("/categories", s.CreateCategory)
	api.GET("/categories/:id", s.GetCategoryByID)
	api.PUT("/categories/:id", s.UpdateCategory)
	api.DELETE("/categories/:id", s.DeleteCategory)
	api.GET("/categories/:id/subcategories", s.ListSubcategoriesByCategory)

	api.GET("/subcategories", s.ListSubcategories)
	api.POST("/subcategories", s.CreateSubcategory)
	api.GET("/subcategories/:id", s.GetSubcategoryByID)
	api.PUT("/subcategories/:id", s.UpdateSubcategory)
	api.DELETE("/subcategories/:id", s.DeleteSubcategory)

	api.GET("/brands", s.ListBrands)
	api.POST("/brands", s.CreateBrand)
	api.GET("/brands/:id", s.GetBrandByID)
	api.PUT("/brands/:id", s.UpdateBrand)
	api.DELETE("/brands/:id", s.DeleteBrand)

	api.GET("/models", s.ListModels)
	api.POST("/models", s.CreateModel)
	api.GET("/models/:id", s.GetModelByID)
	api.PUT("/models/:id", s.UpdateModel)
	api.DELETE("/models/:id", s.DeleteModel)

	// -------- Products --------
	api.GET("/products", s.ListProducts)
	api.POST("/products", s.CreateProduct)
	api.GET("/products/:id", s.GetProductByID)
	api.PUT("/products/:id", s.UpdateProduct)
	api.DELETE("/products/:id", s.DeleteProduct)
	api.GET("/products/:id/history", s.GetProductHistory)

	// -------- Stocks --------
	api.GET("/stocks", s.ListStocks)
	api.GET("/stocks/:id", s.GetStockByID)
	api.POST("/stocks/restock", s.RestockStocks)

	// -------- Purchases --------
	api.GET("/purchases", s.ListPurchases)

	// -------- Orders --------
	api.GET("/orders", s.ListOrders)
	api.POST("/orders", s.CreateOrder)
	api.GET("/orders/:id", s.GetOrderByID)
	api.PUT("/orders/:id", s.UpdateOrder)
	api.DELETE("/orders/:id", s.DeleteOrder)
	api.PUT("/orders/:id/paid", s.MarkOrderPaid)

	// -------- Buyer-facing web app --------
	api.GET("/webapp", s.WebAppProduct)
	api.POST("/webapp", s.WebAppOrder)
	api.GET("/payment/:order_id", s.PaymentDetails)
	api.POST("/payment/:order_id", s.SubmitPayment)

	// -------- Exports --------
	api.GET("/exports/:file", s.ExportFile)
}

package migration

import (
	catalogdomain "github.com/storenow/backoffice/internal/catalog/domain"
	"github.com/storenow/backoffice/internal/config"
	inventorydomain "github.com/storenow/backoffice/internal/inventory/domain"
	orderdomain "github.com/storenow/backoffice/internal/order/domain"
	outboxdomain "github.com/storenow/backoffice/internal/outbox/domain"
	productdomain "github.com/storenow/backoffice/internal/product/domain"
	purchasedomain "github.com/storenow/backoffice/internal/purchase/domain"
	"github.com/storenow/backoffice/internal/seed"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			// sqlite and mysql are developer conveniences; gorm builds
			// their schema from the models.
			if err := conn.AutoMigrate(
				&catalogdomain.Category{},
				&catalogdomain.Subcategory{},
				&catalogdomain.Brand{},
				&catalogdomain.ProductModel{},
				&productdomain.Product{},
				&inventorydomain.Stock{},
				&purchasedomain.Purchase{},
				&orderdomain.Order{},
				&outboxdomain.Event{},
			); err != nil {
				return err
			}
		}

		return seed.EnsureDefaultCatalog(conn)
	}),
)

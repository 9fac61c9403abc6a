package inventory

import (
	"github.com/storenow/backoffice/internal/inventory/repository"
	"github.com/storenow/backoffice/internal/inventory/service"
	"go.uber.org/fx"
)

var Module = fx.Module("inventory.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)

package catalog

import (
	"github.com/storenow/backoffice/internal/catalog/repository"
	"github.com/storenow/backoffice/internal/catalog/service"
	"go.uber.org/fx"
)

var Module = fx.Module("catalog.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)

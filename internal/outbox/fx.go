package outbox

import (
	"github.com/storenow/backoffice/internal/outbox/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("outbox",
	fx.Provide(repository.Provide),
)

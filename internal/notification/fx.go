package notification

import (
	"github.com/storenow/backoffice/internal/notification/service"
	"github.com/storenow/backoffice/internal/notification/telegram"
	"go.uber.org/fx"
)

var Module = fx.Module("notification",
	fx.Provide(telegram.NewSender),
	fx.Provide(service.New),
	fx.Invoke(func(*service.Dispatcher) {}),
)

package components

import (
	"coffee-orders/internal/handler"
	"coffee-orders/internal/handler/api"
	"coffee-orders/internal/pkg/config"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		func(cfg config.Config) config.WebhookConfig { return cfg.Webhook },
		api.NewOrderHandler,
		api.NewSlotHandler,
		api.NewWebhookHandler,
	),
	fx.Invoke(handler.NewRouter),
)

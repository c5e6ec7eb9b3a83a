package components

import (
	repo_impl "coffee-orders/internal/infra/repository"
	"coffee-orders/internal/infra/uow"
	"coffee-orders/internal/usecase/commands"
	"coffee-orders/internal/usecase/queries"

	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		uow.NewPostgresUoW,
		fx.Annotate(
			repo_impl.NewSlotRepository,
			fx.As(new(commands.SlotRepository)),
			fx.As(new(queries.SlotViewRepo)),
		),
		fx.Annotate(
			repo_impl.NewHoldRepository,
			fx.As(new(commands.HoldRepository)),
		),
		fx.Annotate(
			repo_impl.NewOrderRepository,
			fx.As(new(commands.OrderRepository)),
			fx.As(new(queries.OrderViewRepo)),
		),
		fx.Annotate(
			repo_impl.NewWebhookEventRepository,
			fx.As(new(commands.WebhookEventRepository)),
			fx.As(new(queries.WebhookEventViewRepo)),
		),
	),
)

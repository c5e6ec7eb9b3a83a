package components

import (
	"coffee-orders/internal/pkg/clock"
	"coffee-orders/internal/pkg/config"
	"coffee-orders/internal/usecase/commands"
	"coffee-orders/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseCommandsModule,
	usecaseQueriesModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	func(cfg config.Config) config.SlotsConfig { return cfg.Slots },
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewOrderUseCase,
		commands.NewSlotUseCase,
		commands.NewSlotAssignmentUseCase,
		commands.NewPaymentUseCase,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewOrderQueries,
		queries.NewSlotQueries,
		queries.NewWebhookEventQueries,
	),
)

package components

import (
	"food-rescue-api/internal/domain/reservation"
	"food-rescue-api/internal/pkg/clock"
	"food-rescue-api/internal/pkg/config"
	"food-rescue-api/internal/usecase"
	"food-rescue-api/internal/usecase/commands"
	"food-rescue-api/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseValidatorsModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	func(cfg config.Config) (reservation.CodeGenerator, error) {
		return reservation.NewRandomCodeGenerator(cfg.PickupCode.Alphabet, cfg.PickupCode.Length)
	},
	reservation.NewFactory,
	func(cfg config.Config) commands.Options {
		return commands.Options{
			RestockOnCancel:  cfg.Reservation.RestockOnCancel,
			OneActivePerUser: cfg.Reservation.OneActivePerUser,
		}
	},
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewReservationUseCase,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		func(repo queries.ReservationViewRepo, cfg config.Config) queries.ReservationQueries {
			return queries.NewReservationQueries(repo, cfg.Reservation.ListLimit)
		},
	),
)

var usecaseValidatorsModule = fx.Module("usecase/validators",
	fx.Provide(
		usecase.NewTokenValidator,
	),
)

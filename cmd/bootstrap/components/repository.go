package components

import (
	"food-rescue-api/internal/infra/readstore"
	"food-rescue-api/internal/infra/uow"
	"food-rescue-api/internal/usecase/queries"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		// UnitOfWork: write side, one transaction per command
		uow.NewPostgresUoW,
		// Read-side repository for queries
		fx.Annotate(
			func(pool *pgxpool.Pool) *readstore.ReservationReadStore {
				return readstore.NewReservationReadStore(pool)
			},
			fx.As(new(queries.ReservationViewRepo)),
		),
	),
)

package components

import (
	"food-rescue-api/internal/handler"
	"food-rescue-api/internal/handler/api"
	"food-rescue-api/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewReservationHandler,
		middleware.NewAuthMiddleware,
	),
	fx.Invoke(handler.NewRouter),
)

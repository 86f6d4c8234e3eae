package order

import (
	"github.com/smallbiznis/paydocs/internal/order/repository"
	"github.com/smallbiznis/paydocs/internal/order/service"
	"go.uber.org/fx"
)

var Module = fx.Module("order.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)

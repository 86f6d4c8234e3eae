package taxtable

import (
	"github.com/smallbiznis/paydocs/internal/taxtable/service"
	"go.uber.org/fx"
)

var Module = fx.Module("taxtable.service",
	fx.Provide(service.NewService),
)

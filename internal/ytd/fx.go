package ytd

import (
	"github.com/smallbiznis/paydocs/internal/ytd/repository"
	"github.com/smallbiznis/paydocs/internal/ytd/service"
	"go.uber.org/fx"
)

var Module = fx.Module("ytd.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)

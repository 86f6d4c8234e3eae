package session

import (
	"github.com/smallbiznis/paydocs/internal/session/repository"
	"github.com/smallbiznis/paydocs/internal/session/service"
	"go.uber.org/fx"
)

var Module = fx.Module("session.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)

package document

import (
	"github.com/smallbiznis/paydocs/internal/document/repository"
	"github.com/smallbiznis/paydocs/internal/document/service"
	"go.uber.org/fx"
)

var Module = fx.Module("document.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)

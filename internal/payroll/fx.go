package payroll

import (
	"github.com/smallbiznis/paydocs/internal/payroll/service"
	"github.com/smallbiznis/paydocs/internal/taxtable"
	"go.uber.org/fx"
)

var Module = fx.Module("payroll.service",
	taxtable.Module,
	fx.Provide(service.NewService),
)

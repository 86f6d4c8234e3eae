package domain

import (
	"context"

	payrolldomain "github.com/smallbiznis/paydocs/internal/payroll/domain"
)

type Repository interface {
	GetByKey(ctx context.Context, employeeTaxID, employerEIN string, year int) (*YtdTotals, error)
	LatestByKey(ctx context.Context, employeeTaxID, employerEIN string) (*YtdTotals, error)
	Save(ctx context.Context, totals *YtdTotals) error
}

// Service serializes advances per (employee, employer, year) key.
// Advances for different keys proceed independently. An Advance into a
// year the key has never seen fails with ErrYearBoundaryCrossed when
// another year already holds totals; StartYear is the explicit way
// across.
type Service interface {
	Get(ctx context.Context, employeeTaxID, employerEIN string, year int) (YtdTotals, error)
	Latest(ctx context.Context, employeeTaxID, employerEIN string) (YtdTotals, error)
	Advance(ctx context.Context, employeeTaxID, employerEIN string, result payrolldomain.WithholdingResult, period payrolldomain.PayPeriod) (YtdTotals, error)
	StartYear(ctx context.Context, employeeTaxID, employerEIN string, result payrolldomain.WithholdingResult, period payrolldomain.PayPeriod) (YtdTotals, error)
}

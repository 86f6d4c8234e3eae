// Package domain contains the year-to-date accumulation model.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	payrolldomain "github.com/smallbiznis/paydocs/internal/payroll/domain"
)

// YtdTotals is the running total for one (employee, employer, year) key.
// Totals only move forward in pay-date order; every field is
// monotonically non-decreasing within a year.
type YtdTotals struct {
	ID            snowflake.ID `gorm:"primaryKey"`
	EmployeeTaxID string       `gorm:"column:employee_tax_id;type:text;not null;uniqueIndex:ux_ytd_key,priority:1"`
	EmployerEIN   string       `gorm:"column:employer_ein;type:text;not null;uniqueIndex:ux_ytd_key,priority:2"`
	Year          int          `gorm:"not null;uniqueIndex:ux_ytd_key,priority:3"`

	GrossYtdCents          int64 `gorm:"not null;default:0"`
	FederalYtdCents        int64 `gorm:"not null;default:0"`
	StateYtdCents          int64 `gorm:"not null;default:0"`
	LocalYtdCents          int64 `gorm:"not null;default:0"`
	SocialSecurityYtdCents int64 `gorm:"not null;default:0"`
	MedicareYtdCents       int64 `gorm:"not null;default:0"`
	NetYtdCents            int64 `gorm:"not null;default:0"`

	LastPayDate time.Time `gorm:"not null"`
	CreatedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (YtdTotals) TableName() string { return "ytd_totals" }

// PriorTotals projects the slice of state the payroll calculator needs.
func (y YtdTotals) PriorTotals() payrolldomain.PriorYearTotals {
	return payrolldomain.PriorYearTotals{
		GrossCents:          y.GrossYtdCents,
		SocialSecurityCents: y.SocialSecurityYtdCents,
	}
}

// Advance folds one period result into the prior totals. Periods must
// arrive in strictly increasing pay-date order; a period dated in a
// different calendar year is rejected, never silently summed.
func Advance(prior YtdTotals, result payrolldomain.WithholdingResult, period payrolldomain.PayPeriod) (YtdTotals, error) {
	if err := period.Validate(); err != nil {
		return YtdTotals{}, err
	}

	if prior.Year != 0 && period.PayDate.Year() != prior.Year {
		return YtdTotals{}, ErrYearBoundaryCrossed
	}
	if !prior.LastPayDate.IsZero() && !period.PayDate.After(prior.LastPayDate) {
		return YtdTotals{}, ErrOutOfOrderPeriod
	}

	next := prior
	next.Year = period.PayDate.Year()
	next.GrossYtdCents += result.GrossCents
	next.FederalYtdCents += result.FederalTaxCents
	next.StateYtdCents += result.StateTaxCents
	next.LocalYtdCents += result.LocalTaxCents
	next.SocialSecurityYtdCents += result.SocialSecurityCents
	next.MedicareYtdCents += result.MedicareCents
	next.NetYtdCents += result.NetPayCents
	next.LastPayDate = period.PayDate

	return next, nil
}

// Seed builds the first totals row of a new year from a single period.
// Callers use it after an explicit year-boundary decision; Advance never
// resets on its own.
func Seed(employeeTaxID, employerEIN string, result payrolldomain.WithholdingResult, period payrolldomain.PayPeriod) YtdTotals {
	return YtdTotals{
		EmployeeTaxID:          employeeTaxID,
		EmployerEIN:            employerEIN,
		Year:                   period.PayDate.Year(),
		GrossYtdCents:          result.GrossCents,
		FederalYtdCents:        result.FederalTaxCents,
		StateYtdCents:          result.StateTaxCents,
		LocalYtdCents:          result.LocalTaxCents,
		SocialSecurityYtdCents: result.SocialSecurityCents,
		MedicareYtdCents:       result.MedicareCents,
		NetYtdCents:            result.NetPayCents,
		LastPayDate:            period.PayDate,
	}
}

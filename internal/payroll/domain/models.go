// Package domain defines the pay-period calculation types. All money is
// int64 cents.
package domain

import (
	"time"

	taxdomain "github.com/smallbiznis/paydocs/internal/taxtable/domain"
)

// PayFrequency determines how a per-period amount annualizes.
type PayFrequency string

const (
	PayFrequencyWeekly      PayFrequency = "weekly"
	PayFrequencyBiweekly    PayFrequency = "biweekly"
	PayFrequencySemimonthly PayFrequency = "semimonthly"
	PayFrequencyMonthly     PayFrequency = "monthly"
)

// PeriodsPerYear returns the annualization factor, or 0 for an unknown
// frequency.
func (f PayFrequency) PeriodsPerYear() int {
	switch f {
	case PayFrequencyWeekly:
		return 52
	case PayFrequencyBiweekly:
		return 26
	case PayFrequencySemimonthly:
		return 24
	case PayFrequencyMonthly:
		return 12
	}
	return 0
}

// PayPeriod is one pay window. Immutable once a document is finalized.
type PayPeriod struct {
	StartDate time.Time    `json:"start_date"`
	EndDate   time.Time    `json:"end_date"`
	PayDate   time.Time    `json:"pay_date"`
	Frequency PayFrequency `json:"frequency"`
}

func (p PayPeriod) Validate() error {
	if p.Frequency.PeriodsPerYear() == 0 {
		return ErrInvalidInput
	}
	if p.StartDate.IsZero() || p.EndDate.IsZero() || p.PayDate.IsZero() {
		return ErrInvalidInput
	}
	if p.EndDate.Before(p.StartDate) || p.PayDate.Before(p.StartDate) {
		return ErrInvalidInput
	}
	return nil
}

// EmployeeProfile identifies the worker and the rules that apply to them.
type EmployeeProfile struct {
	Name         string                 `json:"name"`
	Address      string                 `json:"address"`
	TaxID        string                 `json:"tax_id"`
	FilingStatus taxdomain.FilingStatus `json:"filing_status"`
	Allowances   int                    `json:"allowances"`
	Jurisdiction taxdomain.Jurisdiction `json:"jurisdiction"`
}

func (e EmployeeProfile) Validate() error {
	if e.Name == "" || e.TaxID == "" {
		return ErrInvalidInput
	}
	if !e.FilingStatus.Valid() {
		return ErrInvalidInput
	}
	if e.Allowances < 0 {
		return ErrInvalidInput
	}
	return nil
}

// EmployerProfile identifies the paying entity.
type EmployerProfile struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	EIN     string `json:"ein"`
}

func (e EmployerProfile) Validate() error {
	if e.Name == "" || e.EIN == "" {
		return ErrInvalidInput
	}
	return nil
}

// GrossPayInput is the user-supplied earnings for one pay period.
type GrossPayInput struct {
	RegularHours  float64          `json:"regular_hours"`
	OvertimeHours float64          `json:"overtime_hours"`
	RateCents     int64            `json:"rate_cents"`
	BonusCents    int64            `json:"bonus_cents"`
	OtherEarnings map[string]int64 `json:"other_earnings,omitempty"`
}

func (g GrossPayInput) Validate() error {
	if g.RegularHours < 0 || g.OvertimeHours < 0 || g.RateCents < 0 || g.BonusCents < 0 {
		return ErrInvalidInput
	}
	for _, v := range g.OtherEarnings {
		if v < 0 {
			return ErrInvalidInput
		}
	}
	return nil
}

// GrossCents totals the earnings for the period.
func (g GrossPayInput) GrossCents() int64 {
	gross := roundCents(g.RegularHours*float64(g.RateCents)) +
		roundCents(g.OvertimeHours*float64(g.RateCents)*1.5) +
		g.BonusCents
	for _, v := range g.OtherEarnings {
		gross += v
	}
	return gross
}

func roundCents(v float64) int64 {
	return int64(v + 0.5)
}

// PriorYearTotals is the slice of year-to-date state the calculator needs
// to apply the wage base and the additional-Medicare floor.
type PriorYearTotals struct {
	GrossCents          int64 `json:"gross_cents"`
	SocialSecurityCents int64 `json:"social_security_cents"`
}

// WithholdingResult is derived output only; it is recomputed from its
// inputs on every change and never edited directly.
type WithholdingResult struct {
	GrossCents          int64            `json:"gross_cents"`
	FederalTaxCents     int64            `json:"federal_tax_cents"`
	StateTaxCents       int64            `json:"state_tax_cents"`
	LocalTaxCents       int64            `json:"local_tax_cents"`
	SocialSecurityCents int64            `json:"social_security_cents"`
	MedicareCents       int64            `json:"medicare_cents"`
	OtherDeductions     map[string]int64 `json:"other_deductions,omitempty"`
	NetPayCents         int64            `json:"net_pay_cents"`
}

// WithheldCents sums every withholding and deduction line.
func (r WithholdingResult) WithheldCents() int64 {
	total := r.FederalTaxCents + r.StateTaxCents + r.LocalTaxCents + r.SocialSecurityCents + r.MedicareCents
	for _, v := range r.OtherDeductions {
		total += v
	}
	return total
}

package service

import (
	"context"
	"math"

	payrolldomain "github.com/smallbiznis/paydocs/internal/payroll/domain"
	taxdomain "github.com/smallbiznis/paydocs/internal/taxtable/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Service struct {
	log    *zap.Logger
	tables taxdomain.Service
}

type ServiceParam struct {
	fx.In

	Log    *zap.Logger
	Tables taxdomain.Service
}

func NewService(p ServiceParam) payrolldomain.Service {
	return &Service{
		log:    p.Log.Named("payroll.service"),
		tables: p.Tables,
	}
}

// Compute derives the withholding for one pay period. The result is a
// pure function of the request and the statutory tables; the net pay
// identity gross == net + sum(withholdings) holds exactly because net is
// produced by subtraction of the individually rounded lines.
func (s *Service) Compute(ctx context.Context, req payrolldomain.ComputeRequest) (payrolldomain.WithholdingResult, error) {
	var zero payrolldomain.WithholdingResult

	if err := req.Gross.Validate(); err != nil {
		return zero, err
	}
	if err := req.Employee.Validate(); err != nil {
		return zero, err
	}
	if err := req.Employer.Validate(); err != nil {
		return zero, err
	}
	if err := req.Period.Validate(); err != nil {
		return zero, err
	}
	for _, v := range req.OtherDeductions {
		if v < 0 {
			return zero, payrolldomain.ErrInvalidInput
		}
	}
	if req.PriorYtd.GrossCents < 0 || req.PriorYtd.SocialSecurityCents < 0 {
		return zero, payrolldomain.ErrInvalidInput
	}

	gross := req.Gross.GrossCents()
	year := req.Period.PayDate.Year()
	periods := int64(req.Period.Frequency.PeriodsPerYear())

	federal, err := s.federalTax(year, req.Employee, gross, periods)
	if err != nil {
		return zero, err
	}

	state, err := s.jurisdictionTax(year, req.Employee.Jurisdiction, gross, periods)
	if err != nil {
		return zero, err
	}

	local, err := s.localTax(year, req.Employee.Jurisdiction.Locality, gross, periods)
	if err != nil {
		return zero, err
	}

	fica, err := s.tables.FICA(year)
	if err != nil {
		return zero, err
	}

	socialSecurity := socialSecurityTax(fica, gross, req.PriorYtd.SocialSecurityCents)
	medicare := medicareTax(fica, gross, req.PriorYtd.GrossCents)

	result := payrolldomain.WithholdingResult{
		GrossCents:          gross,
		FederalTaxCents:     federal,
		StateTaxCents:       state,
		LocalTaxCents:       local,
		SocialSecurityCents: socialSecurity,
		MedicareCents:       medicare,
		OtherDeductions:     req.OtherDeductions,
	}
	result.NetPayCents = gross - result.WithheldCents()

	if result.NetPayCents < 0 {
		return zero, payrolldomain.ErrInvalidInput
	}

	return result, nil
}

// federalTax annualizes the period gross, applies the standard-deduction
// proxy and allowances, runs the marginal brackets, and de-annualizes.
func (s *Service) federalTax(year int, employee payrolldomain.EmployeeProfile, gross, periods int64) (int64, error) {
	brackets, err := s.tables.FederalBrackets(year, employee.FilingStatus)
	if err != nil {
		return 0, err
	}
	deduction, err := s.tables.StandardDeduction(year, employee.FilingStatus)
	if err != nil {
		return 0, err
	}
	allowance, err := s.tables.AllowanceAmount(year)
	if err != nil {
		return 0, err
	}

	taxable := gross*periods - deduction - int64(employee.Allowances)*allowance
	return deannualize(brackets.TaxCents(taxable), periods), nil
}

func (s *Service) jurisdictionTax(year int, j taxdomain.Jurisdiction, gross, periods int64) (int64, error) {
	brackets, err := s.tables.StateBrackets(year, j.State)
	if err != nil {
		return 0, err
	}
	return deannualize(brackets.TaxCents(gross*periods), periods), nil
}

func (s *Service) localTax(year int, locality taxdomain.LocalityCode, gross, periods int64) (int64, error) {
	brackets, err := s.tables.LocalBrackets(year, locality)
	if err != nil {
		return 0, err
	}
	return deannualize(brackets.TaxCents(gross*periods), periods), nil
}

// socialSecurityTax withholds the flat rate until cumulative withholding
// for the year reaches rate x wage base; the crossing period is prorated
// and later periods withhold nothing.
func socialSecurityTax(fica taxdomain.FICARates, gross, priorWithheld int64) int64 {
	annualCap := round(fica.SocialSecurityRate * float64(fica.SocialSecurityWageBaseCents))
	remaining := annualCap - priorWithheld
	if remaining <= 0 {
		return 0
	}

	tax := round(fica.SocialSecurityRate * float64(gross))
	if tax > remaining {
		return remaining
	}
	return tax
}

// medicareTax applies the flat rate to all gross, plus the additional
// rate to only the portion of this period that sits above the YTD floor.
func medicareTax(fica taxdomain.FICARates, gross, priorGross int64) int64 {
	tax := round(fica.MedicareRate * float64(gross))

	floor := fica.AdditionalMedicareFloorCents
	if priorGross+gross > floor {
		over := priorGross + gross - floor
		if over > gross {
			over = gross
		}
		tax += round(fica.AdditionalMedicareRate * float64(over))
	}
	return tax
}

func deannualize(annualTax, periods int64) int64 {
	if periods <= 0 {
		return 0
	}
	return round(float64(annualTax) / float64(periods))
}

func round(v float64) int64 {
	return int64(math.Round(v))
}

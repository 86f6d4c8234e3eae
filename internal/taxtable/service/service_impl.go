package service

import (
	"github.com/smallbiznis/paydocs/internal/config"
	"github.com/smallbiznis/paydocs/internal/taxtable/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Service struct {
	log     *zap.Logger
	payroll *config.PayrollConfigHolder
}

type ServiceParam struct {
	fx.In

	Log     *zap.Logger
	Payroll *config.PayrollConfigHolder
}

func NewService(p ServiceParam) domain.Service {
	return &Service{
		log:     p.Log.Named("taxtable.service"),
		payroll: p.Payroll,
	}
}

func (s *Service) FederalBrackets(year int, status domain.FilingStatus) (domain.BracketSchedule, error) {
	if !status.Valid() {
		return nil, domain.ErrInvalidFilingStatus
	}
	t, ok := tablesByYear[year]
	if !ok {
		return nil, domain.ErrYearNotSupported
	}
	return t.federal[status], nil
}

func (s *Service) StandardDeduction(year int, status domain.FilingStatus) (int64, error) {
	if !status.Valid() {
		return 0, domain.ErrInvalidFilingStatus
	}
	t, ok := tablesByYear[year]
	if !ok {
		return 0, domain.ErrYearNotSupported
	}
	return t.standardDeduction[status], nil
}

func (s *Service) AllowanceAmount(year int) (int64, error) {
	t, ok := tablesByYear[year]
	if !ok {
		return 0, domain.ErrYearNotSupported
	}
	return t.allowanceCents, nil
}

func (s *Service) StateBrackets(year int, state domain.StateCode) (domain.BracketSchedule, error) {
	t, ok := tablesByYear[year]
	if !ok {
		return nil, domain.ErrYearNotSupported
	}
	schedule, ok := t.states[state]
	if !ok {
		return nil, domain.ErrJurisdictionNotSupported
	}
	return schedule, nil
}

func (s *Service) LocalBrackets(year int, locality domain.LocalityCode) (domain.BracketSchedule, error) {
	if locality == domain.LocalityNone {
		return domain.BracketSchedule{}, nil
	}
	t, ok := tablesByYear[year]
	if !ok {
		return nil, domain.ErrYearNotSupported
	}
	schedule, ok := t.localities[locality]
	if !ok {
		return nil, domain.ErrJurisdictionNotSupported
	}
	return schedule, nil
}

func (s *Service) FICA(year int) (domain.FICARates, error) {
	t, ok := tablesByYear[year]
	if !ok {
		return domain.FICARates{}, domain.ErrYearNotSupported
	}

	rates := t.fica
	if s.payroll != nil {
		if o, found := s.payroll.Override(year); found {
			s.log.Info("applying payroll rate override", zap.Int("year", year))
			if o.SocialSecurityRate > 0 {
				rates.SocialSecurityRate = o.SocialSecurityRate
			}
			if o.SocialSecurityWageBaseCents > 0 {
				rates.SocialSecurityWageBaseCents = o.SocialSecurityWageBaseCents
			}
			if o.MedicareRate > 0 {
				rates.MedicareRate = o.MedicareRate
			}
			if o.AdditionalMedicareRate > 0 {
				rates.AdditionalMedicareRate = o.AdditionalMedicareRate
			}
			if o.AdditionalMedicareFloor > 0 {
				rates.AdditionalMedicareFloorCents = o.AdditionalMedicareFloor
			}
		}
	}
	return rates, nil
}

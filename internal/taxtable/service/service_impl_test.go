package service

import (
	"testing"

	appconfig "github.com/smallbiznis/paydocs/internal/config"
	"github.com/smallbiznis/paydocs/internal/taxtable/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTables(t *testing.T) domain.Service {
	t.Helper()

	holder, err := appconfig.NewPayrollConfigHolder()
	require.NoError(t, err)

	return NewService(ServiceParam{Log: zap.NewNop(), Payroll: holder})
}

func TestFederalBrackets(t *testing.T) {
	svc := newTables(t)

	t.Run("supported year and status", func(t *testing.T) {
		brackets, err := svc.FederalBrackets(2024, domain.FilingStatusSingle)
		require.NoError(t, err)
		require.NotEmpty(t, brackets)
		assert.Equal(t, 0.10, brackets[0].Rate)
		assert.Equal(t, int64(0), brackets[len(brackets)-1].CeilingCents)
	})

	t.Run("unsupported year", func(t *testing.T) {
		_, err := svc.FederalBrackets(2019, domain.FilingStatusSingle)
		assert.ErrorIs(t, err, domain.ErrYearNotSupported)
	})

	t.Run("invalid filing status", func(t *testing.T) {
		_, err := svc.FederalBrackets(2024, domain.FilingStatus("divorced"))
		assert.ErrorIs(t, err, domain.ErrInvalidFilingStatus)
	})
}

func TestStandardDeduction(t *testing.T) {
	svc := newTables(t)

	deduction, err := svc.StandardDeduction(2024, domain.FilingStatusSingle)
	require.NoError(t, err)
	assert.Equal(t, int64(1_460_000), deduction)

	deduction, err = svc.StandardDeduction(2025, domain.FilingStatusMarriedJoint)
	require.NoError(t, err)
	assert.Equal(t, int64(3_000_000), deduction)

	_, err = svc.StandardDeduction(2024, domain.FilingStatus(""))
	assert.ErrorIs(t, err, domain.ErrInvalidFilingStatus)
}

func TestStateBrackets(t *testing.T) {
	svc := newTables(t)

	t.Run("no-income-tax state returns empty schedule", func(t *testing.T) {
		brackets, err := svc.StateBrackets(2024, domain.StateTX)
		require.NoError(t, err)
		assert.Empty(t, brackets)
		assert.Equal(t, int64(0), brackets.TaxCents(10_000_000))
	})

	t.Run("flat-rate state", func(t *testing.T) {
		brackets, err := svc.StateBrackets(2024, domain.StatePA)
		require.NoError(t, err)
		require.Len(t, brackets, 1)
		assert.Equal(t, 0.0307, brackets[0].Rate)
	})

	t.Run("unknown state rejected, not defaulted to zero", func(t *testing.T) {
		_, err := svc.StateBrackets(2024, domain.StateCode("WA"))
		assert.ErrorIs(t, err, domain.ErrJurisdictionNotSupported)
	})

	t.Run("unsupported year", func(t *testing.T) {
		_, err := svc.StateBrackets(2030, domain.StateCA)
		assert.ErrorIs(t, err, domain.ErrYearNotSupported)
	})
}

func TestLocalBrackets(t *testing.T) {
	svc := newTables(t)

	t.Run("no locality means no local tax", func(t *testing.T) {
		brackets, err := svc.LocalBrackets(2024, domain.LocalityNone)
		require.NoError(t, err)
		assert.Empty(t, brackets)
	})

	t.Run("known locality", func(t *testing.T) {
		brackets, err := svc.LocalBrackets(2024, domain.LocalityNYC)
		require.NoError(t, err)
		assert.NotEmpty(t, brackets)
	})

	t.Run("unknown locality", func(t *testing.T) {
		_, err := svc.LocalBrackets(2024, domain.LocalityCode("YONKERS"))
		assert.ErrorIs(t, err, domain.ErrJurisdictionNotSupported)
	})
}

func TestFICA(t *testing.T) {
	t.Run("compiled-in figures", func(t *testing.T) {
		svc := newTables(t)

		rates, err := svc.FICA(2024)
		require.NoError(t, err)
		assert.Equal(t, 0.062, rates.SocialSecurityRate)
		assert.Equal(t, int64(16_860_000), rates.SocialSecurityWageBaseCents)
		assert.Equal(t, 0.0145, rates.MedicareRate)

		rates, err = svc.FICA(2025)
		require.NoError(t, err)
		assert.Equal(t, int64(17_610_000), rates.SocialSecurityWageBaseCents)

		_, err = svc.FICA(1999)
		assert.ErrorIs(t, err, domain.ErrYearNotSupported)
	})

	t.Run("config override replaces only the fields it sets", func(t *testing.T) {
		holder := appconfig.NewStaticPayrollConfigHolder(appconfig.PayrollConfig{
			RateOverrides: []appconfig.RateOverride{
				{Year: 2025, SocialSecurityWageBaseCents: 18_000_000},
			},
		})
		svc := NewService(ServiceParam{Log: zap.NewNop(), Payroll: holder})

		rates, err := svc.FICA(2025)
		require.NoError(t, err)
		assert.Equal(t, int64(18_000_000), rates.SocialSecurityWageBaseCents)
		assert.Equal(t, 0.062, rates.SocialSecurityRate)
		assert.Equal(t, 0.0145, rates.MedicareRate)

		// Years without an override keep the compiled-in figures.
		rates, err = svc.FICA(2024)
		require.NoError(t, err)
		assert.Equal(t, int64(16_860_000), rates.SocialSecurityWageBaseCents)
	})
}

func TestBracketScheduleTaxCents(t *testing.T) {
	schedule := domain.BracketSchedule{
		{FloorCents: 0, CeilingCents: 100_000, Rate: 0.10},
		{FloorCents: 100_000, CeilingCents: 0, Rate: 0.20},
	}

	assert.Equal(t, int64(0), schedule.TaxCents(0))
	assert.Equal(t, int64(0), schedule.TaxCents(-5))
	assert.Equal(t, int64(5_000), schedule.TaxCents(50_000))
	assert.Equal(t, int64(10_000), schedule.TaxCents(100_000))
	assert.Equal(t, int64(30_000), schedule.TaxCents(200_000))
}

package service

import (
	"context"
	"testing"
	"time"

	appconfig "github.com/smallbiznis/paydocs/internal/config"
	payrolldomain "github.com/smallbiznis/paydocs/internal/payroll/domain"
	taxdomain "github.com/smallbiznis/paydocs/internal/taxtable/domain"
	taxservice "github.com/smallbiznis/paydocs/internal/taxtable/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newCalculator(t *testing.T) payrolldomain.Service {
	t.Helper()

	holder, err := appconfig.NewPayrollConfigHolder()
	require.NoError(t, err)

	tables := taxservice.NewService(taxservice.ServiceParam{
		Log:     zap.NewNop(),
		Payroll: holder,
	})
	return NewService(ServiceParam{Log: zap.NewNop(), Tables: tables})
}

func biweeklyPeriod(payDate time.Time) payrolldomain.PayPeriod {
	return payrolldomain.PayPeriod{
		StartDate: payDate.AddDate(0, 0, -13),
		EndDate:   payDate.AddDate(0, 0, -1),
		PayDate:   payDate,
		Frequency: payrolldomain.PayFrequencyBiweekly,
	}
}

func weeklyPeriod(payDate time.Time) payrolldomain.PayPeriod {
	return payrolldomain.PayPeriod{
		StartDate: payDate.AddDate(0, 0, -6),
		EndDate:   payDate.AddDate(0, 0, -1),
		PayDate:   payDate,
		Frequency: payrolldomain.PayFrequencyWeekly,
	}
}

func testEmployee(state taxdomain.StateCode, locality taxdomain.LocalityCode) payrolldomain.EmployeeProfile {
	return payrolldomain.EmployeeProfile{
		Name:         "Jordan Reyes",
		Address:      "12 Main St",
		TaxID:        "123-45-6789",
		FilingStatus: taxdomain.FilingStatusSingle,
		Jurisdiction: taxdomain.Jurisdiction{State: state, Locality: locality},
	}
}

func testEmployer() payrolldomain.EmployerProfile {
	return payrolldomain.EmployerProfile{
		Name:    "Acme Staffing LLC",
		Address: "500 Market St",
		EIN:     "12-3456789",
	}
}

func salaried(cents int64) payrolldomain.GrossPayInput {
	return payrolldomain.GrossPayInput{BonusCents: cents}
}

func TestComputeBiweeklyNoStateTax(t *testing.T) {
	calc := newCalculator(t)

	result, err := calc.Compute(context.Background(), payrolldomain.ComputeRequest{
		Gross:    salaried(200_000),
		Employee: testEmployee(taxdomain.StateTX, taxdomain.LocalityNone),
		Employer: testEmployer(),
		Period:   biweeklyPeriod(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)),
	})
	require.NoError(t, err)

	assert.Equal(t, int64(200_000), result.GrossCents)
	assert.Equal(t, int64(16_369), result.FederalTaxCents)
	assert.Equal(t, int64(0), result.StateTaxCents)
	assert.Equal(t, int64(0), result.LocalTaxCents)
	assert.Equal(t, int64(12_400), result.SocialSecurityCents)
	assert.Equal(t, int64(2_900), result.MedicareCents)
	assert.Equal(t, int64(168_331), result.NetPayCents)
}

func TestComputeCaliforniaBrackets(t *testing.T) {
	calc := newCalculator(t)

	result, err := calc.Compute(context.Background(), payrolldomain.ComputeRequest{
		Gross:    salaried(200_000),
		Employee: testEmployee(taxdomain.StateCA, taxdomain.LocalityNone),
		Employer: testEmployer(),
		Period:   biweeklyPeriod(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)),
	})
	require.NoError(t, err)

	assert.Equal(t, int64(6_704), result.StateTaxCents)
	assert.Equal(t, int64(0), result.LocalTaxCents)
}

func TestComputePennsylvaniaFlatRate(t *testing.T) {
	calc := newCalculator(t)

	result, err := calc.Compute(context.Background(), payrolldomain.ComputeRequest{
		Gross:    salaried(200_000),
		Employee: testEmployee(taxdomain.StatePA, taxdomain.LocalityNone),
		Employer: testEmployer(),
		Period:   biweeklyPeriod(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)),
	})
	require.NoError(t, err)

	// 3.07% of the annualized gross, de-annualized.
	assert.Equal(t, int64(6_140), result.StateTaxCents)
}

func TestComputeNewYorkCityLocality(t *testing.T) {
	calc := newCalculator(t)

	result, err := calc.Compute(context.Background(), payrolldomain.ComputeRequest{
		Gross:    salaried(200_000),
		Employee: testEmployee(taxdomain.StateNY, taxdomain.LocalityNYC),
		Employer: testEmployer(),
		Period:   biweeklyPeriod(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)),
	})
	require.NoError(t, err)

	assert.Equal(t, int64(10_365), result.StateTaxCents)
	assert.Equal(t, int64(7_273), result.LocalTaxCents)
}

func TestComputeNetPayIdentity(t *testing.T) {
	calc := newCalculator(t)

	result, err := calc.Compute(context.Background(), payrolldomain.ComputeRequest{
		Gross: payrolldomain.GrossPayInput{
			RegularHours:  80,
			OvertimeHours: 7.5,
			RateCents:     3_250,
			BonusCents:    15_000,
			OtherEarnings: map[string]int64{"commission": 42_17},
		},
		Employee:        testEmployee(taxdomain.StateCA, taxdomain.LocalityNone),
		Employer:        testEmployer(),
		Period:          biweeklyPeriod(time.Date(2024, 6, 7, 0, 0, 0, 0, time.UTC)),
		OtherDeductions: map[string]int64{"401k": 10_000, "dental": 1_250},
	})
	require.NoError(t, err)

	assert.Equal(t, result.GrossCents, result.NetPayCents+result.WithheldCents())
}

func TestComputeFederalMonotonic(t *testing.T) {
	calc := newCalculator(t)

	prev := int64(-1)
	for gross := int64(50_000); gross <= 2_000_000; gross += 50_000 {
		result, err := calc.Compute(context.Background(), payrolldomain.ComputeRequest{
			Gross:    salaried(gross),
			Employee: testEmployee(taxdomain.StateTX, taxdomain.LocalityNone),
			Employer: testEmployer(),
			Period:   biweeklyPeriod(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)),
		})
		require.NoError(t, err)
		assert.GreaterOrEqual(t, result.FederalTaxCents, prev, "federal tax decreased at gross %d", gross)
		prev = result.FederalTaxCents
	}
}

func TestSocialSecurityWageBaseCap(t *testing.T) {
	calc := newCalculator(t)

	// round(0.062 x 16_860_000) = 1_045_320 is the most that can be
	// withheld in 2024.
	t.Run("crossing period prorates", func(t *testing.T) {
		result, err := calc.Compute(context.Background(), payrolldomain.ComputeRequest{
			Gross:    salaried(600_000),
			Employee: testEmployee(taxdomain.StateTX, taxdomain.LocalityNone),
			Employer: testEmployer(),
			Period:   weeklyPeriod(time.Date(2024, 8, 2, 0, 0, 0, 0, time.UTC)),
			PriorYtd: payrolldomain.PriorYearTotals{
				GrossCents:          16_800_000,
				SocialSecurityCents: 1_041_600,
			},
		})
		require.NoError(t, err)
		assert.Equal(t, int64(3_720), result.SocialSecurityCents)
	})

	t.Run("after the cap nothing is withheld", func(t *testing.T) {
		result, err := calc.Compute(context.Background(), payrolldomain.ComputeRequest{
			Gross:    salaried(600_000),
			Employee: testEmployee(taxdomain.StateTX, taxdomain.LocalityNone),
			Employer: testEmployer(),
			Period:   weeklyPeriod(time.Date(2024, 8, 9, 0, 0, 0, 0, time.UTC)),
			PriorYtd: payrolldomain.PriorYearTotals{
				GrossCents:          17_400_000,
				SocialSecurityCents: 1_045_320,
			},
		})
		require.NoError(t, err)
		assert.Equal(t, int64(0), result.SocialSecurityCents)
	})

	t.Run("cumulative withholding never exceeds the cap", func(t *testing.T) {
		var grossYtd, ssYtd int64
		payDate := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)

		for i := 0; i < 30; i++ {
			result, err := calc.Compute(context.Background(), payrolldomain.ComputeRequest{
				Gross:    salaried(600_000),
				Employee: testEmployee(taxdomain.StateTX, taxdomain.LocalityNone),
				Employer: testEmployer(),
				Period:   weeklyPeriod(payDate),
				PriorYtd: payrolldomain.PriorYearTotals{
					GrossCents:          grossYtd,
					SocialSecurityCents: ssYtd,
				},
			})
			require.NoError(t, err)

			grossYtd += result.GrossCents
			ssYtd += result.SocialSecurityCents
			payDate = payDate.AddDate(0, 0, 7)
		}
		assert.Equal(t, int64(1_045_320), ssYtd)
	})
}

func TestAdditionalMedicareAboveFloor(t *testing.T) {
	calc := newCalculator(t)

	// Only the 50_000 cents above the 200k dollar YTD floor picks up the
	// additional 0.9%.
	result, err := calc.Compute(context.Background(), payrolldomain.ComputeRequest{
		Gross:    salaried(100_000),
		Employee: testEmployee(taxdomain.StateTX, taxdomain.LocalityNone),
		Employer: testEmployer(),
		Period:   weeklyPeriod(time.Date(2024, 10, 4, 0, 0, 0, 0, time.UTC)),
		PriorYtd: payrolldomain.PriorYearTotals{
			GrossCents:          19_950_000,
			SocialSecurityCents: 1_045_320,
		},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1_450+450), result.MedicareCents)
}

func TestComputeRejectsUnsupportedJurisdiction(t *testing.T) {
	calc := newCalculator(t)

	_, err := calc.Compute(context.Background(), payrolldomain.ComputeRequest{
		Gross:    salaried(200_000),
		Employee: testEmployee(taxdomain.StateCode("WA"), taxdomain.LocalityNone),
		Employer: testEmployer(),
		Period:   biweeklyPeriod(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)),
	})
	assert.ErrorIs(t, err, taxdomain.ErrJurisdictionNotSupported)
}

func TestComputeRejectsUnsupportedYear(t *testing.T) {
	calc := newCalculator(t)

	_, err := calc.Compute(context.Background(), payrolldomain.ComputeRequest{
		Gross:    salaried(200_000),
		Employee: testEmployee(taxdomain.StateTX, taxdomain.LocalityNone),
		Employer: testEmployer(),
		Period:   biweeklyPeriod(time.Date(2019, 3, 15, 0, 0, 0, 0, time.UTC)),
	})
	assert.ErrorIs(t, err, taxdomain.ErrYearNotSupported)
}

func TestComputeRejectsInvalidInput(t *testing.T) {
	calc := newCalculator(t)

	t.Run("negative hours", func(t *testing.T) {
		_, err := calc.Compute(context.Background(), payrolldomain.ComputeRequest{
			Gross:    payrolldomain.GrossPayInput{RegularHours: -1, RateCents: 1000},
			Employee: testEmployee(taxdomain.StateTX, taxdomain.LocalityNone),
			Employer: testEmployer(),
			Period:   biweeklyPeriod(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)),
		})
		assert.ErrorIs(t, err, payrolldomain.ErrInvalidInput)
	})

	t.Run("other deductions exceeding gross", func(t *testing.T) {
		_, err := calc.Compute(context.Background(), payrolldomain.ComputeRequest{
			Gross:           salaried(10_000),
			Employee:        testEmployee(taxdomain.StateTX, taxdomain.LocalityNone),
			Employer:        testEmployer(),
			Period:          biweeklyPeriod(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)),
			OtherDeductions: map[string]int64{"garnishment": 50_000},
		})
		assert.ErrorIs(t, err, payrolldomain.ErrInvalidInput)
	})

	t.Run("missing employee name", func(t *testing.T) {
		_, err := calc.Compute(context.Background(), payrolldomain.ComputeRequest{
			Gross:    salaried(10_000),
			Employee: payrolldomain.EmployeeProfile{TaxID: "1", FilingStatus: taxdomain.FilingStatusSingle},
			Employer: testEmployer(),
			Period:   biweeklyPeriod(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)),
		})
		assert.ErrorIs(t, err, payrolldomain.ErrInvalidInput)
	})
}

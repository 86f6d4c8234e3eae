package service

import (
	"context"
	"testing"
	"time"

	appconfig "github.com/smallbiznis/paydocs/internal/config"
	documentdomain "github.com/smallbiznis/paydocs/internal/document/domain"
	payrolldomain "github.com/smallbiznis/paydocs/internal/payroll/domain"
	taxdomain "github.com/smallbiznis/paydocs/internal/taxtable/domain"
	taxservice "github.com/smallbiznis/paydocs/internal/taxtable/service"
	ytddomain "github.com/smallbiznis/paydocs/internal/ytd/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newAssembler(t *testing.T) documentdomain.Assembler {
	t.Helper()

	holder, err := appconfig.NewPayrollConfigHolder()
	require.NoError(t, err)

	tables := taxservice.NewService(taxservice.ServiceParam{
		Log:     zap.NewNop(),
		Payroll: holder,
	})
	return NewService(ServiceParam{Log: zap.NewNop(), Tables: tables})
}

func testEmployee() payrolldomain.EmployeeProfile {
	return payrolldomain.EmployeeProfile{
		Name:         "Jordan Reyes",
		Address:      "12 Main St",
		TaxID:        "123-45-6789",
		FilingStatus: taxdomain.FilingStatusSingle,
		Jurisdiction: taxdomain.Jurisdiction{State: taxdomain.StateCA},
	}
}

func testEmployer() payrolldomain.EmployerProfile {
	return payrolldomain.EmployerProfile{
		Name:    "Acme Staffing LLC",
		Address: "500 Market St",
		EIN:     "12-3456789",
	}
}

func testPeriod() payrolldomain.PayPeriod {
	payDate := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	return payrolldomain.PayPeriod{
		StartDate: payDate.AddDate(0, 0, -13),
		EndDate:   payDate.AddDate(0, 0, -1),
		PayDate:   payDate,
		Frequency: payrolldomain.PayFrequencyBiweekly,
	}
}

func TestAssemblePaystub(t *testing.T) {
	svc := newAssembler(t)

	gross := payrolldomain.GrossPayInput{
		RegularHours:  80,
		RateCents:     2_500,
		BonusCents:    10_000,
		OtherEarnings: map[string]int64{"commission": 5_000, "allowance": 2_000},
	}
	result := payrolldomain.WithholdingResult{
		GrossCents:          gross.GrossCents(),
		FederalTaxCents:     20_000,
		StateTaxCents:       5_000,
		SocialSecurityCents: 13_454,
		MedicareCents:       3_147,
		OtherDeductions:     map[string]int64{"401k": 8_000},
		NetPayCents:         gross.GrossCents() - 20_000 - 5_000 - 13_454 - 3_147 - 8_000,
	}

	payload, err := svc.AssemblePaystub(context.Background(), documentdomain.PaystubInputs{
		Employee: testEmployee(),
		Employer: testEmployer(),
		Period:   testPeriod(),
		Gross:    gross,
		Result:   result,
		Totals:   ytddomain.YtdTotals{GrossYtdCents: 1_000_000, NetYtdCents: 750_000},
	})
	require.NoError(t, err)

	// Regular, Bonus, then the other earnings in label order.
	require.Len(t, payload.Earnings, 4)
	assert.Equal(t, documentdomain.Line{Label: "Regular", AmountCents: 200_000}, payload.Earnings[0])
	assert.Equal(t, documentdomain.Line{Label: "Bonus", AmountCents: 10_000}, payload.Earnings[1])
	assert.Equal(t, documentdomain.Line{Label: "allowance", AmountCents: 2_000}, payload.Earnings[2])
	assert.Equal(t, documentdomain.Line{Label: "commission", AmountCents: 5_000}, payload.Earnings[3])

	require.Len(t, payload.Deductions, 6)
	assert.Equal(t, documentdomain.Line{Label: "401k", AmountCents: 8_000}, payload.Deductions[5])

	require.Len(t, payload.YtdLines, 7)
	assert.Equal(t, documentdomain.Line{Label: "Gross YTD", AmountCents: 1_000_000}, payload.YtdLines[0])

	// Displayed lines reconcile exactly with gross and net.
	var earned, withheld int64
	for _, line := range payload.Earnings {
		earned += line.AmountCents
	}
	for _, line := range payload.Deductions {
		withheld += line.AmountCents
	}
	assert.Equal(t, payload.GrossCents, earned)
	assert.Equal(t, payload.GrossCents-withheld, payload.NetCents)
}

func TestAssemblePaystubRejectsMismatchedResult(t *testing.T) {
	svc := newAssembler(t)

	gross := payrolldomain.GrossPayInput{BonusCents: 100_000}

	// A result computed from different earnings must not be displayed.
	_, err := svc.AssemblePaystub(context.Background(), documentdomain.PaystubInputs{
		Employee: testEmployee(),
		Employer: testEmployer(),
		Period:   testPeriod(),
		Gross:    gross,
		Result:   payrolldomain.WithholdingResult{GrossCents: 99_000, NetPayCents: 90_000},
	})
	assert.ErrorIs(t, err, documentdomain.ErrIncompleteInputs)
}

func TestAssemblePaystubRejectsMissingProfiles(t *testing.T) {
	svc := newAssembler(t)

	_, err := svc.AssemblePaystub(context.Background(), documentdomain.PaystubInputs{
		Employer: testEmployer(),
		Period:   testPeriod(),
		Gross:    payrolldomain.GrossPayInput{BonusCents: 100_000},
		Result:   payrolldomain.WithholdingResult{GrossCents: 100_000},
	})
	assert.ErrorIs(t, err, documentdomain.ErrIncompleteInputs)
}

func TestAssembleW2(t *testing.T) {
	svc := newAssembler(t)

	totals := ytddomain.YtdTotals{
		Year:                   2024,
		GrossYtdCents:          5_000_000,
		FederalYtdCents:        800_000,
		StateYtdCents:          250_000,
		SocialSecurityYtdCents: 310_000,
		MedicareYtdCents:       72_500,
	}

	payload, err := svc.AssembleW2(context.Background(), documentdomain.W2Inputs{
		Employee: testEmployee(),
		Employer: testEmployer(),
		Totals:   totals,
	})
	require.NoError(t, err)

	assert.Equal(t, 2024, payload.Year)
	assert.Equal(t, int64(5_000_000), payload.Box1WagesCents)
	assert.Equal(t, int64(800_000), payload.Box2FederalWithheldCents)
	assert.Equal(t, int64(5_000_000), payload.Box3SocialSecurityWages)
	assert.Equal(t, int64(5_000_000), payload.Box5MedicareWagesCents)
	assert.Equal(t, int64(250_000), payload.Box17StateWithheldCents)

	// No local tax withheld means no local wages reported.
	assert.Equal(t, int64(0), payload.Box18LocalWagesCents)
	assert.Equal(t, int64(0), payload.Box19LocalWithheldCents)
}

func TestAssembleW2CapsSocialSecurityWages(t *testing.T) {
	svc := newAssembler(t)

	payload, err := svc.AssembleW2(context.Background(), documentdomain.W2Inputs{
		Employee: testEmployee(),
		Employer: testEmployer(),
		Totals: ytddomain.YtdTotals{
			Year:                   2024,
			GrossYtdCents:          20_000_000,
			SocialSecurityYtdCents: 1_045_320,
			LocalYtdCents:          100_000,
		},
	})
	require.NoError(t, err)

	// Box 3 stops at the wage base; boxes 1 and 5 do not.
	assert.Equal(t, int64(20_000_000), payload.Box1WagesCents)
	assert.Equal(t, int64(16_860_000), payload.Box3SocialSecurityWages)
	assert.Equal(t, int64(20_000_000), payload.Box5MedicareWagesCents)
	assert.Equal(t, int64(20_000_000), payload.Box18LocalWagesCents)
}

func TestAssembleW2RejectsEmptyYear(t *testing.T) {
	svc := newAssembler(t)

	_, err := svc.AssembleW2(context.Background(), documentdomain.W2Inputs{
		Employee: testEmployee(),
		Employer: testEmployer(),
		Totals:   ytddomain.YtdTotals{GrossYtdCents: 5_000_000},
	})
	assert.ErrorIs(t, err, documentdomain.ErrIncompleteInputs)
}

func TestAssemble1099(t *testing.T) {
	svc := newAssembler(t)

	t.Run("valid", func(t *testing.T) {
		payload, err := svc.Assemble1099(context.Background(), documentdomain.Form1099Inputs{
			Payer:                testEmployer(),
			Recipient:            testEmployee(),
			Year:                 2024,
			NonemployeeCompCents: 2_500_000,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(2_500_000), payload.NonemployeeCompCents)
	})

	t.Run("zero compensation rejected", func(t *testing.T) {
		_, err := svc.Assemble1099(context.Background(), documentdomain.Form1099Inputs{
			Payer:     testEmployer(),
			Recipient: testEmployee(),
			Year:      2024,
		})
		assert.ErrorIs(t, err, documentdomain.ErrIncompleteInputs)
	})
}

func TestAssembleTaxReturn(t *testing.T) {
	svc := newAssembler(t)

	w2 := documentdomain.W2Payload{
		Year:                     2024,
		Box1WagesCents:           5_200_000,
		Box2FederalWithheldCents: 500_000,
	}

	t.Run("refund when withholding exceeds tax", func(t *testing.T) {
		payload, err := svc.AssembleTaxReturn(context.Background(), documentdomain.TaxReturnInputs{
			Taxpayer: testEmployee(),
			Year:     2024,
			W2s:      []documentdomain.W2Payload{w2},
		})
		require.NoError(t, err)

		// Standard deduction applies when none is declared.
		assert.Equal(t, int64(1_460_000), payload.DeductionsCents)
		assert.Equal(t, int64(3_740_000), payload.TaxableIncomeCents)
		// 10% of 1_160_000 plus 12% of the rest.
		assert.Equal(t, int64(425_600), payload.EstimatedTaxCents)
		assert.Equal(t, int64(74_400), payload.RefundCents)
		assert.Equal(t, int64(0), payload.OwedCents)
	})

	t.Run("balance owed when withholding falls short", func(t *testing.T) {
		payload, err := svc.AssembleTaxReturn(context.Background(), documentdomain.TaxReturnInputs{
			Taxpayer: testEmployee(),
			Year:     2024,
			W2s:      []documentdomain.W2Payload{{Year: 2024, Box1WagesCents: 5_200_000, Box2FederalWithheldCents: 100_000}},
		})
		require.NoError(t, err)
		assert.Equal(t, int64(0), payload.RefundCents)
		assert.Equal(t, int64(325_600), payload.OwedCents)
	})

	t.Run("1099 income is added with no withholding", func(t *testing.T) {
		payload, err := svc.AssembleTaxReturn(context.Background(), documentdomain.TaxReturnInputs{
			Taxpayer: testEmployee(),
			Year:     2024,
			W2s:      []documentdomain.W2Payload{w2},
			Form1099s: []documentdomain.Form1099Payload{
				{Year: 2024, NonemployeeCompCents: 1_000_000},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, int64(6_200_000), payload.TotalIncomeCents)
		assert.Equal(t, int64(500_000), payload.TotalWithheldCents)
	})

	t.Run("credits reduce the estimate, floored at zero", func(t *testing.T) {
		payload, err := svc.AssembleTaxReturn(context.Background(), documentdomain.TaxReturnInputs{
			Taxpayer: testEmployee(),
			Year:     2024,
			W2s:      []documentdomain.W2Payload{w2},
			CreditsCents: 10_000_000,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(0), payload.EstimatedTaxCents)
		assert.Equal(t, int64(500_000), payload.RefundCents)
	})

	t.Run("deductions above income floor taxable at zero", func(t *testing.T) {
		payload, err := svc.AssembleTaxReturn(context.Background(), documentdomain.TaxReturnInputs{
			Taxpayer:        testEmployee(),
			Year:            2024,
			W2s:             []documentdomain.W2Payload{w2},
			DeductionsCents: 9_000_000,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(0), payload.TaxableIncomeCents)
		assert.Equal(t, int64(0), payload.EstimatedTaxCents)
	})

	t.Run("mismatched form year rejected", func(t *testing.T) {
		_, err := svc.AssembleTaxReturn(context.Background(), documentdomain.TaxReturnInputs{
			Taxpayer: testEmployee(),
			Year:     2025,
			W2s:      []documentdomain.W2Payload{w2},
		})
		assert.ErrorIs(t, err, documentdomain.ErrIncompleteInputs)
	})

	t.Run("no forms rejected", func(t *testing.T) {
		_, err := svc.AssembleTaxReturn(context.Background(), documentdomain.TaxReturnInputs{
			Taxpayer: testEmployee(),
			Year:     2024,
		})
		assert.ErrorIs(t, err, documentdomain.ErrIncompleteInputs)
	})
}

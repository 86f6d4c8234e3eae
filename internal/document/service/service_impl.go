package service

import (
	"context"
	"sort"

	documentdomain "github.com/smallbiznis/paydocs/internal/document/domain"
	taxdomain "github.com/smallbiznis/paydocs/internal/taxtable/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Service assembles document payloads from completed calculations. It
// never mutates its inputs and never persists anything itself.
type Service struct {
	log    *zap.Logger
	tables taxdomain.Service
}

type ServiceParam struct {
	fx.In

	Log    *zap.Logger
	Tables taxdomain.Service
}

func NewService(p ServiceParam) documentdomain.Assembler {
	return &Service{
		log:    p.Log.Named("document.service"),
		tables: p.Tables,
	}
}

func (s *Service) AssemblePaystub(ctx context.Context, in documentdomain.PaystubInputs) (documentdomain.PaystubPayload, error) {
	if err := in.Employee.Validate(); err != nil {
		return documentdomain.PaystubPayload{}, documentdomain.ErrIncompleteInputs
	}
	if err := in.Employer.Validate(); err != nil {
		return documentdomain.PaystubPayload{}, documentdomain.ErrIncompleteInputs
	}
	if err := in.Period.Validate(); err != nil {
		return documentdomain.PaystubPayload{}, documentdomain.ErrIncompleteInputs
	}
	if in.Result.GrossCents == 0 || in.Result.GrossCents != in.Gross.GrossCents() {
		return documentdomain.PaystubPayload{}, documentdomain.ErrIncompleteInputs
	}

	earnings := make([]documentdomain.Line, 0, 3+len(in.Gross.OtherEarnings))
	if cents := roundCents(in.Gross.RegularHours * float64(in.Gross.RateCents)); cents > 0 {
		earnings = append(earnings, documentdomain.Line{Label: "Regular", AmountCents: cents})
	}
	if cents := roundCents(in.Gross.OvertimeHours * float64(in.Gross.RateCents) * 1.5); cents > 0 {
		earnings = append(earnings, documentdomain.Line{Label: "Overtime", AmountCents: cents})
	}
	if in.Gross.BonusCents > 0 {
		earnings = append(earnings, documentdomain.Line{Label: "Bonus", AmountCents: in.Gross.BonusCents})
	}
	earnings = append(earnings, sortedLines(in.Gross.OtherEarnings)...)

	deductions := []documentdomain.Line{
		{Label: "Federal Income Tax", AmountCents: in.Result.FederalTaxCents},
		{Label: "State Income Tax", AmountCents: in.Result.StateTaxCents},
		{Label: "Local Income Tax", AmountCents: in.Result.LocalTaxCents},
		{Label: "Social Security", AmountCents: in.Result.SocialSecurityCents},
		{Label: "Medicare", AmountCents: in.Result.MedicareCents},
	}
	deductions = append(deductions, sortedLines(in.Result.OtherDeductions)...)

	ytdLines := []documentdomain.Line{
		{Label: "Gross YTD", AmountCents: in.Totals.GrossYtdCents},
		{Label: "Federal YTD", AmountCents: in.Totals.FederalYtdCents},
		{Label: "State YTD", AmountCents: in.Totals.StateYtdCents},
		{Label: "Local YTD", AmountCents: in.Totals.LocalYtdCents},
		{Label: "Social Security YTD", AmountCents: in.Totals.SocialSecurityYtdCents},
		{Label: "Medicare YTD", AmountCents: in.Totals.MedicareYtdCents},
		{Label: "Net YTD", AmountCents: in.Totals.NetYtdCents},
	}

	return documentdomain.PaystubPayload{
		Employee:   in.Employee,
		Employer:   in.Employer,
		Period:     in.Period,
		Earnings:   earnings,
		Deductions: deductions,
		YtdLines:   ytdLines,
		GrossCents: in.Result.GrossCents,
		NetCents:   in.Result.NetPayCents,
	}, nil
}

func (s *Service) AssembleW2(ctx context.Context, in documentdomain.W2Inputs) (documentdomain.W2Payload, error) {
	if err := in.Employee.Validate(); err != nil {
		return documentdomain.W2Payload{}, documentdomain.ErrIncompleteInputs
	}
	if err := in.Employer.Validate(); err != nil {
		return documentdomain.W2Payload{}, documentdomain.ErrIncompleteInputs
	}
	if in.Totals.Year == 0 || in.Totals.GrossYtdCents == 0 {
		return documentdomain.W2Payload{}, documentdomain.ErrIncompleteInputs
	}

	fica, err := s.tables.FICA(in.Totals.Year)
	if err != nil {
		return documentdomain.W2Payload{}, err
	}

	ssWages := in.Totals.GrossYtdCents
	if ssWages > fica.SocialSecurityWageBaseCents {
		ssWages = fica.SocialSecurityWageBaseCents
	}

	return documentdomain.W2Payload{
		Year:     in.Totals.Year,
		Employee: in.Employee,
		Employer: in.Employer,

		Box1WagesCents:             in.Totals.GrossYtdCents,
		Box2FederalWithheldCents:   in.Totals.FederalYtdCents,
		Box3SocialSecurityWages:    ssWages,
		Box4SocialSecurityWithheld: in.Totals.SocialSecurityYtdCents,
		Box5MedicareWagesCents:     in.Totals.GrossYtdCents,
		Box6MedicareWithheldCents:  in.Totals.MedicareYtdCents,
		Box16StateWagesCents:       in.Totals.GrossYtdCents,
		Box17StateWithheldCents:    in.Totals.StateYtdCents,
		Box18LocalWagesCents:       localWages(in.Totals.GrossYtdCents, in.Totals.LocalYtdCents),
		Box19LocalWithheldCents:    in.Totals.LocalYtdCents,
	}, nil
}

func (s *Service) Assemble1099(ctx context.Context, in documentdomain.Form1099Inputs) (documentdomain.Form1099Payload, error) {
	if err := in.Payer.Validate(); err != nil {
		return documentdomain.Form1099Payload{}, documentdomain.ErrIncompleteInputs
	}
	if in.Recipient.Name == "" || in.Recipient.TaxID == "" {
		return documentdomain.Form1099Payload{}, documentdomain.ErrIncompleteInputs
	}
	if in.Year == 0 || in.NonemployeeCompCents <= 0 {
		return documentdomain.Form1099Payload{}, documentdomain.ErrIncompleteInputs
	}

	return documentdomain.Form1099Payload{
		Year:                 in.Year,
		Payer:                in.Payer,
		Recipient:            in.Recipient,
		NonemployeeCompCents: in.NonemployeeCompCents,
	}, nil
}

// AssembleTaxReturn summarizes a year from already-assembled W-2 and
// 1099 payloads. When no deductions are declared the standard deduction
// for the taxpayer's filing status applies.
func (s *Service) AssembleTaxReturn(ctx context.Context, in documentdomain.TaxReturnInputs) (documentdomain.TaxReturnPayload, error) {
	if err := in.Taxpayer.Validate(); err != nil {
		return documentdomain.TaxReturnPayload{}, documentdomain.ErrIncompleteInputs
	}
	if in.Year == 0 || (len(in.W2s) == 0 && len(in.Form1099s) == 0) {
		return documentdomain.TaxReturnPayload{}, documentdomain.ErrIncompleteInputs
	}
	if in.DeductionsCents < 0 || in.CreditsCents < 0 {
		return documentdomain.TaxReturnPayload{}, documentdomain.ErrIncompleteInputs
	}

	var income, withheld int64
	for _, w2 := range in.W2s {
		if w2.Year != in.Year {
			return documentdomain.TaxReturnPayload{}, documentdomain.ErrIncompleteInputs
		}
		income += w2.Box1WagesCents
		withheld += w2.Box2FederalWithheldCents
	}
	for _, f := range in.Form1099s {
		if f.Year != in.Year {
			return documentdomain.TaxReturnPayload{}, documentdomain.ErrIncompleteInputs
		}
		income += f.NonemployeeCompCents
	}

	deductions := in.DeductionsCents
	if deductions == 0 {
		std, err := s.tables.StandardDeduction(in.Year, in.Taxpayer.FilingStatus)
		if err != nil {
			return documentdomain.TaxReturnPayload{}, err
		}
		deductions = std
	}

	taxable := income - deductions
	if taxable < 0 {
		taxable = 0
	}

	brackets, err := s.tables.FederalBrackets(in.Year, in.Taxpayer.FilingStatus)
	if err != nil {
		return documentdomain.TaxReturnPayload{}, err
	}

	estimated := brackets.TaxCents(taxable) - in.CreditsCents
	if estimated < 0 {
		estimated = 0
	}

	payload := documentdomain.TaxReturnPayload{
		Year:               in.Year,
		Taxpayer:           in.Taxpayer,
		TotalIncomeCents:   income,
		TotalWithheldCents: withheld,
		DeductionsCents:    deductions,
		CreditsCents:       in.CreditsCents,
		TaxableIncomeCents: taxable,
		EstimatedTaxCents:  estimated,
	}
	if withheld >= estimated {
		payload.RefundCents = withheld - estimated
	} else {
		payload.OwedCents = estimated - withheld
	}
	return payload, nil
}

func sortedLines(amounts map[string]int64) []documentdomain.Line {
	if len(amounts) == 0 {
		return nil
	}
	labels := make([]string, 0, len(amounts))
	for label := range amounts {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	lines := make([]documentdomain.Line, 0, len(labels))
	for _, label := range labels {
		lines = append(lines, documentdomain.Line{Label: label, AmountCents: amounts[label]})
	}
	return lines
}

// localWages reports wages subject to local tax: zero when no local tax
// was ever withheld, full wages otherwise.
func localWages(grossCents, localCents int64) int64 {
	if localCents == 0 {
		return 0
	}
	return grossCents
}

func roundCents(v float64) int64 {
	return int64(v + 0.5)
}

package domain

import "context"

// ComputeRequest bundles everything a single pay-period calculation
// depends on. The calculator is pure over this input and the tax tables.
type ComputeRequest struct {
	Gross           GrossPayInput
	Employee        EmployeeProfile
	Employer        EmployerProfile
	Period          PayPeriod
	OtherDeductions map[string]int64
	PriorYtd        PriorYearTotals
}

type Service interface {
	Compute(ctx context.Context, req ComputeRequest) (WithholdingResult, error)
}

package payroll

import "context"

type PayslipService interface {
	GenerateForEmployee(ctx context.Context, req GeneratePayslipRequest) (GenerateResult, error)
	// GenerateForCompany runs every active employee with an effective
	// assignment; individual failures are reported, not raised.
	GenerateForCompany(ctx context.Context, req GenerateCompanyPayrollRequest) (BatchResult, error)
	Preview(ctx context.Context, employeeID string, period Period) (Breakdown, error)
	Get(ctx context.Context, id string) (PayslipResponse, error)
	ListForEmployee(ctx context.Context, employeeID string) ([]PayslipResponse, error)
	Submit(ctx context.Context, id string) error
	// Cancel voids a submitted payslip. Cancelled slips keep their rows but
	// no longer block regeneration for the period.
	Cancel(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	Summary(ctx context.Context, period Period) (PayrollSummaryResponse, error)
}

package payroll

import (
	"github.com/shopspring/decimal"
)

// ========== GENERATION DTOs ==========

type GeneratePayslipRequest struct {
	EmployeeID string `json:"-"`
	Period     Period `json:"period"`
	Submit     bool   `json:"submit"`
}

func (r *GeneratePayslipRequest) Validate() error {
	return r.Period.Validate()
}

type GenerateCompanyPayrollRequest struct {
	Period Period `json:"period"`
	Submit bool   `json:"submit"`
}

func (r *GenerateCompanyPayrollRequest) Validate() error {
	return r.Period.Validate()
}

// ========== BREAKDOWN ==========

type BreakdownLine struct {
	Name   string          `json:"name"`
	Abbr   string          `json:"abbr"`
	Amount decimal.Decimal `json:"amount"`
}

// Breakdown - the full calculation result. Identical for preview and
// generation; generation persists it as a payslip. Deductions include the
// loss-of-pay line, so Net = Gross - TotalDeductions.
type Breakdown struct {
	EmployeeID       string          `json:"employee_id"`
	PeriodMonth      int             `json:"period_month"`
	PeriodYear       int             `json:"period_year"`
	TotalWorkingDays decimal.Decimal `json:"total_working_days"`
	PaymentDays      decimal.Decimal `json:"payment_days"`
	LOPDays          decimal.Decimal `json:"lop_days"`
	Earnings         []BreakdownLine `json:"earnings"`
	Deductions       []BreakdownLine `json:"deductions"`
	Gross            decimal.Decimal `json:"gross"`
	LOPAmount        decimal.Decimal `json:"lop_amount"`
	AdjustedGross    decimal.Decimal `json:"adjusted_gross"`
	TotalDeductions  decimal.Decimal `json:"total_deductions"`
	Net              decimal.Decimal `json:"net"`
	Warnings         []string        `json:"warnings,omitempty"`
}

// Earning returns the amount of the earning line with the given abbr.
func (b Breakdown) Earning(abbr string) (decimal.Decimal, bool) {
	for _, l := range b.Earnings {
		if l.Abbr == abbr {
			return l.Amount, true
		}
	}
	return decimal.Zero, false
}

// Deduction returns the amount of the deduction line with the given abbr.
func (b Breakdown) Deduction(abbr string) (decimal.Decimal, bool) {
	for _, l := range b.Deductions {
		if l.Abbr == abbr {
			return l.Amount, true
		}
	}
	return decimal.Zero, false
}

// ========== PAYSLIP DTOs ==========

type GenerateResult struct {
	PayslipID string    `json:"payslip_id"`
	Status    string    `json:"status"`
	Breakdown Breakdown `json:"breakdown"`
}

type PayslipResponse struct {
	ID               string          `json:"id"`
	EmployeeID       string          `json:"employee_id"`
	EmployeeName     *string         `json:"employee_name,omitempty"`
	PeriodMonth      int             `json:"period_month"`
	PeriodYear       int             `json:"period_year"`
	Status           string          `json:"status"`
	TotalWorkingDays decimal.Decimal `json:"total_working_days"`
	PaymentDays      decimal.Decimal `json:"payment_days"`
	LOPDays          decimal.Decimal `json:"lop_days"`
	Earnings         []BreakdownLine `json:"earnings"`
	Deductions       []BreakdownLine `json:"deductions"`
	Gross            decimal.Decimal `json:"gross"`
	TotalDeductions  decimal.Decimal `json:"total_deductions"`
	Net              decimal.Decimal `json:"net"`
	TemplateRef      *string         `json:"template_ref,omitempty"`
	CreatedAt        string          `json:"created_at"`
}

// ========== BATCH DTOs ==========

type BatchCreated struct {
	EmployeeID string `json:"employee_id"`
	PayslipID  string `json:"payslip_id"`
}

type BatchFailure struct {
	EmployeeID string `json:"employee_id"`
	Kind       string `json:"kind"` // configuration_error, already_exists, validation_error, internal
	Message    string `json:"message"`
}

// BatchResult - per-employee outcomes of a company-wide run. A failure never
// aborts the batch, so re-running after fixes only fills the gaps.
type BatchResult struct {
	PeriodMonth int            `json:"period_month"`
	PeriodYear  int            `json:"period_year"`
	Created     []BatchCreated `json:"created"`
	Failed      []BatchFailure `json:"failed"`
}

// ========== SUMMARY DTOs ==========

type PayrollSummaryResponse struct {
	PeriodMonth     int             `json:"period_month"`
	PeriodYear      int             `json:"period_year"`
	TotalEmployees  int             `json:"total_employees"`
	TotalGross      decimal.Decimal `json:"total_gross"`
	TotalDeductions decimal.Decimal `json:"total_deductions"`
	TotalNet        decimal.Decimal `json:"total_net"`
	DraftCount      int             `json:"draft_count"`
	SubmittedCount  int             `json:"submitted_count"`
}

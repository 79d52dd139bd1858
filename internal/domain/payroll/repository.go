package payroll

import (
	"context"
	"time"
)

// PayrollRepository defines data access for salary definitions and payslips.
type PayrollRepository interface {
	// Components
	CreateComponent(ctx context.Context, component SalaryComponent) (SalaryComponent, error)
	GetComponentByAbbr(ctx context.Context, abbr string) (SalaryComponent, error)

	// Structures
	CreateStructure(ctx context.Context, structure SalaryStructure, componentIDs []string) (SalaryStructure, error)
	GetStructureByID(ctx context.Context, id string) (SalaryStructure, error)

	// Assignments
	CreateAssignment(ctx context.Context, assignment StructureAssignment) (StructureAssignment, error)
	// GetEffectiveAssignment returns the latest assignment of the employee
	// with from_date on or before asOf, with its structure and components
	// loaded in declared order.
	GetEffectiveAssignment(ctx context.Context, employeeID string, asOf time.Time) (StructureAssignment, error)

	// Payslips
	CreatePayslip(ctx context.Context, slip Payslip) (Payslip, error)
	GetPayslipByID(ctx context.Context, id string) (Payslip, error)
	GetPayslipByEmployeePeriod(ctx context.Context, employeeID string, month, year int) (Payslip, error)
	ListPayslipsByEmployee(ctx context.Context, employeeID string) ([]Payslip, error)
	UpdatePayslipStatus(ctx context.Context, id string, status PayslipStatus) error
	DeletePayslip(ctx context.Context, id string) error
	GetPayrollSummary(ctx context.Context, month, year int) (PayrollSummaryResponse, error)

	// Professional tax
	GetPTSlabs(ctx context.Context) (map[string][]PTSlab, error)
	ReplacePTSlabs(ctx context.Context, state string, slabs []PTSlab) error
}

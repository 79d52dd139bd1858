package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// ComponentKind enum
type ComponentKind string

const (
	ComponentKindEarning   ComponentKind = "earning"
	ComponentKindDeduction ComponentKind = "deduction"
)

// StatutoryCategory enum. Deduction components with a category other than
// "none" are computed by the statutory rules instead of a formula or amount.
type StatutoryCategory string

const (
	StatutoryNone            StatutoryCategory = "none"
	StatutoryProfessionalTax StatutoryCategory = "professional_tax"
	StatutoryProvidentFund   StatutoryCategory = "provident_fund"
	StatutoryESI             StatutoryCategory = "esi"
	StatutoryTDS             StatutoryCategory = "tds"
)

// SalaryComponent - one earning or deduction line definition. Exactly one of
// Formula and Amount drives a non-statutory component: a formula is evaluated
// over {base, payment_days, total_working_days, prior earning abbrs}; a fixed
// amount is prorated by payment days unless DependsOnPaymentDays is false.
type SalaryComponent struct {
	ID                   string
	Name                 string
	Abbr                 string
	Kind                 ComponentKind
	Statutory            StatutoryCategory
	Formula              *string
	Amount               decimal.Decimal
	DependsOnPaymentDays bool
	Description          *string
	IsActive             bool
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// SalaryStructure - an ordered list of components. Order matters: earlier
// earning components are visible to later formulas by abbr.
type SalaryStructure struct {
	ID         string
	Name       string
	IsActive   bool
	Components []SalaryComponent
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// StructureAssignment - binds an employee to a structure with a monthly base
// from a given date. The assignment effective for a period is the latest one
// with FromDate on or before the period end. TDSAmount is the externally
// determined monthly income tax for this employee; the calculator passes it
// through without recomputation.
type StructureAssignment struct {
	ID         string
	EmployeeID string
	Structure  SalaryStructure
	Base       decimal.Decimal
	TDSAmount  decimal.Decimal
	FromDate   time.Time
	CreatedAt  time.Time
}

// PayslipStatus enum
type PayslipStatus string

const (
	PayslipStatusDraft     PayslipStatus = "draft"
	PayslipStatusSubmitted PayslipStatus = "submitted"
	PayslipStatusCancelled PayslipStatus = "cancelled"
)

// PayslipLine - one computed earning or deduction on a payslip.
type PayslipLine struct {
	Name   string
	Abbr   string
	Kind   ComponentKind
	Amount decimal.Decimal
}

// Payslip - persisted calculation result for one (employee, period). At most
// one non-cancelled payslip may exist per pair, enforced by a partial unique
// index.
type Payslip struct {
	ID               string
	EmployeeID       string
	PeriodMonth      int
	PeriodYear       int
	Status           PayslipStatus
	TotalWorkingDays decimal.Decimal
	PaymentDays      decimal.Decimal
	LOPDays          decimal.Decimal
	Gross            decimal.Decimal
	TotalDeductions  decimal.Decimal
	Net              decimal.Decimal
	Lines            []PayslipLine
	TemplateRef      *string
	CreatedAt        time.Time
	UpdatedAt        time.Time

	// Joined fields
	EmployeeName *string
}

// PTSlab - one professional tax bracket. UpTo is nil for the open-ended top
// slab. Slabs are ordered by ascending UpTo.
type PTSlab struct {
	UpTo   *decimal.Decimal
	Amount decimal.Decimal
}

// StatutoryRules - the statutory deduction parameters the calculator runs
// with. PTSlabs is keyed by state; DefaultPTState is used when the employee
// has no state on record.
type StatutoryRules struct {
	PFRate         decimal.Decimal // e.g. 0.12
	PFWageCeiling  decimal.Decimal // PF base cap, e.g. 15000
	ESIRate        decimal.Decimal // e.g. 0.0075
	ESIWageCeiling decimal.Decimal // gross eligibility cutoff, e.g. 21000
	PTSlabs        map[string][]PTSlab
	DefaultPTState string
}

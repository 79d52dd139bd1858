package fixtures

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/arijentek/hr-backend-go/internal/domain/payroll"
	"github.com/arijentek/hr-backend-go/internal/pkg/database"
	"github.com/arijentek/hr-backend-go/internal/repository/postgresql"
)

// ==========================================
// HELPER FUNCTIONS
// ==========================================

func strPtr(s string) *string { return &s }

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func decPtr(v int64) *decimal.Decimal {
	d := dec(v)
	return &d
}

// ==========================================
// DEFAULT SALARY COMPONENTS
// ==========================================

// DefaultSalaryComponents returns the standard Indian component set. Order
// matters: each earning formula may reference the abbrs declared before it.
func DefaultSalaryComponents() []payroll.SalaryComponent {
	return []payroll.SalaryComponent{
		{
			Name:      "Basic",
			Abbr:      "BASIC",
			Kind:      payroll.ComponentKindEarning,
			Statutory: payroll.StatutoryNone,
			Formula:   strPtr("base * 0.5"),
			IsActive:  true,
		},
		{
			Name:      "House Rent Allowance",
			Abbr:      "HRA",
			Kind:      payroll.ComponentKindEarning,
			Statutory: payroll.StatutoryNone,
			Formula:   strPtr("basic * 0.4"),
			IsActive:  true,
		},
		{
			Name:                 "Conveyance Allowance",
			Abbr:                 "CA",
			Kind:                 payroll.ComponentKindEarning,
			Statutory:            payroll.StatutoryNone,
			Amount:               dec(1600),
			DependsOnPaymentDays: true,
			IsActive:             true,
		},
		{
			Name:      "Special Allowance",
			Abbr:      "SA",
			Kind:      payroll.ComponentKindEarning,
			Statutory: payroll.StatutoryNone,
			Formula:   strPtr("base - basic - hra"),
			IsActive:  true,
		},
		{
			Name:        "Professional Tax",
			Abbr:        "PT",
			Kind:        payroll.ComponentKindDeduction,
			Statutory:   payroll.StatutoryProfessionalTax,
			Description: strPtr("State-level tax on the month's adjusted gross"),
			IsActive:    true,
		},
		{
			Name:        "Provident Fund",
			Abbr:        "PF",
			Kind:        payroll.ComponentKindDeduction,
			Statutory:   payroll.StatutoryProvidentFund,
			Description: strPtr("Employee contribution on the Basic component"),
			IsActive:    true,
		},
		{
			Name:        "Employee State Insurance",
			Abbr:        "ESI",
			Kind:        payroll.ComponentKindDeduction,
			Statutory:   payroll.StatutoryESI,
			Description: strPtr("Applies while adjusted gross is within the wage ceiling"),
			IsActive:    true,
		},
		{
			Name:        "Income Tax",
			Abbr:        "TDS",
			Kind:        payroll.ComponentKindDeduction,
			Statutory:   payroll.StatutoryTDS,
			Description: strPtr("Externally determined monthly amount, passed through"),
			IsActive:    true,
		},
	}
}

// ==========================================
// DEFAULT PROFESSIONAL TAX SLABS
// ==========================================

// DefaultPTSlabs returns the slab tables keyed by state. The Maharashtra
// table doubles as the fallback for unknown states.
func DefaultPTSlabs() map[string][]payroll.PTSlab {
	return map[string][]payroll.PTSlab{
		"Maharashtra": {
			{UpTo: decPtr(15000), Amount: dec(0)},
			{UpTo: decPtr(25000), Amount: dec(150)},
			{UpTo: nil, Amount: dec(200)},
		},
		"Karnataka": {
			{UpTo: decPtr(24999), Amount: dec(0)},
			{UpTo: nil, Amount: dec(200)},
		},
		"Gujarat": {
			{UpTo: decPtr(12000), Amount: dec(0)},
			{UpTo: nil, Amount: dec(200)},
		},
		"Tamil Nadu": {
			{UpTo: decPtr(21000), Amount: dec(0)},
			{UpTo: decPtr(30000), Amount: dec(135)},
			{UpTo: nil, Amount: dec(208)},
		},
	}
}

// DefaultStructureName is the structure seeded for new installations.
const DefaultStructureName = "Standard Salary Structure"

// ==========================================
// SEEDING
// ==========================================

// SeedPayrollDefaults creates the default components, the standard structure
// and the professional tax slabs. Safe to call on every boot: once the Basic
// component exists the seed is assumed done.
func SeedPayrollDefaults(ctx context.Context, db *database.DB, payrollRepo payroll.PayrollRepository) error {
	if _, err := payrollRepo.GetComponentByAbbr(ctx, "BASIC"); err == nil {
		slog.Debug("payroll defaults already seeded")
		return nil
	} else if !errors.Is(err, payroll.ErrComponentNotFound) {
		return err
	}

	return postgresql.WithTransaction(ctx, db, func(txCtx context.Context) error {
		componentIDs := make([]string, 0, len(DefaultSalaryComponents()))
		for _, component := range DefaultSalaryComponents() {
			created, err := payrollRepo.CreateComponent(txCtx, component)
			if err != nil {
				return err
			}
			componentIDs = append(componentIDs, created.ID)
		}

		if _, err := payrollRepo.CreateStructure(txCtx, payroll.SalaryStructure{
			Name:     DefaultStructureName,
			IsActive: true,
		}, componentIDs); err != nil {
			return err
		}

		for state, slabs := range DefaultPTSlabs() {
			if err := payrollRepo.ReplacePTSlabs(txCtx, state, slabs); err != nil {
				return err
			}
		}

		slog.Info("seeded payroll defaults",
			slog.Int("components", len(componentIDs)),
			slog.String("structure", DefaultStructureName),
		)
		return nil
	})
}

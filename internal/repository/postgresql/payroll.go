package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/arijentek/hr-backend-go/internal/domain/payroll"
	"github.com/arijentek/hr-backend-go/internal/pkg/database"
)

type payrollRepository struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepository{db: db}
}

func newID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("failed to generate id: %w", err)
	}
	return id.String(), nil
}

// ========== COMPONENTS ==========

const componentColumns = `id, name, abbr, kind, statutory, formula, amount, depends_on_payment_days, description, is_active, created_at, updated_at`

func scanComponent(row pgx.Row) (payroll.SalaryComponent, error) {
	var c payroll.SalaryComponent
	err := row.Scan(
		&c.ID, &c.Name, &c.Abbr, &c.Kind, &c.Statutory, &c.Formula, &c.Amount,
		&c.DependsOnPaymentDays, &c.Description, &c.IsActive, &c.CreatedAt, &c.UpdatedAt,
	)
	return c, err
}

func (r *payrollRepository) CreateComponent(ctx context.Context, component payroll.SalaryComponent) (payroll.SalaryComponent, error) {
	q := GetQuerier(ctx, r.db)

	id, err := newID()
	if err != nil {
		return payroll.SalaryComponent{}, err
	}
	component.ID = id

	query := `
		INSERT INTO salary_components (id, name, abbr, kind, statutory, formula, amount, depends_on_payment_days, description, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at
	`

	err = q.QueryRow(ctx, query,
		component.ID, component.Name, component.Abbr, component.Kind, component.Statutory,
		component.Formula, component.Amount, component.DependsOnPaymentDays,
		component.Description, component.IsActive,
	).Scan(&component.CreatedAt, &component.UpdatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "salary_components_name_key") || strings.Contains(err.Error(), "salary_components_abbr_key") {
			return payroll.SalaryComponent{}, payroll.ErrComponentNameExists
		}
		return payroll.SalaryComponent{}, fmt.Errorf("failed to create salary component: %w", err)
	}

	return component, nil
}

func (r *payrollRepository) GetComponentByAbbr(ctx context.Context, abbr string) (payroll.SalaryComponent, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + componentColumns + ` FROM salary_components WHERE lower(abbr) = lower($1)`

	c, err := scanComponent(q.QueryRow(ctx, query, abbr))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.SalaryComponent{}, payroll.ErrComponentNotFound
		}
		return payroll.SalaryComponent{}, fmt.Errorf("failed to get salary component: %w", err)
	}
	return c, nil
}

// ========== STRUCTURES ==========

func (r *payrollRepository) CreateStructure(ctx context.Context, structure payroll.SalaryStructure, componentIDs []string) (payroll.SalaryStructure, error) {
	q := GetQuerier(ctx, r.db)

	id, err := newID()
	if err != nil {
		return payroll.SalaryStructure{}, err
	}
	structure.ID = id

	query := `
		INSERT INTO salary_structures (id, name, is_active)
		VALUES ($1, $2, $3)
		RETURNING created_at, updated_at
	`

	if err := q.QueryRow(ctx, query, structure.ID, structure.Name, structure.IsActive).Scan(&structure.CreatedAt, &structure.UpdatedAt); err != nil {
		return payroll.SalaryStructure{}, fmt.Errorf("failed to create salary structure: %w", err)
	}

	for position, componentID := range componentIDs {
		_, err := q.Exec(ctx,
			`INSERT INTO salary_structure_components (structure_id, component_id, position) VALUES ($1, $2, $3)`,
			structure.ID, componentID, position,
		)
		if err != nil {
			return payroll.SalaryStructure{}, fmt.Errorf("failed to attach component to structure: %w", err)
		}
	}

	return r.GetStructureByID(ctx, structure.ID)
}

func (r *payrollRepository) GetStructureByID(ctx context.Context, id string) (payroll.SalaryStructure, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT id, name, is_active, created_at, updated_at FROM salary_structures WHERE id = $1`

	var s payroll.SalaryStructure
	err := q.QueryRow(ctx, query, id).Scan(&s.ID, &s.Name, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.SalaryStructure{}, payroll.ErrStructureNotFound
		}
		return payroll.SalaryStructure{}, fmt.Errorf("failed to get salary structure: %w", err)
	}

	components, err := r.getStructureComponents(ctx, id)
	if err != nil {
		return payroll.SalaryStructure{}, err
	}
	s.Components = components

	return s, nil
}

func (r *payrollRepository) getStructureComponents(ctx context.Context, structureID string) ([]payroll.SalaryComponent, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT c.id, c.name, c.abbr, c.kind, c.statutory, c.formula, c.amount,
		       c.depends_on_payment_days, c.description, c.is_active, c.created_at, c.updated_at
		FROM salary_structure_components sc
		JOIN salary_components c ON c.id = sc.component_id
		WHERE sc.structure_id = $1
		ORDER BY sc.position
	`

	rows, err := q.Query(ctx, query, structureID)
	if err != nil {
		return nil, fmt.Errorf("failed to list structure components: %w", err)
	}
	defer rows.Close()

	var components []payroll.SalaryComponent
	for rows.Next() {
		c, err := scanComponent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan salary component: %w", err)
		}
		components = append(components, c)
	}
	return components, rows.Err()
}

// ========== ASSIGNMENTS ==========

func (r *payrollRepository) CreateAssignment(ctx context.Context, assignment payroll.StructureAssignment) (payroll.StructureAssignment, error) {
	q := GetQuerier(ctx, r.db)

	id, err := newID()
	if err != nil {
		return payroll.StructureAssignment{}, err
	}
	assignment.ID = id

	query := `
		INSERT INTO structure_assignments (id, employee_id, structure_id, base, tds_amount, from_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`

	err = q.QueryRow(ctx, query,
		assignment.ID, assignment.EmployeeID, assignment.Structure.ID,
		assignment.Base, assignment.TDSAmount, assignment.FromDate,
	).Scan(&assignment.CreatedAt)
	if err != nil {
		return payroll.StructureAssignment{}, fmt.Errorf("failed to create structure assignment: %w", err)
	}

	return assignment, nil
}

func (r *payrollRepository) GetEffectiveAssignment(ctx context.Context, employeeID string, asOf time.Time) (payroll.StructureAssignment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, structure_id, base, tds_amount, from_date, created_at
		FROM structure_assignments
		WHERE employee_id = $1 AND from_date <= $2
		ORDER BY from_date DESC
		LIMIT 1
	`

	var a payroll.StructureAssignment
	var structureID string
	err := q.QueryRow(ctx, query, employeeID, asOf).Scan(
		&a.ID, &a.EmployeeID, &structureID, &a.Base, &a.TDSAmount, &a.FromDate, &a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.StructureAssignment{}, payroll.ErrAssignmentNotFound
		}
		return payroll.StructureAssignment{}, fmt.Errorf("failed to get structure assignment: %w", err)
	}

	structure, err := r.GetStructureByID(ctx, structureID)
	if err != nil {
		return payroll.StructureAssignment{}, err
	}
	a.Structure = structure

	return a, nil
}

// ========== PAYSLIPS ==========

const payslipColumns = `p.id, p.employee_id, p.period_month, p.period_year, p.status,
	p.total_working_days, p.payment_days, p.lop_days, p.gross, p.total_deductions, p.net,
	p.template_ref, p.created_at, p.updated_at, e.full_name`

func scanPayslip(row pgx.Row) (payroll.Payslip, error) {
	var slip payroll.Payslip
	err := row.Scan(
		&slip.ID, &slip.EmployeeID, &slip.PeriodMonth, &slip.PeriodYear, &slip.Status,
		&slip.TotalWorkingDays, &slip.PaymentDays, &slip.LOPDays, &slip.Gross,
		&slip.TotalDeductions, &slip.Net, &slip.TemplateRef,
		&slip.CreatedAt, &slip.UpdatedAt, &slip.EmployeeName,
	)
	return slip, err
}

// CreatePayslip persists the slip and its lines in one transaction. The
// partial unique index on (employee_id, period_year, period_month) where
// status <> 'cancelled' is the real one-per-period guarantee; the service's
// pre-check only produces a friendlier error earlier.
func (r *payrollRepository) CreatePayslip(ctx context.Context, slip payroll.Payslip) (payroll.Payslip, error) {
	id, err := newID()
	if err != nil {
		return payroll.Payslip{}, err
	}
	slip.ID = id

	err = WithTransaction(ctx, r.db, func(txCtx context.Context) error {
		q := GetQuerier(txCtx, r.db)

		query := `
			INSERT INTO payslips (id, employee_id, period_month, period_year, status,
				total_working_days, payment_days, lop_days, gross, total_deductions, net, template_ref)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			RETURNING created_at, updated_at
		`

		err := q.QueryRow(txCtx, query,
			slip.ID, slip.EmployeeID, slip.PeriodMonth, slip.PeriodYear, slip.Status,
			slip.TotalWorkingDays, slip.PaymentDays, slip.LOPDays,
			slip.Gross, slip.TotalDeductions, slip.Net, slip.TemplateRef,
		).Scan(&slip.CreatedAt, &slip.UpdatedAt)
		if err != nil {
			if strings.Contains(err.Error(), "uk_payslips_employee_period") {
				return payroll.ErrPayslipAlreadyExists
			}
			return fmt.Errorf("failed to create payslip: %w", err)
		}

		for position, line := range slip.Lines {
			lineID, err := newID()
			if err != nil {
				return err
			}
			_, err = q.Exec(txCtx,
				`INSERT INTO payslip_lines (id, payslip_id, position, name, abbr, kind, amount) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				lineID, slip.ID, position, line.Name, line.Abbr, line.Kind, line.Amount,
			)
			if err != nil {
				return fmt.Errorf("failed to create payslip line: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return payroll.Payslip{}, err
	}

	return slip, nil
}

func (r *payrollRepository) GetPayslipByID(ctx context.Context, id string) (payroll.Payslip, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + payslipColumns + `
		FROM payslips p
		JOIN employees e ON e.id = p.employee_id
		WHERE p.id = $1
	`

	slip, err := scanPayslip(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Payslip{}, payroll.ErrPayslipNotFound
		}
		return payroll.Payslip{}, fmt.Errorf("failed to get payslip: %w", err)
	}

	lines, err := r.getPayslipLines(ctx, slip.ID)
	if err != nil {
		return payroll.Payslip{}, err
	}
	slip.Lines = lines

	return slip, nil
}

func (r *payrollRepository) GetPayslipByEmployeePeriod(ctx context.Context, employeeID string, month, year int) (payroll.Payslip, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + payslipColumns + `
		FROM payslips p
		JOIN employees e ON e.id = p.employee_id
		WHERE p.employee_id = $1 AND p.period_month = $2 AND p.period_year = $3
		  AND p.status <> 'cancelled'
	`

	slip, err := scanPayslip(q.QueryRow(ctx, query, employeeID, month, year))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Payslip{}, payroll.ErrPayslipNotFound
		}
		return payroll.Payslip{}, fmt.Errorf("failed to get payslip: %w", err)
	}
	return slip, nil
}

func (r *payrollRepository) ListPayslipsByEmployee(ctx context.Context, employeeID string) ([]payroll.Payslip, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + payslipColumns + `
		FROM payslips p
		JOIN employees e ON e.id = p.employee_id
		WHERE p.employee_id = $1
		ORDER BY p.period_year DESC, p.period_month DESC
	`

	rows, err := q.Query(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payslips: %w", err)
	}
	defer rows.Close()

	var slips []payroll.Payslip
	for rows.Next() {
		slip, err := scanPayslip(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payslip: %w", err)
		}
		slips = append(slips, slip)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range slips {
		lines, err := r.getPayslipLines(ctx, slips[i].ID)
		if err != nil {
			return nil, err
		}
		slips[i].Lines = lines
	}

	return slips, nil
}

func (r *payrollRepository) getPayslipLines(ctx context.Context, payslipID string) ([]payroll.PayslipLine, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT name, abbr, kind, amount
		FROM payslip_lines
		WHERE payslip_id = $1
		ORDER BY position
	`

	rows, err := q.Query(ctx, query, payslipID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payslip lines: %w", err)
	}
	defer rows.Close()

	var lines []payroll.PayslipLine
	for rows.Next() {
		var l payroll.PayslipLine
		if err := rows.Scan(&l.Name, &l.Abbr, &l.Kind, &l.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan payslip line: %w", err)
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

func (r *payrollRepository) UpdatePayslipStatus(ctx context.Context, id string, status payroll.PayslipStatus) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE payslips SET status = $1, updated_at = now() WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update payslip status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrPayslipNotFound
	}
	return nil
}

func (r *payrollRepository) DeletePayslip(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM payslips WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete payslip: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrPayslipNotFound
	}
	return nil
}

func (r *payrollRepository) GetPayrollSummary(ctx context.Context, month, year int) (payroll.PayrollSummaryResponse, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COUNT(*),
		       COALESCE(SUM(gross), 0),
		       COALESCE(SUM(total_deductions), 0),
		       COALESCE(SUM(net), 0),
		       COUNT(*) FILTER (WHERE status = 'draft'),
		       COUNT(*) FILTER (WHERE status = 'submitted')
		FROM payslips
		WHERE period_month = $1 AND period_year = $2 AND status <> 'cancelled'
	`

	summary := payroll.PayrollSummaryResponse{PeriodMonth: month, PeriodYear: year}
	err := q.QueryRow(ctx, query, month, year).Scan(
		&summary.TotalEmployees, &summary.TotalGross, &summary.TotalDeductions,
		&summary.TotalNet, &summary.DraftCount, &summary.SubmittedCount,
	)
	if err != nil {
		return payroll.PayrollSummaryResponse{}, fmt.Errorf("failed to get payroll summary: %w", err)
	}
	return summary, nil
}

// ========== PROFESSIONAL TAX ==========

func (r *payrollRepository) GetPTSlabs(ctx context.Context) (map[string][]payroll.PTSlab, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT state, up_to, amount
		FROM pt_slabs
		ORDER BY state, up_to ASC NULLS LAST
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list professional tax slabs: %w", err)
	}
	defer rows.Close()

	slabs := make(map[string][]payroll.PTSlab)
	for rows.Next() {
		var state string
		var slab payroll.PTSlab
		if err := rows.Scan(&state, &slab.UpTo, &slab.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan professional tax slab: %w", err)
		}
		slabs[state] = append(slabs[state], slab)
	}
	return slabs, rows.Err()
}

func (r *payrollRepository) ReplacePTSlabs(ctx context.Context, state string, slabs []payroll.PTSlab) error {
	return WithTransaction(ctx, r.db, func(txCtx context.Context) error {
		q := GetQuerier(txCtx, r.db)

		if _, err := q.Exec(txCtx, `DELETE FROM pt_slabs WHERE state = $1`, state); err != nil {
			return fmt.Errorf("failed to clear professional tax slabs: %w", err)
		}

		for _, slab := range slabs {
			id, err := newID()
			if err != nil {
				return err
			}
			_, err = q.Exec(txCtx,
				`INSERT INTO pt_slabs (id, state, up_to, amount) VALUES ($1, $2, $3, $4)`,
				id, state, slab.UpTo, slab.Amount,
			)
			if err != nil {
				return fmt.Errorf("failed to insert professional tax slab: %w", err)
			}
		}
		return nil
	})
}

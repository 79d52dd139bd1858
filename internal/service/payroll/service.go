package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/arijentek/hr-backend-go/internal/domain/attendance"
	"github.com/arijentek/hr-backend-go/internal/domain/employee"
	"github.com/arijentek/hr-backend-go/internal/domain/holiday"
	"github.com/arijentek/hr-backend-go/internal/domain/payroll"
	"github.com/arijentek/hr-backend-go/internal/pkg/validator"
)

type PayslipServiceImpl struct {
	payrollRepo    payroll.PayrollRepository
	employeeRepo   employee.EmployeeRepository
	attendanceRepo attendance.AttendanceRepository
	holidayRepo    holiday.HolidayRepository
	rules          payroll.StatutoryRules // PTSlabs loaded per call
	logger         *slog.Logger
	now            func() time.Time
}

func NewPayslipService(
	payrollRepo payroll.PayrollRepository,
	employeeRepo employee.EmployeeRepository,
	attendanceRepo attendance.AttendanceRepository,
	holidayRepo holiday.HolidayRepository,
	rules payroll.StatutoryRules,
	logger *slog.Logger,
) payroll.PayslipService {
	return &PayslipServiceImpl{
		payrollRepo:    payrollRepo,
		employeeRepo:   employeeRepo,
		attendanceRepo: attendanceRepo,
		holidayRepo:    holidayRepo,
		rules:          rules,
		logger:         logger,
		now:            time.Now,
	}
}

func (s *PayslipServiceImpl) GenerateForEmployee(ctx context.Context, req payroll.GeneratePayslipRequest) (payroll.GenerateResult, error) {
	if err := req.Validate(); err != nil {
		return payroll.GenerateResult{}, err
	}
	if err := s.requireCompleted(req.Period); err != nil {
		return payroll.GenerateResult{}, err
	}

	if _, err := s.payrollRepo.GetPayslipByEmployeePeriod(ctx, req.EmployeeID, req.Period.Month, req.Period.Year); err == nil {
		return payroll.GenerateResult{}, payroll.ErrPayslipAlreadyExists
	} else if !errors.Is(err, payroll.ErrPayslipNotFound) {
		return payroll.GenerateResult{}, err
	}

	input, err := s.loadInput(ctx, req.EmployeeID, req.Period)
	if err != nil {
		return payroll.GenerateResult{}, err
	}

	breakdown, err := Calculate(input)
	if err != nil {
		return payroll.GenerateResult{}, err
	}

	status := payroll.PayslipStatusDraft
	if req.Submit {
		status = payroll.PayslipStatusSubmitted
	}

	slip, err := s.payrollRepo.CreatePayslip(ctx, payslipFromBreakdown(breakdown, status))
	if err != nil {
		return payroll.GenerateResult{}, err
	}

	return payroll.GenerateResult{
		PayslipID: slip.ID,
		Status:    string(slip.Status),
		Breakdown: breakdown,
	}, nil
}

func (s *PayslipServiceImpl) GenerateForCompany(ctx context.Context, req payroll.GenerateCompanyPayrollRequest) (payroll.BatchResult, error) {
	if err := req.Validate(); err != nil {
		return payroll.BatchResult{}, err
	}
	if err := s.requireCompleted(req.Period); err != nil {
		return payroll.BatchResult{}, err
	}

	employees, err := s.employeeRepo.GetActiveWithAssignment(ctx, req.Period.End())
	if err != nil {
		return payroll.BatchResult{}, err
	}

	result := payroll.BatchResult{
		PeriodMonth: req.Period.Month,
		PeriodYear:  req.Period.Year,
		Created:     []payroll.BatchCreated{},
		Failed:      []payroll.BatchFailure{},
	}

	for _, emp := range employees {
		res, err := s.GenerateForEmployee(ctx, payroll.GeneratePayslipRequest{
			EmployeeID: emp.ID,
			Period:     req.Period,
			Submit:     req.Submit,
		})
		if err != nil {
			s.logger.Warn("payslip generation failed",
				slog.String("employee_id", emp.ID),
				slog.String("period", req.Period.String()),
				slog.String("error", err.Error()),
			)
			result.Failed = append(result.Failed, payroll.BatchFailure{
				EmployeeID: emp.ID,
				Kind:       failureKind(err),
				Message:    err.Error(),
			})
			continue
		}
		result.Created = append(result.Created, payroll.BatchCreated{
			EmployeeID: emp.ID,
			PayslipID:  res.PayslipID,
		})
	}

	s.logger.Info("company payroll run finished",
		slog.String("period", req.Period.String()),
		slog.Int("created", len(result.Created)),
		slog.Int("failed", len(result.Failed)),
	)

	return result, nil
}

func (s *PayslipServiceImpl) Preview(ctx context.Context, employeeID string, period payroll.Period) (payroll.Breakdown, error) {
	if err := period.Validate(); err != nil {
		return payroll.Breakdown{}, err
	}
	if err := s.requireCompleted(period); err != nil {
		return payroll.Breakdown{}, err
	}

	input, err := s.loadInput(ctx, employeeID, period)
	if err != nil {
		return payroll.Breakdown{}, err
	}

	return Calculate(input)
}

func (s *PayslipServiceImpl) Get(ctx context.Context, id string) (payroll.PayslipResponse, error) {
	slip, err := s.payrollRepo.GetPayslipByID(ctx, id)
	if err != nil {
		return payroll.PayslipResponse{}, err
	}
	return payslipToResponse(slip), nil
}

func (s *PayslipServiceImpl) ListForEmployee(ctx context.Context, employeeID string) ([]payroll.PayslipResponse, error) {
	if _, err := s.employeeRepo.GetByID(ctx, employeeID); err != nil {
		return nil, err
	}

	slips, err := s.payrollRepo.ListPayslipsByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	responses := make([]payroll.PayslipResponse, 0, len(slips))
	for _, slip := range slips {
		responses = append(responses, payslipToResponse(slip))
	}
	return responses, nil
}

func (s *PayslipServiceImpl) Submit(ctx context.Context, id string) error {
	slip, err := s.payrollRepo.GetPayslipByID(ctx, id)
	if err != nil {
		return err
	}

	switch slip.Status {
	case payroll.PayslipStatusSubmitted:
		return payroll.ErrPayslipSubmitted
	case payroll.PayslipStatusCancelled:
		return payroll.ErrPayslipNotDraft
	}

	return s.payrollRepo.UpdatePayslipStatus(ctx, id, payroll.PayslipStatusSubmitted)
}

func (s *PayslipServiceImpl) Cancel(ctx context.Context, id string) error {
	slip, err := s.payrollRepo.GetPayslipByID(ctx, id)
	if err != nil {
		return err
	}

	if slip.Status != payroll.PayslipStatusSubmitted {
		return payroll.ErrPayslipNotSubmitted
	}

	return s.payrollRepo.UpdatePayslipStatus(ctx, id, payroll.PayslipStatusCancelled)
}

func (s *PayslipServiceImpl) Delete(ctx context.Context, id string) error {
	slip, err := s.payrollRepo.GetPayslipByID(ctx, id)
	if err != nil {
		return err
	}

	switch slip.Status {
	case payroll.PayslipStatusSubmitted:
		return payroll.ErrPayslipSubmitted
	case payroll.PayslipStatusCancelled:
		return payroll.ErrPayslipNotDraft
	}

	return s.payrollRepo.DeletePayslip(ctx, id)
}

func (s *PayslipServiceImpl) Summary(ctx context.Context, period payroll.Period) (payroll.PayrollSummaryResponse, error) {
	if err := period.Validate(); err != nil {
		return payroll.PayrollSummaryResponse{}, err
	}
	return s.payrollRepo.GetPayrollSummary(ctx, period.Month, period.Year)
}

// loadInput gathers everything the calculator needs for one employee/period.
func (s *PayslipServiceImpl) loadInput(ctx context.Context, employeeID string, period payroll.Period) (CalculationInput, error) {
	emp, err := s.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		return CalculationInput{}, err
	}

	assignment, err := s.payrollRepo.GetEffectiveAssignment(ctx, employeeID, period.End())
	if err != nil {
		if errors.Is(err, payroll.ErrAssignmentNotFound) {
			return CalculationInput{}, payroll.ErrNoStructureAssignment
		}
		return CalculationInput{}, err
	}

	count, err := s.attendanceRepo.CountByEmployeeBetween(ctx, employeeID, period.Start(), period.End())
	if err != nil {
		return CalculationInput{}, err
	}
	if count == 0 {
		return CalculationInput{}, payroll.ErrNoAttendanceData
	}

	days, err := s.attendanceRepo.GetByEmployeeBetween(ctx, employeeID, period.Start(), period.End())
	if err != nil {
		return CalculationInput{}, err
	}

	holidays, err := s.holidayRepo.GetBetween(ctx, period.Start(), period.End())
	if err != nil {
		return CalculationInput{}, err
	}

	slabs, err := s.payrollRepo.GetPTSlabs(ctx)
	if err != nil {
		return CalculationInput{}, err
	}
	rules := s.rules
	rules.PTSlabs = slabs

	return CalculationInput{
		Employee:   emp,
		Period:     period,
		Assignment: assignment,
		Days:       days,
		Holidays:   holidays,
		Rules:      rules,
		TDSAmount:  assignment.TDSAmount,
	}, nil
}

func (s *PayslipServiceImpl) requireCompleted(period payroll.Period) error {
	if !period.Completed(s.now()) {
		return validator.ValidationErrors{
			{Field: "period", Message: fmt.Sprintf("month %s has not ended yet", period.String())},
		}
	}
	return nil
}

func payslipFromBreakdown(b payroll.Breakdown, status payroll.PayslipStatus) payroll.Payslip {
	lines := make([]payroll.PayslipLine, 0, len(b.Earnings)+len(b.Deductions))
	for _, e := range b.Earnings {
		lines = append(lines, payroll.PayslipLine{Name: e.Name, Abbr: e.Abbr, Kind: payroll.ComponentKindEarning, Amount: e.Amount})
	}
	for _, d := range b.Deductions {
		lines = append(lines, payroll.PayslipLine{Name: d.Name, Abbr: d.Abbr, Kind: payroll.ComponentKindDeduction, Amount: d.Amount})
	}

	return payroll.Payslip{
		EmployeeID:       b.EmployeeID,
		PeriodMonth:      b.PeriodMonth,
		PeriodYear:       b.PeriodYear,
		Status:           status,
		TotalWorkingDays: b.TotalWorkingDays,
		PaymentDays:      b.PaymentDays,
		LOPDays:          b.LOPDays,
		Gross:            b.Gross,
		TotalDeductions:  b.TotalDeductions,
		Net:              b.Net,
		Lines:            lines,
	}
}

func payslipToResponse(slip payroll.Payslip) payroll.PayslipResponse {
	earnings := []payroll.BreakdownLine{}
	deductions := []payroll.BreakdownLine{}
	for _, l := range slip.Lines {
		line := payroll.BreakdownLine{Name: l.Name, Abbr: l.Abbr, Amount: l.Amount}
		if l.Kind == payroll.ComponentKindEarning {
			earnings = append(earnings, line)
		} else {
			deductions = append(deductions, line)
		}
	}

	return payroll.PayslipResponse{
		ID:               slip.ID,
		EmployeeID:       slip.EmployeeID,
		EmployeeName:     slip.EmployeeName,
		PeriodMonth:      slip.PeriodMonth,
		PeriodYear:       slip.PeriodYear,
		Status:           string(slip.Status),
		TotalWorkingDays: slip.TotalWorkingDays,
		PaymentDays:      slip.PaymentDays,
		LOPDays:          slip.LOPDays,
		Earnings:         earnings,
		Deductions:       deductions,
		Gross:            slip.Gross,
		TotalDeductions:  slip.TotalDeductions,
		Net:              slip.Net,
		TemplateRef:      slip.TemplateRef,
		CreatedAt:        slip.CreatedAt.Format(time.RFC3339),
	}
}

func failureKind(err error) string {
	var verrs validator.ValidationErrors
	switch {
	case errors.Is(err, payroll.ErrPayslipAlreadyExists):
		return "already_exists"
	case errors.Is(err, payroll.ErrNoStructureAssignment), errors.Is(err, payroll.ErrNoAttendanceData):
		return "configuration_error"
	case errors.Is(err, employee.ErrEmployeeNotFound):
		return "not_found"
	case errors.As(err, &verrs):
		return "validation_error"
	default:
		return "internal"
	}
}

package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/arijentek/hr-backend-go/internal/domain/payroll"
)

type PayrollJobs struct {
	payslipSvc    payroll.PayslipService
	generationDay int
	autoSubmit    bool
}

func NewPayrollJobs(payslipSvc payroll.PayslipService, generationDay int, autoSubmit bool) *PayrollJobs {
	return &PayrollJobs{
		payslipSvc:    payslipSvc,
		generationDay: generationDay,
		autoSubmit:    autoSubmit,
	}
}

func (j *PayrollJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("monthly_payroll_generation", 1*time.Hour, j.GenerateMonthlyPayroll)
}

// GenerateMonthlyPayroll runs the prior month's company payroll on the
// configured day. Re-runs are safe: existing payslips come back as
// already_exists failures and nothing is duplicated.
func (j *PayrollJobs) GenerateMonthlyPayroll(ctx context.Context) error {
	now := time.Now().UTC()
	// Only run in the 02:00 hour on the configured day of month
	if now.Day() != j.generationDay || now.Hour() != 2 {
		return nil
	}

	prior := now.AddDate(0, -1, 0)
	period := payroll.Period{Month: int(prior.Month()), Year: prior.Year()}

	slog.Info("Cron: Starting monthly payroll generation", "period", period.String())

	result, err := j.payslipSvc.GenerateForCompany(ctx, payroll.GenerateCompanyPayrollRequest{
		Period: period,
		Submit: j.autoSubmit,
	})
	if err != nil {
		return err
	}

	slog.Info("Cron: Monthly payroll generation finished",
		"period", period.String(),
		"created", len(result.Created),
		"failed", len(result.Failed),
	)
	return nil
}

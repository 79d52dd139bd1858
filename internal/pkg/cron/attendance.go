package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/arijentek/hr-backend-go/internal/domain/attendance"
	"github.com/arijentek/hr-backend-go/internal/domain/employee"
)

type AttendanceJobs struct {
	attendanceSvc attendance.AttendanceService
	employeeRepo  employee.EmployeeRepository
}

func NewAttendanceJobs(
	attendanceSvc attendance.AttendanceService,
	employeeRepo employee.EmployeeRepository,
) *AttendanceJobs {
	return &AttendanceJobs{
		attendanceSvc: attendanceSvc,
		employeeRepo:  employeeRepo,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("end_of_day_attendance_sync", 1*time.Hour, j.EndOfDaySync)
}

// EndOfDaySync re-derives yesterday's attendance for every active employee,
// which turns punch-less working days into absents, then closes any days
// still left open.
func (j *AttendanceJobs) EndOfDaySync(ctx context.Context) error {
	// Only run at midnight (00:00-00:59 UTC)
	if time.Now().UTC().Hour() != 0 {
		return nil
	}

	slog.Info("Cron: Starting end-of-day attendance sync")

	yesterday := time.Now().UTC().AddDate(0, 0, -1)

	employees, err := j.employeeRepo.GetActive(ctx)
	if err != nil {
		return fmt.Errorf("failed to list active employees: %w", err)
	}

	synced := 0
	for _, emp := range employees {
		if _, err := j.attendanceSvc.SyncDay(ctx, emp.ID, yesterday); err != nil {
			slog.Error("Cron: attendance sync failed", "employee_id", emp.ID, "error", err)
			continue
		}
		synced++
	}

	closed, err := j.attendanceSvc.ReconcileOpenDays(ctx, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to reconcile open days: %w", err)
	}

	slog.Info("Cron: End-of-day attendance sync finished", "synced", synced, "closed", closed)
	return nil
}

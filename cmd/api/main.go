package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/shopspring/decimal"

	"github.com/arijentek/hr-backend-go/internal/config"
	"github.com/arijentek/hr-backend-go/internal/domain/payroll"
	"github.com/arijentek/hr-backend-go/internal/fixtures"
	appHTTP "github.com/arijentek/hr-backend-go/internal/handler/http"
	"github.com/arijentek/hr-backend-go/internal/pkg/cron"
	"github.com/arijentek/hr-backend-go/internal/pkg/database"
	"github.com/arijentek/hr-backend-go/internal/repository/postgresql"
	attendanceService "github.com/arijentek/hr-backend-go/internal/service/attendance"
	payrollService "github.com/arijentek/hr-backend-go/internal/service/payroll"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil)).With(
		slog.String("app", "hr-backend"),
		slog.String("env", cfg.App.Env),
	)
	slog.SetDefault(logger)

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL(), int32(cfg.Database.MaxConns), int32(cfg.Database.MinConns))
	if err != nil {
		logger.Error("Error connecting to database", slog.String("error", err.Error()))
		return
	}
	defer db.Close()

	employeeRepo := postgresql.NewEmployeeRepository(db)
	checkinRepo := postgresql.NewCheckinRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	holidayRepo := postgresql.NewHolidayRepository(db)
	payrollRepo := postgresql.NewPayrollRepository(db)

	if cfg.App.SeedDefaults {
		if err := fixtures.SeedPayrollDefaults(context.Background(), db, payrollRepo); err != nil {
			logger.Error("Error seeding payroll defaults", slog.String("error", err.Error()))
			return
		}
	}

	attendanceSvc := attendanceService.NewAttendanceService(
		checkinRepo,
		attendanceRepo,
		employeeRepo,
		holidayRepo,
		attendanceService.Thresholds{
			PresentHours: cfg.Attendance.PresentThresholdHours,
			HalfDayHours: cfg.Attendance.HalfDayThresholdHours,
		},
		logger,
	)
	payslipSvc := payrollService.NewPayslipService(
		payrollRepo,
		employeeRepo,
		attendanceRepo,
		holidayRepo,
		payroll.StatutoryRules{
			PFRate:         decimal.NewFromFloat(cfg.Payroll.PFRate),
			PFWageCeiling:  decimal.NewFromFloat(cfg.Payroll.PFWageCeiling),
			ESIRate:        decimal.NewFromFloat(cfg.Payroll.ESIRate),
			ESIWageCeiling: decimal.NewFromFloat(cfg.Payroll.ESIWageCeiling),
			DefaultPTState: cfg.Payroll.DefaultPTState,
		},
		logger,
	)

	scheduler := cron.NewScheduler()
	cron.NewAttendanceJobs(attendanceSvc, employeeRepo).RegisterJobs(scheduler)
	cron.NewPayrollJobs(payslipSvc, cfg.Payroll.GenerationDay, cfg.Payroll.AutoSubmit).RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)
	payrollHandler := appHTTP.NewPayrollHandler(payslipSvc)

	router := appHTTP.NewRouter(cfg.App.Env, attendanceHandler, payrollHandler)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	logger.Info("Server starting", slog.String("addr", port))
	if err := http.ListenAndServe(port, router); err != nil {
		logger.Error("Server error", slog.String("error", err.Error()))
	}
}

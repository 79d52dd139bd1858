package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
)

func NewRouter(env string, attendanceHandler AttendanceHandler, payrollHandler PayrollHandler) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "hr-backend"),
		slog.String("env", env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("ok\n"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/checkins", attendanceHandler.RecordCheckin)

		r.Route("/employees/{employeeID}", func(r chi.Router) {
			r.Route("/attendance", func(r chi.Router) {
				r.Post("/sync", attendanceHandler.SyncRange)
				r.Get("/{year}/{month}", attendanceHandler.MonthSummary)
			})

			r.Route("/payslips", func(r chi.Router) {
				r.Post("/", payrollHandler.GeneratePayslip)
				r.Get("/", payrollHandler.ListPayslips)
				r.Get("/preview", payrollHandler.PreviewPayslip)
			})
		})

		r.Route("/payslips/{id}", func(r chi.Router) {
			r.Get("/", payrollHandler.GetPayslip)
			r.Post("/submit", payrollHandler.SubmitPayslip)
			r.Post("/cancel", payrollHandler.CancelPayslip)
			r.Delete("/", payrollHandler.DeletePayslip)
		})

		r.Route("/payroll", func(r chi.Router) {
			r.Post("/generate", payrollHandler.GenerateCompanyPayroll)
			r.Get("/summary", payrollHandler.GetPayrollSummary)
		})
	})

	return r
}

package response

import (
	"errors"
	"net/http"

	"github.com/arijentek/hr-backend-go/internal/domain/attendance"
	"github.com/arijentek/hr-backend-go/internal/domain/employee"
	"github.com/arijentek/hr-backend-go/internal/domain/payroll"
	"github.com/arijentek/hr-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")

	// Attendance domain errors
	case errors.Is(err, attendance.ErrAttendanceDayNotFound):
		NotFound(w, "Attendance day not found")
	case errors.Is(err, attendance.ErrCheckinOutOfRange):
		BadRequest(w, "Checkin timestamp is in the future", nil)

	// Payroll domain errors
	case errors.Is(err, payroll.ErrPayslipNotFound):
		NotFound(w, "Payslip not found")
	case errors.Is(err, payroll.ErrPayslipAlreadyExists):
		Conflict(w, "Payslip already exists for this period")
	case errors.Is(err, payroll.ErrPayslipSubmitted):
		UnprocessableState(w, "Payslip is submitted and can no longer be modified")
	case errors.Is(err, payroll.ErrPayslipNotDraft):
		UnprocessableState(w, "Payslip is not in draft status")
	case errors.Is(err, payroll.ErrPayslipNotSubmitted):
		UnprocessableState(w, "Only submitted payslips can be cancelled")
	case errors.Is(err, payroll.ErrNoStructureAssignment):
		BadRequest(w, "Employee has no salary structure assignment for this period", nil)
	case errors.Is(err, payroll.ErrNoAttendanceData):
		BadRequest(w, "No attendance records exist for this period", nil)
	case errors.Is(err, payroll.ErrStructureNotFound):
		NotFound(w, "Salary structure not found")
	case errors.Is(err, payroll.ErrComponentNotFound):
		NotFound(w, "Salary component not found")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}

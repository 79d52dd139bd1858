package payroll

import "errors"

var (
	ErrPayslipNotFound        = errors.New("payslip not found")
	ErrPayslipAlreadyExists   = errors.New("payslip already exists for this period")
	ErrPayslipSubmitted       = errors.New("payslip is submitted, cannot modify")
	ErrPayslipNotDraft        = errors.New("payslip is not in draft status")
	ErrPayslipNotSubmitted    = errors.New("payslip is not submitted, only submitted payslips can be cancelled")
	ErrStructureNotFound      = errors.New("salary structure not found")
	ErrComponentNotFound      = errors.New("salary component not found")
	ErrComponentNameExists    = errors.New("salary component name already exists")
	ErrNoStructureAssignment  = errors.New("employee has no salary structure assignment for this period")
	ErrNoAttendanceData       = errors.New("no attendance records exist for this period")
	ErrAssignmentNotFound     = errors.New("structure assignment not found")
)

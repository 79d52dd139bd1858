package attendance

import (
	"github.com/arijentek/hr-backend-go/internal/pkg/validator"
)

type RecordCheckinRequest struct {
	EmployeeID string  `json:"employee_id"`
	Type       string  `json:"type"`      // "in" or "out"
	Timestamp  string  `json:"timestamp"` // RFC3339
	Source     *string `json:"source,omitempty"`
}

func (r *RecordCheckinRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	if r.Type != string(EventTypeIn) && r.Type != string(EventTypeOut) {
		errs = append(errs, validator.ValidationError{Field: "type", Message: "must be 'in' or 'out'"})
	}
	if _, ok := validator.IsValidDateTime(r.Timestamp); !ok {
		errs = append(errs, validator.ValidationError{Field: "timestamp", Message: "must be a valid RFC3339 timestamp"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type SyncRangeRequest struct {
	EmployeeID string `json:"employee_id"`
	FromDate   string `json:"from_date"` // YYYY-MM-DD
	ToDate     string `json:"to_date"`   // YYYY-MM-DD
}

func (r *SyncRangeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	from, fromOK := validator.IsValidDate(r.FromDate)
	if !fromOK {
		errs = append(errs, validator.ValidationError{Field: "from_date", Message: "must be a valid date (YYYY-MM-DD)"})
	}
	to, toOK := validator.IsValidDate(r.ToDate)
	if !toOK {
		errs = append(errs, validator.ValidationError{Field: "to_date", Message: "must be a valid date (YYYY-MM-DD)"})
	}
	if fromOK && toOK && to.Before(from) {
		errs = append(errs, validator.ValidationError{Field: "to_date", Message: "must not be before from_date"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type AttendanceDayResponse struct {
	ID          string  `json:"id"`
	EmployeeID  string  `json:"employee_id"`
	Date        string  `json:"date"`
	Status      string  `json:"status"`
	FirstIn     *string `json:"first_in,omitempty"`
	LastOut     *string `json:"last_out,omitempty"`
	WorkedHours float64 `json:"worked_hours"`
}

type MonthSummaryResponse struct {
	EmployeeID  string                  `json:"employee_id"`
	PeriodMonth int                     `json:"period_month"`
	PeriodYear  int                     `json:"period_year"`
	PresentDays int                     `json:"present_days"`
	HalfDays    int                     `json:"half_days"`
	AbsentDays  int                     `json:"absent_days"`
	LeaveDays   int                     `json:"leave_days"`
	OpenDays    int                     `json:"open_days"`
	Days        []AttendanceDayResponse `json:"days"`
}

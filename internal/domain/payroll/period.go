package payroll

import (
	"fmt"
	"time"

	"github.com/arijentek/hr-backend-go/internal/pkg/validator"
)

// Period - a payroll month.
type Period struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

func (p Period) Validate() error {
	var errs validator.ValidationErrors

	if p.Month < 1 || p.Month > 12 {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "must be between 1 and 12"})
	}
	if p.Year < 2000 || p.Year > 2200 {
		errs = append(errs, validator.ValidationError{Field: "year", Message: "must be between 2000 and 2200"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (p Period) Start() time.Time {
	return time.Date(p.Year, time.Month(p.Month), 1, 0, 0, 0, 0, time.UTC)
}

func (p Period) End() time.Time {
	return p.Start().AddDate(0, 1, -1)
}

func (p Period) Days() int {
	return p.End().Day()
}

// Completed reports whether the period ended before now. Payslips are only
// generated for completed months.
func (p Period) Completed(now time.Time) bool {
	return !now.Before(p.End().AddDate(0, 0, 1))
}

func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}

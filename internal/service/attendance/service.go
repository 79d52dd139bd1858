package attendance

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"time"

	"github.com/arijentek/hr-backend-go/internal/domain/attendance"
	"github.com/arijentek/hr-backend-go/internal/domain/employee"
	"github.com/arijentek/hr-backend-go/internal/domain/holiday"
	"github.com/arijentek/hr-backend-go/internal/pkg/validator"
)

// Thresholds classify a closed day by its worked hours.
type Thresholds struct {
	PresentHours float64 // worked at least this many hours => present
	HalfDayHours float64 // otherwise at least this many => half day
}

type AttendanceServiceImpl struct {
	checkinRepo    attendance.CheckinRepository
	attendanceRepo attendance.AttendanceRepository
	employeeRepo   employee.EmployeeRepository
	holidayRepo    holiday.HolidayRepository
	thresholds     Thresholds
	logger         *slog.Logger
	now            func() time.Time
}

func NewAttendanceService(
	checkinRepo attendance.CheckinRepository,
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	holidayRepo holiday.HolidayRepository,
	thresholds Thresholds,
	logger *slog.Logger,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		checkinRepo:    checkinRepo,
		attendanceRepo: attendanceRepo,
		employeeRepo:   employeeRepo,
		holidayRepo:    holidayRepo,
		thresholds:     thresholds,
		logger:         logger,
		now:            time.Now,
	}
}

func (s *AttendanceServiceImpl) RecordCheckin(ctx context.Context, req attendance.RecordCheckinRequest) (attendance.AttendanceDayResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceDayResponse{}, err
	}

	ts, _ := validator.IsValidDateTime(req.Timestamp)
	ts = ts.UTC()
	if ts.After(s.now().UTC()) {
		return attendance.AttendanceDayResponse{}, attendance.ErrCheckinOutOfRange
	}

	if _, err := s.employeeRepo.GetByID(ctx, req.EmployeeID); err != nil {
		return attendance.AttendanceDayResponse{}, err
	}

	if _, err := s.checkinRepo.Create(ctx, attendance.CheckinEvent{
		EmployeeID: req.EmployeeID,
		Type:       attendance.EventType(req.Type),
		Timestamp:  ts,
		Source:     req.Source,
	}); err != nil {
		return attendance.AttendanceDayResponse{}, err
	}

	day, err := s.SyncDay(ctx, req.EmployeeID, dateOf(ts))
	if err != nil {
		return attendance.AttendanceDayResponse{}, err
	}
	if day == nil {
		// cannot happen right after an event was stored, but keep the
		// response well-formed
		return attendance.AttendanceDayResponse{
			EmployeeID: req.EmployeeID,
			Date:       dateOf(ts).Format("2006-01-02"),
		}, nil
	}

	return dayToResponse(*day), nil
}

func (s *AttendanceServiceImpl) SyncDay(ctx context.Context, employeeID string, date time.Time) (*attendance.AttendanceDay, error) {
	date = dateOf(date)

	if _, err := s.employeeRepo.GetByID(ctx, employeeID); err != nil {
		return nil, err
	}

	events, err := s.checkinRepo.GetByEmployeeDate(ctx, employeeID, date)
	if err != nil {
		return nil, err
	}

	if len(events) == 0 {
		working, err := s.isWorkingDay(ctx, date)
		if err != nil {
			return nil, err
		}
		// only past working days without events become absent; today may
		// still receive punches, non-working days get no row at all
		if !working || !date.Before(dateOf(s.now().UTC())) {
			return nil, nil
		}

		existing, err := s.attendanceRepo.GetByEmployeeDate(ctx, employeeID, date)
		if err == nil && existing.Status == attendance.DayStatusOnLeave {
			return &existing, nil
		}
		if err != nil && !errors.Is(err, attendance.ErrAttendanceDayNotFound) {
			return nil, err
		}

		day, err := s.attendanceRepo.UpsertDay(ctx, attendance.AttendanceDay{
			EmployeeID: employeeID,
			Date:       date,
			Status:     attendance.DayStatusAbsent,
		})
		if err != nil {
			return nil, err
		}
		return &day, nil
	}

	day := deriveDay(employeeID, date, events, s.thresholds)
	upserted, err := s.attendanceRepo.UpsertDay(ctx, day)
	if err != nil {
		return nil, err
	}
	return &upserted, nil
}

func (s *AttendanceServiceImpl) SyncRange(ctx context.Context, req attendance.SyncRangeRequest) ([]attendance.AttendanceDayResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	from, _ := validator.IsValidDate(req.FromDate)
	to, _ := validator.IsValidDate(req.ToDate)

	var responses []attendance.AttendanceDayResponse
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		day, err := s.SyncDay(ctx, req.EmployeeID, d)
		if err != nil {
			return nil, err
		}
		if day != nil {
			responses = append(responses, dayToResponse(*day))
		}
	}
	return responses, nil
}

func (s *AttendanceServiceImpl) MonthSummary(ctx context.Context, employeeID string, month, year int) (attendance.MonthSummaryResponse, error) {
	var errs validator.ValidationErrors
	if month < 1 || month > 12 {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "must be between 1 and 12"})
	}
	if year < 2000 || year > 2200 {
		errs = append(errs, validator.ValidationError{Field: "year", Message: "must be between 2000 and 2200"})
	}
	if len(errs) > 0 {
		return attendance.MonthSummaryResponse{}, errs
	}

	if _, err := s.employeeRepo.GetByID(ctx, employeeID); err != nil {
		return attendance.MonthSummaryResponse{}, err
	}

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)

	days, err := s.attendanceRepo.GetByEmployeeBetween(ctx, employeeID, start, end)
	if err != nil {
		return attendance.MonthSummaryResponse{}, err
	}

	summary := attendance.MonthSummaryResponse{
		EmployeeID:  employeeID,
		PeriodMonth: month,
		PeriodYear:  year,
		Days:        make([]attendance.AttendanceDayResponse, 0, len(days)),
	}
	for _, day := range days {
		switch day.Status {
		case attendance.DayStatusPresent:
			summary.PresentDays++
		case attendance.DayStatusHalfDay:
			summary.HalfDays++
		case attendance.DayStatusAbsent:
			summary.AbsentDays++
		case attendance.DayStatusOnLeave:
			summary.LeaveDays++
		case attendance.DayStatusOpen:
			summary.OpenDays++
		}
		summary.Days = append(summary.Days, dayToResponse(day))
	}

	return summary, nil
}

func (s *AttendanceServiceImpl) ReconcileOpenDays(ctx context.Context, asOf time.Time) (int, error) {
	open, err := s.attendanceRepo.GetOpenBefore(ctx, dateOf(asOf))
	if err != nil {
		return 0, err
	}

	closed := 0
	for _, day := range open {
		day.Status = classify(day.WorkedHours, s.thresholds)
		if _, err := s.attendanceRepo.UpsertDay(ctx, day); err != nil {
			return closed, err
		}
		closed++
	}

	if closed > 0 {
		s.logger.Info("reconciled open attendance days",
			slog.Int("closed", closed),
			slog.String("as_of", dateOf(asOf).Format("2006-01-02")),
		)
	}
	return closed, nil
}

func (s *AttendanceServiceImpl) isWorkingDay(ctx context.Context, date time.Time) (bool, error) {
	if date.Weekday() == time.Sunday {
		return false, nil
	}
	holidays, err := s.holidayRepo.GetBetween(ctx, date, date)
	if err != nil {
		return false, err
	}
	return len(holidays) == 0, nil
}

// deriveDay folds a day's events into one record: earliest IN, latest OUT
// after it, worked hours from their gap. An IN without a matching OUT leaves
// the day open for later reconciliation.
func deriveDay(employeeID string, date time.Time, events []attendance.CheckinEvent, t Thresholds) attendance.AttendanceDay {
	var firstIn, lastOut *time.Time
	for i := range events {
		e := events[i]
		switch e.Type {
		case attendance.EventTypeIn:
			if firstIn == nil || e.Timestamp.Before(*firstIn) {
				ts := e.Timestamp
				firstIn = &ts
			}
		case attendance.EventTypeOut:
			if lastOut == nil || e.Timestamp.After(*lastOut) {
				ts := e.Timestamp
				lastOut = &ts
			}
		}
	}

	day := attendance.AttendanceDay{
		EmployeeID: employeeID,
		Date:       date,
		FirstIn:    firstIn,
		LastOut:    lastOut,
	}

	if firstIn != nil && lastOut == nil {
		day.Status = attendance.DayStatusOpen
		return day
	}

	hours := 0.0
	if firstIn != nil && lastOut != nil && lastOut.After(*firstIn) {
		hours = round2(lastOut.Sub(*firstIn).Hours())
	}
	day.WorkedHours = hours
	day.Status = classify(hours, t)
	return day
}

func classify(hours float64, t Thresholds) attendance.DayStatus {
	switch {
	case hours >= t.PresentHours:
		return attendance.DayStatusPresent
	case hours >= t.HalfDayHours:
		return attendance.DayStatusHalfDay
	default:
		return attendance.DayStatusAbsent
	}
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func dayToResponse(day attendance.AttendanceDay) attendance.AttendanceDayResponse {
	resp := attendance.AttendanceDayResponse{
		ID:          day.ID,
		EmployeeID:  day.EmployeeID,
		Date:        day.Date.Format("2006-01-02"),
		Status:      string(day.Status),
		WorkedHours: day.WorkedHours,
	}
	if day.FirstIn != nil {
		v := day.FirstIn.UTC().Format(time.RFC3339)
		resp.FirstIn = &v
	}
	if day.LastOut != nil {
		v := day.LastOut.UTC().Format(time.RFC3339)
		resp.LastOut = &v
	}
	return resp
}

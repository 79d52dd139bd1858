package attendance

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arijentek/hr-backend-go/internal/domain/attendance"
	"github.com/arijentek/hr-backend-go/internal/domain/employee"
	"github.com/arijentek/hr-backend-go/internal/domain/holiday"
	"github.com/arijentek/hr-backend-go/internal/pkg/validator"
)

type fakeEmployeeRepo struct {
	employees map[string]employee.Employee
}

func (f *fakeEmployeeRepo) GetByID(_ context.Context, id string) (employee.Employee, error) {
	e, ok := f.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (f *fakeEmployeeRepo) GetActive(_ context.Context) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, e := range f.employees {
		if e.Status == employee.StatusActive {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEmployeeRepo) GetActiveWithAssignment(ctx context.Context, _ time.Time) ([]employee.Employee, error) {
	return f.GetActive(ctx)
}

type fakeCheckinRepo struct {
	events []attendance.CheckinEvent
}

func (f *fakeCheckinRepo) Create(_ context.Context, event attendance.CheckinEvent) (attendance.CheckinEvent, error) {
	event.ID = fmt.Sprintf("evt-%d", len(f.events)+1)
	f.events = append(f.events, event)
	return event, nil
}

func (f *fakeCheckinRepo) GetByEmployeeDate(_ context.Context, employeeID string, date time.Time) ([]attendance.CheckinEvent, error) {
	next := date.AddDate(0, 0, 1)
	var out []attendance.CheckinEvent
	for _, e := range f.events {
		if e.EmployeeID == employeeID && !e.Timestamp.Before(date) && e.Timestamp.Before(next) {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeAttendanceRepo struct {
	days map[string]attendance.AttendanceDay // employeeID|date
}

func dayKey(employeeID string, date time.Time) string {
	return employeeID + "|" + date.Format("2006-01-02")
}

func (f *fakeAttendanceRepo) UpsertDay(_ context.Context, day attendance.AttendanceDay) (attendance.AttendanceDay, error) {
	key := dayKey(day.EmployeeID, day.Date)
	if existing, ok := f.days[key]; ok {
		day.ID = existing.ID
	} else {
		day.ID = fmt.Sprintf("day-%d", len(f.days)+1)
	}
	f.days[key] = day
	return day, nil
}

func (f *fakeAttendanceRepo) GetByEmployeeDate(_ context.Context, employeeID string, date time.Time) (attendance.AttendanceDay, error) {
	day, ok := f.days[dayKey(employeeID, date)]
	if !ok {
		return attendance.AttendanceDay{}, attendance.ErrAttendanceDayNotFound
	}
	return day, nil
}

func (f *fakeAttendanceRepo) GetByEmployeeBetween(_ context.Context, employeeID string, from, to time.Time) ([]attendance.AttendanceDay, error) {
	var out []attendance.AttendanceDay
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if day, ok := f.days[dayKey(employeeID, d)]; ok {
			out = append(out, day)
		}
	}
	return out, nil
}

func (f *fakeAttendanceRepo) GetOpenBefore(_ context.Context, before time.Time) ([]attendance.AttendanceDay, error) {
	var out []attendance.AttendanceDay
	for _, day := range f.days {
		if day.Status == attendance.DayStatusOpen && day.Date.Before(before) {
			out = append(out, day)
		}
	}
	return out, nil
}

func (f *fakeAttendanceRepo) CountByEmployeeBetween(_ context.Context, employeeID string, from, to time.Time) (int, error) {
	days, _ := f.GetByEmployeeBetween(context.Background(), employeeID, from, to)
	return len(days), nil
}

type fakeHolidayRepo struct {
	holidays []holiday.Holiday
}

func (f *fakeHolidayRepo) GetBetween(_ context.Context, from, to time.Time) ([]holiday.Holiday, error) {
	var out []holiday.Holiday
	for _, h := range f.holidays {
		if !h.Date.Before(from) && !h.Date.After(to) {
			out = append(out, h)
		}
	}
	return out, nil
}

type fixture struct {
	svc        *AttendanceServiceImpl
	checkins   *fakeCheckinRepo
	attendance *fakeAttendanceRepo
	holidays   *fakeHolidayRepo
}

// newFixture wires the service against in-memory repositories with the clock
// pinned to Mon 2025-06-16 18:00 UTC.
func newFixture() fixture {
	checkins := &fakeCheckinRepo{}
	attendanceRepo := &fakeAttendanceRepo{days: make(map[string]attendance.AttendanceDay)}
	holidays := &fakeHolidayRepo{}

	svc := &AttendanceServiceImpl{
		checkinRepo:    checkins,
		attendanceRepo: attendanceRepo,
		employeeRepo: &fakeEmployeeRepo{employees: map[string]employee.Employee{
			"emp-1": {ID: "emp-1", FullName: "Asha Verma", Status: employee.StatusActive},
		}},
		holidayRepo: holidays,
		thresholds:  Thresholds{PresentHours: 8, HalfDayHours: 4},
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		now: func() time.Time {
			return time.Date(2025, time.June, 16, 18, 0, 0, 0, time.UTC)
		},
	}
	return fixture{svc: svc, checkins: checkins, attendance: attendanceRepo, holidays: holidays}
}

func TestRecordCheckin_FullDayPresent(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.RecordCheckin(ctx, attendance.RecordCheckinRequest{
		EmployeeID: "emp-1", Type: "in", Timestamp: "2025-06-16T09:00:00Z",
	})
	require.NoError(t, err)

	resp, err := f.svc.RecordCheckin(ctx, attendance.RecordCheckinRequest{
		EmployeeID: "emp-1", Type: "out", Timestamp: "2025-06-16T18:00:00Z",
	})
	require.NoError(t, err)

	assert.Equal(t, "present", resp.Status)
	assert.Equal(t, 9.0, resp.WorkedHours)
	assert.Equal(t, "2025-06-16", resp.Date)
	require.NotNil(t, resp.FirstIn)
	assert.Equal(t, "2025-06-16T09:00:00Z", *resp.FirstIn)
}

func TestRecordCheckin_ShortDayHalf(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.RecordCheckin(ctx, attendance.RecordCheckinRequest{
		EmployeeID: "emp-1", Type: "in", Timestamp: "2025-06-16T09:00:00Z",
	})
	require.NoError(t, err)

	resp, err := f.svc.RecordCheckin(ctx, attendance.RecordCheckinRequest{
		EmployeeID: "emp-1", Type: "out", Timestamp: "2025-06-16T14:00:00Z",
	})
	require.NoError(t, err)
	assert.Equal(t, "half_day", resp.Status)
	assert.Equal(t, 5.0, resp.WorkedHours)
}

func TestRecordCheckin_TooShortIsAbsent(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.RecordCheckin(ctx, attendance.RecordCheckinRequest{
		EmployeeID: "emp-1", Type: "in", Timestamp: "2025-06-16T09:00:00Z",
	})
	require.NoError(t, err)

	resp, err := f.svc.RecordCheckin(ctx, attendance.RecordCheckinRequest{
		EmployeeID: "emp-1", Type: "out", Timestamp: "2025-06-16T10:00:00Z",
	})
	require.NoError(t, err)
	assert.Equal(t, "absent", resp.Status)
}

func TestRecordCheckin_InWithoutOutLeavesDayOpen(t *testing.T) {
	f := newFixture()

	resp, err := f.svc.RecordCheckin(context.Background(), attendance.RecordCheckinRequest{
		EmployeeID: "emp-1", Type: "in", Timestamp: "2025-06-16T09:00:00Z",
	})
	require.NoError(t, err)
	assert.Equal(t, "open", resp.Status)
	assert.Nil(t, resp.LastOut)
}

func TestRecordCheckin_FutureTimestampRejected(t *testing.T) {
	f := newFixture()

	_, err := f.svc.RecordCheckin(context.Background(), attendance.RecordCheckinRequest{
		EmployeeID: "emp-1", Type: "in", Timestamp: "2025-06-17T09:00:00Z",
	})
	assert.ErrorIs(t, err, attendance.ErrCheckinOutOfRange)
	assert.Empty(t, f.checkins.events, "no event may be stored for a rejected punch")
}

func TestRecordCheckin_UnknownEmployee(t *testing.T) {
	f := newFixture()

	_, err := f.svc.RecordCheckin(context.Background(), attendance.RecordCheckinRequest{
		EmployeeID: "emp-404", Type: "in", Timestamp: "2025-06-16T09:00:00Z",
	})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
	assert.Empty(t, f.checkins.events)
}

func TestRecordCheckin_InvalidRequest(t *testing.T) {
	f := newFixture()

	_, err := f.svc.RecordCheckin(context.Background(), attendance.RecordCheckinRequest{
		EmployeeID: "", Type: "sideways", Timestamp: "not-a-time",
	})

	var errs validator.ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.Len(t, errs, 3)
}

func TestSyncDay_PastWorkingDayWithoutEventsIsAbsent(t *testing.T) {
	f := newFixture()

	day, err := f.svc.SyncDay(context.Background(), "emp-1", time.Date(2025, time.June, 13, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NotNil(t, day)
	assert.Equal(t, attendance.DayStatusAbsent, day.Status)
}

func TestSyncDay_SundayWithoutEventsGetsNoRow(t *testing.T) {
	f := newFixture()

	day, err := f.svc.SyncDay(context.Background(), "emp-1", time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Nil(t, day)
	assert.Empty(t, f.attendance.days)
}

func TestSyncDay_HolidayWithoutEventsGetsNoRow(t *testing.T) {
	f := newFixture()
	f.holidays.holidays = []holiday.Holiday{
		{ID: "h-1", Date: time.Date(2025, time.June, 13, 0, 0, 0, 0, time.UTC), Name: "Founders Day"},
	}

	day, err := f.svc.SyncDay(context.Background(), "emp-1", time.Date(2025, time.June, 13, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Nil(t, day)
}

func TestSyncDay_TodayWithoutEventsGetsNoRow(t *testing.T) {
	f := newFixture()

	day, err := f.svc.SyncDay(context.Background(), "emp-1", time.Date(2025, time.June, 16, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Nil(t, day, "today may still receive punches")
}

func TestSyncDay_PreservesLeaveDays(t *testing.T) {
	f := newFixture()
	date := time.Date(2025, time.June, 13, 0, 0, 0, 0, time.UTC)
	f.attendance.days[dayKey("emp-1", date)] = attendance.AttendanceDay{
		ID: "day-leave", EmployeeID: "emp-1", Date: date, Status: attendance.DayStatusOnLeave,
	}

	day, err := f.svc.SyncDay(context.Background(), "emp-1", date)
	require.NoError(t, err)
	require.NotNil(t, day)
	assert.Equal(t, attendance.DayStatusOnLeave, day.Status)
}

func TestSyncDay_Idempotent(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.RecordCheckin(ctx, attendance.RecordCheckinRequest{
		EmployeeID: "emp-1", Type: "in", Timestamp: "2025-06-16T09:00:00Z",
	})
	require.NoError(t, err)
	_, err = f.svc.RecordCheckin(ctx, attendance.RecordCheckinRequest{
		EmployeeID: "emp-1", Type: "out", Timestamp: "2025-06-16T18:00:00Z",
	})
	require.NoError(t, err)

	date := time.Date(2025, time.June, 16, 0, 0, 0, 0, time.UTC)
	first, err := f.svc.SyncDay(ctx, "emp-1", date)
	require.NoError(t, err)
	second, err := f.svc.SyncDay(ctx, "emp-1", date)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, f.attendance.days, 1)
}

func TestSyncDay_OutOfOrderEvents(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	// OUT punched before the IN arrives, plus a duplicate early IN
	for _, req := range []attendance.RecordCheckinRequest{
		{EmployeeID: "emp-1", Type: "out", Timestamp: "2025-06-16T17:30:00Z"},
		{EmployeeID: "emp-1", Type: "in", Timestamp: "2025-06-16T09:15:00Z"},
		{EmployeeID: "emp-1", Type: "in", Timestamp: "2025-06-16T08:45:00Z"},
	} {
		_, err := f.svc.RecordCheckin(ctx, req)
		require.NoError(t, err)
	}

	day, err := f.svc.SyncDay(ctx, "emp-1", time.Date(2025, time.June, 16, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NotNil(t, day)

	// earliest IN and latest OUT win: 08:45 -> 17:30 is 8.75 hours
	assert.Equal(t, attendance.DayStatusPresent, day.Status)
	assert.Equal(t, 8.75, day.WorkedHours)
}

func TestSyncRange_SkipsNonWorkingDays(t *testing.T) {
	f := newFixture()

	// Fri 13 .. Sun 15: Friday becomes absent, Saturday absent, Sunday skipped
	responses, err := f.svc.SyncRange(context.Background(), attendance.SyncRangeRequest{
		EmployeeID: "emp-1", FromDate: "2025-06-13", ToDate: "2025-06-15",
	})
	require.NoError(t, err)
	require.Len(t, responses, 2)
	assert.Equal(t, "2025-06-13", responses[0].Date)
	assert.Equal(t, "2025-06-14", responses[1].Date)
}

func TestSyncRange_InvalidRange(t *testing.T) {
	f := newFixture()

	_, err := f.svc.SyncRange(context.Background(), attendance.SyncRangeRequest{
		EmployeeID: "emp-1", FromDate: "2025-06-15", ToDate: "2025-06-13",
	})

	var errs validator.ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.Equal(t, "to_date", errs[0].Field)
}

func TestMonthSummary_Counts(t *testing.T) {
	f := newFixture()
	seed := []struct {
		day    int
		status attendance.DayStatus
	}{
		{2, attendance.DayStatusPresent},
		{3, attendance.DayStatusPresent},
		{4, attendance.DayStatusHalfDay},
		{5, attendance.DayStatusAbsent},
		{6, attendance.DayStatusOnLeave},
		{9, attendance.DayStatusOpen},
	}
	for _, s := range seed {
		date := time.Date(2025, time.June, s.day, 0, 0, 0, 0, time.UTC)
		f.attendance.days[dayKey("emp-1", date)] = attendance.AttendanceDay{
			ID: fmt.Sprintf("day-%d", s.day), EmployeeID: "emp-1", Date: date, Status: s.status,
		}
	}

	summary, err := f.svc.MonthSummary(context.Background(), "emp-1", 6, 2025)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.PresentDays)
	assert.Equal(t, 1, summary.HalfDays)
	assert.Equal(t, 1, summary.AbsentDays)
	assert.Equal(t, 1, summary.LeaveDays)
	assert.Equal(t, 1, summary.OpenDays)
	assert.Len(t, summary.Days, 6)
}

func TestMonthSummary_InvalidMonth(t *testing.T) {
	f := newFixture()

	_, err := f.svc.MonthSummary(context.Background(), "emp-1", 13, 2025)

	var errs validator.ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.Equal(t, "month", errs[0].Field)
}

func TestReconcileOpenDays(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	openNoHours := time.Date(2025, time.June, 12, 0, 0, 0, 0, time.UTC)
	openWithHours := time.Date(2025, time.June, 13, 0, 0, 0, 0, time.UTC)
	f.attendance.days[dayKey("emp-1", openNoHours)] = attendance.AttendanceDay{
		ID: "day-a", EmployeeID: "emp-1", Date: openNoHours, Status: attendance.DayStatusOpen,
	}
	f.attendance.days[dayKey("emp-1", openWithHours)] = attendance.AttendanceDay{
		ID: "day-b", EmployeeID: "emp-1", Date: openWithHours, Status: attendance.DayStatusOpen, WorkedHours: 9,
	}

	closed, err := f.svc.ReconcileOpenDays(ctx, time.Date(2025, time.June, 16, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 2, closed)

	dayA, err := f.svc.attendanceRepo.GetByEmployeeDate(ctx, "emp-1", openNoHours)
	require.NoError(t, err)
	assert.Equal(t, attendance.DayStatusAbsent, dayA.Status)

	dayB, err := f.svc.attendanceRepo.GetByEmployeeDate(ctx, "emp-1", openWithHours)
	require.NoError(t, err)
	assert.Equal(t, attendance.DayStatusPresent, dayB.Status)
}

func TestClassify(t *testing.T) {
	th := Thresholds{PresentHours: 8, HalfDayHours: 4}
	assert.Equal(t, attendance.DayStatusPresent, classify(8, th))
	assert.Equal(t, attendance.DayStatusHalfDay, classify(7.99, th))
	assert.Equal(t, attendance.DayStatusHalfDay, classify(4, th))
	assert.Equal(t, attendance.DayStatusAbsent, classify(3.99, th))
	assert.Equal(t, attendance.DayStatusAbsent, classify(0, th))
}

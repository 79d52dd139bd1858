package attendance

import (
	"context"
	"time"
)

type AttendanceService interface {
	// RecordCheckin stores the raw event and re-derives the attendance day
	// for its date.
	RecordCheckin(ctx context.Context, req RecordCheckinRequest) (AttendanceDayResponse, error)
	// SyncDay re-derives the attendance day of (employee, date) from its
	// checkin events. Returns nil when the day has no events and is not a
	// working day (holiday or weekly off).
	SyncDay(ctx context.Context, employeeID string, date time.Time) (*AttendanceDay, error)
	SyncRange(ctx context.Context, req SyncRangeRequest) ([]AttendanceDayResponse, error)
	MonthSummary(ctx context.Context, employeeID string, month, year int) (MonthSummaryResponse, error)
	// ReconcileOpenDays classifies open days strictly before asOf by the
	// configured worked-hours thresholds. Returns the number closed.
	ReconcileOpenDays(ctx context.Context, asOf time.Time) (int, error)
}

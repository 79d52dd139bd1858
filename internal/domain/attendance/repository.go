package attendance

import (
	"context"
	"time"
)

type CheckinRepository interface {
	Create(ctx context.Context, event CheckinEvent) (CheckinEvent, error)
	GetByEmployeeDate(ctx context.Context, employeeID string, date time.Time) ([]CheckinEvent, error)
}

type AttendanceRepository interface {
	// UpsertDay inserts or replaces the derived record for (employee, date).
	UpsertDay(ctx context.Context, day AttendanceDay) (AttendanceDay, error)
	GetByEmployeeDate(ctx context.Context, employeeID string, date time.Time) (AttendanceDay, error)
	GetByEmployeeBetween(ctx context.Context, employeeID string, from, to time.Time) ([]AttendanceDay, error)
	GetOpenBefore(ctx context.Context, before time.Time) ([]AttendanceDay, error)
	CountByEmployeeBetween(ctx context.Context, employeeID string, from, to time.Time) (int, error)
}

package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/arijentek/hr-backend-go/internal/domain/attendance"
	"github.com/arijentek/hr-backend-go/internal/pkg/database"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

const attendanceDayColumns = `id, employee_id, date, status, first_in, last_out, worked_hours, created_at, updated_at`

func scanAttendanceDay(row pgx.Row) (attendance.AttendanceDay, error) {
	var day attendance.AttendanceDay
	err := row.Scan(
		&day.ID, &day.EmployeeID, &day.Date, &day.Status,
		&day.FirstIn, &day.LastOut, &day.WorkedHours, &day.CreatedAt, &day.UpdatedAt,
	)
	return day, err
}

// UpsertDay replaces the derived record atomically; the unique constraint on
// (employee_id, date) makes concurrent syncs of the same day safe.
func (r *attendanceRepository) UpsertDay(ctx context.Context, day attendance.AttendanceDay) (attendance.AttendanceDay, error) {
	q := GetQuerier(ctx, r.db)

	if day.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return attendance.AttendanceDay{}, fmt.Errorf("failed to generate id: %w", err)
		}
		day.ID = id.String()
	}

	query := `
		INSERT INTO attendance_days (id, employee_id, date, status, first_in, last_out, worked_hours)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (employee_id, date) DO UPDATE SET
			status = EXCLUDED.status,
			first_in = EXCLUDED.first_in,
			last_out = EXCLUDED.last_out,
			worked_hours = EXCLUDED.worked_hours,
			updated_at = now()
		RETURNING ` + attendanceDayColumns + `
	`

	upserted, err := scanAttendanceDay(q.QueryRow(ctx, query,
		day.ID, day.EmployeeID, day.Date, day.Status, day.FirstIn, day.LastOut, day.WorkedHours,
	))
	if err != nil {
		return attendance.AttendanceDay{}, fmt.Errorf("failed to upsert attendance day: %w", err)
	}
	return upserted, nil
}

func (r *attendanceRepository) GetByEmployeeDate(ctx context.Context, employeeID string, date time.Time) (attendance.AttendanceDay, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + attendanceDayColumns + ` FROM attendance_days WHERE employee_id = $1 AND date = $2`

	day, err := scanAttendanceDay(q.QueryRow(ctx, query, employeeID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.AttendanceDay{}, attendance.ErrAttendanceDayNotFound
		}
		return attendance.AttendanceDay{}, fmt.Errorf("failed to get attendance day: %w", err)
	}
	return day, nil
}

func (r *attendanceRepository) GetByEmployeeBetween(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.AttendanceDay, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + attendanceDayColumns + `
		FROM attendance_days
		WHERE employee_id = $1 AND date BETWEEN $2 AND $3
		ORDER BY date
	`

	rows, err := q.Query(ctx, query, employeeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance days: %w", err)
	}
	defer rows.Close()

	return collectAttendanceDays(rows)
}

func (r *attendanceRepository) GetOpenBefore(ctx context.Context, before time.Time) ([]attendance.AttendanceDay, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + attendanceDayColumns + `
		FROM attendance_days
		WHERE status = 'open' AND date < $1
		ORDER BY employee_id, date
	`

	rows, err := q.Query(ctx, query, before)
	if err != nil {
		return nil, fmt.Errorf("failed to list open attendance days: %w", err)
	}
	defer rows.Close()

	return collectAttendanceDays(rows)
}

func (r *attendanceRepository) CountByEmployeeBetween(ctx context.Context, employeeID string, from, to time.Time) (int, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT COUNT(*) FROM attendance_days WHERE employee_id = $1 AND date BETWEEN $2 AND $3`

	var count int
	if err := q.QueryRow(ctx, query, employeeID, from, to).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count attendance days: %w", err)
	}
	return count, nil
}

func collectAttendanceDays(rows pgx.Rows) ([]attendance.AttendanceDay, error) {
	var days []attendance.AttendanceDay
	for rows.Next() {
		day, err := scanAttendanceDay(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance day: %w", err)
		}
		days = append(days, day)
	}
	return days, rows.Err()
}

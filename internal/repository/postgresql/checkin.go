package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/arijentek/hr-backend-go/internal/domain/attendance"
	"github.com/arijentek/hr-backend-go/internal/pkg/database"
)

type checkinRepository struct {
	db *database.DB
}

func NewCheckinRepository(db *database.DB) attendance.CheckinRepository {
	return &checkinRepository{db: db}
}

func (r *checkinRepository) Create(ctx context.Context, event attendance.CheckinEvent) (attendance.CheckinEvent, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return attendance.CheckinEvent{}, fmt.Errorf("failed to generate id: %w", err)
	}
	event.ID = id.String()

	query := `
		INSERT INTO checkin_events (id, employee_id, type, ts, source)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`

	err = q.QueryRow(ctx, query,
		event.ID, event.EmployeeID, event.Type, event.Timestamp, event.Source,
	).Scan(&event.CreatedAt)
	if err != nil {
		return attendance.CheckinEvent{}, fmt.Errorf("failed to create checkin event: %w", err)
	}

	return event, nil
}

func (r *checkinRepository) GetByEmployeeDate(ctx context.Context, employeeID string, date time.Time) ([]attendance.CheckinEvent, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, type, ts, source, created_at
		FROM checkin_events
		WHERE employee_id = $1
		  AND ts >= $2
		  AND ts < $2::timestamptz + interval '1 day'
		ORDER BY ts
	`

	rows, err := q.Query(ctx, query, employeeID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to get checkin events: %w", err)
	}
	defer rows.Close()

	var events []attendance.CheckinEvent
	for rows.Next() {
		var e attendance.CheckinEvent
		if err := rows.Scan(&e.ID, &e.EmployeeID, &e.Type, &e.Timestamp, &e.Source, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan checkin event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

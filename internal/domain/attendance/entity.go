package attendance

import "time"

// EventType enum
type EventType string

const (
	EventTypeIn  EventType = "in"
	EventTypeOut EventType = "out"
)

// CheckinEvent - immutable raw punch from a device or app. Events are only
// appended; attendance days are derived from them.
type CheckinEvent struct {
	ID         string
	EmployeeID string
	Type       EventType
	Timestamp  time.Time
	Source     *string
	CreatedAt  time.Time
}

// DayStatus enum
type DayStatus string

const (
	DayStatusPresent DayStatus = "present"
	DayStatusHalfDay DayStatus = "half_day"
	DayStatusAbsent  DayStatus = "absent"
	DayStatusOnLeave DayStatus = "on_leave"
	// DayStatusOpen marks a day with an IN punch but no OUT yet. It is
	// resolved by a later punch or by end-of-day reconciliation.
	DayStatusOpen DayStatus = "open"
)

// AttendanceDay - derived daily record, one per (employee, date).
type AttendanceDay struct {
	ID          string
	EmployeeID  string
	Date        time.Time
	Status      DayStatus
	FirstIn     *time.Time
	LastOut     *time.Time
	WorkedHours float64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

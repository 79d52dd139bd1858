package attendance

import "errors"

var (
	ErrAttendanceDayNotFound = errors.New("attendance day not found")
	ErrCheckinOutOfRange     = errors.New("checkin timestamp is in the future")
)

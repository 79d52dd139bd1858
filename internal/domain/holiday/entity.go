package holiday

import "time"

// Holiday - a non-working calendar day shared by all employees.
type Holiday struct {
	ID        string
	Date      time.Time
	Name      string
	CreatedAt time.Time
}

package employee

import "time"

// EmploymentStatus enum
type EmploymentStatus string

const (
	StatusActive   EmploymentStatus = "active"
	StatusInactive EmploymentStatus = "inactive"
)

// Employee - master record, owned by the HR portal. This service only reads it.
type Employee struct {
	ID            string
	FullName      string
	EmployeeCode  *string
	State         *string // state of residence, selects the professional tax slab table
	PFOptOut      bool
	DateOfJoining *time.Time
	RelievingDate *time.Time
	Status        EmploymentStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

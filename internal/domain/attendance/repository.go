package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access for attendance records. The
// (employee_id, date) pair is unique at the store level; Create surfaces a
// conflict as ErrDuplicateRecord so callers can decide whether it matters.
type AttendanceRepository interface {
	// Create inserts a new record. Returns ErrDuplicateRecord when a record
	// already exists for (employee, date).
	Create(ctx context.Context, att Attendance) (Attendance, error)

	// GetByEmployeeAndDate returns nil (not an error) when no record exists.
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*Attendance, error)

	// Update replaces the mutable fields of an existing record.
	Update(ctx context.Context, att Attendance) error

	// ListByRange returns all records for the given employees between from
	// and to (inclusive), grouped employee -> date key -> record.
	ListByRange(ctx context.Context, employeeIDs []string, from, to time.Time) (map[string]map[string]Attendance, error)
}

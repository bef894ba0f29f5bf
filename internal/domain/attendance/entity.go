package attendance

import (
	"time"
)

// MarkedBySystem identifies records created by the engine itself, such as
// the forced absence written for the day after a very late check-in.
const MarkedBySystem = "system"

// Attendance is one employee's record for one calendar day. The store
// enforces uniqueness on (employee_id, date).
type Attendance struct {
	ID         string
	EmployeeID string
	Date       time.Time // day granularity, no time component

	CheckIn          *time.Time
	CheckInLatitude  *float64
	CheckInLongitude *float64
	CheckInPhotoURL  *string

	CheckOut          *time.Time
	CheckOutLatitude  *float64
	CheckOutLongitude *float64
	CheckOutPhotoURL  *string

	Status   float64
	Comment  *string
	MarkedBy string

	CreatedAt time.Time
	UpdatedAt time.Time

	// Joined for list/detail views.
	EmployeeName *string
}

// DateKey returns the canonical map key for a calendar date.
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

package leave

import "time"

// Approval states of a leave interval. Only approved intervals participate
// in calendar aggregation; the approval workflow itself is external.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// LeaveInterval is an inclusive date range of approved (or pending) leave
// for one employee.
type LeaveInterval struct {
	ID         string
	EmployeeID string
	StartDate  time.Time
	EndDate    time.Time
	Status     string
	Type       string
	Reason     string
}

// Covers reports whether date falls within the interval (inclusive ends).
// All three values are compared at day granularity.
func (l LeaveInterval) Covers(date time.Time) bool {
	return !date.Before(l.StartDate) && !date.After(l.EndDate)
}

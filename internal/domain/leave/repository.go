package leave

import (
	"context"
	"time"
)

type LeaveRepository interface {
	// ListApprovedOverlapping returns approved intervals overlapping
	// [from, to] for the given employees. An empty employee slice means all.
	ListApprovedOverlapping(ctx context.Context, employeeIDs []string, from, to time.Time) ([]LeaveInterval, error)
}

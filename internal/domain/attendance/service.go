package attendance

import "context"

// AttendanceService covers the check-in/check-out flow plus the
// administrative surfaces built on the same engine.
type AttendanceService interface {
	// CheckIn evaluates the decision table for the caller's current local
	// time, persists the record, and applies the cascade rule when the
	// check-in resolves to absconding.
	CheckIn(ctx context.Context, req CheckInRequest) (AttendanceResponse, error)

	// CheckOut closes today's open record and re-evaluates its status from
	// worked hours and the checkout window.
	CheckOut(ctx context.Context, req CheckOutRequest) (AttendanceResponse, error)

	// Mark creates or overwrites a record with an explicit status on behalf
	// of an administrator.
	Mark(ctx context.Context, req MarkRequest) (AttendanceResponse, error)

	// GetDetail returns one employee's record for one date.
	GetDetail(ctx context.Context, employeeID, date string) (AttendanceResponse, error)
}

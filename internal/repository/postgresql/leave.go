package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/presenzo/presence-backend-go/internal/domain/leave"
	"github.com/presenzo/presence-backend-go/internal/pkg/database"
)

type leaveRepository struct {
	db *database.DB
}

func NewLeaveRepository(db *database.DB) leave.LeaveRepository {
	return &leaveRepository{db: db}
}

// ListApprovedOverlapping implements leave.LeaveRepository.
func (r *leaveRepository) ListApprovedOverlapping(ctx context.Context, employeeIDs []string, from, to time.Time) ([]leave.LeaveInterval, error) {
	query := `
		SELECT id, employee_id, start_date, end_date, status, type, reason
		FROM leave_requests
		WHERE status = $1
		  AND start_date <= $3
		  AND end_date >= $2
		  AND ($4::text[] IS NULL OR employee_id = ANY($4))
		ORDER BY employee_id, start_date
	`

	var idFilter any
	if len(employeeIDs) > 0 {
		idFilter = employeeIDs
	}

	rows, err := r.db.Query(ctx, query, leave.StatusApproved, from, to, idFilter)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave intervals: %w", err)
	}
	defer rows.Close()

	var intervals []leave.LeaveInterval
	for rows.Next() {
		var iv leave.LeaveInterval
		if err := rows.Scan(&iv.ID, &iv.EmployeeID, &iv.StartDate, &iv.EndDate, &iv.Status, &iv.Type, &iv.Reason); err != nil {
			return nil, fmt.Errorf("failed to scan leave row: %w", err)
		}
		intervals = append(intervals, iv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read leave rows: %w", err)
	}
	return intervals, nil
}

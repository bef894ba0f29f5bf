package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/presenzo/presence-backend-go/internal/domain/attendance"
	"github.com/presenzo/presence-backend-go/internal/pkg/database"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

const attendanceColumns = `
	id, employee_id, date,
	check_in, check_in_latitude, check_in_longitude, check_in_photo_url,
	check_out, check_out_latitude, check_out_longitude, check_out_photo_url,
	status, comment, marked_by, created_at, updated_at
`

// scanAttendance reads one row. The status column is text because legacy
// writers stored strings like "present"; canonicalization happens here so
// nothing downstream branches on the raw stored value.
func scanAttendance(row pgx.Row) (attendance.Attendance, error) {
	var att attendance.Attendance
	var rawStatus string
	err := row.Scan(
		&att.ID, &att.EmployeeID, &att.Date,
		&att.CheckIn, &att.CheckInLatitude, &att.CheckInLongitude, &att.CheckInPhotoURL,
		&att.CheckOut, &att.CheckOutLatitude, &att.CheckOutLongitude, &att.CheckOutPhotoURL,
		&rawStatus, &att.Comment, &att.MarkedBy, &att.CreatedAt, &att.UpdatedAt,
	)
	if err != nil {
		return attendance.Attendance{}, err
	}
	att.Status = attendance.CanonicalStatus(rawStatus)
	return att, nil
}

// Create implements attendance.AttendanceRepository.
func (a *attendanceRepository) Create(ctx context.Context, newAttendance attendance.Attendance) (attendance.Attendance, error) {
	query := `
		INSERT INTO attendances (
			id, employee_id, date,
			check_in, check_in_latitude, check_in_longitude, check_in_photo_url,
			status, comment, marked_by
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
		) RETURNING created_at, updated_at
	`

	newAttendance.ID = uuid.New().String()
	err := a.db.QueryRow(ctx, query,
		newAttendance.ID,
		newAttendance.EmployeeID,
		newAttendance.Date,
		newAttendance.CheckIn,
		newAttendance.CheckInLatitude,
		newAttendance.CheckInLongitude,
		newAttendance.CheckInPhotoURL,
		strconv.FormatFloat(newAttendance.Status, 'f', -1, 64),
		newAttendance.Comment,
		newAttendance.MarkedBy,
	).Scan(&newAttendance.CreatedAt, &newAttendance.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		// 23505: unique_violation on (employee_id, date)
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return attendance.Attendance{}, attendance.ErrDuplicateRecord
		}
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	return newAttendance, nil
}

// GetByEmployeeAndDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.Attendance, error) {
	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances
		WHERE employee_id = $1
		  AND date = $2
		LIMIT 1
	`

	att, err := scanAttendance(a.db.QueryRow(ctx, query, employeeID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance by employee and date: %w", err)
	}

	return &att, nil
}

// Update implements attendance.AttendanceRepository.
func (a *attendanceRepository) Update(ctx context.Context, att attendance.Attendance) error {
	query := `
		UPDATE attendances SET
			check_in = $2, check_in_latitude = $3, check_in_longitude = $4, check_in_photo_url = $5,
			check_out = $6, check_out_latitude = $7, check_out_longitude = $8, check_out_photo_url = $9,
			status = $10, comment = $11, marked_by = $12, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := a.db.Exec(ctx, query,
		att.ID,
		att.CheckIn, att.CheckInLatitude, att.CheckInLongitude, att.CheckInPhotoURL,
		att.CheckOut, att.CheckOutLatitude, att.CheckOutLongitude, att.CheckOutPhotoURL,
		strconv.FormatFloat(att.Status, 'f', -1, 64),
		att.Comment,
		att.MarkedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update attendance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}
	return nil
}

// ListByRange implements attendance.AttendanceRepository. Records come back
// grouped employee -> date key -> record so the aggregation pass never
// scans a slice.
func (a *attendanceRepository) ListByRange(ctx context.Context, employeeIDs []string, from, to time.Time) (map[string]map[string]attendance.Attendance, error) {
	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances
		WHERE date BETWEEN $1 AND $2
		  AND ($3::text[] IS NULL OR employee_id = ANY($3))
		ORDER BY employee_id, date
	`

	var idFilter any
	if len(employeeIDs) > 0 {
		idFilter = employeeIDs
	}

	rows, err := a.db.Query(ctx, query, from, to, idFilter)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance by range: %w", err)
	}
	defer rows.Close()

	grouped := make(map[string]map[string]attendance.Attendance)
	for rows.Next() {
		att, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance row: %w", err)
		}
		byDate, ok := grouped[att.EmployeeID]
		if !ok {
			byDate = make(map[string]attendance.Attendance)
			grouped[att.EmployeeID] = byDate
		}
		byDate[attendance.DateKey(att.Date)] = att
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read attendance rows: %w", err)
	}

	return grouped, nil
}

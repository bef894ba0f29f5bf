package calendar

import "fmt"

// CalendarDay is one derived per-employee-per-date unit combining
// attendance, leave, holiday, and weekend facts. Status is nil for a
// working day that has no record yet and for unmarked weekends/holidays.
type CalendarDay struct {
	Date       string   `json:"date"` // "2006-01-02"
	IsWeekend  bool     `json:"is_weekend"`
	IsHoliday  bool     `json:"is_holiday"`
	Status     *float64 `json:"status"`
	StatusText string   `json:"status_text,omitempty"`
	LeaveID    *string  `json:"leave_id,omitempty"`
	LeaveType  *string  `json:"leave_type,omitempty"`
	Comment    *string  `json:"comment,omitempty"`
	PhotoURL   *string  `json:"photo_url,omitempty"`
}

// Stats is the monthly roll-up for one employee. TotalDays counts days with
// a leave or attendance record; unmarked working days and blank
// weekends/holidays do not count.
type Stats struct {
	TotalDays            int     `json:"total_days"`
	FullDays             int     `json:"full_days"`
	HalfDays             int     `json:"half_days"`
	AbsentDays           int     `json:"absent_days"`
	AbscondingDays       int     `json:"absconding_days"`
	LeaveDays            int     `json:"leave_days"`
	AttendancePercentage float64 `json:"attendance_percentage"`
}

// EmployeeCalendar is one employee's month: days ascending by date plus the
// roll-up stats.
type EmployeeCalendar struct {
	EmployeeID string        `json:"employee_id"`
	Name       string        `json:"name"`
	Department string        `json:"department,omitempty"`
	Role       string        `json:"role,omitempty"`
	Days       []CalendarDay `json:"days"`
	Stats      Stats         `json:"stats"`
}

// MonthlyCalendarRequest selects the month and the employee scope. When
// EmployeeID or DepartmentID is set it narrows the visible set; otherwise
// the requester's resolved permission scope decides.
type MonthlyCalendarRequest struct {
	RequesterID  string
	Year         int
	Month        int
	EmployeeID   string
	DepartmentID string
}

// Validate rejects out-of-range months before any fetch is issued.
func (r MonthlyCalendarRequest) Validate() error {
	if r.Month < 1 || r.Month > 12 {
		return fmt.Errorf("%w: month %d", ErrInvalidMonth, r.Month)
	}
	if r.Year < 2000 || r.Year > 2100 {
		return fmt.Errorf("%w: year %d", ErrInvalidMonth, r.Year)
	}
	return nil
}

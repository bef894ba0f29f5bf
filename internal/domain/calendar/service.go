package calendar

import "context"

// CalendarService builds the monthly view consumed by dashboards.
type CalendarService interface {
	// BuildMonthlyCalendar fans out the batch reads and merges them into one
	// EmployeeCalendar per visible employee. Employees keep the order the
	// visibility step resolved them in; callers sort downstream if needed.
	BuildMonthlyCalendar(ctx context.Context, req MonthlyCalendarRequest) ([]EmployeeCalendar, error)
}

package calendar

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/presenzo/presence-backend-go/internal/domain/attendance"
	"github.com/presenzo/presence-backend-go/internal/domain/calendar"
	"github.com/presenzo/presence-backend-go/internal/domain/employee"
	"github.com/presenzo/presence-backend-go/internal/domain/holiday"
	"github.com/presenzo/presence-backend-go/internal/domain/leave"
	"github.com/presenzo/presence-backend-go/internal/domain/permission"
	"github.com/presenzo/presence-backend-go/internal/domain/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSettingsService struct {
	cfg settings.TimingConfig
	err error
}

func (s *fakeSettingsService) Get(ctx context.Context) (settings.TimingConfig, error) {
	if s.err != nil {
		return settings.TimingConfig{}, s.err
	}
	return s.cfg, nil
}

func (s *fakeSettingsService) Update(ctx context.Context, cfg settings.TimingConfig) (settings.TimingConfig, error) {
	s.cfg = cfg
	return cfg, nil
}

func (s *fakeSettingsService) WarmCache(ctx context.Context) error { return nil }

type fakePermissionResolver struct {
	access permission.Access
	err    error
}

func (r *fakePermissionResolver) Resolve(ctx context.Context, userID, module string) (permission.Access, error) {
	if r.err != nil {
		return permission.Access{}, r.err
	}
	return r.access, nil
}

type fakeAttendanceRepo struct {
	grouped map[string]map[string]attendance.Attendance
	err     error
}

func (r *fakeAttendanceRepo) Create(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	return att, nil
}

func (r *fakeAttendanceRepo) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.Attendance, error) {
	return nil, nil
}

func (r *fakeAttendanceRepo) Update(ctx context.Context, att attendance.Attendance) error {
	return nil
}

func (r *fakeAttendanceRepo) ListByRange(ctx context.Context, employeeIDs []string, from, to time.Time) (map[string]map[string]attendance.Attendance, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.grouped, nil
}

type fakeLeaveRepo struct {
	intervals []leave.LeaveInterval
	err       error
}

func (r *fakeLeaveRepo) ListApprovedOverlapping(ctx context.Context, employeeIDs []string, from, to time.Time) ([]leave.LeaveInterval, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.intervals, nil
}

type fakeHolidayRepo struct {
	holidays []holiday.Holiday
	err      error
}

func (r *fakeHolidayRepo) ListByRange(ctx context.Context, from, to time.Time) ([]holiday.Holiday, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.holidays, nil
}

type fakeEmployeeRepo struct {
	employees []employee.Employee
	names     map[string]string
}

func (r *fakeEmployeeRepo) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	for _, emp := range r.employees {
		if emp.ID == id {
			return emp, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (r *fakeEmployeeRepo) ListActive(ctx context.Context) ([]employee.Employee, error) {
	return r.employees, nil
}

func (r *fakeEmployeeRepo) ListByDepartment(ctx context.Context, departmentID string) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, emp := range r.employees {
		if emp.DepartmentID != nil && *emp.DepartmentID == departmentID {
			out = append(out, emp)
		}
	}
	return out, nil
}

func (r *fakeEmployeeRepo) DepartmentNames(ctx context.Context) (map[string]string, error) {
	return r.names, nil
}

type calendarFixture struct {
	svc         *CalendarServiceImpl
	settings    *fakeSettingsService
	permissions *fakePermissionResolver
	attendance  *fakeAttendanceRepo
	leaves      *fakeLeaveRepo
	holidays    *fakeHolidayRepo
	employees   *fakeEmployeeRepo
}

func newCalendarFixture() *calendarFixture {
	cfg := settings.Default()
	cfg.Timezone = ""
	cfg.WeekendDays = []int{0} // Sunday
	f := &calendarFixture{
		settings:    &fakeSettingsService{cfg: cfg},
		permissions: &fakePermissionResolver{access: permission.Access{Scope: permission.ScopeOwn}},
		attendance:  &fakeAttendanceRepo{grouped: map[string]map[string]attendance.Attendance{}},
		leaves:      &fakeLeaveRepo{},
		holidays:    &fakeHolidayRepo{},
		employees:   &fakeEmployeeRepo{names: map[string]string{}},
	}
	f.svc = NewCalendarService(f.settings, f.permissions, f.attendance, f.leaves, f.holidays, f.employees, 0).(*CalendarServiceImpl)
	return f
}

func day(t *testing.T, value string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", value)
	require.NoError(t, err)
	return d
}

func attRecord(empID string, date string, status float64) attendance.Attendance {
	d, _ := time.Parse("2006-01-02", date)
	return attendance.Attendance{EmployeeID: empID, Date: d, Status: status}
}

func TestBuildMonthlyCalendar_Completeness(t *testing.T) {
	f := newCalendarFixture()
	f.employees.employees = []employee.Employee{{ID: "emp-1", Name: "Asha"}}

	months := []struct {
		year, month, days int
	}{
		{2024, 2, 29}, // leap February
		{2023, 2, 28},
		{2024, 3, 31},
		{2024, 4, 30},
		{2024, 12, 31},
	}

	for _, m := range months {
		cals, err := f.svc.BuildMonthlyCalendar(context.Background(), calendar.MonthlyCalendarRequest{
			RequesterID: "emp-1", Year: m.year, Month: m.month,
		})
		require.NoError(t, err)
		require.Len(t, cals, 1)
		require.Len(t, cals[0].Days, m.days)

		// Strictly ascending, no gaps.
		for i, d := range cals[0].Days {
			expected := time.Date(m.year, time.Month(m.month), i+1, 0, 0, 0, 0, time.UTC)
			assert.Equal(t, attendance.DateKey(expected), d.Date)
		}
	}
}

func TestBuildMonthlyCalendar_InvalidMonth(t *testing.T) {
	f := newCalendarFixture()

	_, err := f.svc.BuildMonthlyCalendar(context.Background(), calendar.MonthlyCalendarRequest{
		RequesterID: "emp-1", Year: 2024, Month: 13,
	})
	assert.ErrorIs(t, err, calendar.ErrInvalidMonth)

	_, err = f.svc.BuildMonthlyCalendar(context.Background(), calendar.MonthlyCalendarRequest{
		RequesterID: "emp-1", Year: 1980, Month: 5,
	})
	assert.ErrorIs(t, err, calendar.ErrInvalidMonth)
}

func TestBuildMonthlyCalendar_LeaveTakesPrecedenceOverRecord(t *testing.T) {
	f := newCalendarFixture()
	f.employees.employees = []employee.Employee{{ID: "emp-1", Name: "Asha"}}
	f.attendance.grouped = map[string]map[string]attendance.Attendance{
		"emp-1": {"2024-03-15": attRecord("emp-1", "2024-03-15", attendance.StatusAbsent)},
	}
	f.leaves.intervals = []leave.LeaveInterval{{
		ID:         "leave-9",
		EmployeeID: "emp-1",
		StartDate:  day(t, "2024-03-15"),
		EndDate:    day(t, "2024-03-15"),
		Status:     leave.StatusApproved,
		Type:       "sick",
	}}

	cals, err := f.svc.BuildMonthlyCalendar(context.Background(), calendar.MonthlyCalendarRequest{
		RequesterID: "emp-1", Year: 2024, Month: 3,
	})

	require.NoError(t, err)
	require.Len(t, cals, 1)
	d := cals[0].Days[14] // 2024-03-15
	assert.Equal(t, "2024-03-15", d.Date)
	require.NotNil(t, d.Status)
	assert.Equal(t, attendance.StatusLeave, *d.Status)
	require.NotNil(t, d.LeaveID)
	assert.Equal(t, "leave-9", *d.LeaveID)
	assert.Equal(t, 1, cals[0].Stats.LeaveDays)
	assert.Equal(t, 0, cals[0].Stats.AbsentDays)
}

func TestBuildMonthlyCalendar_WeekendAndHolidayBlankDays(t *testing.T) {
	f := newCalendarFixture()
	f.employees.employees = []employee.Employee{{ID: "emp-1", Name: "Asha"}}
	f.holidays.holidays = []holiday.Holiday{{ID: "h-1", Date: day(t, "2024-03-25"), Name: "Holi"}}

	cals, err := f.svc.BuildMonthlyCalendar(context.Background(), calendar.MonthlyCalendarRequest{
		RequesterID: "emp-1", Year: 2024, Month: 3,
	})
	require.NoError(t, err)
	require.Len(t, cals, 1)

	// 2024-03-03 is a Sunday.
	sunday := cals[0].Days[2]
	assert.True(t, sunday.IsWeekend)
	assert.Nil(t, sunday.Status)
	assert.Empty(t, sunday.StatusText)

	holi := cals[0].Days[24]
	assert.True(t, holi.IsHoliday)
	assert.Nil(t, holi.Status)
	assert.Empty(t, holi.StatusText)

	// A plain working day without a record reads "Not Marked".
	workday := cals[0].Days[0] // 2024-03-01, Friday
	assert.False(t, workday.IsWeekend)
	assert.Nil(t, workday.Status)
	assert.Equal(t, "Not Marked", workday.StatusText)

	// Blank days never count toward the totals.
	assert.Equal(t, 0, cals[0].Stats.TotalDays)
	assert.Equal(t, 0.0, cals[0].Stats.AttendancePercentage)
}

func TestBuildMonthlyCalendar_StatsAndPercentage(t *testing.T) {
	f := newCalendarFixture()
	f.employees.employees = []employee.Employee{{ID: "emp-1", Name: "Asha"}}
	f.attendance.grouped = map[string]map[string]attendance.Attendance{
		"emp-1": {
			"2024-03-04": attRecord("emp-1", "2024-03-04", attendance.StatusFullDay),
			"2024-03-05": attRecord("emp-1", "2024-03-05", attendance.StatusFullDay),
			"2024-03-06": attRecord("emp-1", "2024-03-06", attendance.StatusHalfDay),
			"2024-03-07": attRecord("emp-1", "2024-03-07", attendance.StatusAbsent),
			"2024-03-08": attRecord("emp-1", "2024-03-08", attendance.StatusAbsconding),
		},
	}
	f.leaves.intervals = []leave.LeaveInterval{{
		ID:         "leave-1",
		EmployeeID: "emp-1",
		StartDate:  day(t, "2024-03-11"),
		EndDate:    day(t, "2024-03-11"),
		Status:     leave.StatusApproved,
	}}

	cals, err := f.svc.BuildMonthlyCalendar(context.Background(), calendar.MonthlyCalendarRequest{
		RequesterID: "emp-1", Year: 2024, Month: 3,
	})
	require.NoError(t, err)
	require.Len(t, cals, 1)

	stats := cals[0].Stats
	assert.Equal(t, 6, stats.TotalDays)
	assert.Equal(t, 2, stats.FullDays)
	assert.Equal(t, 1, stats.HalfDays)
	assert.Equal(t, 1, stats.AbsentDays)
	assert.Equal(t, 1, stats.AbscondingDays)
	assert.Equal(t, 1, stats.LeaveDays)

	// (2 + 0.5 + 1) / 6 = 58.33
	assert.InDelta(t, 58.33, stats.AttendancePercentage, 0.001)
	assert.GreaterOrEqual(t, stats.AttendancePercentage, 0.0)
	assert.LessOrEqual(t, stats.AttendancePercentage, 100.0)
}

func TestBuildMonthlyCalendar_LegacyStatusCanonicalized(t *testing.T) {
	f := newCalendarFixture()
	f.employees.employees = []employee.Employee{{ID: "emp-1", Name: "Asha"}}
	f.attendance.grouped = map[string]map[string]attendance.Attendance{
		"emp-1": {"2024-03-04": attRecord("emp-1", "2024-03-04", 0.75)}, // off-scale
	}

	cals, err := f.svc.BuildMonthlyCalendar(context.Background(), calendar.MonthlyCalendarRequest{
		RequesterID: "emp-1", Year: 2024, Month: 3,
	})
	require.NoError(t, err)

	d := cals[0].Days[3]
	require.NotNil(t, d.Status)
	assert.Equal(t, attendance.StatusFullDay, *d.Status)
}

func TestBuildMonthlyCalendar_DegradedHolidayBranch(t *testing.T) {
	f := newCalendarFixture()
	f.employees.employees = []employee.Employee{{ID: "emp-1", Name: "Asha"}}
	f.holidays.err = errors.New("holiday store unavailable")

	cals, err := f.svc.BuildMonthlyCalendar(context.Background(), calendar.MonthlyCalendarRequest{
		RequesterID: "emp-1", Year: 2024, Month: 3,
	})

	// A failed branch degrades to its default instead of failing the request.
	require.NoError(t, err)
	require.Len(t, cals, 1)
	for _, d := range cals[0].Days {
		assert.False(t, d.IsHoliday)
	}
}

func TestBuildMonthlyCalendar_DegradedPermissionsFallBackToOwn(t *testing.T) {
	dept := "dept-1"
	f := newCalendarFixture()
	f.employees.employees = []employee.Employee{
		{ID: "emp-1", Name: "Asha", DepartmentID: &dept},
		{ID: "emp-2", Name: "Ravi", DepartmentID: &dept},
	}
	f.permissions.err = errors.New("permission service down")

	cals, err := f.svc.BuildMonthlyCalendar(context.Background(), calendar.MonthlyCalendarRequest{
		RequesterID: "emp-1", Year: 2024, Month: 3,
	})

	require.NoError(t, err)
	require.Len(t, cals, 1)
	assert.Equal(t, "emp-1", cals[0].EmployeeID)
}

func TestBuildMonthlyCalendar_ScopeSelection(t *testing.T) {
	dept := "dept-1"
	other := "dept-2"
	f := newCalendarFixture()
	f.employees.employees = []employee.Employee{
		{ID: "emp-1", Name: "Asha", DepartmentID: &dept},
		{ID: "emp-2", Name: "Ravi", DepartmentID: &dept},
		{ID: "emp-3", Name: "Meera", DepartmentID: &other},
	}
	f.employees.names = map[string]string{"dept-1": "Engineering", "dept-2": "Sales"}

	t.Run("own scope sees only the requester", func(t *testing.T) {
		f.permissions.access = permission.Access{Scope: permission.ScopeOwn}
		cals, err := f.svc.BuildMonthlyCalendar(context.Background(), calendar.MonthlyCalendarRequest{
			RequesterID: "emp-2", Year: 2024, Month: 3,
		})
		require.NoError(t, err)
		require.Len(t, cals, 1)
		assert.Equal(t, "emp-2", cals[0].EmployeeID)
		assert.Equal(t, "Engineering", cals[0].Department)
	})

	t.Run("junior scope sees the department", func(t *testing.T) {
		f.permissions.access = permission.Access{Scope: permission.ScopeJunior}
		cals, err := f.svc.BuildMonthlyCalendar(context.Background(), calendar.MonthlyCalendarRequest{
			RequesterID: "emp-1", Year: 2024, Month: 3,
		})
		require.NoError(t, err)
		require.Len(t, cals, 2)
	})

	t.Run("junior scope narrowed within the department", func(t *testing.T) {
		f.permissions.access = permission.Access{Scope: permission.ScopeJunior}
		cals, err := f.svc.BuildMonthlyCalendar(context.Background(), calendar.MonthlyCalendarRequest{
			RequesterID: "emp-1", Year: 2024, Month: 3, EmployeeID: "emp-2",
		})
		require.NoError(t, err)
		require.Len(t, cals, 1)
		assert.Equal(t, "emp-2", cals[0].EmployeeID)
	})

	t.Run("junior scope denied across departments", func(t *testing.T) {
		f.permissions.access = permission.Access{Scope: permission.ScopeJunior}
		_, err := f.svc.BuildMonthlyCalendar(context.Background(), calendar.MonthlyCalendarRequest{
			RequesterID: "emp-1", Year: 2024, Month: 3, EmployeeID: "emp-3",
		})
		assert.ErrorIs(t, err, permission.ErrScopeDenied)
	})

	t.Run("all scope sees everyone", func(t *testing.T) {
		f.permissions.access = permission.Access{Scope: permission.ScopeAll}
		cals, err := f.svc.BuildMonthlyCalendar(context.Background(), calendar.MonthlyCalendarRequest{
			RequesterID: "emp-1", Year: 2024, Month: 3,
		})
		require.NoError(t, err)
		require.Len(t, cals, 3)
	})

	t.Run("all scope narrowed to one employee", func(t *testing.T) {
		f.permissions.access = permission.Access{Scope: permission.ScopeAll}
		cals, err := f.svc.BuildMonthlyCalendar(context.Background(), calendar.MonthlyCalendarRequest{
			RequesterID: "emp-1", Year: 2024, Month: 3, EmployeeID: "emp-3",
		})
		require.NoError(t, err)
		require.Len(t, cals, 1)
		assert.Equal(t, "emp-3", cals[0].EmployeeID)
	})
}

func TestExpandLeaves_ClippedToMonth(t *testing.T) {
	monthStart := day(t, "2024-03-01")
	monthEnd := day(t, "2024-03-31")
	intervals := []leave.LeaveInterval{{
		ID:         "leave-1",
		EmployeeID: "emp-1",
		StartDate:  day(t, "2024-02-27"),
		EndDate:    day(t, "2024-03-02"),
	}}

	byEmp := expandLeaves(intervals, monthStart, monthEnd)

	require.Contains(t, byEmp, "emp-1")
	assert.Len(t, byEmp["emp-1"], 2)
	assert.Contains(t, byEmp["emp-1"], "2024-03-01")
	assert.Contains(t, byEmp["emp-1"], "2024-03-02")
}

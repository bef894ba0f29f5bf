package calendar

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/presenzo/presence-backend-go/internal/domain/attendance"
	"github.com/presenzo/presence-backend-go/internal/domain/calendar"
	"github.com/presenzo/presence-backend-go/internal/domain/employee"
	"github.com/presenzo/presence-backend-go/internal/domain/holiday"
	"github.com/presenzo/presence-backend-go/internal/domain/leave"
	"github.com/presenzo/presence-backend-go/internal/domain/permission"
	"github.com/presenzo/presence-backend-go/internal/domain/settings"
	"github.com/presenzo/presence-backend-go/internal/pkg/metrics"
	"golang.org/x/sync/errgroup"
)

// DefaultFetchTimeout bounds each branch of the batch fetch. A branch that
// overruns is degraded to its default, same as a failed one.
const DefaultFetchTimeout = 5 * time.Second

type CalendarServiceImpl struct {
	settingsSvc    settings.SettingsService
	permissions    permission.Resolver
	attendanceRepo attendance.AttendanceRepository
	leaveRepo      leave.LeaveRepository
	holidayRepo    holiday.HolidayRepository
	employeeRepo   employee.EmployeeRepository

	fetchTimeout time.Duration
}

func NewCalendarService(
	settingsSvc settings.SettingsService,
	permissions permission.Resolver,
	attendanceRepo attendance.AttendanceRepository,
	leaveRepo leave.LeaveRepository,
	holidayRepo holiday.HolidayRepository,
	employeeRepo employee.EmployeeRepository,
	fetchTimeout time.Duration,
) calendar.CalendarService {
	if fetchTimeout <= 0 {
		fetchTimeout = DefaultFetchTimeout
	}
	return &CalendarServiceImpl{
		settingsSvc:    settingsSvc,
		permissions:    permissions,
		attendanceRepo: attendanceRepo,
		leaveRepo:      leaveRepo,
		holidayRepo:    holidayRepo,
		employeeRepo:   employeeRepo,
		fetchTimeout:   fetchTimeout,
	}
}

// monthData is everything the aggregation pass reads, assembled by the
// batch fetch. Lookup maps are keyed for O(1) access per (employee, day).
type monthData struct {
	cfg             settings.TimingConfig
	employees       []employee.Employee
	attendanceByEmp map[string]map[string]attendance.Attendance
	holidaySet      map[string]struct{}
	leaveByEmp      map[string]map[string]leave.LeaveInterval
	departmentNames map[string]string
}

// BuildMonthlyCalendar implements calendar.CalendarService.
func (s *CalendarServiceImpl) BuildMonthlyCalendar(ctx context.Context, req calendar.MonthlyCalendarRequest) ([]calendar.EmployeeCalendar, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	defer func() {
		metrics.CalendarBuildSeconds.Observe(time.Since(start).Seconds())
	}()

	scope, err := s.resolveScope(ctx, req)
	if err != nil {
		return nil, err
	}

	monthStart := time.Date(req.Year, time.Month(req.Month), 1, 0, 0, 0, 0, time.UTC)
	daysInMonth := time.Date(req.Year, time.Month(req.Month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
	monthEnd := time.Date(req.Year, time.Month(req.Month), daysInMonth, 0, 0, 0, 0, time.UTC)

	data := s.fetchMonthData(ctx, scope, monthStart, monthEnd)

	return s.aggregate(req, data, monthStart, daysInMonth), nil
}

// employeeScope is the outcome of the visibility step: how to list the
// employees the requester may see.
type employeeScope struct {
	employeeIDs  []string // nil means all active employees
	departmentID string   // set when the scope is one department
	all          bool
}

// resolveScope maps the externally resolved permission level onto a concrete
// employee selection. Resolver failures degrade to own-records-only rather
// than failing the request.
func (s *CalendarServiceImpl) resolveScope(ctx context.Context, req calendar.MonthlyCalendarRequest) (employeeScope, error) {
	access, err := s.permissions.Resolve(ctx, req.RequesterID, permission.ModuleAttendance)
	if err != nil {
		slog.Warn("Permission resolution failed, degrading to own scope",
			"requester_id", req.RequesterID, "error", err)
		metrics.DegradedFetchesTotal.WithLabelValues("permissions").Inc()
		access = permission.Access{Scope: permission.ScopeOwn}
	}

	switch {
	case access.SuperAdmin || access.Scope == permission.ScopeAll:
		if req.EmployeeID != "" {
			return employeeScope{employeeIDs: []string{req.EmployeeID}}, nil
		}
		if req.DepartmentID != "" {
			return employeeScope{departmentID: req.DepartmentID}, nil
		}
		return employeeScope{all: true}, nil

	case access.Scope == permission.ScopeJunior:
		requester, err := s.employeeRepo.GetByID(ctx, req.RequesterID)
		if err != nil {
			if errors.Is(err, employee.ErrEmployeeNotFound) {
				return employeeScope{}, employee.ErrEmployeeNotFound
			}
			return employeeScope{}, fmt.Errorf("failed to load requester: %w", err)
		}
		if req.EmployeeID != "" && req.EmployeeID != req.RequesterID {
			// Junior scope only reaches into the requester's own department.
			if requester.DepartmentID == nil {
				return employeeScope{}, permission.ErrScopeDenied
			}
			target, err := s.employeeRepo.GetByID(ctx, req.EmployeeID)
			if err != nil {
				if errors.Is(err, employee.ErrEmployeeNotFound) {
					return employeeScope{}, employee.ErrEmployeeNotFound
				}
				return employeeScope{}, fmt.Errorf("failed to load employee: %w", err)
			}
			if target.DepartmentID == nil || *target.DepartmentID != *requester.DepartmentID {
				return employeeScope{}, permission.ErrScopeDenied
			}
			return employeeScope{employeeIDs: []string{req.EmployeeID}}, nil
		}
		if req.EmployeeID == req.RequesterID || requester.DepartmentID == nil {
			return employeeScope{employeeIDs: []string{req.RequesterID}}, nil
		}
		return employeeScope{departmentID: *requester.DepartmentID}, nil

	default: // own
		return employeeScope{employeeIDs: []string{req.RequesterID}}, nil
	}
}

// fetchMonthData issues the six reads concurrently under one fan-out/fan-in
// join. Any single branch failing (or timing out) is logged, counted, and
// replaced with an empty default so the aggregation still completes.
func (s *CalendarServiceImpl) fetchMonthData(ctx context.Context, scope employeeScope, monthStart, monthEnd time.Time) monthData {
	data := monthData{
		cfg:             settings.Default(),
		attendanceByEmp: map[string]map[string]attendance.Attendance{},
		holidaySet:      map[string]struct{}{},
		leaveByEmp:      map[string]map[string]leave.LeaveInterval{},
		departmentNames: map[string]string{},
	}

	degrade := func(branch string, err error) {
		slog.Warn("Calendar batch fetch branch degraded to default",
			"branch", branch, "error", err)
		metrics.DegradedFetchesTotal.WithLabelValues(branch).Inc()
	}

	g, gCtx := errgroup.WithContext(ctx)

	// 1. Attendance settings
	g.Go(func() error {
		bCtx, cancel := context.WithTimeout(gCtx, s.fetchTimeout)
		defer cancel()
		cfg, err := s.settingsSvc.Get(bCtx)
		if err != nil {
			degrade("settings", err)
			return nil
		}
		data.cfg = cfg
		return nil
	})

	// 2. Employee set with metadata, in resolution order
	g.Go(func() error {
		bCtx, cancel := context.WithTimeout(gCtx, s.fetchTimeout)
		defer cancel()
		employees, err := s.listEmployees(bCtx, scope)
		if err != nil {
			degrade("employees", err)
			return nil
		}
		data.employees = employees
		return nil
	})

	// 3. Attendance records for the whole set, pre-grouped employee->date
	g.Go(func() error {
		bCtx, cancel := context.WithTimeout(gCtx, s.fetchTimeout)
		defer cancel()
		grouped, err := s.attendanceRepo.ListByRange(bCtx, scope.employeeIDs, monthStart, monthEnd)
		if err != nil {
			degrade("attendance", err)
			return nil
		}
		data.attendanceByEmp = grouped
		return nil
	})

	// 4. Holidays: a failure here means every day aggregates as non-holiday
	g.Go(func() error {
		bCtx, cancel := context.WithTimeout(gCtx, s.fetchTimeout)
		defer cancel()
		holidays, err := s.holidayRepo.ListByRange(bCtx, monthStart, monthEnd)
		if err != nil {
			degrade("holidays", err)
			return nil
		}
		for _, h := range holidays {
			data.holidaySet[attendance.DateKey(h.Date)] = struct{}{}
		}
		return nil
	})

	// 5. Approved leave intervals, expanded into dates clipped to the month
	g.Go(func() error {
		bCtx, cancel := context.WithTimeout(gCtx, s.fetchTimeout)
		defer cancel()
		intervals, err := s.leaveRepo.ListApprovedOverlapping(bCtx, scope.employeeIDs, monthStart, monthEnd)
		if err != nil {
			degrade("leaves", err)
			return nil
		}
		data.leaveByEmp = expandLeaves(intervals, monthStart, monthEnd)
		return nil
	})

	// 6. Department name lookups
	g.Go(func() error {
		bCtx, cancel := context.WithTimeout(gCtx, s.fetchTimeout)
		defer cancel()
		names, err := s.employeeRepo.DepartmentNames(bCtx)
		if err != nil {
			degrade("departments", err)
			return nil
		}
		data.departmentNames = names
		return nil
	})

	// Branches swallow their own errors, so Wait only joins.
	_ = g.Wait()

	return data
}

func (s *CalendarServiceImpl) listEmployees(ctx context.Context, scope employeeScope) ([]employee.Employee, error) {
	switch {
	case scope.all:
		return s.employeeRepo.ListActive(ctx)
	case scope.departmentID != "":
		return s.employeeRepo.ListByDepartment(ctx, scope.departmentID)
	default:
		employees := make([]employee.Employee, 0, len(scope.employeeIDs))
		for _, id := range scope.employeeIDs {
			emp, err := s.employeeRepo.GetByID(ctx, id)
			if err != nil {
				return nil, err
			}
			employees = append(employees, emp)
		}
		return employees, nil
	}
}

// expandLeaves turns approved intervals into per-employee per-date lookups,
// clipped to the requested month.
func expandLeaves(intervals []leave.LeaveInterval, monthStart, monthEnd time.Time) map[string]map[string]leave.LeaveInterval {
	out := map[string]map[string]leave.LeaveInterval{}
	for _, iv := range intervals {
		from := iv.StartDate
		if from.Before(monthStart) {
			from = monthStart
		}
		to := iv.EndDate
		if to.After(monthEnd) {
			to = monthEnd
		}
		for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
			byDate, ok := out[iv.EmployeeID]
			if !ok {
				byDate = map[string]leave.LeaveInterval{}
				out[iv.EmployeeID] = byDate
			}
			byDate[attendance.DateKey(d)] = iv
		}
	}
	return out
}

// aggregate runs the per-employee per-day merge. Days are emitted strictly
// ascending; employees keep the order the visibility step resolved them in.
func (s *CalendarServiceImpl) aggregate(req calendar.MonthlyCalendarRequest, data monthData, monthStart time.Time, daysInMonth int) []calendar.EmployeeCalendar {
	out := make([]calendar.EmployeeCalendar, 0, len(data.employees))

	for _, emp := range data.employees {
		cal := calendar.EmployeeCalendar{
			EmployeeID: emp.ID,
			Name:       emp.Name,
			Role:       emp.Role,
			Days:       make([]calendar.CalendarDay, 0, daysInMonth),
		}
		if emp.DepartmentID != nil {
			cal.Department = data.departmentNames[*emp.DepartmentID]
		}

		records := data.attendanceByEmp[emp.ID]
		leaves := data.leaveByEmp[emp.ID]

		for dayNum := 1; dayNum <= daysInMonth; dayNum++ {
			date := monthStart.AddDate(0, 0, dayNum-1)
			day := s.resolveDay(date, data.cfg, records, leaves, data.holidaySet)
			cal.Days = append(cal.Days, day)
			tallyDay(&cal.Stats, day)
		}

		cal.Stats.AttendancePercentage = percentage(cal.Stats)
		out = append(out, cal)
	}

	return out
}

// resolveDay applies the merge precedence for one (employee, date):
// approved leave, then an attendance record, then unmarked working day,
// then blank weekend/holiday.
func (s *CalendarServiceImpl) resolveDay(
	date time.Time,
	cfg settings.TimingConfig,
	records map[string]attendance.Attendance,
	leaves map[string]leave.LeaveInterval,
	holidaySet map[string]struct{},
) calendar.CalendarDay {
	key := attendance.DateKey(date)
	_, isHoliday := holidaySet[key]

	day := calendar.CalendarDay{
		Date:      key,
		IsWeekend: cfg.IsWeekend(date),
		IsHoliday: isHoliday,
	}

	if lv, ok := leaves[key]; ok {
		status := attendance.StatusLeave
		day.Status = &status
		day.StatusText = leaveText(lv)
		day.LeaveID = &lv.ID
		if lv.Type != "" {
			leaveType := lv.Type
			day.LeaveType = &leaveType
		}
		return day
	}

	if rec, ok := records[key]; ok {
		status := rec.Status
		if !attendance.IsCanonicalStatus(status) {
			status = attendance.StatusFullDay
		}
		day.Status = &status
		day.StatusText = attendance.StatusLabel(status)
		day.Comment = rec.Comment
		day.PhotoURL = rec.CheckInPhotoURL
		return day
	}

	if !day.IsWeekend && !day.IsHoliday {
		day.StatusText = "Not Marked"
	}
	return day
}

func leaveText(lv leave.LeaveInterval) string {
	text := "Leave"
	if lv.Type != "" {
		text += " - " + lv.Type
	}
	if lv.Reason != "" {
		text += ": " + lv.Reason
	}
	return text
}

// tallyDay feeds one resolved day into the monthly stats. Only days with a
// leave or attendance record count toward the total.
func tallyDay(stats *calendar.Stats, day calendar.CalendarDay) {
	if day.Status == nil {
		return
	}

	stats.TotalDays++
	switch *day.Status {
	case attendance.StatusFullDay:
		stats.FullDays++
	case attendance.StatusHalfDay:
		stats.HalfDays++
	case attendance.StatusAbsent:
		stats.AbsentDays++
	case attendance.StatusAbsconding:
		stats.AbscondingDays++
	case attendance.StatusLeave:
		stats.LeaveDays++
	}
}

// percentage treats approved leave as fully attended.
func percentage(stats calendar.Stats) float64 {
	if stats.TotalDays == 0 {
		return 0.0
	}
	attended := float64(stats.FullDays) + 0.5*float64(stats.HalfDays) + float64(stats.LeaveDays)
	return math.Round(attended/float64(stats.TotalDays)*100*100) / 100
}

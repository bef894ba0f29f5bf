package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/presenzo/presence-backend-go/internal/domain/attendance"
	"github.com/presenzo/presence-backend-go/internal/domain/employee"
	"github.com/presenzo/presence-backend-go/internal/domain/holiday"
	"github.com/presenzo/presence-backend-go/internal/domain/permission"
	"github.com/presenzo/presence-backend-go/internal/domain/settings"
	"github.com/presenzo/presence-backend-go/internal/pkg/geo"
	"github.com/presenzo/presence-backend-go/internal/pkg/jwt"
	"github.com/presenzo/presence-backend-go/internal/pkg/metrics"
)

type AttendanceServiceImpl struct {
	attendanceRepo attendance.AttendanceRepository
	employeeRepo   employee.EmployeeRepository
	holidayRepo    holiday.HolidayRepository
	settingsSvc    settings.SettingsService
	permissions    permission.Resolver

	now func() time.Time
}

func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	holidayRepo holiday.HolidayRepository,
	settingsSvc settings.SettingsService,
	permissions permission.Resolver,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		attendanceRepo: attendanceRepo,
		employeeRepo:   employeeRepo,
		holidayRepo:    holidayRepo,
		settingsSvc:    settingsSvc,
		permissions:    permissions,
		now:            time.Now,
	}
}

// CheckIn implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckIn(ctx context.Context, req attendance.CheckInRequest) (attendance.AttendanceResponse, error) {
	employeeID, err := jwt.EmployeeIDFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	cfg, err := s.settingsSvc.Get(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to load attendance settings: %w", err)
	}

	nowUTC := s.now().UTC()
	nowLocal := nowUTC.In(cfg.Location())
	today := dayOf(nowLocal)

	existing, err := s.attendanceRepo.GetByEmployeeAndDate(ctx, employeeID, today)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to check for existing attendance: %w", err)
	}
	if existing != nil {
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedIn
	}

	if err := s.checkGeofence(cfg, req.Latitude, req.Longitude); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	decision := EvaluateCheckIn(nowLocal, cfg)

	record := attendance.Attendance{
		EmployeeID:       employeeID,
		Date:             today,
		CheckIn:          &nowUTC,
		CheckInLatitude:  req.Latitude,
		CheckInLongitude: req.Longitude,
		CheckInPhotoURL:  req.PhotoURL,
		Status:           decision.Status,
		MarkedBy:         employeeID,
	}

	created, err := s.attendanceRepo.Create(ctx, record)
	if err != nil {
		if errors.Is(err, attendance.ErrDuplicateRecord) {
			return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedIn
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to create attendance record: %w", err)
	}

	metrics.CheckInsTotal.WithLabelValues(attendance.StatusLabel(decision.Status)).Inc()

	resp := toResponse(created)
	resp.Reason = decision.Reason

	if decision.Cascades {
		cascade, err := s.applyCascade(ctx, employeeID, today, cfg)
		if err != nil {
			// The check-in itself succeeded; a cascade write failure is
			// logged and does not fail the request.
			slog.Error("Failed to create cascade absence record",
				"employee_id", employeeID, "trigger_date", attendance.DateKey(today), "error", err)
		} else if cascade != nil {
			c := toResponse(*cascade)
			resp.Cascade = &c
		}
	}

	return resp, nil
}

// applyCascade writes the forced-absence record for the day after a very
// late check-in. Hitting an existing (employee, date) record is success.
func (s *AttendanceServiceImpl) applyCascade(ctx context.Context, employeeID string, triggerDate time.Time, cfg settings.TimingConfig) (*attendance.Attendance, error) {
	record := BuildCascadeRecord(employeeID, triggerDate, cfg, s.holidayProbe(ctx))
	if record == nil {
		return nil, nil
	}

	created, err := s.attendanceRepo.Create(ctx, *record)
	if err != nil {
		if errors.Is(err, attendance.ErrDuplicateRecord) {
			return nil, nil
		}
		return nil, err
	}

	metrics.CascadeRecordsTotal.Inc()
	return &created, nil
}

// holidayProbe returns a lookup used only when cascade_skip_holidays is on.
func (s *AttendanceServiceImpl) holidayProbe(ctx context.Context) func(time.Time) bool {
	return func(date time.Time) bool {
		holidays, err := s.holidayRepo.ListByRange(ctx, date, date)
		if err != nil {
			slog.Warn("Holiday lookup failed during cascade, treating as non-holiday", "error", err)
			return false
		}
		return len(holidays) > 0
	}
}

// CheckOut implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckOut(ctx context.Context, req attendance.CheckOutRequest) (attendance.AttendanceResponse, error) {
	employeeID, err := jwt.EmployeeIDFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	cfg, err := s.settingsSvc.Get(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to load attendance settings: %w", err)
	}

	nowUTC := s.now().UTC()
	nowLocal := nowUTC.In(cfg.Location())
	today := dayOf(nowLocal)

	record, err := s.attendanceRepo.GetByEmployeeAndDate(ctx, employeeID, today)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to load today's attendance: %w", err)
	}
	if record == nil || record.CheckIn == nil {
		return attendance.AttendanceResponse{}, attendance.ErrNotCheckedIn
	}
	if record.CheckOut != nil {
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedOut
	}

	if err := s.checkGeofence(cfg, req.Latitude, req.Longitude); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	decision := EvaluateCheckOut(record.Status, record.CheckIn.In(cfg.Location()), nowLocal, cfg)

	record.CheckOut = &nowUTC
	record.CheckOutLatitude = req.Latitude
	record.CheckOutLongitude = req.Longitude
	record.CheckOutPhotoURL = req.PhotoURL
	record.Status = decision.Status

	if err := s.attendanceRepo.Update(ctx, *record); err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to update attendance record: %w", err)
	}

	resp := toResponse(*record)
	resp.Reason = decision.Reason
	worked := round2(decision.WorkedHours)
	resp.WorkedHours = &worked
	return resp, nil
}

// Mark implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Mark(ctx context.Context, req attendance.MarkRequest) (attendance.AttendanceResponse, error) {
	userID, err := jwt.UserIDFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	access, err := s.permissions.Resolve(ctx, userID, permission.ModuleAttendance)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to resolve permissions: %w", err)
	}
	if !access.CanMark() {
		return attendance.AttendanceResponse{}, permission.ErrScopeDenied
	}

	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	if _, err := s.employeeRepo.GetByID(ctx, req.EmployeeID); err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return attendance.AttendanceResponse{}, employee.ErrEmployeeNotFound
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to load employee: %w", err)
	}

	date, _ := time.Parse("2006-01-02", req.Date)
	status := attendance.CanonicalStatus(req.Status)

	existing, err := s.attendanceRepo.GetByEmployeeAndDate(ctx, req.EmployeeID, date)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to check for existing attendance: %w", err)
	}

	if existing != nil {
		existing.Status = status
		existing.Comment = req.Comment
		existing.MarkedBy = userID
		if err := s.attendanceRepo.Update(ctx, *existing); err != nil {
			return attendance.AttendanceResponse{}, fmt.Errorf("failed to update attendance record: %w", err)
		}
		return toResponse(*existing), nil
	}

	created, err := s.attendanceRepo.Create(ctx, attendance.Attendance{
		EmployeeID: req.EmployeeID,
		Date:       date,
		Status:     status,
		Comment:    req.Comment,
		MarkedBy:   userID,
	})
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to create attendance record: %w", err)
	}
	return toResponse(created), nil
}

// GetDetail implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetDetail(ctx context.Context, employeeID, date string) (attendance.AttendanceResponse, error) {
	requesterID, err := jwt.UserIDFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if err := s.checkViewScope(ctx, requesterID, employeeID); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	parsed, err := time.Parse("2006-01-02", date)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("date must be formatted as YYYY-MM-DD")
	}

	record, err := s.attendanceRepo.GetByEmployeeAndDate(ctx, employeeID, parsed)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to load attendance record: %w", err)
	}
	if record == nil {
		return attendance.AttendanceResponse{}, attendance.ErrAttendanceNotFound
	}

	resp := toResponse(*record)
	if record.CheckIn != nil && record.CheckOut != nil {
		worked := round2(record.CheckOut.Sub(*record.CheckIn).Hours())
		resp.WorkedHours = &worked
	}
	return resp, nil
}

// checkViewScope applies the visibility rules to a single-record read: own
// scope sees only the requester, junior scope the requester's department,
// all scope and super admins see everyone.
func (s *AttendanceServiceImpl) checkViewScope(ctx context.Context, requesterID, employeeID string) error {
	if requesterID == employeeID {
		return nil
	}

	access, err := s.permissions.Resolve(ctx, requesterID, permission.ModuleAttendance)
	if err != nil {
		return fmt.Errorf("failed to resolve permissions: %w", err)
	}

	switch {
	case access.SuperAdmin || access.Scope == permission.ScopeAll:
		return nil

	case access.Scope == permission.ScopeJunior:
		requester, err := s.employeeRepo.GetByID(ctx, requesterID)
		if err != nil {
			if errors.Is(err, employee.ErrEmployeeNotFound) {
				return employee.ErrEmployeeNotFound
			}
			return fmt.Errorf("failed to load requester: %w", err)
		}
		if requester.DepartmentID == nil {
			return permission.ErrScopeDenied
		}
		target, err := s.employeeRepo.GetByID(ctx, employeeID)
		if err != nil {
			if errors.Is(err, employee.ErrEmployeeNotFound) {
				return employee.ErrEmployeeNotFound
			}
			return fmt.Errorf("failed to load employee: %w", err)
		}
		if target.DepartmentID == nil || *target.DepartmentID != *requester.DepartmentID {
			return permission.ErrScopeDenied
		}
		return nil

	default:
		return permission.ErrScopeDenied
	}
}

// checkGeofence blocks out-of-radius locations when the geofence is on.
// Malformed coordinates fail open unless enforce_geofence is set.
func (s *AttendanceServiceImpl) checkGeofence(cfg settings.TimingConfig, lat, lng *float64) error {
	if !cfg.GeofenceEnabled {
		return nil
	}

	userLat, userLng := math.NaN(), math.NaN()
	if lat != nil {
		userLat = *lat
	}
	if lng != nil {
		userLng = *lng
	}

	if !geo.WellFormed(userLat, userLng) {
		if cfg.EnforceGeofence {
			return attendance.ErrOutsideAllowedRadius
		}
		slog.Warn("Malformed coordinates on attendance request, failing open",
			"latitude", userLat, "longitude", userLng)
		return nil
	}

	if !geo.Validate(userLat, userLng, cfg.OfficeLatitude, cfg.OfficeLongitude, cfg.GeofenceRadiusMeters) {
		return attendance.ErrOutsideAllowedRadius
	}
	return nil
}

// dayOf truncates a local timestamp to its calendar date.
func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// timePtrToString safely converts a *time.Time to a string.
func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	format := t.Format("2006-01-02 15:04:05")
	return &format
}

func toResponse(att attendance.Attendance) attendance.AttendanceResponse {
	var employeeName string
	if att.EmployeeName != nil {
		employeeName = *att.EmployeeName
	}

	return attendance.AttendanceResponse{
		ID:           att.ID,
		EmployeeID:   att.EmployeeID,
		EmployeeName: employeeName,
		Date:         attendance.DateKey(att.Date),
		CheckInTime:  timePtrToString(att.CheckIn),
		CheckOutTime: timePtrToString(att.CheckOut),
		Status:       att.Status,
		StatusText:   attendance.StatusLabel(att.Status),
		Comment:      att.Comment,
		PhotoURL:     att.CheckInPhotoURL,
		MarkedBy:     att.MarkedBy,
	}
}

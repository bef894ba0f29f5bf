package attendance

import (
	"fmt"
	"math"
	"time"

	"github.com/presenzo/presence-backend-go/internal/domain/attendance"
	"github.com/presenzo/presence-backend-go/internal/domain/settings"
)

// CheckInDecision is the outcome of the check-in decision table.
type CheckInDecision struct {
	Status float64
	Reason string
	// Cascades is set when the following day must be pre-marked absent.
	Cascades bool
}

// CheckOutDecision is the outcome of the check-out decision table.
type CheckOutDecision struct {
	Status      float64
	Reason      string
	WorkedHours float64
}

// EvaluateCheckIn runs the check-in decision table for a local timestamp.
// Branches are evaluated in order, first match wins; threshold boundaries
// are inclusive toward the earlier branch.
func EvaluateCheckIn(at time.Time, cfg settings.TimingConfig) CheckInDecision {
	minute := settings.MinuteOfDay(at)
	shiftStart := settings.MustClock(cfg.ShiftStart)
	deadline := settings.MustClock(cfg.ReportingDeadline)
	checkOutStart := settings.MustClock(cfg.CheckOutStart)
	earliestAllowed := shiftStart - cfg.EarlyCheckInAllowanceMinutes

	switch {
	case minute < earliestAllowed:
		return CheckInDecision{Status: attendance.StatusHalfDay, Reason: "early check-in before allowed time"}
	case minute <= deadline:
		return CheckInDecision{Status: attendance.StatusFullDay, Reason: "on-time check-in"}
	case minute <= checkOutStart:
		return CheckInDecision{Status: attendance.StatusHalfDay, Reason: "late check-in, half day"}
	default:
		return CheckInDecision{
			Status:   attendance.StatusAbsconding,
			Reason:   "very late check-in, marked absent",
			Cascades: true,
		}
	}
}

// EvaluateCheckOut re-resolves the day's status at check-out. Worked hours
// stay full precision throughout; rounding happens only at the response
// boundary. A half-day check-in is never upgraded to a full day, and an
// absconding check-in is never upgraded at all.
func EvaluateCheckOut(checkInStatus float64, checkIn, checkOut time.Time, cfg settings.TimingConfig) CheckOutDecision {
	workedHours := checkOut.Sub(checkIn).Hours()

	if checkInStatus == attendance.StatusAbsconding {
		return CheckOutDecision{
			Status:      attendance.StatusAbsconding,
			Reason:      "absconding status is never upgraded at check-out",
			WorkedHours: workedHours,
		}
	}

	minute := settings.MinuteOfDay(checkOut)
	windowStart := settings.MustClock(cfg.CheckOutStart)
	windowEnd := settings.MustClock(cfg.CheckOutEnd)

	var status float64
	var reason string

	switch {
	case minute < windowStart:
		status = attendance.StatusHalfDay
		reason = "early check-out before the checkout window"
	case minute > windowEnd:
		if workedHours >= cfg.MinFullDayHours {
			status = math.Max(checkInStatus, attendance.StatusFullDay)
			reason = "late check-out with full day hours"
		} else {
			status = attendance.StatusHalfDay
			reason = "late check-out without full day hours"
		}
	default:
		if workedHours >= cfg.MinFullDayHours {
			status = math.Max(checkInStatus, attendance.StatusFullDay)
			reason = "full day hours completed"
		} else if workedHours >= cfg.MinHalfDayHours {
			status = attendance.StatusHalfDay
			reason = "half day hours completed"
		} else {
			// Once a check-in exists there is no unmarked state at check-out;
			// absence needs an explicit admin action or the cascade rule.
			status = attendance.StatusHalfDay
			reason = "insufficient hours, counted as half day"
		}
	}

	// A late arrival caps the day at half regardless of hours or timing.
	if checkInStatus == attendance.StatusHalfDay && status == attendance.StatusFullDay {
		status = attendance.StatusHalfDay
		reason = "late arrival caps the day at half"
	}

	return CheckOutDecision{Status: status, Reason: reason, WorkedHours: workedHours}
}

// BuildCascadeRecord constructs the forced-absence record for the day after
// a very late check-in, or returns nil when that day is skipped. Weekend
// days are always skipped; holidays only when cascade_skip_holidays is on.
func BuildCascadeRecord(employeeID string, triggerDate time.Time, cfg settings.TimingConfig, isHoliday func(time.Time) bool) *attendance.Attendance {
	nextDay := triggerDate.AddDate(0, 0, 1)

	if cfg.IsWeekend(nextDay) {
		return nil
	}
	if cfg.CascadeSkipHolidays && isHoliday != nil && isHoliday(nextDay) {
		return nil
	}

	comment := fmt.Sprintf("Marked absent by system due to very late check-in on %s", attendance.DateKey(triggerDate))
	return &attendance.Attendance{
		EmployeeID: employeeID,
		Date:       nextDay,
		Status:     attendance.StatusAbsconding,
		Comment:    &comment,
		MarkedBy:   attendance.MarkedBySystem,
	}
}

// round2 rounds to two decimals at the presentation boundary.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

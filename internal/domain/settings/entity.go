package settings

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TimingConfig holds the organization-wide attendance rules. It is loaded
// once per request and treated as immutable for the lifetime of that request.
type TimingConfig struct {
	ShiftStart        string  `json:"shift_start"`        // "HH:MM", local time
	ShiftEnd          string  `json:"shift_end"`          // "HH:MM"
	ReportingDeadline string  `json:"reporting_deadline"` // latest on-time check-in, "HH:MM"
	CheckOutStart     string  `json:"check_out_start"`    // checkout window opens, "HH:MM"
	CheckOutEnd       string  `json:"check_out_end"`      // checkout window closes, "HH:MM"
	MinFullDayHours   float64 `json:"min_full_day_hours"`
	MinHalfDayHours   float64 `json:"min_half_day_hours"`

	EarlyCheckInAllowanceMinutes int `json:"early_check_in_allowance_minutes"`
	GracePeriodMinutes           int `json:"grace_period_minutes"`
	GraceUsageLimitPerMonth      int `json:"grace_usage_limit_per_month"`

	// WeekendDays uses time.Weekday numbering: 0 = Sunday .. 6 = Saturday.
	WeekendDays []int `json:"weekend_days"`

	GeofenceEnabled      bool    `json:"geofence_enabled"`
	EnforceGeofence      bool    `json:"enforce_geofence"`
	OfficeLatitude       float64 `json:"office_latitude"`
	OfficeLongitude      float64 `json:"office_longitude"`
	GeofenceRadiusMeters float64 `json:"geofence_radius_meters"`

	PendingLeaveAutoConvertDays int `json:"pending_leave_auto_convert_days"`

	// CascadeSkipHolidays additionally skips holidays when the forced-absence
	// record for the day after a very late check-in is created. Off by
	// default: the historical behavior only skips weekend days.
	CascadeSkipHolidays bool `json:"cascade_skip_holidays"`

	Timezone string `json:"timezone"`
}

// Default returns the baseline configuration used when no settings row
// exists yet for the organization.
func Default() TimingConfig {
	return TimingConfig{
		ShiftStart:                   "10:00",
		ShiftEnd:                     "19:00",
		ReportingDeadline:            "10:15",
		CheckOutStart:                "19:00",
		CheckOutEnd:                  "20:00",
		MinFullDayHours:              9.0,
		MinHalfDayHours:              5.0,
		EarlyCheckInAllowanceMinutes: 60,
		GracePeriodMinutes:           15,
		GraceUsageLimitPerMonth:      3,
		WeekendDays:                  []int{0},
		GeofenceRadiusMeters:         200,
		PendingLeaveAutoConvertDays:  3,
		Timezone:                     "Asia/Kolkata",
	}
}

// Validate checks that every clock field parses and thresholds are sane.
func (c TimingConfig) Validate() error {
	clocks := map[string]string{
		"shift_start":        c.ShiftStart,
		"shift_end":          c.ShiftEnd,
		"reporting_deadline": c.ReportingDeadline,
		"check_out_start":    c.CheckOutStart,
		"check_out_end":      c.CheckOutEnd,
	}
	for field, v := range clocks {
		if _, err := ParseClock(v); err != nil {
			return fmt.Errorf("%s: %w", field, err)
		}
	}
	if c.MinFullDayHours <= 0 {
		return fmt.Errorf("min_full_day_hours must be positive")
	}
	if c.MinHalfDayHours <= 0 || c.MinHalfDayHours > c.MinFullDayHours {
		return fmt.Errorf("min_half_day_hours must be positive and not exceed min_full_day_hours")
	}
	for _, d := range c.WeekendDays {
		if d < 0 || d > 6 {
			return fmt.Errorf("weekend_days entries must be in 0..6, got %d", d)
		}
	}
	if c.Timezone != "" {
		if _, err := time.LoadLocation(c.Timezone); err != nil {
			return fmt.Errorf("timezone: %w", err)
		}
	}
	return nil
}

// Location resolves the configured timezone, falling back to UTC.
func (c TimingConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil || c.Timezone == "" {
		return time.UTC
	}
	return loc
}

// IsWeekend reports whether the given date falls on a configured weekend day.
func (c TimingConfig) IsWeekend(date time.Time) bool {
	wd := int(date.Weekday())
	for _, d := range c.WeekendDays {
		if d == wd {
			return true
		}
	}
	return false
}

// ParseClock parses an "HH:MM" clock string into minutes since midnight.
func ParseClock(v string) (int, error) {
	parts := strings.SplitN(v, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid clock value %q", v)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid hour in clock value %q", v)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid minute in clock value %q", v)
	}
	return h*60 + m, nil
}

// MustClock is ParseClock for values already checked by Validate.
func MustClock(v string) int {
	m, err := ParseClock(v)
	if err != nil {
		panic(err)
	}
	return m
}

// MinuteOfDay converts a timestamp to minutes since local midnight.
func MinuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

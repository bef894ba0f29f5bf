package attendance

import (
	"strconv"
	"strings"
)

// Attendance status is a continuous scale rather than an enum because half
// statuses are meaningful. Engine output is always one of these six values
// and comparisons use exact equality on them.
const (
	StatusFullDay    = 1.0
	StatusHalfDay    = 0.5
	StatusLeave      = 0.0
	StatusAbsent     = -1.0
	StatusAbsconding = -2.0
	StatusHoliday    = 1.5
)

// CanonicalStatus maps a stored status onto the six-value scale. Older
// records carry free-form strings ("present", "Half Day") or stringified
// numbers; anything unrecognized defaults to full day. Every stored value
// must pass through here before the engine branches on it.
func CanonicalStatus(raw string) float64 {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "present", "full day", "fullday", "full":
		return StatusFullDay
	case "half day", "halfday", "half":
		return StatusHalfDay
	case "leave", "on leave":
		return StatusLeave
	case "absent":
		return StatusAbsent
	case "absconding":
		return StatusAbsconding
	case "holiday":
		return StatusHoliday
	}

	if n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil {
		switch n {
		case StatusFullDay, StatusHalfDay, StatusLeave, StatusAbsent, StatusAbsconding, StatusHoliday:
			return n
		}
	}
	return StatusFullDay
}

// StatusLabel returns the display text for a canonical status value.
func StatusLabel(status float64) string {
	switch status {
	case StatusFullDay:
		return "Full Day"
	case StatusHalfDay:
		return "Half Day"
	case StatusLeave:
		return "Leave"
	case StatusAbsent:
		return "Absent"
	case StatusAbsconding:
		return "Absconding"
	case StatusHoliday:
		return "Holiday"
	}
	return "Unknown"
}

// IsCanonicalStatus reports whether v is one of the six scale values.
func IsCanonicalStatus(v float64) bool {
	switch v {
	case StatusFullDay, StatusHalfDay, StatusLeave, StatusAbsent, StatusAbsconding, StatusHoliday:
		return true
	}
	return false
}

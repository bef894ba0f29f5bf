package attendance

import (
	"fmt"
	"time"
)

// CheckInRequest is the payload for an employee check-in.
type CheckInRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	PhotoURL  *string  `json:"photo_url"`
}

// CheckOutRequest is the payload for an employee check-out.
type CheckOutRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	PhotoURL  *string  `json:"photo_url"`
}

// MarkRequest is the administrative mark/edit payload: an admin sets an
// explicit status for an (employee, date) pair.
type MarkRequest struct {
	EmployeeID string  `json:"employee_id"`
	Date       string  `json:"date"`   // "2006-01-02"
	Status     string  `json:"status"` // canonicalized on ingestion
	Comment    *string `json:"comment"`
}

// Validate rejects malformed mark requests before any engine logic runs.
func (r MarkRequest) Validate() error {
	if r.EmployeeID == "" {
		return fmt.Errorf("employee_id is required")
	}
	if _, err := time.Parse("2006-01-02", r.Date); err != nil {
		return fmt.Errorf("date must be formatted as YYYY-MM-DD")
	}
	if r.Status == "" {
		return fmt.Errorf("status is required")
	}
	return nil
}

// AttendanceResponse is the wire shape of a single record.
type AttendanceResponse struct {
	ID           string   `json:"id"`
	EmployeeID   string   `json:"employee_id"`
	EmployeeName string   `json:"employee_name,omitempty"`
	Date         string   `json:"date"`
	CheckInTime  *string  `json:"check_in_time"`
	CheckOutTime *string  `json:"check_out_time"`
	Status       float64  `json:"status"`
	StatusText   string   `json:"status_text"`
	Reason       string   `json:"reason,omitempty"`
	WorkedHours  *float64 `json:"worked_hours,omitempty"`
	Comment      *string  `json:"comment,omitempty"`
	PhotoURL     *string  `json:"photo_url,omitempty"`
	MarkedBy     string   `json:"marked_by"`

	// Cascade reports the forced-absence record created for the following
	// day, when a very late check-in triggered one.
	Cascade *AttendanceResponse `json:"cascade,omitempty"`
}

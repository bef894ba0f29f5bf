package holiday

import "time"

// Holiday is a calendar date marked non-working for everyone.
type Holiday struct {
	ID   string
	Date time.Time
	Name string
}

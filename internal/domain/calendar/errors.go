package calendar

import "errors"

var (
	ErrInvalidMonth = errors.New("month out of range")
)

package settings

import "errors"

var (
	ErrSettingsNotFound = errors.New("attendance settings not found")
	ErrInvalidSettings  = errors.New("invalid attendance settings")
)

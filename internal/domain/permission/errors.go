package permission

import "errors"

var (
	ErrScopeDenied = errors.New("insufficient permission for this operation")
)

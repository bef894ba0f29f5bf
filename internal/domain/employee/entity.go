package employee

import "time"

type Employee struct {
	ID           string
	Name         string
	Email        string
	DepartmentID *string
	Role         string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

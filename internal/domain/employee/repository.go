package employee

import "context"

// EmployeeRepository reads employee and department metadata. The directory
// itself is owned by an external system; only lookups live here.
type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)
	ListActive(ctx context.Context) ([]Employee, error)
	ListByDepartment(ctx context.Context, departmentID string) ([]Employee, error)

	// DepartmentNames maps department id -> display name.
	DepartmentNames(ctx context.Context) (map[string]string, error)
}

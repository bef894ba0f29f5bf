package permission

import "context"

// Scope is the employee set a requester is permitted to see for a module.
type Scope string

const (
	ScopeOwn    Scope = "own"    // only the requester's own records
	ScopeJunior Scope = "junior" // the requester's department
	ScopeAll    Scope = "all"    // every visible employee
)

// Access is the resolved permission level for one (user, module) pair.
type Access struct {
	Scope      Scope
	SuperAdmin bool
}

// CanMark reports whether the access level allows administrative marking.
func (a Access) CanMark() bool {
	return a.SuperAdmin || a.Scope == ScopeAll
}

// Resolver computes visibility. Role and hierarchy evaluation live in an
// external collaborator; this interface is the boundary consumed here.
type Resolver interface {
	Resolve(ctx context.Context, userID, module string) (Access, error)
}

// ModuleAttendance is the module key used for every resolution in this
// service.
const ModuleAttendance = "attendance"

package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/presenzo/presence-backend-go/internal/domain/permission"
	"github.com/presenzo/presence-backend-go/internal/pkg/database"
)

// permissionResolver is the adapter over the externally managed permission
// tables. Role and hierarchy computation happen upstream; this only reads
// the resolved (user, module) level.
type permissionResolver struct {
	db *database.DB
}

func NewPermissionResolver(db *database.DB) permission.Resolver {
	return &permissionResolver{db: db}
}

// Resolve implements permission.Resolver. Users without an explicit row
// fall back to own-records-only.
func (r *permissionResolver) Resolve(ctx context.Context, userID, module string) (permission.Access, error) {
	var scope string
	var superAdmin bool
	err := r.db.QueryRow(ctx, `
		SELECT scope, super_admin
		FROM user_permissions
		WHERE user_id = $1 AND module = $2
	`, userID, module).Scan(&scope, &superAdmin)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return permission.Access{Scope: permission.ScopeOwn}, nil
		}
		return permission.Access{}, fmt.Errorf("failed to resolve permissions: %w", err)
	}

	return permission.Access{Scope: permission.Scope(scope), SuperAdmin: superAdmin}, nil
}

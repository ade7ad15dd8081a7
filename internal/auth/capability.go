package auth

import (
	"context"

	"github.com/fekuna/omnipos-catalog-service/internal/apperr"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
)

var roleRank = map[Role]int{
	model.RoleEditor:     1,
	model.RoleAdmin:      2,
	model.RoleSuperAdmin: 3,
}

// AtLeast reports whether have ranks equal to or above required.
func AtLeast(have, required Role) bool {
	h, ok := roleRank[have]
	if !ok {
		return false
	}
	return h >= roleRank[required]
}

// Capability answers whether the caller holds at least the required role.
type Capability func(required Role) bool

// Deny is the capability of an anonymous caller.
func Deny(Role) bool { return false }

// CapabilityOf derives a capability from a principal. A nil principal is denied.
func CapabilityOf(p *Principal) Capability {
	if p == nil {
		return Deny
	}
	return func(required Role) bool {
		return AtLeast(p.Role, required)
	}
}

func CapabilityFromContext(ctx context.Context) Capability {
	p, _ := PrincipalFromContext(ctx)
	return CapabilityOf(p)
}

// Require returns a Forbidden error when can does not grant required.
func Require(can Capability, required Role) error {
	if can == nil || !can(required) {
		return apperr.Forbidden("insufficient permissions: %s role or higher required", required)
	}
	return nil
}

package services

import (
	"retailhub-backend/models"

	"github.com/google/uuid"
)

// Principal identifies the authenticated caller. Handlers build it from the
// verified token claims and thread it into every service call that needs an
// access decision.
type Principal struct {
	UserID      uuid.UUID
	Role        models.Role
	FranchiseID *uuid.UUID
}

// CanAccessFranchise reports whether the principal may read the given
// franchise's data: admins always, an orderManager only for its own outlet.
func (p Principal) CanAccessFranchise(franchiseID uuid.UUID) bool {
	if p.Role == models.RoleAdmin {
		return true
	}
	if p.Role == models.RoleOrderManager {
		return p.FranchiseID != nil && *p.FranchiseID == franchiseID
	}
	return false
}

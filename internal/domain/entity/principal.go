package entity

import (
	"slices"

	"github.com/google/uuid"
)

// Principal is the authenticated caller. It is resolved once per request
// and handed to every usecase operation that acts on behalf of a user.
type Principal struct {
	UserID  uuid.UUID
	Email   string
	Roles   []string
	TokenID string
}

func (p Principal) HasRole(role string) bool {
	return slices.Contains(p.Roles, role)
}

func (p Principal) IsAuthenticated() bool {
	return p.UserID != uuid.Nil
}

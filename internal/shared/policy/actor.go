package policy

import "github.com/google/uuid"

// Role of an authenticated identity.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// IsValid reports whether r is a known role.
func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	}
	return false
}

func (r Role) String() string {
	return string(r)
}

// Actor is the identity attempting an operation.
// A nil *Actor is the anonymous caller; every method is nil-safe.
type Actor struct {
	ID   uuid.UUID
	Role Role
}

// NewActor builds an actor, falling back to RoleUser for unknown roles.
func NewActor(id uuid.UUID, role Role) *Actor {
	if !role.IsValid() {
		role = RoleUser
	}
	return &Actor{ID: id, Role: role}
}

func (a *Actor) IsAuthenticated() bool {
	return a != nil && a.ID != uuid.Nil
}

func (a *Actor) IsAdmin() bool {
	return a.IsAuthenticated() && a.Role == RoleAdmin
}

// Owns reports whether the actor authored the item.
func (a *Actor) Owns(item *Lifecycle) bool {
	return a.IsAuthenticated() && item != nil && item.AuthorID == a.ID
}

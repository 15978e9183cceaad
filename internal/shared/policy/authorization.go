package policy

import (
	"fmt"

	"social-backend/internal/shared/apperror"
)

// ResourceType names the content entities covered by the mutation rules.
type ResourceType string

const (
	ResourcePost    ResourceType = "post"
	ResourceComment ResourceType = "comment"
)

// Operation is a mutation on an existing item.
type Operation string

const (
	OperationEdit   Operation = "edit"
	OperationDelete Operation = "delete"
)

// CanEdit reports whether actor may change the content of item.
//
// Posts are owner-only. Comments are owner-or-admin. The two entity types
// diverge on purpose and must not be unified.
func CanEdit(resource ResourceType, item *Lifecycle, actor *Actor) bool {
	switch resource {
	case ResourcePost:
		return actor.Owns(item)
	case ResourceComment:
		return actor.Owns(item) || actor.IsAdmin()
	}
	return false
}

// CanDelete reports whether actor may soft-delete item.
// Both posts and comments are owner-or-admin.
func CanDelete(resource ResourceType, item *Lifecycle, actor *Actor) bool {
	switch resource {
	case ResourcePost, ResourceComment:
		return actor.Owns(item) || actor.IsAdmin()
	}
	return false
}

// RequireActor fails with Unauthenticated for anonymous callers.
func RequireActor(actor *Actor) error {
	if !actor.IsAuthenticated() {
		return apperror.Unauthenticated("You must be logged in to access this resource")
	}
	return nil
}

// AuthorizeMutation runs the full check for op on an existing item:
// Unauthenticated first, then PreconditionFailed for a deleted item,
// then PermissionDenied.
func AuthorizeMutation(resource ResourceType, op Operation, id string, item *Lifecycle, actor *Actor) error {
	if err := RequireActor(actor); err != nil {
		return err
	}

	ref := apperror.Resource{Type: string(resource), ID: id}
	if item.IsDeleted {
		return apperror.PreconditionFailed(
			fmt.Sprintf("Cannot %s deleted %s", op, resource), ref)
	}

	allowed := false
	switch op {
	case OperationEdit:
		allowed = CanEdit(resource, item, actor)
	case OperationDelete:
		allowed = CanDelete(resource, item, actor)
	}
	if !allowed {
		return apperror.PermissionDenied(
			fmt.Sprintf("You can only %s your own %ss", op, resource), ref)
	}
	return nil
}

// IsModeratorAction reports whether actor is changing someone else's item.
func IsModeratorAction(item *Lifecycle, actor *Actor) bool {
	return actor.IsAuthenticated() && item != nil && item.AuthorID != actor.ID
}

package policy

import (
	"time"

	"github.com/google/uuid"
)

// Lifecycle holds the ownership, soft-delete and edit-attribution fields
// shared by posts and comments.
//
// DeletedAt/DeletedBy are both nil or both set, and once IsDeleted is true
// it never goes back. EditedAt/EditedBy are overwritten together on every edit.
type Lifecycle struct {
	AuthorID uuid.UUID `json:"author_id"`

	IsDeleted bool       `json:"is_deleted"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
	DeletedBy *uuid.UUID `json:"deleted_by,omitempty"`

	IsEdited bool       `json:"is_edited"`
	EditedAt *time.Time `json:"edited_at,omitempty"`
	EditedBy *uuid.UUID `json:"edited_by,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewLifecycle starts the lifecycle of an item created by author at now.
func NewLifecycle(author uuid.UUID, now time.Time) Lifecycle {
	return Lifecycle{
		AuthorID:  author,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// MarkEdited records an edit by editor.
func (l *Lifecycle) MarkEdited(editor uuid.UUID, at time.Time) {
	by := editor
	when := at
	l.IsEdited = true
	l.EditedBy = &by
	l.EditedAt = &when
	l.UpdatedAt = at
}

// MarkDeleted soft-deletes the item. It returns false and changes nothing
// when the item is already deleted.
func (l *Lifecycle) MarkDeleted(deleter uuid.UUID, at time.Time) bool {
	if l.IsDeleted {
		return false
	}
	by := deleter
	when := at
	l.IsDeleted = true
	l.DeletedBy = &by
	l.DeletedAt = &when
	l.UpdatedAt = at
	return true
}

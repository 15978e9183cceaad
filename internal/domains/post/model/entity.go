package model

import (
	"github.com/google/uuid"

	"social-backend/internal/domains/user"
	"social-backend/internal/shared/policy"
)

// Post is a top-level piece of user content.
type Post struct {
	ID      uuid.UUID `json:"id"`
	Content string    `json:"content"`

	policy.Lifecycle

	// Author is resolved by the repository on every read.
	Author *user.AuthorInfo `json:"author,omitempty"`
}

func (p *Post) Attribution() policy.Attribution {
	return policy.ComputeEditAttribution(&p.Lifecycle)
}

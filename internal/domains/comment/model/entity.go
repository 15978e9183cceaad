package model

import (
	"github.com/google/uuid"

	"social-backend/internal/domains/user"
	"social-backend/internal/shared/policy"
)

// Comment belongs to a post. A reply points at a top-level comment of the
// same post; replies to replies are not allowed.
type Comment struct {
	ID              uuid.UUID  `json:"id"`
	PostID          uuid.UUID  `json:"post_id"`
	ParentCommentID *uuid.UUID `json:"parent_comment_id,omitempty"`
	Content         string     `json:"content"`

	policy.Lifecycle

	Author *user.AuthorInfo `json:"author,omitempty"`
}

func (c *Comment) IsReply() bool {
	return c.ParentCommentID != nil
}

func (c *Comment) Attribution() policy.Attribution {
	return policy.ComputeEditAttribution(&c.Lifecycle)
}

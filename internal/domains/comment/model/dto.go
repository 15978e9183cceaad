package model

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"social-backend/internal/domains/user"
	"social-backend/internal/shared/policy"
)

const MaxContentLength = 2000

// =====================================================
// REQUEST DTOs
// =====================================================

type CreateCommentRequest struct {
	Content         string     `json:"content"`
	ParentCommentID *uuid.UUID `json:"parent_comment_id"`
}

func (r *CreateCommentRequest) Normalize() {
	r.Content = strings.TrimSpace(r.Content)
}

func (r CreateCommentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Content,
			validation.Required.Error("content is required"),
			validation.RuneLength(1, MaxContentLength).Error("content must be at most 2000 characters"),
		),
	)
}

type UpdateCommentRequest struct {
	Content string `json:"content"`
}

func (r *UpdateCommentRequest) Normalize() {
	r.Content = strings.TrimSpace(r.Content)
}

func (r UpdateCommentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Content,
			validation.Required.Error("content is required"),
			validation.RuneLength(1, MaxContentLength).Error("content must be at most 2000 characters"),
		),
	)
}

// =====================================================
// RESPONSE DTOs
// =====================================================

// ModerationInfo is attached for admin viewers only.
type ModerationInfo struct {
	EditedBy  *uuid.UUID `json:"edited_by,omitempty"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
	DeletedBy *uuid.UUID `json:"deleted_by,omitempty"`
}

type CommentResponse struct {
	ID              uuid.UUID               `json:"id"`
	PostID          uuid.UUID               `json:"post_id"`
	ParentCommentID *uuid.UUID              `json:"parent_comment_id"`
	Content         string                  `json:"content"`
	Author          *user.AuthorInfo        `json:"author"`
	IsDeleted       bool                    `json:"is_deleted"`
	IsEdited        bool                    `json:"is_edited"`
	EditedAt        *time.Time              `json:"edited_at,omitempty"`
	EditedByAdmin   bool                    `json:"edited_by_admin"`
	EditLabel       policy.AttributionLabel `json:"edit_label,omitempty"`
	CreatedAt       time.Time               `json:"created_at"`
	UpdatedAt       time.Time               `json:"updated_at"`
	Moderation      *ModerationInfo         `json:"moderation,omitempty"`
}

func NewCommentResponse(c *Comment, viewer *policy.Actor) CommentResponse {
	attr := c.Attribution()

	res := CommentResponse{
		ID:              c.ID,
		PostID:          c.PostID,
		ParentCommentID: c.ParentCommentID,
		Content:         c.Content,
		Author:          c.Author,
		IsDeleted:       c.IsDeleted,
		IsEdited:        attr.IsEdited,
		EditedAt:        c.EditedAt,
		EditedByAdmin:   attr.EditedByAdmin(),
		EditLabel:       attr.Label,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}

	if viewer.IsAdmin() {
		res.Moderation = &ModerationInfo{
			EditedBy:  c.EditedBy,
			DeletedAt: c.DeletedAt,
			DeletedBy: c.DeletedBy,
		}
	}
	return res
}

func NewCommentResponses(comments []*Comment, viewer *policy.Actor) []CommentResponse {
	items := make([]CommentResponse, len(comments))
	for i, c := range comments {
		items[i] = NewCommentResponse(c, viewer)
	}
	return items
}

type ListCommentsResponse struct {
	Comments   []CommentResponse `json:"comments"`
	Pagination policy.Pagination `json:"pagination"`
}

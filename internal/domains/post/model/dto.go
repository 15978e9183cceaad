package model

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"social-backend/internal/domains/user"
	"social-backend/internal/shared/policy"
)

const MaxContentLength = 5000

// =====================================================
// REQUEST DTOs
// =====================================================

type CreatePostRequest struct {
	Content string `json:"content"`
}

func (r *CreatePostRequest) Normalize() {
	r.Content = strings.TrimSpace(r.Content)
}

func (r CreatePostRequest) Validate() error {
	return validateContent(&r.Content)
}

type UpdatePostRequest struct {
	Content string `json:"content"`
}

func (r *UpdatePostRequest) Normalize() {
	r.Content = strings.TrimSpace(r.Content)
}

func (r UpdatePostRequest) Validate() error {
	return validateContent(&r.Content)
}

func validateContent(content *string) error {
	return validation.Errors{
		"content": validation.Validate(*content,
			validation.Required.Error("content is required"),
			validation.RuneLength(1, MaxContentLength).Error("content must be at most 5000 characters"),
		),
	}.Filter()
}

// =====================================================
// RESPONSE DTOs
// =====================================================

// ModerationInfo exposes who moderated an item. Only admins receive it.
type ModerationInfo struct {
	EditedBy  *uuid.UUID `json:"edited_by,omitempty"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
	DeletedBy *uuid.UUID `json:"deleted_by,omitempty"`
}

type PostResponse struct {
	ID            uuid.UUID               `json:"id"`
	Content       string                  `json:"content"`
	Author        *user.AuthorInfo        `json:"author"`
	IsDeleted     bool                    `json:"is_deleted"`
	IsEdited      bool                    `json:"is_edited"`
	EditedAt      *time.Time              `json:"edited_at,omitempty"`
	EditedByAdmin bool                    `json:"edited_by_admin"`
	EditLabel     policy.AttributionLabel `json:"edit_label,omitempty"`
	CreatedAt     time.Time               `json:"created_at"`
	UpdatedAt     time.Time               `json:"updated_at"`
	CommentsCount int                     `json:"comments_count"`
	Moderation    *ModerationInfo         `json:"moderation,omitempty"`
}

// NewPostResponse renders p for viewer. Attribution is recomputed here on
// every read; moderator identities are attached for admins only.
func NewPostResponse(p *Post, viewer *policy.Actor, commentsCount int) PostResponse {
	attr := p.Attribution()

	res := PostResponse{
		ID:            p.ID,
		Content:       p.Content,
		Author:        p.Author,
		IsDeleted:     p.IsDeleted,
		IsEdited:      attr.IsEdited,
		EditedAt:      p.EditedAt,
		EditedByAdmin: attr.EditedByAdmin(),
		EditLabel:     attr.Label,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
		CommentsCount: commentsCount,
	}

	if viewer.IsAdmin() {
		res.Moderation = &ModerationInfo{
			EditedBy:  p.EditedBy,
			DeletedAt: p.DeletedAt,
			DeletedBy: p.DeletedBy,
		}
	}
	return res
}

type ListPostsResponse struct {
	Posts      []PostResponse    `json:"posts"`
	Pagination policy.Pagination `json:"pagination"`
}

package user

import (
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"social-backend/internal/shared/policy"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// ========================================
// AUTH DTOs
// ========================================

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

// Normalize trims the free-text fields. Passwords are taken verbatim.
func (r *RegisterRequest) Normalize() {
	r.Username = strings.TrimSpace(r.Username)
	r.FullName = strings.TrimSpace(r.FullName)
}

func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username,
			validation.Required.Error("username is required"),
			validation.RuneLength(3, 50).Error("username must be 3-50 characters"),
			validation.Match(usernamePattern).Error("username may only contain letters, numbers and underscores"),
		),
		validation.Field(&r.Password,
			validation.Required.Error("password is required"),
			validation.RuneLength(8, 100).Error("password must be 8-100 characters"),
			validation.Match(regexp.MustCompile(`[A-Z]`)).Error("password must contain at least one uppercase letter"),
			validation.Match(regexp.MustCompile(`[a-z]`)).Error("password must contain at least one lowercase letter"),
			validation.Match(regexp.MustCompile(`[0-9]`)).Error("password must contain at least one number"),
		),
		validation.Field(&r.FullName,
			validation.Required.Error("full name is required"),
			validation.RuneLength(1, 100),
		),
	)
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	User        UserDTO   `json:"user"`
}

// ========================================
// USER PROFILE DTOs
// ========================================

// UserDTO is the caller's own profile.
type UserDTO struct {
	ID        uuid.UUID   `json:"id"`
	Username  string      `json:"username"`
	FullName  string      `json:"full_name"`
	Initials  string      `json:"initials"`
	Role      policy.Role `json:"role"`
	CreatedAt time.Time   `json:"created_at"`
}

func (u *User) ToDTO() UserDTO {
	return UserDTO{
		ID:        u.ID,
		Username:  u.Username,
		FullName:  u.FullName,
		Initials:  u.Initials,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

type UpdateProfileRequest struct {
	FullName string `json:"full_name"`
}

func (r UpdateProfileRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FullName,
			validation.Required.Error("full name is required"),
			validation.RuneLength(1, 100),
		),
	)
}

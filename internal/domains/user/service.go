package user

import (
	"context"
	"time"

	"social-backend/internal/shared/policy"
)

// Service is the account business logic contract.
type Service interface {
	// Authentication
	Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResponse, error)
	Logout(ctx context.Context, actor *policy.Actor, tokenID string, expiresAt time.Time) error
	IsTokenRevoked(ctx context.Context, tokenID string) (bool, error)

	// Profile
	GetProfile(ctx context.Context, actor *policy.Actor) (*UserDTO, error)
	UpdateProfile(ctx context.Context, actor *policy.Actor, req UpdateProfileRequest) (*UserDTO, error)

	// EnsureUser creates the account if the username is free and otherwise
	// returns the existing one. Used by the seed command.
	EnsureUser(ctx context.Context, req RegisterRequest, role policy.Role) (*UserDTO, bool, error)
}

package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"social-backend/internal/domains/user"
	"social-backend/internal/shared/apperror"
	"social-backend/internal/shared/policy"
	"social-backend/internal/shared/utils"
	"social-backend/pkg/cache"
	"social-backend/pkg/jwt"
)

const msgInvalidCredentials = "Invalid username or password"

// Options tunes hashing and throttling.
type Options struct {
	BcryptCost      int
	MaxFailedLogins int
	LockoutWindow   time.Duration
}

type userService struct {
	repo       user.Repository
	cache      cache.Cache
	jwtManager *jwt.Manager
	opts       Options
	now        func() time.Time
}

func NewUserService(repo user.Repository, cache cache.Cache, jwtManager *jwt.Manager, opts Options) user.Service {
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}
	return &userService{
		repo:       repo,
		cache:      cache,
		jwtManager: jwtManager,
		opts:       opts,
		now:        time.Now,
	}
}

func failedLoginKey(username string) string {
	return "auth:failed_login:" + username
}

func revokedTokenKey(tokenID string) string {
	return "auth:revoked:" + tokenID
}

// ========================================
// AUTHENTICATION
// ========================================

func (s *userService) Register(ctx context.Context, req user.RegisterRequest) (*user.AuthResponse, error) {
	// Step 1: validate
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, apperror.ValidationFailed(err)
	}

	// Step 2: create account
	u, err := s.createUser(ctx, req, policy.RoleUser)
	if err != nil {
		return nil, err
	}

	// Step 3: issue token
	return s.issueToken(u)
}

func (s *userService) Login(ctx context.Context, req user.LoginRequest) (*user.AuthResponse, error) {
	// Step 1: validate
	if err := req.Validate(); err != nil {
		return nil, apperror.ValidationFailed(err)
	}

	// Step 2: throttle
	if err := s.checkLockout(ctx, req.Username); err != nil {
		return nil, err
	}

	// Step 3: verify credentials; unknown user and wrong password look the same
	u, err := s.repo.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			s.recordFailedLogin(ctx, req.Username)
			return nil, apperror.Unauthenticated(msgInvalidCredentials)
		}
		return nil, apperror.Internal("Internal server error", fmt.Errorf("find user: %w", err))
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		s.recordFailedLogin(ctx, req.Username)
		return nil, apperror.Unauthenticated(msgInvalidCredentials)
	}

	// Step 4: reset counter and issue token
	if err := s.cache.Delete(ctx, failedLoginKey(req.Username)); err != nil {
		log.Warn().Err(err).Str("username", req.Username).Msg("Failed to clear login attempts")
	}

	return s.issueToken(u)
}

// Logout revokes the token id until the token would have expired anyway.
func (s *userService) Logout(ctx context.Context, actor *policy.Actor, tokenID string, expiresAt time.Time) error {
	if err := policy.RequireActor(actor); err != nil {
		return err
	}
	if tokenID == "" {
		return nil
	}

	ttl := expiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil
	}

	if err := s.cache.Set(ctx, revokedTokenKey(tokenID), true, ttl); err != nil {
		return apperror.Internal("Internal server error", fmt.Errorf("revoke token: %w", err))
	}

	log.Info().Str("actor_id", actor.ID.String()).Msg("User logged out")
	return nil
}

func (s *userService) IsTokenRevoked(ctx context.Context, tokenID string) (bool, error) {
	if tokenID == "" {
		return false, nil
	}
	return s.cache.Exists(ctx, revokedTokenKey(tokenID))
}

// ========================================
// PROFILE
// ========================================

func (s *userService) GetProfile(ctx context.Context, actor *policy.Actor) (*user.UserDTO, error) {
	if err := policy.RequireActor(actor); err != nil {
		return nil, err
	}

	u, err := s.findActor(ctx, actor)
	if err != nil {
		return nil, err
	}

	dto := u.ToDTO()
	return &dto, nil
}

func (s *userService) UpdateProfile(ctx context.Context, actor *policy.Actor, req user.UpdateProfileRequest) (*user.UserDTO, error) {
	// Step 1: authenticate, then validate
	if err := policy.RequireActor(actor); err != nil {
		return nil, err
	}
	req.FullName = strings.TrimSpace(req.FullName)
	if err := req.Validate(); err != nil {
		return nil, apperror.ValidationFailed(err)
	}

	// Step 2: load
	u, err := s.findActor(ctx, actor)
	if err != nil {
		return nil, err
	}

	// Step 3: apply; initials follow the name
	u.FullName = req.FullName
	u.Initials = utils.GenerateInitials(req.FullName)
	u.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, u); err != nil {
		return nil, apperror.Internal("Internal server error", fmt.Errorf("update profile: %w", err))
	}

	dto := u.ToDTO()
	return &dto, nil
}

// EnsureUser is idempotent: an existing username is returned unchanged.
func (s *userService) EnsureUser(ctx context.Context, req user.RegisterRequest, role policy.Role) (*user.UserDTO, bool, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, false, apperror.ValidationFailed(err)
	}

	existing, err := s.repo.FindByUsername(ctx, req.Username)
	if err == nil {
		dto := existing.ToDTO()
		return &dto, false, nil
	}
	if !errors.Is(err, user.ErrUserNotFound) {
		return nil, false, apperror.Internal("Internal server error", err)
	}

	u, err := s.createUser(ctx, req, role)
	if err != nil {
		return nil, false, err
	}
	dto := u.ToDTO()
	return &dto, true, nil
}

// ========================================
// HELPERS
// ========================================

func (s *userService) createUser(ctx context.Context, req user.RegisterRequest, role policy.Role) (*user.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.opts.BcryptCost)
	if err != nil {
		return nil, apperror.Internal("Internal server error", fmt.Errorf("hash password: %w", err))
	}

	now := s.now()
	u := &user.User{
		ID:           uuid.New(),
		Username:     req.Username,
		PasswordHash: string(hash),
		FullName:     req.FullName,
		Initials:     utils.GenerateInitials(req.FullName),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, user.ErrUsernameAlreadyExists) {
			return nil, apperror.Conflict("Username already taken")
		}
		return nil, apperror.Internal("Internal server error", fmt.Errorf("create user: %w", err))
	}

	log.Info().Str("user_id", u.ID.String()).Str("role", role.String()).Msg("User created")
	return u, nil
}

func (s *userService) findActor(ctx context.Context, actor *policy.Actor) (*user.User, error) {
	u, err := s.repo.FindByID(ctx, actor.ID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, apperror.NotFound("User not found", apperror.Resource{Type: "user", ID: actor.ID.String()})
		}
		return nil, apperror.Internal("Internal server error", err)
	}
	return u, nil
}

func (s *userService) issueToken(u *user.User) (*user.AuthResponse, error) {
	token, expiresAt, err := s.jwtManager.GenerateAccessToken(u.ID.String(), u.Username, u.Role.String())
	if err != nil {
		return nil, apperror.Internal("Internal server error", fmt.Errorf("generate access token: %w", err))
	}

	return &user.AuthResponse{
		AccessToken: token,
		ExpiresAt:   expiresAt,
		User:        u.ToDTO(),
	}, nil
}

// checkLockout rejects the attempt once the failure budget is spent.
// Cache errors fail open so an outage never locks everyone out.
func (s *userService) checkLockout(ctx context.Context, username string) error {
	var attempts int64
	found, err := s.cache.Get(ctx, failedLoginKey(username), &attempts)
	if err != nil {
		log.Warn().Err(err).Str("username", username).Msg("Failed to read login attempts")
		return nil
	}
	if !found || attempts < int64(s.opts.MaxFailedLogins) {
		return nil
	}

	retryIn := s.opts.LockoutWindow
	if ttl, err := s.cache.TTL(ctx, failedLoginKey(username)); err == nil && ttl > 0 {
		retryIn = ttl
	}
	minutes := int(math.Ceil(retryIn.Minutes()))
	return apperror.TooManyRequests(fmt.Sprintf("Too many failed login attempts. Try again in %d minute(s)", minutes))
}

func (s *userService) recordFailedLogin(ctx context.Context, username string) {
	key := failedLoginKey(username)

	n, err := s.cache.Increment(ctx, key)
	if err != nil {
		log.Warn().Err(err).Str("username", username).Msg("Failed to record login attempt")
		return
	}
	if n == 1 {
		if err := s.cache.Expire(ctx, key, s.opts.LockoutWindow); err != nil {
			log.Warn().Err(err).Str("username", username).Msg("Failed to set login attempt window")
		}
	}

	if n >= int64(s.opts.MaxFailedLogins) {
		log.Warn().Str("username", username).Int64("attempts", n).Msg("Login locked out")
	}
}

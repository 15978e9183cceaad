package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"social-backend/internal/domains/user"
	"social-backend/internal/domains/user/repository"
	"social-backend/internal/shared/apperror"
	"social-backend/internal/shared/policy"
	"social-backend/pkg/cache"
	"social-backend/pkg/jwt"
)

type testEnv struct {
	svc   user.Service
	repo  user.Repository
	cache *cache.MemoryCache
	jwt   *jwt.Manager
}

func newTestService(t *testing.T) *testEnv {
	t.Helper()
	repo := repository.NewMemoryRepository()
	c := cache.NewMemoryCache()
	jm := jwt.NewManager("test-secret", 30*time.Minute)
	svc := NewUserService(repo, c, jm, Options{
		BcryptCost:      bcrypt.MinCost,
		MaxFailedLogins: 3,
		LockoutWindow:   15 * time.Minute,
	})
	return &testEnv{svc: svc, repo: repo, cache: c, jwt: jm}
}

func validRegister(username string) user.RegisterRequest {
	return user.RegisterRequest{
		Username: username,
		Password: "Secret123",
		FullName: "Ada Lovelace",
	}
}

func TestRegister(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()

	res, err := env.svc.Register(ctx, validRegister("ada_l"))
	require.NoError(t, err)
	assert.Equal(t, "ada_l", res.User.Username)
	assert.Equal(t, "AL", res.User.Initials)
	assert.Equal(t, policy.RoleUser, res.User.Role)

	claims, err := env.jwt.ValidateAccessToken(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID.String(), claims.UserID)

	_, err = env.svc.Register(ctx, validRegister("ada_l"))
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
}

func TestRegister_Validation(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()

	cases := map[string]user.RegisterRequest{
		"short username":  {Username: "ab", Password: "Secret123", FullName: "A B"},
		"bad characters":  {Username: "ada-l", Password: "Secret123", FullName: "A B"},
		"weak password":   {Username: "ada_l", Password: "secret", FullName: "A B"},
		"no digit":        {Username: "ada_l", Password: "SecretPass", FullName: "A B"},
		"blank full name": {Username: "ada_l", Password: "Secret123", FullName: "   "},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := env.svc.Register(ctx, req)
			assert.Equal(t, apperror.KindValidationFailed, apperror.KindOf(err))
		})
	}
}

func TestLogin(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()

	_, err := env.svc.Register(ctx, validRegister("grace"))
	require.NoError(t, err)

	res, err := env.svc.Login(ctx, user.LoginRequest{Username: "grace", Password: "Secret123"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)

	_, err = env.svc.Login(ctx, user.LoginRequest{Username: "grace", Password: "Wrong1234"})
	require.Error(t, err)
	appErr := apperror.As(err)
	assert.Equal(t, apperror.KindUnauthenticated, appErr.Kind)
	assert.Equal(t, "Invalid username or password", appErr.Message)

	_, err = env.svc.Login(ctx, user.LoginRequest{Username: "nobody", Password: "Secret123"})
	assert.Equal(t, "Invalid username or password", apperror.As(err).Message)
}

func TestLogin_Lockout(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()

	_, err := env.svc.Register(ctx, validRegister("linus"))
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err = env.svc.Login(ctx, user.LoginRequest{Username: "linus", Password: "Wrong1234"})
		assert.Equal(t, apperror.KindUnauthenticated, apperror.KindOf(err))
	}

	// correct password is still refused while locked
	_, err = env.svc.Login(ctx, user.LoginRequest{Username: "linus", Password: "Secret123"})
	require.Error(t, err)
	assert.Equal(t, apperror.KindTooManyRequests, apperror.KindOf(err))
	assert.Contains(t, err.Error(), "15 minute")
}

func TestLogin_SuccessResetsCounter(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()

	_, err := env.svc.Register(ctx, validRegister("ken"))
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, _ = env.svc.Login(ctx, user.LoginRequest{Username: "ken", Password: "Wrong1234"})
	}
	_, err = env.svc.Login(ctx, user.LoginRequest{Username: "ken", Password: "Secret123"})
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, _ = env.svc.Login(ctx, user.LoginRequest{Username: "ken", Password: "Wrong1234"})
	}
	_, err = env.svc.Login(ctx, user.LoginRequest{Username: "ken", Password: "Secret123"})
	assert.NoError(t, err)
}

func TestLogout_RevokesToken(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()

	res, err := env.svc.Register(ctx, validRegister("dennis"))
	require.NoError(t, err)
	claims, err := env.jwt.ValidateAccessToken(res.AccessToken)
	require.NoError(t, err)

	actor := policy.NewActor(res.User.ID, res.User.Role)

	revoked, err := env.svc.IsTokenRevoked(ctx, claims.ID)
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, env.svc.Logout(ctx, actor, claims.ID, claims.ExpiresAt.Time))

	revoked, err = env.svc.IsTokenRevoked(ctx, claims.ID)
	require.NoError(t, err)
	assert.True(t, revoked)

	err = env.svc.Logout(ctx, nil, claims.ID, claims.ExpiresAt.Time)
	assert.Equal(t, apperror.KindUnauthenticated, apperror.KindOf(err))
}

func TestProfile(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()

	res, err := env.svc.Register(ctx, validRegister("barbara"))
	require.NoError(t, err)
	actor := policy.NewActor(res.User.ID, res.User.Role)

	_, err = env.svc.GetProfile(ctx, nil)
	assert.Equal(t, apperror.KindUnauthenticated, apperror.KindOf(err))

	got, err := env.svc.GetProfile(ctx, actor)
	require.NoError(t, err)
	assert.Equal(t, "barbara", got.Username)

	updated, err := env.svc.UpdateProfile(ctx, actor, user.UpdateProfileRequest{FullName: "  barbara liskov "})
	require.NoError(t, err)
	assert.Equal(t, "barbara liskov", updated.FullName)
	assert.Equal(t, "BL", updated.Initials)

	_, err = env.svc.UpdateProfile(ctx, actor, user.UpdateProfileRequest{FullName: ""})
	assert.Equal(t, apperror.KindValidationFailed, apperror.KindOf(err))
}

func TestEnsureUser_Idempotent(t *testing.T) {
	env := newTestService(t)
	ctx := context.Background()

	first, created, err := env.svc.EnsureUser(ctx, validRegister("admin"), policy.RoleAdmin)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, policy.RoleAdmin, first.Role)

	second, created, err := env.svc.EnsureUser(ctx, validRegister("admin"), policy.RoleAdmin)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
}

package identity

import (
	"context"
	"testing"
	"time"

	"github.com/emart/backend/internal/domain/identity"
	"github.com/emart/backend/internal/domain/shared"
	"github.com/emart/backend/internal/infrastructure/auth"
	"github.com/emart/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memoryUserRepo struct {
	users map[uuid.UUID]identity.User
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{users: make(map[uuid.UUID]identity.User)}
}

func (r *memoryUserRepo) FindByID(_ context.Context, id uuid.UUID) (*identity.User, error) {
	if u, ok := r.users[id]; ok {
		out := u
		return &out, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memoryUserRepo) FindAll(_ context.Context, _ shared.Filter) ([]identity.User, error) {
	out := make([]identity.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	return out, nil
}

func (r *memoryUserRepo) Save(_ context.Context, user *identity.User) error {
	r.users[user.ID] = *user
	return nil
}

func (r *memoryUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.users, id)
	return nil
}

func (r *memoryUserRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.users)), nil
}

func (r *memoryUserRepo) FindByUsername(_ context.Context, username string) (*identity.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			out := u
			return &out, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memoryUserRepo) FindByEmail(_ context.Context, email string) (*identity.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			out := u
			return &out, nil
		}
	}
	return nil, shared.ErrNotFound
}

func newAuthFixture(t *testing.T) (*AuthService, *memoryUserRepo) {
	t.Helper()
	repo := newMemoryUserRepo()
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-for-unit-tests-only!!",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: time.Hour,
		Issuer:                 "emart-test",
		MaxRefreshCount:        3,
	})
	service := NewAuthService(repo, jwtService, auth.NewInMemoryTokenBlacklist(), zap.NewNop())
	return service, repo
}

func seedUser(t *testing.T, repo *memoryUserRepo, username, password string, role identity.Role) *identity.User {
	t.Helper()
	user, err := identity.NewUser(username, username+"@example.com", password, role)
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), user))
	return user
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("issues tokens for valid credentials", func(t *testing.T) {
		service, repo := newAuthFixture(t)
		seedUser(t, repo, "manager1", "s3cret-pass", identity.RoleManager)

		result, err := service.Login(ctx, LoginInput{Username: "manager1", Password: "s3cret-pass"})

		require.NoError(t, err)
		assert.NotEmpty(t, result.AccessToken)
		assert.NotEmpty(t, result.RefreshToken)
		assert.Equal(t, "Bearer", result.TokenType)
		assert.Equal(t, "manager", result.User.Role)

		stored, err := repo.FindByUsername(ctx, "manager1")
		require.NoError(t, err)
		assert.NotNil(t, stored.LastLoginAt)
	})

	t.Run("rejects wrong password without leaking which part failed", func(t *testing.T) {
		service, repo := newAuthFixture(t)
		seedUser(t, repo, "staff1", "s3cret-pass", identity.RoleStaff)

		_, wrongPass := service.Login(ctx, LoginInput{Username: "staff1", Password: "wrong"})
		_, wrongUser := service.Login(ctx, LoginInput{Username: "nobody", Password: "s3cret-pass"})

		var passErr, userErr *shared.DomainError
		require.ErrorAs(t, wrongPass, &passErr)
		require.ErrorAs(t, wrongUser, &userErr)
		assert.Equal(t, passErr.Code, userErr.Code)
	})

	t.Run("rejects deactivated account", func(t *testing.T) {
		service, repo := newAuthFixture(t)
		user := seedUser(t, repo, "exstaff", "s3cret-pass", identity.RoleStaff)
		user.Deactivate()
		require.NoError(t, repo.Save(ctx, user))

		_, err := service.Login(ctx, LoginInput{Username: "exstaff", Password: "s3cret-pass"})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ACCOUNT_DEACTIVATED", domainErr.Code)
	})
}

func TestAuthService_Refresh(t *testing.T) {
	ctx := context.Background()

	t.Run("rotates the pair and burns the old refresh token", func(t *testing.T) {
		service, repo := newAuthFixture(t)
		seedUser(t, repo, "manager1", "s3cret-pass", identity.RoleManager)
		login, err := service.Login(ctx, LoginInput{Username: "manager1", Password: "s3cret-pass"})
		require.NoError(t, err)

		refreshed, err := service.Refresh(ctx, RefreshInput{RefreshToken: login.RefreshToken})
		require.NoError(t, err)
		assert.NotEmpty(t, refreshed.AccessToken)
		assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)

		_, err = service.Refresh(ctx, RefreshInput{RefreshToken: login.RefreshToken})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "TOKEN_REVOKED", domainErr.Code)
	})

	t.Run("rejects garbage tokens", func(t *testing.T) {
		service, _ := newAuthFixture(t)

		_, err := service.Refresh(ctx, RefreshInput{RefreshToken: "not-a-token"})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "TOKEN_INVALID", domainErr.Code)
	})

	t.Run("rejects refresh for a deactivated account", func(t *testing.T) {
		service, repo := newAuthFixture(t)
		user := seedUser(t, repo, "staff1", "s3cret-pass", identity.RoleStaff)
		login, err := service.Login(ctx, LoginInput{Username: "staff1", Password: "s3cret-pass"})
		require.NoError(t, err)

		stored, err := repo.FindByID(ctx, user.ID)
		require.NoError(t, err)
		stored.Deactivate()
		require.NoError(t, repo.Save(ctx, stored))

		_, err = service.Refresh(ctx, RefreshInput{RefreshToken: login.RefreshToken})
		require.Error(t, err)
	})
}

func TestAuthService_Logout(t *testing.T) {
	ctx := context.Background()
	service, repo := newAuthFixture(t)
	seedUser(t, repo, "manager1", "s3cret-pass", identity.RoleManager)

	login, err := service.Login(ctx, LoginInput{Username: "manager1", Password: "s3cret-pass"})
	require.NoError(t, err)

	require.NoError(t, service.Logout(ctx, login.AccessToken))

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-for-unit-tests-only!!",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: time.Hour,
		Issuer:                 "emart-test",
		MaxRefreshCount:        3,
	})
	claims, err := jwtService.ValidateAccessToken(login.AccessToken)
	require.NoError(t, err)

	revoked, err := service.IsTokenRevoked(ctx, claims)
	require.NoError(t, err)
	assert.True(t, revoked)
}

package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/mensah-labs/shs-timetable-api/internal/models"
	appErrors "github.com/mensah-labs/shs-timetable-api/pkg/errors"
)

type mockUserRepo struct {
	users      map[string]*models.User
	lastLogins []string
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	if u, ok := m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) UpdateLastLogin(ctx context.Context, id string, ts time.Time) error {
	m.lastLogins = append(m.lastLogins, id)
	return nil
}

func testAuthService(repo *mockUserRepo) *AuthService {
	return NewAuthService(repo, validator.New(), zap.NewNop(), AuthConfig{
		TokenSecret: "test-secret",
		TokenExpiry: time.Hour,
		Issuer:      "shs-timetable",
	})
}

func seedUser(t *testing.T, password string, active bool) *mockUserRepo {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &mockUserRepo{users: map[string]*models.User{
		"u1": {
			ID:           "u1",
			Email:        "admin@school.edu",
			FullName:     "Admin One",
			PasswordHash: string(hash),
			Role:         models.RoleAdmin,
			Active:       active,
		},
	}}
}

func TestAuthServiceLogin(t *testing.T) {
	repo := seedUser(t, "secret123", true)
	service := testAuthService(repo)

	resp, err := service.Login(context.Background(), models.LoginRequest{
		Email:    "admin@school.edu",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, models.RoleAdmin, resp.User.Role)
	assert.Equal(t, []string{"u1"}, repo.lastLogins)

	claims, err := service.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, models.RoleAdmin, claims.Role)
}

func TestAuthServiceLoginWrongPassword(t *testing.T) {
	service := testAuthService(seedUser(t, "secret123", true))

	_, err := service.Login(context.Background(), models.LoginRequest{
		Email:    "admin@school.edu",
		Password: "wrong",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceLoginUnknownEmail(t *testing.T) {
	service := testAuthService(&mockUserRepo{})

	_, err := service.Login(context.Background(), models.LoginRequest{
		Email:    "ghost@school.edu",
		Password: "whatever",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceLoginInactiveAccount(t *testing.T) {
	service := testAuthService(seedUser(t, "secret123", false))

	_, err := service.Login(context.Background(), models.LoginRequest{
		Email:    "admin@school.edu",
		Password: "secret123",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInactiveAccount.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceCurrentUser(t *testing.T) {
	service := testAuthService(seedUser(t, "secret123", true))

	user, err := service.CurrentUser(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "admin@school.edu", user.Email)
	assert.Equal(t, "Admin One", user.FullName)

	_, err = service.CurrentUser(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceValidateTokenRejectsGarbage(t *testing.T) {
	service := testAuthService(&mockUserRepo{})

	_, err := service.ValidateToken("not-a-token")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

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

	"github.com/noah-isme/lpk-cms-api/internal/models"
	appErrors "github.com/noah-isme/lpk-cms-api/pkg/errors"
)

type mockAuthRepo struct {
	users            map[string]*models.AdminUser
	auditLogs        []*models.AuditLog
	lastLoginUpdated bool
	nextID           int64
}

func newMockAuthRepo(users ...*models.AdminUser) *mockAuthRepo {
	repo := &mockAuthRepo{users: map[string]*models.AdminUser{}}
	for _, u := range users {
		repo.users[u.Username] = u
		if u.ID > repo.nextID {
			repo.nextID = u.ID
		}
	}
	return repo
}

func (m *mockAuthRepo) FindByUsername(_ context.Context, username string) (*models.AdminUser, error) {
	u, ok := m.users[username]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return u, nil
}

func (m *mockAuthRepo) FindByID(_ context.Context, id int64) (*models.AdminUser, error) {
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockAuthRepo) Count(context.Context) (int, error) {
	return len(m.users), nil
}

func (m *mockAuthRepo) Create(_ context.Context, user *models.AdminUser) error {
	m.nextID++
	user.ID = m.nextID
	m.users[user.Username] = user
	return nil
}

func (m *mockAuthRepo) UpdateLastLogin(context.Context, int64, time.Time) error {
	m.lastLoginUpdated = true
	return nil
}

func (m *mockAuthRepo) UpdatePassword(_ context.Context, id int64, passwordHash string, _ time.Time) error {
	for _, u := range m.users {
		if u.ID == id {
			u.PasswordHash = passwordHash
		}
	}
	return nil
}

func (m *mockAuthRepo) CreateAuditLog(_ context.Context, log *models.AuditLog) error {
	m.auditLogs = append(m.auditLogs, log)
	return nil
}

func adminWithPassword(t *testing.T, password string, active bool) *models.AdminUser {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &models.AdminUser{ID: 1, Username: "admin", PasswordHash: string(hash), FullName: "Admin", Active: active}
}

func newTestAuthService(repo *mockAuthRepo) *AuthService {
	return NewAuthService(repo, validator.New(), zap.NewNop(), AuthConfig{
		AccessTokenSecret: "secret",
		AccessTokenExpiry: time.Hour,
		Issuer:            "lpk-cms",
	})
}

func TestAuthServiceLoginSuccess(t *testing.T) {
	repo := newMockAuthRepo(adminWithPassword(t, "password", true))
	svc := newTestAuthService(repo)

	res, err := svc.Login(context.Background(), models.LoginRequest{Username: "admin", Password: "password", IP: "10.0.0.1"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)
	assert.Equal(t, "Bearer", res.TokenType)
	assert.Equal(t, int64(3600), res.ExpiresIn)
	assert.Equal(t, "admin", res.User.Username)
	assert.True(t, repo.lastLoginUpdated)
	require.Len(t, repo.auditLogs, 1)
	assert.Equal(t, models.AuditActionLogin, repo.auditLogs[0].Action)
	assert.Equal(t, "10.0.0.1", repo.auditLogs[0].IPAddress)

	claims, err := svc.ValidateToken(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, int64(1), claims.UserID)
	assert.Equal(t, "admin", claims.Username)
	assert.Equal(t, "lpk-cms", claims.Issuer)
}

func TestAuthServiceLoginFailures(t *testing.T) {
	repo := newMockAuthRepo(adminWithPassword(t, "password", true))
	svc := newTestAuthService(repo)

	_, err := svc.Login(context.Background(), models.LoginRequest{Username: "admin", Password: "wrong"})
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)

	_, err = svc.Login(context.Background(), models.LoginRequest{Username: "ghost", Password: "password"})
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)

	_, err = svc.Login(context.Background(), models.LoginRequest{Username: "admin"})
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	inactive := newTestAuthService(newMockAuthRepo(adminWithPassword(t, "password", false)))
	_, err = inactive.Login(context.Background(), models.LoginRequest{Username: "admin", Password: "password"})
	assert.Equal(t, appErrors.ErrInactiveAccount.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceValidateTokenRejectsForeignSecret(t *testing.T) {
	repo := newMockAuthRepo(adminWithPassword(t, "password", true))
	res, err := newTestAuthService(repo).Login(context.Background(), models.LoginRequest{Username: "admin", Password: "password"})
	require.NoError(t, err)

	other := NewAuthService(repo, nil, nil, AuthConfig{AccessTokenSecret: "other"})
	_, err = other.ValidateToken(res.AccessToken)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceChangePassword(t *testing.T) {
	repo := newMockAuthRepo(adminWithPassword(t, "password", true))
	svc := newTestAuthService(repo)

	err := svc.ChangePassword(context.Background(), 1, models.ChangePasswordRequest{OldPassword: "nope", NewPassword: "new-password"})
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)

	err = svc.ChangePassword(context.Background(), 1, models.ChangePasswordRequest{OldPassword: "password", NewPassword: "short"})
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	require.NoError(t, svc.ChangePassword(context.Background(), 1, models.ChangePasswordRequest{OldPassword: "password", NewPassword: "new-password"}))
	_, err = svc.Login(context.Background(), models.LoginRequest{Username: "admin", Password: "new-password"})
	assert.NoError(t, err)
}

func TestAuthServiceSeedAdminOnlyWhenEmpty(t *testing.T) {
	repo := newMockAuthRepo()
	svc := newTestAuthService(repo)

	require.NoError(t, svc.SeedAdmin(context.Background(), "root", "changeme"))
	require.Len(t, repo.users, 1)
	assert.True(t, repo.users["root"].Active)

	require.NoError(t, svc.SeedAdmin(context.Background(), "second", "changeme"))
	assert.Len(t, repo.users, 1)

	me, err := svc.Me(context.Background(), repo.users["root"].ID)
	require.NoError(t, err)
	assert.Equal(t, "root", me.Username)
}

package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/sma-activities-api/internal/models"
	appErrors "github.com/noah-isme/sma-activities-api/pkg/errors"
)

type mockTeacherRepo struct {
	teachers map[string]*models.Teacher
	err      error
}

func (m *mockTeacherRepo) FindByUsername(ctx context.Context, username string) (*models.Teacher, error) {
	if m.err != nil {
		return nil, m.err
	}
	teacher, ok := m.teachers[username]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return teacher, nil
}

func newAuthFixture(t *testing.T) (*AuthService, *mockTeacherRepo) {
	hash, err := bcrypt.GenerateFromPassword([]byte("art123"), bcrypt.MinCost)
	require.NoError(t, err)
	repo := &mockTeacherRepo{teachers: map[string]*models.Teacher{
		"mchen": {Username: "mchen", DisplayName: "Ms. Chen", PasswordHash: string(hash), Role: models.RoleTeacher},
	}}
	svc := NewAuthService(repo, validator.New(), zap.NewNop(), AuthConfig{AccessTokenSecret: "secret", AccessTokenExpiry: time.Hour, Issuer: "mergington"})
	return svc, repo
}

func TestAuthServiceLoginSuccess(t *testing.T) {
	svc, _ := newAuthFixture(t)

	res, err := svc.Login(context.Background(), models.LoginRequest{Username: "mchen", Password: "art123"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)
	assert.Equal(t, int64(3600), res.ExpiresIn)
	assert.Equal(t, "Ms. Chen", res.User.DisplayName)

	claims, err := svc.ValidateToken(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "mchen", claims.Username)
	assert.Equal(t, models.RoleTeacher, claims.Role)
	assert.Equal(t, "mergington", claims.Issuer)
}

func TestAuthServiceLoginRejectsBadPassword(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, err := svc.Login(context.Background(), models.LoginRequest{Username: "mchen", Password: "wrong"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceLoginUnknownUser(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, err := svc.Login(context.Background(), models.LoginRequest{Username: "ghost", Password: "x"})
	assert.ErrorIs(t, err, appErrors.ErrInvalidCredentials)
}

func TestAuthServiceLoginValidation(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, err := svc.Login(context.Background(), models.LoginRequest{Username: "mchen"})
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceSession(t *testing.T) {
	svc, repo := newAuthFixture(t)

	info, err := svc.Session(context.Background(), &models.JWTClaims{Username: "mchen"})
	require.NoError(t, err)
	assert.Equal(t, "Ms. Chen", info.DisplayName)

	delete(repo.teachers, "mchen")
	_, err = svc.Session(context.Background(), &models.JWTClaims{Username: "mchen"})
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)
}

func TestValidateTokenRejectsExpiredAndForeign(t *testing.T) {
	svc, _ := newAuthFixture(t)
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, _, err := svc.generateAccessToken(&models.Teacher{Username: "mchen", Role: models.RoleTeacher})
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)

	foreign, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &models.JWTClaims{Username: "mchen"}).SignedString([]byte("other"))
	require.NoError(t, err)
	_, err = svc.ValidateToken(foreign)
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)
}

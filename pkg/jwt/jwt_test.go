package jwt_test

import (
	"testing"
	"time"

	"github.com/medilink/telehealth-api/config"
	"github.com/medilink/telehealth-api/internal/domain/entity"
	"github.com/medilink/telehealth-api/pkg/jwt"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(secret string) *jwt.JWTService {
	return jwt.NewJWTService(config.JWTConfig{
		Secret:        secret,
		AccessExpiry:  15 * time.Minute,
		RefreshExpiry: 7 * 24 * time.Hour,
	})
}

func TestAccessTokenRoundTrip(t *testing.T) {
	svc := newService("secret-one")
	userID := uuid.New()

	token, tokenID, err := svc.GenerateAccessToken(userID, "doc@example.com", entity.RoleIDDoctor, entity.RoleDoctor)
	require.NoError(t, err)
	require.NotEmpty(t, tokenID)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "doc@example.com", claims.Email)
	assert.Equal(t, entity.RoleIDDoctor, claims.RoleID)
	assert.Equal(t, entity.RoleDoctor, claims.RoleName)
	assert.Equal(t, jwt.AccessToken, claims.TokenType)
	assert.Equal(t, tokenID, claims.TokenID)
}

func TestRefreshTokenCarriesRefreshType(t *testing.T) {
	svc := newService("secret-one")

	token, _, err := svc.GenerateRefreshToken(uuid.New(), "p@example.com", entity.RoleIDPatient, entity.RolePatient)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, jwt.RefreshToken, claims.TokenType)
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	token, _, err := newService("secret-one").GenerateAccessToken(uuid.New(), "a@b.com", entity.RoleIDPatient, entity.RolePatient)
	require.NoError(t, err)

	_, err = newService("secret-two").ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateRejectsGarbage(t *testing.T) {
	_, err := newService("secret-one").ValidateToken("not-a-token")
	assert.Error(t, err)
}

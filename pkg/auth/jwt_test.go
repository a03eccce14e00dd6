package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitavet/vitavet-api/internal/model"
)

func testUser() *model.User {
	clinicID := uuid.New()
	return &model.User{
		Base:     model.Base{ID: uuid.New()},
		Role:     model.UserRoleVet,
		ClinicID: &clinicID,
	}
}

func TestGenerateAndValidateToken(t *testing.T) {
	svc := NewJWTService(JWTConfig{Secret: "test-secret", ExpiryHours: 1, Issuer: "vitavet"})
	user := testUser()

	token, err := svc.GenerateToken(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, model.UserRoleVet, claims.Role)
	require.NotNil(t, claims.ClinicID)
	assert.Equal(t, *user.ClinicID, *claims.ClinicID)
	assert.Equal(t, "vitavet", claims.Issuer)
	assert.Equal(t, user.ID.String(), claims.Subject)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	issuer := NewJWTService(JWTConfig{Secret: "secret-a", ExpiryHours: 1})
	verifier := NewJWTService(JWTConfig{Secret: "secret-b", ExpiryHours: 1})

	token, err := issuer.GenerateToken(testUser())
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenExpired(t *testing.T) {
	svc := NewJWTService(JWTConfig{Secret: "test-secret", ExpiryHours: -1}).(*jwtService)
	// Force the expiry back in time; the config floor would otherwise
	// reset it to the default.
	svc.expiry = -time.Hour

	token, err := svc.GenerateToken(testUser())
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenGarbage(t *testing.T) {
	svc := NewJWTService(JWTConfig{Secret: "test-secret", ExpiryHours: 1})

	_, err := svc.ValidateToken("not.a.token")
	assert.Error(t, err)
}

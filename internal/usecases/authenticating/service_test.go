package authenticating

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/token-sale-api/internal/config"
	"github.com/vfg2006/token-sale-api/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

func newTestConfig(t *testing.T, password string) *config.Config {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	return &config.Config{
		Auth: config.Auth{
			Secret:            "test-secret",
			AdminUser:         "admin",
			AdminPasswordHash: string(hash),
		},
	}
}

func TestLogin(t *testing.T) {
	service := NewService(newTestConfig(t, "s3nh4-f0rte"))

	token, err := service.Login("admin", "s3nh4-f0rte")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Subject)
	assert.True(t, claims.Admin)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	service := NewService(newTestConfig(t, "s3nh4-f0rte"))

	_, err := service.Login("admin", "errada")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = service.Login("outro", "s3nh4-f0rte")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_DisabledWithoutHash(t *testing.T) {
	service := NewService(&config.Config{
		Auth: config.Auth{Secret: "test-secret", AdminUser: "admin"},
	})

	_, err := service.Login("admin", "qualquer")
	assert.ErrorIs(t, err, ErrLoginDisabled)
}

func TestValidateToken_Failures(t *testing.T) {
	cfg := newTestConfig(t, "s3nh4-f0rte")
	service := NewService(cfg)

	t.Run("token malformado", func(t *testing.T) {
		_, err := service.ValidateToken("nem-um-jwt")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("assinatura de outro segredo", func(t *testing.T) {
		other := jwt.NewWithClaims(jwt.SigningMethodHS256, &domain.Claims{
			Subject: "admin",
			Admin:   true,
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		})
		signed, err := other.SignedString([]byte("outro-segredo"))
		require.NoError(t, err)

		_, err = service.ValidateToken(signed)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("token expirado", func(t *testing.T) {
		expired := jwt.NewWithClaims(jwt.SigningMethodHS256, &domain.Claims{
			Subject: "admin",
			Admin:   true,
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			},
		})
		signed, err := expired.SignedString([]byte(cfg.Auth.Secret))
		require.NoError(t, err)

		_, err = service.ValidateToken(signed)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})
}

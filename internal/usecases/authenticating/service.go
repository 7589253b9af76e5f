package authenticating

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/token-sale-api/internal/config"
	"github.com/vfg2006/token-sale-api/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = 24 * time.Hour

// Authenticator autentica o administrador único do serviço. Não há
// cadastro de usuários: as credenciais vêm da configuração.
type Authenticator interface {
	Login(username, password string) (string, error)
	ValidateToken(tokenString string) (*domain.Claims, error)
}

type Service struct {
	cfg *config.Config
}

func NewService(cfg *config.Config) Authenticator {
	return &Service{cfg: cfg}
}

// Login valida as credenciais do administrador e emite um JWT
func (s *Service) Login(username, password string) (string, error) {
	if s.cfg.Auth.AdminPasswordHash == "" {
		return "", ErrLoginDisabled
	}

	if username != s.cfg.Auth.AdminUser {
		// Mesmo custo de resposta para usuário e senha incorretos
		_ = bcrypt.CompareHashAndPassword([]byte(s.cfg.Auth.AdminPasswordHash), []byte(password))
		return "", ErrInvalidCredentials
	}

	err := bcrypt.CompareHashAndPassword([]byte(s.cfg.Auth.AdminPasswordHash), []byte(password))
	if err != nil {
		logrus.WithField("username", username).Warn("Tentativa de login com senha incorreta")
		return "", ErrInvalidCredentials
	}

	claims := &domain.Claims{
		Subject: username,
		Admin:   true,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString([]byte(s.cfg.Auth.Secret))
	if err != nil {
		logrus.WithError(err).Error("Erro ao assinar token JWT")
		return "", err
	}

	return signed, nil
}

// ValidateToken verifica a assinatura e a validade temporal do JWT
func (s *Service) ValidateToken(tokenString string) (*domain.Claims, error) {
	claims := &domain.Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(s.cfg.Auth.Secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	if !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

package domain

import (
	"github.com/golang-jwt/jwt/v5"
)

// Claims transporta a identidade do administrador autenticado no JWT.
// O serviço tem um único usuário administrador configurado via ambiente.
type Claims struct {
	Subject string
	Admin   bool
	jwt.RegisteredClaims
}

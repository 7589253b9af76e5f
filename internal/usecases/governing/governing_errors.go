package governing

import (
	"errors"
	"fmt"
)

// Erros específicos para o contexto de governança do registro
var (
	// Erros de autorização
	ErrNotOwner = errors.New("caller is not the registry owner")

	// Erros de validação
	ErrZeroAddress = errors.New("address must not be the zero address")
	ErrZeroAmount  = errors.New("amount must be greater than zero")

	// Erros de tesouraria
	ErrNothingToWithdraw = errors.New("no balance available to withdraw")
	ErrWithdrawFailed    = errors.New("error moving balance to the owner")
)

// GovernanceError é um erro com contexto adicional para operações de governança
type GovernanceError struct {
	Err     error  // Erro base
	Code    string // Código de erro para API
	Details string // Detalhes adicionais
}

// Error implementa a interface error
func (e *GovernanceError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

// Unwrap retorna o erro subjacente
func (e *GovernanceError) Unwrap() error {
	return e.Err
}

// NewGovernanceError cria um novo GovernanceError
func NewGovernanceError(err error, code string, details string) *GovernanceError {
	return &GovernanceError{
		Err:     err,
		Code:    code,
		Details: details,
	}
}

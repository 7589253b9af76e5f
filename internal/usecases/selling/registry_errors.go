package selling

import (
	"errors"
	"fmt"
)

// Erros específicos do registro de vendas
var (
	// Erros de consulta
	ErrSaleNotFound = errors.New("sale not found")

	// Erros de validação na criação e nos setters
	ErrInvalidDisbursement = errors.New("invalid disbursement method")
	ErrMissingSource       = errors.New("transfer_from disbursement requires a source address")
	ErrZeroAsset           = errors.New("asset address must not be the zero address")
	ErrNegativeValue       = errors.New("value must not be negative")

	// Erros de contabilidade interna
	ErrOversold = errors.New("recorded sale would exceed the supply cap")
)

// RegistryError é um erro com contexto adicional do registro
type RegistryError struct {
	Err       error  // Erro base
	Code      string // Código de erro para API
	SaleIndex int    // Índice da venda envolvida (quando aplicável)
	Details   string // Detalhes adicionais
}

// Error implementa a interface error
func (e *RegistryError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

// Unwrap retorna o erro subjacente
func (e *RegistryError) Unwrap() error {
	return e.Err
}

// NewRegistryError cria um novo RegistryError
func NewRegistryError(err error, code string, details string) *RegistryError {
	return &RegistryError{
		Err:     err,
		Code:    code,
		Details: details,
	}
}

// NewRegistryErrorWithIndex cria um novo RegistryError com o índice da venda
func NewRegistryErrorWithIndex(err error, code string, index int, details string) *RegistryError {
	return &RegistryError{
		Err:       err,
		Code:      code,
		SaleIndex: index,
		Details:   details,
	}
}

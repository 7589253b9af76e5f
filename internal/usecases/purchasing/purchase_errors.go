package purchasing

import (
	"errors"
	"fmt"
)

// Erros específicos do protocolo de compra
var (
	// Erros de validação
	ErrZeroAmount            = errors.New("amount must be greater than zero")
	ErrAmountTooSmall        = errors.New("amount is too small: usd cost rounds to zero")
	ErrStablecoinUnset       = errors.New("stablecoin slot is not configured")
	ErrUnknownStablecoin     = errors.New("pay token is not an accepted stablecoin")
	ErrInvalidStablecoinSlot = errors.New("stablecoin slot must be A or B")

	// Erros de estado da venda
	ErrSalePaused     = errors.New("sale is paused")
	ErrSaleNotStarted = errors.New("sale has not started yet")
	ErrSaleEnded      = errors.New("sale has ended")

	// Erros do caminho de pagamento
	ErrInsufficientAllowance = errors.New("buyer allowance is below the usd cost")
	ErrCapacityExceeded      = errors.New("purchase would exceed the remaining supply cap")
	ErrPaymentFailed         = errors.New("error pulling payment from the buyer")
	ErrDisbursementFailed    = errors.New("error disbursing the sale asset to the buyer")

	// Erros de colaboradores externos
	ErrOracleUnavailable = errors.New("price oracle is unavailable")
	ErrOraclePrice       = errors.New("price oracle returned a non-positive price")
	ErrOracleUnset       = errors.New("price oracle is not configured")

	// Erro do lock de reentrância: uma aquisição reentrante falha imediatamente
	// em vez de bloquear
	ErrReentrantCall = errors.New("another purchase is already in flight")
)

// PurchaseError é um erro com contexto adicional do motor de compra
type PurchaseError struct {
	Err       error  // Erro base
	Code      string // Código de erro para API
	SaleIndex int    // Índice da venda envolvida
	Details   string // Detalhes adicionais
}

// Error implementa a interface error
func (e *PurchaseError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

// Unwrap retorna o erro subjacente
func (e *PurchaseError) Unwrap() error {
	return e.Err
}

// NewPurchaseError cria um novo PurchaseError
func NewPurchaseError(err error, code string, index int, details string) *PurchaseError {
	return &PurchaseError{
		Err:       err,
		Code:      code,
		SaleIndex: index,
		Details:   details,
	}
}

// IsStateError verifica se o erro veio da janela de tempo ou do flag de pausa
func IsStateError(err error) bool {
	return errors.Is(err, ErrSalePaused) ||
		errors.Is(err, ErrSaleNotStarted) ||
		errors.Is(err, ErrSaleEnded)
}

// IsOracleError verifica se o erro veio do oráculo de preço
func IsOracleError(err error) bool {
	return errors.Is(err, ErrOracleUnavailable) ||
		errors.Is(err, ErrOraclePrice) ||
		errors.Is(err, ErrOracleUnset)
}

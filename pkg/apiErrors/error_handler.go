package apiErrors

import (
	"encoding/json"
	"net/http"
)

// Códigos de erro expostos pela API
const (
	// Erros de autenticação e autorização (AUTH)
	ErrInvalidCredentials    = "AUTH_001" // Credenciais inválidas
	ErrInvalidToken          = "AUTH_002" // Token inválido
	ErrExpiredToken          = "AUTH_003" // Token expirado
	ErrInsufficientPrivilege = "AUTH_004" // Privilégios insuficientes
	ErrNotOwner              = "AUTH_005" // Chamador não é o administrador do registro

	// Erros de validação (VAL)
	ErrInvalidRequest      = "VAL_001" // Requisição inválida
	ErrMissingRequiredData = "VAL_002" // Dados obrigatórios ausentes
	ErrInvalidAmount       = "VAL_003" // Quantidade zero ou malformada
	ErrAmountTooSmall      = "VAL_004" // Quantidade arredonda para custo zero
	ErrUnknownStablecoin   = "VAL_005" // Stablecoin não configurada para o slot
	ErrInvalidDisbursement = "VAL_006" // Método de distribuição inválido

	// Erros de estado da venda (SALE)
	ErrSaleNotFound   = "SALE_001" // Índice de venda inexistente
	ErrSaleInactive   = "SALE_002" // Venda pausada ou fora da janela de tempo
	ErrCapacity       = "SALE_003" // Compra excederia o teto de fornecimento
	ErrPurchaseBusy   = "SALE_004" // Outra compra em andamento (lock de reentrância)
	ErrAllowanceShort = "SALE_005" // Allowance do comprador insuficiente

	// Erros de colaboradores externos (EXT)
	ErrOracle         = "EXT_001" // Oráculo indisponível ou preço não positivo
	ErrTransferFailed = "EXT_002" // Movimentação de ativo falhou

	// Erros do servidor (SRV)
	ErrInternalServer = "SRV_001" // Erro interno do servidor
)

// Mapeamento de códigos de erro para status HTTP
var httpStatusMap = map[string]int{
	ErrInvalidCredentials:    http.StatusUnauthorized,
	ErrInvalidToken:          http.StatusUnauthorized,
	ErrExpiredToken:          http.StatusUnauthorized,
	ErrInsufficientPrivilege: http.StatusForbidden,
	ErrNotOwner:              http.StatusForbidden,
	ErrInvalidRequest:        http.StatusBadRequest,
	ErrMissingRequiredData:   http.StatusBadRequest,
	ErrInvalidAmount:         http.StatusBadRequest,
	ErrAmountTooSmall:        http.StatusBadRequest,
	ErrUnknownStablecoin:     http.StatusBadRequest,
	ErrInvalidDisbursement:   http.StatusBadRequest,
	ErrSaleNotFound:          http.StatusNotFound,
	ErrSaleInactive:          http.StatusConflict,
	ErrCapacity:              http.StatusConflict,
	ErrPurchaseBusy:          http.StatusLocked,
	ErrAllowanceShort:        http.StatusPaymentRequired,
	ErrOracle:                http.StatusBadGateway,
	ErrTransferFailed:        http.StatusBadGateway,
	ErrInternalServer:        http.StatusInternalServerError,
}

// APIError representa um erro de API padronizado
type APIError struct {
	Code    string `json:"code"`              // Código de erro para o cliente
	Message string `json:"message,omitempty"` // Mensagem descritiva (opcional)
	Details any    `json:"details,omitempty"` // Detalhes adicionais (opcional)
}

// WriteError escreve o erro padronizado para a resposta HTTP
func WriteError(w http.ResponseWriter, code string, message string, details any) {
	status, exists := httpStatusMap[code]
	if !exists {
		status = http.StatusInternalServerError
	}

	apiErr := APIError{
		Code:    code,
		Message: message,
		Details: details,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(apiErr)
}

// FromError cria um erro de API a partir de um erro Go
func FromError(err error, code string) APIError {
	if err == nil {
		return APIError{
			Code:    ErrInternalServer,
			Message: "Erro desconhecido",
		}
	}

	return APIError{
		Code:    code,
		Message: err.Error(),
	}
}

// Package domain contém as entidades centrais do registro de vendas de tokens
package domain

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Precisões decimais fixas assumidas pelo protocolo de compra.
// O ativo vendido usa 18 casas, o preço em USD usa 6 e a resposta
// do oráculo usa 8. Qualquer conversão entre elas trunca em direção a zero.
const (
	AssetDecimals  = 18
	PriceDecimals  = 6
	OracleDecimals = 8
)

// DisbursementMethod identifica o mecanismo pelo qual o ativo comprado
// chega ao comprador. O método é fixado na criação da venda e nunca muda.
type DisbursementMethod uint8

const (
	// DisburseTransfer move o ativo da custódia do próprio sistema de venda.
	DisburseTransfer DisbursementMethod = iota + 1
	// DisburseTransferFrom move o ativo de um detentor externo designado,
	// consumindo allowance previamente concedida ao sistema.
	DisburseTransferFrom
	// DisburseMint cria unidades novas diretamente para o comprador.
	DisburseMint
)

// String retorna o nome do método para logs e payloads de eventos
func (m DisbursementMethod) String() string {
	switch m {
	case DisburseTransfer:
		return "transfer"
	case DisburseTransferFrom:
		return "transfer_from"
	case DisburseMint:
		return "mint"
	default:
		return "unknown"
	}
}

// Valid informa se o método é um dos três suportados
func (m DisbursementMethod) Valid() bool {
	switch m {
	case DisburseTransfer, DisburseTransferFrom, DisburseMint:
		return true
	}
	return false
}

// ParseDisbursementMethod converte o nome textual usado na API
func ParseDisbursementMethod(s string) (DisbursementMethod, bool) {
	switch s {
	case "transfer":
		return DisburseTransfer, true
	case "transfer_from":
		return DisburseTransferFrom, true
	case "mint":
		return DisburseMint, true
	}
	return 0, false
}

// Disbursement é a variante etiquetada gravada em cada venda.
// Source só é relevante para TransferFrom; Transfer usa a custódia do
// sistema e Mint usa o próprio endereço emissor do ativo.
type Disbursement struct {
	Method DisbursementMethod `json:"method"`
	Source common.Address     `json:"source"`
}

// Sale é uma oferta configurada de um ativo a preço fixado pelo administrador.
// O índice é atribuído pelo registro na criação e nunca é reutilizado.
type Sale struct {
	Index           int                `json:"index"`
	AssetAddress    common.Address     `json:"asset_address"`
	Disbursement    Disbursement       `json:"disbursement"`
	PriceInUsd      *big.Int           `json:"price_in_usd"`       // 6 casas decimais
	MaxTokensToSell *big.Int           `json:"max_tokens_to_sell"` // 18 casas; 0 = sem limite
	TokensSold      *big.Int           `json:"tokens_sold"`        // 18 casas; monotônico
	StartDate       int64              `json:"start_date"`         // unix; 0 = sem limite inferior
	EndDate         int64              `json:"end_date"`           // unix; 0 = sem limite superior
	Paused          bool               `json:"paused"`
}

// Capped informa se a venda tem teto de fornecimento
func (s *Sale) Capped() bool {
	return s.MaxTokensToSell != nil && s.MaxTokensToSell.Sign() != 0
}

// Remaining retorna quantas unidades ainda podem ser vendidas.
// Para vendas sem teto retorna nil.
func (s *Sale) Remaining() *big.Int {
	if !s.Capped() {
		return nil
	}
	return new(big.Int).Sub(s.MaxTokensToSell, s.TokensSold)
}

// Clone devolve uma cópia profunda para leituras fora do lock do registro
func (s *Sale) Clone() *Sale {
	if s == nil {
		return nil
	}

	clone := *s
	clone.PriceInUsd = new(big.Int).Set(s.PriceInUsd)
	clone.MaxTokensToSell = new(big.Int).Set(s.MaxTokensToSell)
	clone.TokensSold = new(big.Int).Set(s.TokensSold)
	return &clone
}

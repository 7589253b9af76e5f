package domain

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Tipos de evento emitidos pelo registro e pelo motor de compra
const (
	EventSaleCreated  = "SaleCreated"
	EventSaleUpdated  = "SaleUpdated"
	EventTokensBought = "TokensBought"
)

// Event é a notificação observável publicada após cada mutação bem sucedida.
// Carrega o registro completo relevante, nunca um diff parcial.
type Event struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`

	// Preenchido em SaleCreated e SaleUpdated
	Sale *Sale `json:"sale,omitempty"`

	// Preenchido em TokensBought
	Purchase *PurchaseReceipt `json:"purchase,omitempty"`
}

// PurchaseReceipt descreve uma compra concluída.
// UsdCost fica zerado no caminho nativo e NativeSent no caminho stablecoin.
type PurchaseReceipt struct {
	Buyer        common.Address `json:"buyer"`
	SaleIndex    int            `json:"sale_index"`
	AmountBought *big.Int       `json:"amount_bought"` // 18 casas
	PriceInUsd   *big.Int       `json:"price_in_usd"`  // 6 casas
	UsdCost      *big.Int       `json:"usd_cost"`      // 6 casas
	NativeSent   *big.Int       `json:"native_sent"`   // 18 casas
	ReferralCode string         `json:"referral_code"`
}

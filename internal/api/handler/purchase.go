package handler

import (
	"net/http"

	"github.com/vfg2006/token-sale-api/internal/domain"
	"github.com/vfg2006/token-sale-api/internal/usecases/purchasing"
	"github.com/vfg2006/token-sale-api/pkg/apiErrors"
	"github.com/vfg2006/token-sale-api/pkg/utils"
)

type BuyWithStableRequest struct {
	Buyer        string `json:"buyer"`
	Slot         string `json:"slot"`         // "A" ou "B"
	Amount       string `json:"amount"`       // unidades base do ativo (18 casas)
	ReferralCode string `json:"referral_code"`
}

type BuyWithNativeRequest struct {
	Buyer        string `json:"buyer"`
	NativeSent   string `json:"native_sent"` // wei anexado à compra
	ReferralCode string `json:"referral_code"`
}

type PurchaseResponse struct {
	Buyer        string `json:"buyer"`
	SaleIndex    int    `json:"sale_index"`
	AmountBought string `json:"amount_bought"`
	PriceInUsd   string `json:"price_in_usd"`
	UsdCost      string `json:"usd_cost"`
	NativeSent   string `json:"native_sent,omitempty"`
	ReferralCode string `json:"referral_code,omitempty"`
}

func newPurchaseResponse(receipt *domain.PurchaseReceipt) PurchaseResponse {
	resp := PurchaseResponse{
		Buyer:        receipt.Buyer.Hex(),
		SaleIndex:    receipt.SaleIndex,
		AmountBought: receipt.AmountBought.String(),
		PriceInUsd:   utils.FormatUsd(receipt.PriceInUsd),
		UsdCost:      utils.FormatUsd(receipt.UsdCost),
		ReferralCode: receipt.ReferralCode,
	}

	if receipt.NativeSent.Sign() > 0 {
		resp.NativeSent = receipt.NativeSent.String()
	}

	return resp
}

func BuyWithStable(engine *purchasing.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		index, ok := saleIndexFromRequest(w, r)
		if !ok {
			return
		}

		var req BuyWithStableRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Formato de requisição inválido", nil)
			return
		}

		buyer, ok := parseAddress(req.Buyer)
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Endereço do comprador inválido", nil)
			return
		}

		amount, ok := utils.BigFromString(req.Amount)
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidAmount, "Quantidade inválida", nil)
			return
		}

		receipt, err := engine.BuyWithStable(
			r.Context(),
			buyer,
			index,
			purchasing.StablecoinSlot(req.Slot),
			amount,
			req.ReferralCode,
		)
		if err != nil {
			writeUsecaseError(w, err)
			return
		}

		respondJSON(w, http.StatusOK, newPurchaseResponse(receipt))
	}
}

func BuyWithNative(engine *purchasing.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		index, ok := saleIndexFromRequest(w, r)
		if !ok {
			return
		}

		var req BuyWithNativeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Formato de requisição inválido", nil)
			return
		}

		buyer, ok := parseAddress(req.Buyer)
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Endereço do comprador inválido", nil)
			return
		}

		nativeSent, ok := utils.BigFromString(req.NativeSent)
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidAmount, "Valor nativo inválido", nil)
			return
		}

		receipt, err := engine.BuyWithNative(
			r.Context(),
			buyer,
			index,
			nativeSent,
			req.ReferralCode,
		)
		if err != nil {
			writeUsecaseError(w, err)
			return
		}

		respondJSON(w, http.StatusOK, newPurchaseResponse(receipt))
	}
}

package handler

import (
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/token-sale-api/internal/usecases/governing"
	"github.com/vfg2006/token-sale-api/pkg/apiErrors"
	"github.com/vfg2006/token-sale-api/pkg/utils"
)

type withdrawTokenRequest struct {
	AssetAddress string `json:"asset_address"`
	Amount       string `json:"amount"` // unidades base do ativo
}

type transferOwnershipRequest struct {
	NewOwner string `json:"new_owner"`
}

// WithdrawToken varre unidades de um ativo retido na custódia para o
// administrador. Usado para recuperar pagamentos que ficaram em escrow
// após uma falha de encaminhamento, ou ativos enviados por engano.
func WithdrawToken(service *governing.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req withdrawTokenRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Formato de requisição inválido", nil)
			return
		}

		asset, ok := parseAddress(req.AssetAddress)
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Endereço do ativo inválido", nil)
			return
		}

		amount, ok := utils.BigFromString(req.Amount)
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidAmount, "Quantidade inválida", nil)
			return
		}

		caller := service.Access().Owner()
		if err := service.WithdrawToken(r.Context(), caller, asset, amount); err != nil {
			writeUsecaseError(w, err)
			return
		}

		respondJSON(w, http.StatusOK, map[string]any{
			"asset_address": asset.Hex(),
			"amount":        amount.String(),
			"recipient":     caller.Hex(),
		})
	}
}

// WithdrawNative varre todo o saldo nativo da custódia para o administrador
func WithdrawNative(service *governing.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller := service.Access().Owner()

		amount, err := service.WithdrawNative(r.Context(), caller)
		if err != nil {
			writeUsecaseError(w, err)
			return
		}

		respondJSON(w, http.StatusOK, map[string]any{
			"amount":    amount.String(),
			"recipient": caller.Hex(),
		})
	}
}

// TransferOwnership troca o administrador do registro. A partir da
// resposta, todas as operações administrativas passam a autorizar o
// novo endereço e os pagamentos passam a ser encaminhados para ele.
func TransferOwnership(access *governing.AccessControl) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req transferOwnershipRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Formato de requisição inválido", nil)
			return
		}

		newOwner, ok := parseAddress(req.NewOwner)
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Endereço do novo administrador inválido", nil)
			return
		}

		previous := access.Owner()
		if err := access.TransferOwnership(previous, newOwner); err != nil {
			writeUsecaseError(w, err)
			return
		}

		logrus.WithFields(logrus.Fields{
			"previous_owner": previous.Hex(),
			"new_owner":      newOwner.Hex(),
		}).Info("Administração do registro transferida")

		respondJSON(w, http.StatusOK, map[string]any{
			"previous_owner": previous.Hex(),
			"new_owner":      newOwner.Hex(),
		})
	}
}

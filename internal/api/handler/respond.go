package handler

import (
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/token-sale-api/internal/usecases/governing"
	"github.com/vfg2006/token-sale-api/internal/usecases/purchasing"
	"github.com/vfg2006/token-sale-api/internal/usecases/selling"
	"github.com/vfg2006/token-sale-api/pkg/apiErrors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logrus.WithError(err).Error("Erro ao serializar resposta")
	}
}

// writeUsecaseError traduz os erros tipados dos casos de uso para a
// resposta padronizada da API. Cada erro tipado já carrega seu código;
// erros desconhecidos viram 500 sem vazar detalhes internos.
func writeUsecaseError(w http.ResponseWriter, err error) {
	var registryErr *selling.RegistryError
	if errors.As(err, &registryErr) {
		apiErrors.WriteError(w, registryErr.Code, registryErr.Error(), map[string]any{
			"sale_index": registryErr.SaleIndex,
		})
		return
	}

	var purchaseErr *purchasing.PurchaseError
	if errors.As(err, &purchaseErr) {
		apiErrors.WriteError(w, purchaseErr.Code, purchaseErr.Error(), map[string]any{
			"sale_index": purchaseErr.SaleIndex,
		})
		return
	}

	var governanceErr *governing.GovernanceError
	if errors.As(err, &governanceErr) {
		apiErrors.WriteError(w, governanceErr.Code, governanceErr.Error(), nil)
		return
	}

	if errors.Is(err, governing.ErrNotOwner) {
		apiErrors.WriteError(w, apiErrors.ErrNotOwner, err.Error(), nil)
		return
	}

	logrus.WithError(err).Error("Erro não mapeado no caso de uso")
	apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro interno do servidor", nil)
}

package handler

import (
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/token-sale-api/internal/scheduler"
	"github.com/vfg2006/token-sale-api/pkg/apiErrors"
)

// RunSaleWatch dispara manualmente uma passada do vigia de janelas de venda
func RunSaleWatch(service *scheduler.SaleWindowService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Executa em background; a passada só registra logs
		go func() {
			if err := service.WatchSaleWindows(); err != nil {
				logrus.WithError(err).Error("Erro na passada manual do vigia de janelas de venda")
			}
		}()

		respondJSON(w, http.StatusAccepted, map[string]string{
			"status": "started",
		})
	}
}

// GetSaleWatchStatus retorna o estado corrente do vigia
func GetSaleWatchStatus(service *scheduler.SaleWindowService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if service == nil {
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Vigia não inicializado", nil)
			return
		}

		respondJSON(w, http.StatusOK, service.Status())
	}
}

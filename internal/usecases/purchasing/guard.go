package purchasing

import (
	"time"

	"github.com/vfg2006/token-sale-api/internal/domain"
)

// IsActive é o predicado puro que decide se uma venda aceita compras no
// instante `now`. Avaliado a cada compra, nunca cacheado: uma venda pode
// alternar entre ativa e inativa entre chamadas.
//
// Janela: startDate inclusivo, endDate exclusivo; 0 desativa o limite.
func IsActive(sale *domain.Sale, now time.Time) bool {
	if sale.Paused {
		return false
	}

	unix := now.Unix()

	if sale.StartDate != 0 && unix < sale.StartDate {
		return false
	}

	if sale.EndDate != 0 && unix >= sale.EndDate {
		return false
	}

	return true
}

// activationError traduz o motivo da inatividade no erro de estado preciso
func activationError(sale *domain.Sale, now time.Time) error {
	if sale.Paused {
		return ErrSalePaused
	}

	unix := now.Unix()

	if sale.StartDate != 0 && unix < sale.StartDate {
		return ErrSaleNotStarted
	}

	if sale.EndDate != 0 && unix >= sale.EndDate {
		return ErrSaleEnded
	}

	return nil
}

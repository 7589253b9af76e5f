package purchasing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/token-sale-api/internal/domain"
)

func TestIsActive(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)

	tests := []struct {
		name     string
		sale     *domain.Sale
		expected bool
	}{
		{
			name:     "sem limites e sem pausa",
			sale:     &domain.Sale{},
			expected: true,
		},
		{
			name:     "pausada",
			sale:     &domain.Sale{Paused: true},
			expected: false,
		},
		{
			name:     "pausada sobrepõe janela válida",
			sale:     &domain.Sale{Paused: true, StartDate: now.Unix() - 10, EndDate: now.Unix() + 10},
			expected: false,
		},
		{
			name:     "antes do início",
			sale:     &domain.Sale{StartDate: now.Unix() + 1},
			expected: false,
		},
		{
			name:     "exatamente no início (inclusivo)",
			sale:     &domain.Sale{StartDate: now.Unix()},
			expected: true,
		},
		{
			name:     "exatamente no fim (exclusivo)",
			sale:     &domain.Sale{EndDate: now.Unix()},
			expected: false,
		},
		{
			name:     "um segundo antes do fim",
			sale:     &domain.Sale{EndDate: now.Unix() + 1},
			expected: true,
		},
		{
			name:     "dentro da janela completa",
			sale:     &domain.Sale{StartDate: now.Unix() - 100, EndDate: now.Unix() + 100},
			expected: true,
		},
		{
			name:     "zero desativa os limites",
			sale:     &domain.Sale{StartDate: 0, EndDate: 0},
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsActive(tt.sale, now))

			// O predicado é puro: avaliações repetidas no mesmo instante
			// dão sempre a mesma resposta
			assert.Equal(t, IsActive(tt.sale, now), IsActive(tt.sale, now))
		})
	}
}

func TestActivationError(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)

	assert.NoError(t, activationError(&domain.Sale{}, now))

	assert.ErrorIs(t, activationError(&domain.Sale{Paused: true}, now), ErrSalePaused)
	assert.ErrorIs(t, activationError(&domain.Sale{StartDate: now.Unix() + 5}, now), ErrSaleNotStarted)
	assert.ErrorIs(t, activationError(&domain.Sale{EndDate: now.Unix()}, now), ErrSaleEnded)

	// Pausa tem precedência sobre a janela
	sale := &domain.Sale{Paused: true, EndDate: now.Unix()}
	assert.ErrorIs(t, activationError(sale, now), ErrSalePaused)
}

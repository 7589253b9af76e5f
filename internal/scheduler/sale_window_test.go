package scheduler

import (
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/token-sale-api/internal/domain"
	"github.com/vfg2006/token-sale-api/internal/scheduler/mocks"
	"go.uber.org/mock/gomock"
)

func newSale(index int, paused bool, start, end int64, sold, max int64) *domain.Sale {
	return &domain.Sale{
		Index:           index,
		Paused:          paused,
		StartDate:       start,
		EndDate:         end,
		TokensSold:      big.NewInt(sold),
		MaxTokensToSell: big.NewInt(max),
		PriceInUsd:      big.NewInt(250_000),
	}
}

func TestClassifySale(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)

	tests := []struct {
		name     string
		sale     *domain.Sale
		expected string
	}{
		{
			name:     "ativa sem limites",
			sale:     newSale(0, false, 0, 0, 10, 100),
			expected: phaseActive,
		},
		{
			name:     "pausada",
			sale:     newSale(1, true, 0, 0, 0, 100),
			expected: phasePaused,
		},
		{
			name:     "esgotada",
			sale:     newSale(2, false, 0, 0, 100, 100),
			expected: phaseSoldOut,
		},
		{
			name:     "futura",
			sale:     newSale(3, false, now.Unix()+3600, 0, 0, 100),
			expected: phaseUpcoming,
		},
		{
			name:     "encerrada",
			sale:     newSale(4, false, 0, now.Unix(), 0, 100),
			expected: phaseEnded,
		},
		{
			name:     "sem teto nunca esgota",
			sale:     newSale(5, false, 0, 0, 1_000_000, 0),
			expected: phaseActive,
		},
		{
			name:     "pausa tem precedência sobre esgotamento",
			sale:     newSale(6, true, 0, 0, 100, 100),
			expected: phasePaused,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, classifySale(tt.sale, now))
		})
	}
}

func TestWatchSaleWindows_TracksPhaseTransitions(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRegistry := mocks.NewMockSaleLister(ctrl)

	service := &SaleWindowService{
		registry:   mockRegistry,
		lastPhases: make(map[int]string),
	}

	// Primeira passada: venda ativa
	mockRegistry.EXPECT().
		List().
		Return([]*domain.Sale{newSale(0, false, 0, 0, 10, 100)})

	assert.NoError(t, service.WatchSaleWindows())
	assert.Equal(t, phaseActive, service.lastPhases[0])

	// Segunda passada: a mesma venda esgotou
	mockRegistry.EXPECT().
		List().
		Return([]*domain.Sale{newSale(0, false, 0, 0, 100, 100)})

	assert.NoError(t, service.WatchSaleWindows())
	assert.Equal(t, phaseSoldOut, service.lastPhases[0])
}

func TestWatchSaleWindows_EmptyRegistry(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRegistry := mocks.NewMockSaleLister(ctrl)
	mockRegistry.EXPECT().List().Return(nil)

	service := &SaleWindowService{
		registry:   mockRegistry,
		lastPhases: make(map[int]string),
	}

	assert.NoError(t, service.WatchSaleWindows())
	assert.Empty(t, service.lastPhases)
}

func TestStatus(t *testing.T) {
	service := &SaleWindowService{
		config: SaleWindowConfig{
			CronSchedule: "*/5 * * * *",
			Enabled:      true,
		},
		lastPhases: make(map[int]string),
	}

	status := service.Status()
	assert.Equal(t, true, status["enabled"])
	assert.Equal(t, "*/5 * * * *", status["cron_schedule"])
	assert.Equal(t, false, status["running"])
}

package selling

import (
	"math/big"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/token-sale-api/internal/domain"
	"github.com/vfg2006/token-sale-api/internal/usecases/governing"
	"github.com/vfg2006/token-sale-api/internal/usecases/notifying"
)

var (
	testOwner    = common.HexToAddress("0x00000000000000000000000000000000000000AA")
	testStranger = common.HexToAddress("0x00000000000000000000000000000000000000BB")
	testAsset    = common.HexToAddress("0x00000000000000000000000000000000000000CC")
)

func newTestRegistry() (*Service, *notifying.MemoryNotifier) {
	access := governing.NewAccessControl(testOwner)
	notifier := notifying.NewMemoryNotifier()
	return NewService(access, notifier, &sync.Mutex{}), notifier
}

func validParams() CreateParams {
	return CreateParams{
		AssetAddress:    testAsset,
		Disbursement:    domain.Disbursement{Method: domain.DisburseTransfer},
		PriceInUsd:      big.NewInt(250_000), // $0.25
		MaxTokensToSell: big.NewInt(1_000),
	}
}

func TestCreate(t *testing.T) {
	registry, notifier := newTestRegistry()

	index, err := registry.Create(testOwner, validParams())
	require.NoError(t, err)
	assert.Equal(t, 0, index)

	sale, err := registry.Get(index)
	require.NoError(t, err)
	assert.Equal(t, testAsset, sale.AssetAddress)
	assert.Equal(t, "250000", sale.PriceInUsd.String())
	assert.Equal(t, "1000", sale.MaxTokensToSell.String())
	assert.Equal(t, 0, sale.TokensSold.Sign())
	assert.False(t, sale.Paused)

	events := notifier.Events()
	require.Len(t, events, 1)
	assert.Equal(t, domain.EventSaleCreated, events[0].Type)
	assert.Equal(t, 0, events[0].Sale.Index)
}

func TestCreate_IndicesAreSequentialAndStable(t *testing.T) {
	registry, _ := newTestRegistry()

	for i := 0; i < 5; i++ {
		index, err := registry.Create(testOwner, validParams())
		require.NoError(t, err)
		assert.Equal(t, i, index)
	}

	assert.Equal(t, 5, registry.Count())

	// Mutar uma venda não muda índice algum
	require.NoError(t, registry.SetPaused(testOwner, 2, true))

	sales := registry.List()
	require.Len(t, sales, 5)
	for i, sale := range sales {
		assert.Equal(t, i, sale.Index)
	}
}

func TestCreate_Validation(t *testing.T) {
	registry, _ := newTestRegistry()

	tests := []struct {
		name    string
		mutate  func(*CreateParams)
		wantErr error
	}{
		{
			name:    "ativo zero",
			mutate:  func(p *CreateParams) { p.AssetAddress = common.Address{} },
			wantErr: ErrZeroAsset,
		},
		{
			name:    "método de distribuição inválido",
			mutate:  func(p *CreateParams) { p.Disbursement.Method = 0 },
			wantErr: ErrInvalidDisbursement,
		},
		{
			name: "transfer_from sem origem",
			mutate: func(p *CreateParams) {
				p.Disbursement = domain.Disbursement{Method: domain.DisburseTransferFrom}
			},
			wantErr: ErrMissingSource,
		},
		{
			name:    "preço negativo",
			mutate:  func(p *CreateParams) { p.PriceInUsd = big.NewInt(-1) },
			wantErr: ErrNegativeValue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := validParams()
			tt.mutate(&params)

			_, err := registry.Create(testOwner, params)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	assert.Equal(t, 0, registry.Count(), "nenhuma venda deve ter sido criada")
}

func TestCreate_RejectsNonOwner(t *testing.T) {
	registry, notifier := newTestRegistry()

	_, err := registry.Create(testStranger, validParams())
	assert.ErrorIs(t, err, governing.ErrNotOwner)
	assert.Equal(t, 0, registry.Count())
	assert.Empty(t, notifier.Events())
}

func TestGet_UnknownIndex(t *testing.T) {
	registry, _ := newTestRegistry()

	_, err := registry.Get(0)
	assert.ErrorIs(t, err, ErrSaleNotFound)

	_, err = registry.Get(-1)
	assert.ErrorIs(t, err, ErrSaleNotFound)
}

func TestGet_ReturnsCopy(t *testing.T) {
	registry, _ := newTestRegistry()

	index, err := registry.Create(testOwner, validParams())
	require.NoError(t, err)

	sale, err := registry.Get(index)
	require.NoError(t, err)

	// Mutar a cópia não pode afetar o registro
	sale.Paused = true
	sale.PriceInUsd.SetInt64(999)

	fresh, err := registry.Get(index)
	require.NoError(t, err)
	assert.False(t, fresh.Paused)
	assert.Equal(t, "250000", fresh.PriceInUsd.String())
}

func TestSetters_EmitSaleUpdated(t *testing.T) {
	registry, notifier := newTestRegistry()

	index, err := registry.Create(testOwner, validParams())
	require.NoError(t, err)

	require.NoError(t, registry.SetPrice(testOwner, index, big.NewInt(500_000)))
	require.NoError(t, registry.SetMaxTokens(testOwner, index, big.NewInt(2_000)))
	require.NoError(t, registry.SetStartDate(testOwner, index, 100))
	require.NoError(t, registry.SetEndDate(testOwner, index, 200))
	require.NoError(t, registry.SetPaused(testOwner, index, true))

	events := notifier.Events()
	require.Len(t, events, 6) // 1 created + 5 updated

	for _, event := range events[1:] {
		assert.Equal(t, domain.EventSaleUpdated, event.Type)
		require.NotNil(t, event.Sale)
	}

	// O último evento carrega o registro completo pós-mutação
	last := events[len(events)-1].Sale
	assert.Equal(t, "500000", last.PriceInUsd.String())
	assert.Equal(t, "2000", last.MaxTokensToSell.String())
	assert.Equal(t, int64(100), last.StartDate)
	assert.Equal(t, int64(200), last.EndDate)
	assert.True(t, last.Paused)
}

func TestSetters_RejectNonOwner(t *testing.T) {
	registry, _ := newTestRegistry()

	index, err := registry.Create(testOwner, validParams())
	require.NoError(t, err)

	assert.ErrorIs(t, registry.SetPrice(testStranger, index, big.NewInt(1)), governing.ErrNotOwner)
	assert.ErrorIs(t, registry.SetPaused(testStranger, index, true), governing.ErrNotOwner)
	assert.ErrorIs(t, registry.SetAssetAddress(testStranger, index, testAsset), governing.ErrNotOwner)

	sale, err := registry.Get(index)
	require.NoError(t, err)
	assert.Equal(t, "250000", sale.PriceInUsd.String())
	assert.False(t, sale.Paused)
}

func TestSetMaxTokens_BelowSoldIsAllowed(t *testing.T) {
	registry, _ := newTestRegistry()

	index, err := registry.Create(testOwner, validParams())
	require.NoError(t, err)

	require.NoError(t, registry.RecordSold(index, big.NewInt(800)))

	// Ajustar o teto abaixo do vendido é permitido; a venda fica esgotada
	require.NoError(t, registry.SetMaxTokens(testOwner, index, big.NewInt(500)))

	sale, err := registry.Get(index)
	require.NoError(t, err)
	assert.Equal(t, "500", sale.MaxTokensToSell.String())
	assert.Equal(t, "800", sale.TokensSold.String())
}

func TestRecordSold(t *testing.T) {
	registry, _ := newTestRegistry()

	index, err := registry.Create(testOwner, validParams())
	require.NoError(t, err)

	require.NoError(t, registry.RecordSold(index, big.NewInt(600)))
	require.NoError(t, registry.RecordSold(index, big.NewInt(400)))

	sale, err := registry.Get(index)
	require.NoError(t, err)
	assert.Equal(t, "1000", sale.TokensSold.String())

	// Teto atingido: qualquer unidade adicional é recusada
	err = registry.RecordSold(index, big.NewInt(1))
	assert.ErrorIs(t, err, ErrOversold)

	// Quantidades não positivas são recusadas
	assert.ErrorIs(t, registry.RecordSold(index, big.NewInt(0)), ErrNegativeValue)
	assert.ErrorIs(t, registry.RecordSold(index, nil), ErrNegativeValue)
}

func TestRecordSold_UncappedSale(t *testing.T) {
	registry, _ := newTestRegistry()

	params := validParams()
	params.MaxTokensToSell = new(big.Int) // 0 = sem teto

	index, err := registry.Create(testOwner, params)
	require.NoError(t, err)

	huge, _ := new(big.Int).SetString("1000000000000000000000000000", 10)
	require.NoError(t, registry.RecordSold(index, huge))
	require.NoError(t, registry.RecordSold(index, huge))
}

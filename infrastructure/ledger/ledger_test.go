package ledger

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	system = common.HexToAddress("0x00000000000000000000000000000000000000F0")
	alice  = common.HexToAddress("0x00000000000000000000000000000000000000F1")
	bob    = common.HexToAddress("0x00000000000000000000000000000000000000F2")
	coin   = common.HexToAddress("0x0000000000000000000000000000000000000301")
	gold   = common.HexToAddress("0x0000000000000000000000000000000000000302")
)

func TestUnknownAsset(t *testing.T) {
	l := New(system)
	ctx := context.Background()

	_, err := l.BalanceOf(ctx, coin, alice)
	assert.ErrorIs(t, err, ErrUnknownAsset)

	_, err = l.Allowance(ctx, coin, alice, system)
	assert.ErrorIs(t, err, ErrUnknownAsset)

	assert.ErrorIs(t, l.Transfer(ctx, coin, alice, big.NewInt(1)), ErrUnknownAsset)
	assert.ErrorIs(t, l.Mint(ctx, coin, alice, big.NewInt(1)), ErrUnknownAsset)
}

func TestTransfer(t *testing.T) {
	l := New(system)
	l.RegisterAsset(coin, false)
	ctx := context.Background()

	require.NoError(t, l.Credit(coin, system, big.NewInt(100)))

	// Transfer sempre sai da conta do sistema
	require.NoError(t, l.Transfer(ctx, coin, alice, big.NewInt(60)))

	balance, err := l.BalanceOf(ctx, coin, alice)
	require.NoError(t, err)
	assert.Equal(t, "60", balance.String())

	// Saldo insuficiente é recusado sem efeito parcial
	err = l.Transfer(ctx, coin, bob, big.NewInt(50))
	assert.ErrorIs(t, err, ErrInsufficientBalance)

	systemBalance, err := l.BalanceOf(ctx, coin, system)
	require.NoError(t, err)
	assert.Equal(t, "40", systemBalance.String())
}

func TestTransferFrom_ConsumesAllowance(t *testing.T) {
	l := New(system)
	l.RegisterAsset(coin, false)
	ctx := context.Background()

	require.NoError(t, l.Credit(coin, alice, big.NewInt(100)))
	require.NoError(t, l.Approve(coin, alice, system, big.NewInt(70)))

	require.NoError(t, l.TransferFrom(ctx, coin, alice, bob, big.NewInt(50)))

	allowance, err := l.Allowance(ctx, coin, alice, system)
	require.NoError(t, err)
	assert.Equal(t, "20", allowance.String())

	// A allowance restante não cobre mais 50
	err = l.TransferFrom(ctx, coin, alice, bob, big.NewInt(50))
	assert.ErrorIs(t, err, ErrInsufficientAllowance)

	balance, err := l.BalanceOf(ctx, coin, bob)
	require.NoError(t, err)
	assert.Equal(t, "50", balance.String())
}

func TestTransferFrom_BalanceShortfall(t *testing.T) {
	l := New(system)
	l.RegisterAsset(coin, false)
	ctx := context.Background()

	// Allowance generosa, saldo insuficiente
	require.NoError(t, l.Credit(coin, alice, big.NewInt(10)))
	require.NoError(t, l.Approve(coin, alice, system, big.NewInt(1_000)))

	err := l.TransferFrom(ctx, coin, alice, bob, big.NewInt(50))
	assert.ErrorIs(t, err, ErrInsufficientBalance)

	// Allowance intacta: a falha não consumiu nada
	allowance, err := l.Allowance(ctx, coin, alice, system)
	require.NoError(t, err)
	assert.Equal(t, "1000", allowance.String())
}

func TestMint(t *testing.T) {
	l := New(system)
	l.RegisterAsset(coin, false)
	l.RegisterAsset(gold, true)
	ctx := context.Background()

	assert.ErrorIs(t, l.Mint(ctx, coin, alice, big.NewInt(1)), ErrNotMintable)

	require.NoError(t, l.Mint(ctx, gold, alice, big.NewInt(5)))
	require.NoError(t, l.Mint(ctx, gold, alice, big.NewInt(5)))

	balance, err := l.BalanceOf(ctx, gold, alice)
	require.NoError(t, err)
	assert.Equal(t, "10", balance.String())
}

func TestNative(t *testing.T) {
	l := New(system)
	ctx := context.Background()

	l.CreditNative(alice, big.NewInt(100))

	require.NoError(t, l.NativeTransfer(ctx, alice, bob, big.NewInt(40)))

	err := l.NativeTransfer(ctx, alice, bob, big.NewInt(100))
	assert.ErrorIs(t, err, ErrInsufficientBalance)

	aliceBalance, err := l.NativeBalance(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, "60", aliceBalance.String())

	bobBalance, err := l.NativeBalance(ctx, bob)
	require.NoError(t, err)
	assert.Equal(t, "40", bobBalance.String())

	// Conta nunca vista tem saldo zero
	unknown, err := l.NativeBalance(ctx, system)
	require.NoError(t, err)
	assert.Equal(t, "0", unknown.String())
}

func TestStaticFeed(t *testing.T) {
	feed := NewStaticFeed(big.NewInt(200_000_000))
	ctx := context.Background()

	answer, err := feed.LatestAnswer(ctx)
	require.NoError(t, err)
	assert.Equal(t, "200000000", answer.String())

	feed.SetAnswer(big.NewInt(123))

	answer, err = feed.LatestAnswer(ctx)
	require.NoError(t, err)
	assert.Equal(t, "123", answer.String())

	// A resposta é uma cópia: mutá-la não afeta o feed
	answer.SetInt64(0)
	again, err := feed.LatestAnswer(ctx)
	require.NoError(t, err)
	assert.Equal(t, "123", again.String())
}

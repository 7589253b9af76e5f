package purchasing

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/interfaces_mock.go -package=mocks

// TokenClient é a superfície de movimentação de ativos consumida pelo motor
// de compra. Cobre tanto as stablecoins de pagamento quanto o ativo vendido.
// As operações de escrita agem em nome da conta de custódia do sistema.
type TokenClient interface {
	// BalanceOf consulta o saldo de uma conta no ativo
	BalanceOf(ctx context.Context, asset, account common.Address) (*big.Int, error)
	// Allowance consulta quanto `spender` pode gastar do saldo de `owner`
	Allowance(ctx context.Context, asset, owner, spender common.Address) (*big.Int, error)
	// Transfer move unidades da custódia do sistema para `to`
	Transfer(ctx context.Context, asset, to common.Address, amount *big.Int) error
	// TransferFrom move unidades de `from` para `to`, consumindo allowance
	// concedida de `from` para o sistema
	TransferFrom(ctx context.Context, asset, from, to common.Address, amount *big.Int) error
	// Mint cria unidades novas diretamente para `to`; falha se o ativo não
	// for cunhável ou se o sistema não tiver direito de cunhagem
	Mint(ctx context.Context, asset, to common.Address, amount *big.Int) error
}

// NativeClient movimenta a moeda nativa
type NativeClient interface {
	NativeTransfer(ctx context.Context, from, to common.Address, amount *big.Int) error
	NativeBalance(ctx context.Context, account common.Address) (*big.Int, error)
}

// PriceFeed é a fonte externa de preço nativo→USD, com 8 casas decimais
type PriceFeed interface {
	LatestAnswer(ctx context.Context) (*big.Int, error)
}

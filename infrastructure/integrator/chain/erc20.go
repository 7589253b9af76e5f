package chain

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

// BalanceOf consulta o saldo de uma conta no ativo
func (c *Client) BalanceOf(ctx context.Context, asset, account common.Address) (*big.Int, error) {
	var out []interface{}
	err := c.contract(asset).Call(&bind.CallOpts{Context: ctx}, &out, "balanceOf", account)
	if err != nil {
		return nil, errors.Wrap(err, "balanceOf")
	}

	return *abi0(out), nil
}

// Allowance consulta quanto `spender` pode gastar do saldo de `owner`
func (c *Client) Allowance(ctx context.Context, asset, owner, spender common.Address) (*big.Int, error) {
	var out []interface{}
	err := c.contract(asset).Call(&bind.CallOpts{Context: ctx}, &out, "allowance", owner, spender)
	if err != nil {
		return nil, errors.Wrap(err, "allowance")
	}

	return *abi0(out), nil
}

// Transfer move unidades da conta do sistema para `to`
func (c *Client) Transfer(ctx context.Context, asset, to common.Address, amount *big.Int) error {
	opts, err := c.transactOpts(ctx)
	if err != nil {
		return err
	}

	tx, err := c.contract(asset).Transact(opts, "transfer", to, amount)
	if err != nil {
		return errors.Wrap(err, "transfer")
	}

	return c.waitMined(ctx, tx, "transfer")
}

// TransferFrom move unidades de `from` para `to` consumindo allowance
// concedida ao sistema
func (c *Client) TransferFrom(ctx context.Context, asset, from, to common.Address, amount *big.Int) error {
	opts, err := c.transactOpts(ctx)
	if err != nil {
		return err
	}

	tx, err := c.contract(asset).Transact(opts, "transferFrom", from, to, amount)
	if err != nil {
		return errors.Wrap(err, "transferFrom")
	}

	return c.waitMined(ctx, tx, "transferFrom")
}

// Mint invoca o entrypoint de cunhagem do ativo. Ativos não cunháveis ou
// sem direito de cunhagem para o sistema revertem, e a falha sobe ao motor
// de compra como falha de transferência.
func (c *Client) Mint(ctx context.Context, asset, to common.Address, amount *big.Int) error {
	opts, err := c.transactOpts(ctx)
	if err != nil {
		return err
	}

	tx, err := c.contract(asset).Transact(opts, "mint", to, amount)
	if err != nil {
		return errors.Wrap(err, "mint")
	}

	return c.waitMined(ctx, tx, "mint")
}

// abi0 extrai o primeiro retorno uint256 de uma chamada de leitura
func abi0(out []interface{}) **big.Int {
	if len(out) == 0 {
		zero := new(big.Int)
		return &zero
	}

	v, ok := out[0].(*big.Int)
	if !ok {
		zero := new(big.Int)
		return &zero
	}
	return &v
}

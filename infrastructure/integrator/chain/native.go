package chain

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
)

const nativeTransferGasLimit = 21000

// NativeTransfer envia moeda nativa a partir da conta do sistema.
// Em chain, pagamentos nativos de compradores chegam anexados às transações
// deles; este cliente só consegue mover fundos da própria custódia.
func (c *Client) NativeTransfer(ctx context.Context, from, to common.Address, amount *big.Int) error {
	if from != c.address {
		return errors.Errorf("cannot move native funds of foreign account %s", from.Hex())
	}

	nonce, err := c.eth.PendingNonceAt(ctx, c.address)
	if err != nil {
		return errors.Wrap(err, "pending nonce")
	}

	gasPrice, err := c.eth.SuggestGasPrice(ctx)
	if err != nil {
		return errors.Wrap(err, "suggest gas price")
	}

	tx := types.NewTransaction(nonce, to, amount, nativeTransferGasLimit, gasPrice, nil)

	signed, err := types.SignTx(tx, types.LatestSignerForChainID(c.chainID), c.key)
	if err != nil {
		return errors.Wrap(err, "sign native transfer")
	}

	if err := c.eth.SendTransaction(ctx, signed); err != nil {
		return errors.Wrap(err, "send native transfer")
	}

	return c.waitMined(ctx, signed, "native transfer")
}

// NativeBalance consulta o saldo nativo de uma conta
func (c *Client) NativeBalance(ctx context.Context, account common.Address) (*big.Int, error) {
	balance, err := c.eth.BalanceAt(ctx, account, nil)
	if err != nil {
		return nil, errors.Wrap(err, "balance at")
	}
	return balance, nil
}

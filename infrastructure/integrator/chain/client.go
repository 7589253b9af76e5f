// Package chain implementa os colaboradores externos do protocolo sobre um
// nó EVM: ativos ERC-20, feed de preço e saldo nativo. É o backend de
// produção; o pacote ledger cobre dev e testes com a mesma superfície.
package chain

import (
	"context"
	"crypto/ecdsa"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Superfície ERC-20 consumida, mais o entrypoint de cunhagem definido pelo
// ativo: mint(address,uint256) -> bool
const erc20ABIJSON = `[
  {"name":"balanceOf","type":"function","stateMutability":"view","inputs":[{"name":"account","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
  {"name":"allowance","type":"function","stateMutability":"view","inputs":[{"name":"owner","type":"address"},{"name":"spender","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
  {"name":"transfer","type":"function","stateMutability":"nonpayable","inputs":[{"name":"to","type":"address"},{"name":"value","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]},
  {"name":"approve","type":"function","stateMutability":"nonpayable","inputs":[{"name":"spender","type":"address"},{"name":"value","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]},
  {"name":"transferFrom","type":"function","stateMutability":"nonpayable","inputs":[{"name":"from","type":"address"},{"name":"to","type":"address"},{"name":"value","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]},
  {"name":"mint","type":"function","stateMutability":"nonpayable","inputs":[{"name":"recipient","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]}
]`

// Client assina toda operação de escrita com a chave da conta do sistema
// (a custódia do protocolo)
type Client struct {
	eth     *ethclient.Client
	key     *ecdsa.PrivateKey
	address common.Address
	chainID *big.Int

	erc20 abi.ABI

	mu    sync.Mutex
	bound map[common.Address]*bind.BoundContract
}

// NewClient conecta ao nó e prepara o signatário do sistema
func NewClient(ctx context.Context, rpcURL, privateKeyHex string) (*Client, error) {
	eth, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, errors.Wrap(err, "dial rpc node")
	}

	key, err := crypto.HexToECDSA(strings.TrimPrefix(privateKeyHex, "0x"))
	if err != nil {
		return nil, errors.Wrap(err, "parse system private key")
	}

	chainID, err := eth.ChainID(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "fetch chain id")
	}

	parsed, err := abi.JSON(strings.NewReader(erc20ABIJSON))
	if err != nil {
		return nil, errors.Wrap(err, "parse erc20 abi")
	}

	address := crypto.PubkeyToAddress(key.PublicKey)

	logrus.WithFields(logrus.Fields{
		"system_account": address.Hex(),
		"chain_id":       chainID.String(),
	}).Info("Cliente de chain conectado")

	return &Client{
		eth:     eth,
		key:     key,
		address: address,
		chainID: chainID,
		erc20:   parsed,
		bound:   make(map[common.Address]*bind.BoundContract),
	}, nil
}

// SystemAddress retorna a conta de custódia do sistema
func (c *Client) SystemAddress() common.Address {
	return c.address
}

// Close encerra a conexão com o nó
func (c *Client) Close() {
	c.eth.Close()
}

func (c *Client) contract(asset common.Address) *bind.BoundContract {
	c.mu.Lock()
	defer c.mu.Unlock()

	if b, ok := c.bound[asset]; ok {
		return b
	}

	b := bind.NewBoundContract(asset, c.erc20, c.eth, c.eth, c.eth)
	c.bound[asset] = b
	return b
}

func (c *Client) transactOpts(ctx context.Context) (*bind.TransactOpts, error) {
	opts, err := bind.NewKeyedTransactorWithChainID(c.key, c.chainID)
	if err != nil {
		return nil, errors.Wrap(err, "build transactor")
	}
	opts.Context = ctx
	return opts, nil
}

// waitMined bloqueia até a transação ser minerada e falha se ela reverter
func (c *Client) waitMined(ctx context.Context, tx *types.Transaction, op string) error {
	receipt, err := bind.WaitMined(ctx, c.eth, tx)
	if err != nil {
		return errors.Wrapf(err, "wait mined: %s", op)
	}

	if receipt.Status != types.ReceiptStatusSuccessful {
		return errors.Errorf("%s reverted: tx %s", op, tx.Hash().Hex())
	}
	return nil
}

package chain

import (
	"context"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

// Feed de preço estilo agregador: latestAnswer() -> int256, 8 casas decimais
const feedABIJSON = `[
  {"name":"latestAnswer","type":"function","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"int256"}]}
]`

// FeedClient lê o preço nativo→USD de um contrato agregador
type FeedClient struct {
	contract *bind.BoundContract
	address  common.Address
}

// NewFeedClient liga o cliente ao contrato do feed
func (c *Client) NewFeedClient(address common.Address) (*FeedClient, error) {
	parsed, err := abi.JSON(strings.NewReader(feedABIJSON))
	if err != nil {
		return nil, errors.Wrap(err, "parse feed abi")
	}

	return &FeedClient{
		contract: bind.NewBoundContract(address, parsed, c.eth, c.eth, c.eth),
		address:  address,
	}, nil
}

// LatestAnswer delega ao feed externo. A validação do valor (não positivo,
// indisponível) fica no adaptador de oráculo do motor de compra.
func (f *FeedClient) LatestAnswer(ctx context.Context) (*big.Int, error) {
	var out []interface{}
	err := f.contract.Call(&bind.CallOpts{Context: ctx}, &out, "latestAnswer")
	if err != nil {
		return nil, errors.Wrap(err, "latestAnswer")
	}

	if len(out) == 0 {
		return nil, errors.New("latestAnswer returned no value")
	}

	answer, ok := out[0].(*big.Int)
	if !ok {
		return nil, errors.New("latestAnswer returned an unexpected type")
	}
	return answer, nil
}

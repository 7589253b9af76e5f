package purchasing

import (
	"context"
	"math/big"

	"github.com/pkg/errors"
	"github.com/vfg2006/token-sale-api/pkg/apiErrors"
)

// OracleAdapter envolve o feed externo de preço e normaliza a resposta.
// A resposta carrega 8 casas decimais; o alinhamento com as demais
// precisões é responsabilidade do chamador.
type OracleAdapter struct {
	feed PriceFeed
}

// NewOracleAdapter cria o adaptador sobre um feed concreto
func NewOracleAdapter(feed PriceFeed) *OracleAdapter {
	return &OracleAdapter{feed: feed}
}

// LatestUsdPerNative consulta o feed e valida o preço retornado.
// Preços nulos ou não positivos falham com erro de oráculo.
func (o *OracleAdapter) LatestUsdPerNative(ctx context.Context) (*big.Int, error) {
	if o == nil || o.feed == nil {
		return nil, NewPurchaseError(ErrOracleUnset, apiErrors.ErrOracle, -1, "")
	}

	price, err := o.feed.LatestAnswer(ctx)
	if err != nil {
		wrapped := errors.Wrap(err, "latest answer")
		return nil, NewPurchaseError(ErrOracleUnavailable, apiErrors.ErrOracle, -1, wrapped.Error())
	}

	if price == nil || price.Sign() <= 0 {
		return nil, NewPurchaseError(ErrOraclePrice, apiErrors.ErrOracle, -1, "")
	}

	return price, nil
}

package utils

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// ParseUsdPrice converte um preço humano ("1.50") no inteiro de 6 casas
// decimais usado internamente. Rejeita valores negativos e com mais de
// 6 casas, já que o excedente seria perdido silenciosamente.
func ParseUsdPrice(s string) (*big.Int, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid usd price %q: %w", s, err)
	}

	if d.Sign() < 0 {
		return nil, fmt.Errorf("usd price must not be negative: %s", s)
	}

	shifted := d.Shift(6)
	if !shifted.IsInteger() {
		return nil, fmt.Errorf("usd price %s has more than 6 decimal places", s)
	}

	return shifted.BigInt(), nil
}

// FormatUsd formata um valor interno de 6 casas como string decimal humana
func FormatUsd(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return decimal.NewFromBigInt(v, -6).String()
}

// FormatAssetAmount formata uma quantidade de ativo de 18 casas
func FormatAssetAmount(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return decimal.NewFromBigInt(v, -18).String()
}

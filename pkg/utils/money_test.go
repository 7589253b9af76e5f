package utils

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseUsdPrice(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		wantErr  bool
	}{
		{name: "inteiro", input: "1", expected: "1000000"},
		{name: "fracionário", input: "0.25", expected: "250000"},
		{name: "seis casas", input: "0.000001", expected: "1"},
		{name: "zero", input: "0", expected: "0"},
		{name: "sete casas", input: "0.0000001", wantErr: true},
		{name: "negativo", input: "-1", wantErr: true},
		{name: "malformado", input: "1,50", wantErr: true},
		{name: "vazio", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := ParseUsdPrice(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, v.String())
		})
	}
}

func TestFormatUsd(t *testing.T) {
	assert.Equal(t, "0.25", FormatUsd(big.NewInt(250_000)))
	assert.Equal(t, "1", FormatUsd(big.NewInt(1_000_000)))
	assert.Equal(t, "0", FormatUsd(nil))
}

func TestFormatAssetAmount(t *testing.T) {
	oneToken := new(big.Int).Set(E18)
	assert.Equal(t, "1", FormatAssetAmount(oneToken))
	assert.Equal(t, "0.5", FormatAssetAmount(new(big.Int).Quo(oneToken, big.NewInt(2))))
	assert.Equal(t, "0", FormatAssetAmount(nil))
}

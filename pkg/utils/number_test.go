package utils

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMulDivFloor(t *testing.T) {
	tests := []struct {
		name     string
		a, b     *big.Int
		denom    *big.Int
		expected string
	}{
		{
			name:     "divisão exata",
			a:        big.NewInt(10),
			b:        big.NewInt(100),
			denom:    big.NewInt(4),
			expected: "250",
		},
		{
			name:     "trunca em direção a zero",
			a:        big.NewInt(7),
			b:        big.NewInt(3),
			denom:    big.NewInt(2),
			expected: "10", // 21/2 = 10.5
		},
		{
			name:     "resultado zero quando o produto é menor que o denominador",
			a:        big.NewInt(1),
			b:        big.NewInt(1),
			denom:    big.NewInt(1000),
			expected: "0",
		},
		{
			name:     "custo em USD de uma compra típica",
			a:        new(big.Int).Mul(big.NewInt(3), E18), // 3 tokens
			b:        big.NewInt(250_000),                  // $0.25
			denom:    E18,
			expected: "750000", // $0.75
		},
		{
			name:     "quantidade minúscula arredonda para custo zero",
			a:        big.NewInt(1),       // 1e-18 token
			b:        big.NewInt(250_000), // $0.25
			denom:    E18,
			expected: "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := MulDivFloor(tt.a, tt.b, tt.denom)
			assert.Equal(t, tt.expected, result.String())
		})
	}
}

// A conversão nativo→ativo passa por duas divisões truncadas encadeadas;
// a perda composta precisa ser reproduzida exatamente, nunca simplificada
// em uma única divisão.
func TestMulDivFloor_ChainedDivisions(t *testing.T) {
	nativeSent := big.NewInt(1_000_000_000) // 1e9 wei
	rate := big.NewInt(299_999_999)         // ~$3.00 com 8 casas
	price := big.NewInt(333_333)            // ~$0.33 com 6 casas

	usdValue := MulDivFloor(nativeSent, rate, E8)
	amount := MulDivFloor(usdValue, E6, price)

	// Uma única divisão composta daria um resultado ligeiramente diferente
	single := new(big.Int).Mul(nativeSent, rate)
	single.Mul(single, E6)
	single.Quo(single, new(big.Int).Mul(E8, price))

	assert.Equal(t, "2999999990", usdValue.String())
	assert.Equal(t, "8999999970000", amount.String())
	assert.Equal(t, 1, single.Cmp(amount), "a divisão única não pode substituir as encadeadas")
}

func TestBigFromString(t *testing.T) {
	v, ok := BigFromString("123456789012345678901234567890")
	assert.True(t, ok)
	assert.Equal(t, "123456789012345678901234567890", v.String())

	_, ok = BigFromString("")
	assert.False(t, ok)

	_, ok = BigFromString("-5")
	assert.False(t, ok)

	_, ok = BigFromString("12.5")
	assert.False(t, ok)

	_, ok = BigFromString("abc")
	assert.False(t, ok)

	zero, ok := BigFromString("0")
	assert.True(t, ok)
	assert.Equal(t, 0, zero.Sign())
}

package utils

import "math/big"

// Potências de dez usadas no alinhamento de casas decimais do protocolo.
// E18 = unidades do ativo, E8 = resposta do oráculo, E6 = preço em USD.
var (
	E18 = Pow10(18)
	E8  = Pow10(8)
	E6  = Pow10(6)
)

// Pow10 retorna 10^n como big.Int
func Pow10(n int64) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(n), nil)
}

// MulDivFloor calcula floor(a * b / denom) truncando em direção a zero.
// Todos os operandos do protocolo são não negativos, então Quo equivale a floor.
// O truncamento em cada divisão favorece o vendedor e precisa ser reproduzido
// exatamente para interoperabilidade.
func MulDivFloor(a, b, denom *big.Int) *big.Int {
	product := new(big.Int).Mul(a, b)
	return product.Quo(product, denom)
}

// BigFromString converte uma string decimal inteira em big.Int não negativo.
// Retorna false para entradas vazias, negativas ou malformadas.
func BigFromString(s string) (*big.Int, bool) {
	if s == "" {
		return nil, false
	}

	v, ok := new(big.Int).SetString(s, 10)
	if !ok || v.Sign() < 0 {
		return nil, false
	}
	return v, true
}

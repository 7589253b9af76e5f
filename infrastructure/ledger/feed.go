package ledger

import (
	"context"
	"math/big"
	"sync"
)

// StaticFeed é o feed de preço do backend em memória: devolve uma cotação
// fixa nativo→USD com 8 casas decimais, ajustável em tempo de execução.
type StaticFeed struct {
	mu     sync.RWMutex
	answer *big.Int
}

// NewStaticFeed cria o feed com a cotação inicial
func NewStaticFeed(answer *big.Int) *StaticFeed {
	if answer == nil {
		answer = new(big.Int)
	}
	return &StaticFeed{answer: new(big.Int).Set(answer)}
}

// SetAnswer troca a cotação devolvida pelo feed
func (f *StaticFeed) SetAnswer(answer *big.Int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.answer = new(big.Int).Set(answer)
}

// LatestAnswer devolve a cotação corrente
func (f *StaticFeed) LatestAnswer(ctx context.Context) (*big.Int, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return new(big.Int).Set(f.answer), nil
}

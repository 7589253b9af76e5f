// Package selling implementa o registro de vendas: uma arena append-only
// com índices inteiros estáveis, dona de todo o estado das vendas
package selling

import (
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/token-sale-api/internal/domain"
	"github.com/vfg2006/token-sale-api/internal/usecases/governing"
	"github.com/vfg2006/token-sale-api/internal/usecases/notifying"
	"github.com/vfg2006/token-sale-api/pkg/apiErrors"
)

// Registry define as operações do registro de vendas.
// Nenhuma operação remove ou reordena entradas; um índice atribuído
// nunca muda e nunca é reutilizado.
type Registry interface {
	// Create acrescenta uma venda e retorna o índice novo (apenas administrador)
	Create(caller common.Address, params CreateParams) (int, error)
	// Get retorna uma cópia da venda no índice
	Get(index int) (*domain.Sale, error)
	// List retorna cópias de todas as vendas na ordem de criação
	List() []*domain.Sale
	// Count retorna quantas vendas existem
	Count() int

	// Setters de campo (apenas administrador); cada um emite SaleUpdated
	// com o registro completo pós-mutação
	SetPrice(caller common.Address, index int, value *big.Int) error
	SetMaxTokens(caller common.Address, index int, value *big.Int) error
	SetStartDate(caller common.Address, index int, value int64) error
	SetEndDate(caller common.Address, index int, value int64) error
	SetAssetAddress(caller common.Address, index int, value common.Address) error
	SetPaused(caller common.Address, index int, value bool) error

	// RecordSold soma unidades vendidas; uso interno do motor de compra
	RecordSold(index int, amount *big.Int) error
}

// CreateParams são os parâmetros da operação de criação de venda
type CreateParams struct {
	AssetAddress    common.Address
	Disbursement    domain.Disbursement
	PriceInUsd      *big.Int
	MaxTokensToSell *big.Int
	StartDate       int64
	EndDate         int64
	Paused          bool
}

// Service é a implementação em memória do registro.
//
// `exclusive` é o lock global compartilhado com o motor de compra: os
// setters administrativos o adquirem (bloqueando) para que nenhuma mutação
// se intercale com a sequência checar-teto/distribuir/contabilizar de uma
// compra em andamento. RecordSold não o adquire — o motor já o segura.
type Service struct {
	mu        sync.RWMutex
	sales     []*domain.Sale
	access    *governing.AccessControl
	notifier  notifying.Notifier
	exclusive *sync.Mutex
}

// NewService cria o registro vazio
func NewService(access *governing.AccessControl, notifier notifying.Notifier, exclusive *sync.Mutex) *Service {
	return &Service{
		access:    access,
		notifier:  notifier,
		exclusive: exclusive,
	}
}

func (s *Service) Create(caller common.Address, params CreateParams) (int, error) {
	if err := s.access.Authorize(caller); err != nil {
		return 0, err
	}

	if params.AssetAddress == (common.Address{}) {
		return 0, NewRegistryError(ErrZeroAsset, apiErrors.ErrInvalidRequest, "create")
	}

	if !params.Disbursement.Method.Valid() {
		return 0, NewRegistryError(ErrInvalidDisbursement, apiErrors.ErrInvalidDisbursement, "create")
	}

	if params.Disbursement.Method == domain.DisburseTransferFrom &&
		params.Disbursement.Source == (common.Address{}) {
		return 0, NewRegistryError(ErrMissingSource, apiErrors.ErrInvalidDisbursement, "create")
	}

	price := params.PriceInUsd
	if price == nil {
		price = new(big.Int)
	}
	maxTokens := params.MaxTokensToSell
	if maxTokens == nil {
		maxTokens = new(big.Int)
	}

	if price.Sign() < 0 || maxTokens.Sign() < 0 {
		return 0, NewRegistryError(ErrNegativeValue, apiErrors.ErrInvalidAmount, "create")
	}

	s.mu.Lock()

	sale := &domain.Sale{
		Index:           len(s.sales),
		AssetAddress:    params.AssetAddress,
		Disbursement:    params.Disbursement,
		PriceInUsd:      new(big.Int).Set(price),
		MaxTokensToSell: new(big.Int).Set(maxTokens),
		TokensSold:      new(big.Int),
		StartDate:       params.StartDate,
		EndDate:         params.EndDate,
		Paused:          params.Paused,
	}
	s.sales = append(s.sales, sale)
	snapshot := sale.Clone()

	s.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"sale_index":   snapshot.Index,
		"asset":        snapshot.AssetAddress.Hex(),
		"disbursement": snapshot.Disbursement.Method.String(),
	}).Info("Venda criada no registro")

	event := notifying.NewEvent(domain.EventSaleCreated)
	event.Sale = snapshot
	s.notifier.Publish(event)

	return snapshot.Index, nil
}

func (s *Service) Get(index int) (*domain.Sale, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if index < 0 || index >= len(s.sales) {
		return nil, NewRegistryErrorWithIndex(ErrSaleNotFound, apiErrors.ErrSaleNotFound, index, "")
	}

	return s.sales[index].Clone(), nil
}

func (s *Service) List() []*domain.Sale {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Sale, len(s.sales))
	for i, sale := range s.sales {
		out[i] = sale.Clone()
	}
	return out
}

func (s *Service) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sales)
}

func (s *Service) SetPrice(caller common.Address, index int, value *big.Int) error {
	if value == nil || value.Sign() < 0 {
		return NewRegistryErrorWithIndex(ErrNegativeValue, apiErrors.ErrInvalidAmount, index, "price")
	}

	return s.update(caller, index, func(sale *domain.Sale) {
		sale.PriceInUsd = new(big.Int).Set(value)
	})
}

func (s *Service) SetMaxTokens(caller common.Address, index int, value *big.Int) error {
	if value == nil || value.Sign() < 0 {
		return NewRegistryErrorWithIndex(ErrNegativeValue, apiErrors.ErrInvalidAmount, index, "max tokens")
	}

	return s.update(caller, index, func(sale *domain.Sale) {
		if value.Sign() != 0 && value.Cmp(sale.TokensSold) < 0 {
			// O setter é preservado como no protocolo original; o caminho de
			// compra rejeita qualquer compra enquanto sold >= cap
			logrus.WithFields(logrus.Fields{
				"sale_index": sale.Index,
				"new_cap":    value.String(),
				"sold":       sale.TokensSold.String(),
			}).Warn("Teto ajustado abaixo do total já vendido")
		}
		sale.MaxTokensToSell = new(big.Int).Set(value)
	})
}

func (s *Service) SetStartDate(caller common.Address, index int, value int64) error {
	return s.update(caller, index, func(sale *domain.Sale) {
		sale.StartDate = value
	})
}

func (s *Service) SetEndDate(caller common.Address, index int, value int64) error {
	return s.update(caller, index, func(sale *domain.Sale) {
		sale.EndDate = value
	})
}

func (s *Service) SetAssetAddress(caller common.Address, index int, value common.Address) error {
	if value == (common.Address{}) {
		return NewRegistryErrorWithIndex(ErrZeroAsset, apiErrors.ErrInvalidRequest, index, "asset address")
	}

	return s.update(caller, index, func(sale *domain.Sale) {
		sale.AssetAddress = value
	})
}

func (s *Service) SetPaused(caller common.Address, index int, value bool) error {
	return s.update(caller, index, func(sale *domain.Sale) {
		sale.Paused = value
	})
}

// update aplica uma mutação autorizada e emite SaleUpdated com o registro
// completo pós-mutação. Não existe setter para o método de distribuição:
// ele é imutável depois da criação.
func (s *Service) update(caller common.Address, index int, mutate func(*domain.Sale)) error {
	if err := s.access.Authorize(caller); err != nil {
		return err
	}

	s.exclusive.Lock()
	defer s.exclusive.Unlock()

	s.mu.Lock()

	if index < 0 || index >= len(s.sales) {
		s.mu.Unlock()
		return NewRegistryErrorWithIndex(ErrSaleNotFound, apiErrors.ErrSaleNotFound, index, "")
	}

	mutate(s.sales[index])
	snapshot := s.sales[index].Clone()

	s.mu.Unlock()

	event := notifying.NewEvent(domain.EventSaleUpdated)
	event.Sale = snapshot
	s.notifier.Publish(event)

	return nil
}

// RecordSold soma `amount` ao total vendido. O chamador (motor de compra)
// já validou o teto sob o lock global de compra; a checagem aqui é a última
// linha de defesa do invariante tokensSold <= maxTokensToSell.
func (s *Service) RecordSold(index int, amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return NewRegistryErrorWithIndex(ErrNegativeValue, apiErrors.ErrInvalidAmount, index, "record sold")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.sales) {
		return NewRegistryErrorWithIndex(ErrSaleNotFound, apiErrors.ErrSaleNotFound, index, "")
	}

	sale := s.sales[index]
	newSold := new(big.Int).Add(sale.TokensSold, amount)

	if sale.MaxTokensToSell.Sign() != 0 && newSold.Cmp(sale.MaxTokensToSell) > 0 {
		return NewRegistryErrorWithIndex(ErrOversold, apiErrors.ErrCapacity, index, "")
	}

	sale.TokensSold = newSold
	return nil
}

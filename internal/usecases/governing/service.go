// Package governing concentra a identidade do administrador e as operações
// de tesouraria do sistema de vendas
package governing

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/token-sale-api/pkg/apiErrors"
)

// TreasuryMover move ativos mantidos na custódia do sistema
type TreasuryMover interface {
	// Transfer move unidades do ativo a partir da conta do sistema
	Transfer(ctx context.Context, asset, to common.Address, amount *big.Int) error
	// BalanceOf consulta o saldo de uma conta no ativo
	BalanceOf(ctx context.Context, asset, account common.Address) (*big.Int, error)
}

// NativeTreasury move o saldo em moeda nativa mantido pelo sistema
type NativeTreasury interface {
	NativeTransfer(ctx context.Context, from, to common.Address, amount *big.Int) error
	NativeBalance(ctx context.Context, account common.Address) (*big.Int, error)
}

// AccessControl guarda a identidade única e transferível do administrador.
// Toda mutação do registro e do motor de compra passa por Authorize.
type AccessControl struct {
	mu    sync.RWMutex
	owner common.Address
}

// NewAccessControl cria o controle de acesso com o administrador inicial
func NewAccessControl(owner common.Address) *AccessControl {
	return &AccessControl{owner: owner}
}

// Owner retorna o administrador atual
func (a *AccessControl) Owner() common.Address {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.owner
}

// Authorize falha com ErrNotOwner se o chamador não for o administrador.
// Nenhum efeito colateral ocorre em chamadas não autorizadas.
func (a *AccessControl) Authorize(caller common.Address) error {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if caller != a.owner {
		return NewGovernanceError(ErrNotOwner, apiErrors.ErrNotOwner, caller.Hex())
	}
	return nil
}

// TransferOwnership troca o administrador. Apenas o administrador atual
// pode transferir, e nunca para o endereço zero.
func (a *AccessControl) TransferOwnership(caller, newOwner common.Address) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if caller != a.owner {
		return NewGovernanceError(ErrNotOwner, apiErrors.ErrNotOwner, caller.Hex())
	}

	if newOwner == (common.Address{}) {
		return NewGovernanceError(ErrZeroAddress, apiErrors.ErrInvalidRequest, "new owner")
	}

	logrus.WithFields(logrus.Fields{
		"previous_owner": a.owner.Hex(),
		"new_owner":      newOwner.Hex(),
	}).Info("Propriedade do registro transferida")

	a.owner = newOwner
	return nil
}

// Service executa as operações de varredura da tesouraria: qualquer ativo
// ou saldo nativo que se acumule na custódia fora do protocolo de compra
// só sai por aqui, sempre para o administrador.
type Service struct {
	access  *AccessControl
	tokens  TreasuryMover
	native  NativeTreasury
	custody common.Address
}

// NewService cria o serviço de tesouraria
func NewService(access *AccessControl, tokens TreasuryMover, native NativeTreasury, custody common.Address) *Service {
	return &Service{
		access:  access,
		tokens:  tokens,
		native:  native,
		custody: custody,
	}
}

// Access expõe o controle de acesso compartilhado
func (s *Service) Access() *AccessControl {
	return s.access
}

// WithdrawToken move `amount` unidades de um ativo estranho da custódia
// para o administrador
func (s *Service) WithdrawToken(ctx context.Context, caller, asset common.Address, amount *big.Int) error {
	if err := s.access.Authorize(caller); err != nil {
		return err
	}

	if amount == nil || amount.Sign() <= 0 {
		return NewGovernanceError(ErrZeroAmount, apiErrors.ErrInvalidAmount, "withdraw amount")
	}

	balance, err := s.tokens.BalanceOf(ctx, asset, s.custody)
	if err != nil {
		return NewGovernanceError(ErrWithdrawFailed, apiErrors.ErrTransferFailed, err.Error())
	}

	if balance.Cmp(amount) < 0 {
		return NewGovernanceError(ErrNothingToWithdraw, apiErrors.ErrInvalidAmount, "custody balance below requested amount")
	}

	owner := s.access.Owner()
	if err := s.tokens.Transfer(ctx, asset, owner, amount); err != nil {
		return NewGovernanceError(ErrWithdrawFailed, apiErrors.ErrTransferFailed, err.Error())
	}

	logrus.WithFields(logrus.Fields{
		"asset":  asset.Hex(),
		"amount": amount.String(),
		"owner":  owner.Hex(),
	}).Info("Ativo varrido da custódia para o administrador")

	return nil
}

// WithdrawNative varre todo o saldo nativo da custódia para o administrador
// e retorna o valor movido
func (s *Service) WithdrawNative(ctx context.Context, caller common.Address) (*big.Int, error) {
	if err := s.access.Authorize(caller); err != nil {
		return nil, err
	}

	balance, err := s.native.NativeBalance(ctx, s.custody)
	if err != nil {
		return nil, NewGovernanceError(ErrWithdrawFailed, apiErrors.ErrTransferFailed, err.Error())
	}

	if balance.Sign() == 0 {
		return nil, NewGovernanceError(ErrNothingToWithdraw, apiErrors.ErrInvalidAmount, "native balance is zero")
	}

	owner := s.access.Owner()
	if err := s.native.NativeTransfer(ctx, s.custody, owner, balance); err != nil {
		return nil, NewGovernanceError(ErrWithdrawFailed, apiErrors.ErrTransferFailed, err.Error())
	}

	logrus.WithFields(logrus.Fields{
		"amount": balance.String(),
		"owner":  owner.Hex(),
	}).Info("Saldo nativo varrido da custódia para o administrador")

	return balance, nil
}

// Package ledger é a implementação em memória dos colaboradores externos do
// protocolo: ativos com transfer/transferFrom/approve/allowance/balanceOf,
// cunhagem opcional e saldos em moeda nativa. Usada no modo dev e nos testes.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// Erros do ledger, mapeados pelo motor de compra para falhas de transferência
var (
	ErrUnknownAsset          = errors.New("asset is not registered in the ledger")
	ErrInsufficientBalance   = errors.New("insufficient balance")
	ErrInsufficientAllowance = errors.New("insufficient allowance")
	ErrNotMintable           = errors.New("asset is not mintable")
)

type asset struct {
	mintable bool
	balances map[common.Address]*big.Int
	// allowances[owner][spender]
	allowances map[common.Address]map[common.Address]*big.Int
}

// Ledger guarda saldos e allowances de todos os ativos registrados.
// Toda operação de escrita age em nome da conta `system` (a custódia),
// espelhando o cliente on-chain que assina com a chave do sistema.
type Ledger struct {
	mu     sync.Mutex
	system common.Address
	assets map[common.Address]*asset
	native map[common.Address]*big.Int
}

// New cria um ledger vazio com a conta do sistema
func New(system common.Address) *Ledger {
	return &Ledger{
		system: system,
		assets: make(map[common.Address]*asset),
		native: make(map[common.Address]*big.Int),
	}
}

// RegisterAsset registra um ativo; `mintable` habilita a cunhagem
func (l *Ledger) RegisterAsset(addr common.Address, mintable bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.assets[addr]; ok {
		return
	}
	l.assets[addr] = &asset{
		mintable:   mintable,
		balances:   make(map[common.Address]*big.Int),
		allowances: make(map[common.Address]map[common.Address]*big.Int),
	}
}

// Credit soma saldo a uma conta; usado para semear cenários de dev e teste
func (l *Ledger) Credit(addr, account common.Address, amount *big.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	a, ok := l.assets[addr]
	if !ok {
		return ErrUnknownAsset
	}
	a.credit(account, amount)
	return nil
}

// CreditNative soma saldo nativo a uma conta
func (l *Ledger) CreditNative(account common.Address, amount *big.Int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.native[account] = new(big.Int).Add(l.nativeOf(account), amount)
}

// Approve concede allowance de `owner` para `spender` em um ativo
func (l *Ledger) Approve(addr, owner, spender common.Address, amount *big.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	a, ok := l.assets[addr]
	if !ok {
		return ErrUnknownAsset
	}

	if a.allowances[owner] == nil {
		a.allowances[owner] = make(map[common.Address]*big.Int)
	}
	a.allowances[owner][spender] = new(big.Int).Set(amount)
	return nil
}

func (l *Ledger) BalanceOf(_ context.Context, addr, account common.Address) (*big.Int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	a, ok := l.assets[addr]
	if !ok {
		return nil, ErrUnknownAsset
	}
	return new(big.Int).Set(a.balanceOf(account)), nil
}

func (l *Ledger) Allowance(_ context.Context, addr, owner, spender common.Address) (*big.Int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	a, ok := l.assets[addr]
	if !ok {
		return nil, ErrUnknownAsset
	}
	return new(big.Int).Set(a.allowanceOf(owner, spender)), nil
}

// Transfer move unidades da conta do sistema para `to`
func (l *Ledger) Transfer(_ context.Context, addr, to common.Address, amount *big.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	a, ok := l.assets[addr]
	if !ok {
		return ErrUnknownAsset
	}
	return a.move(l.system, to, amount)
}

// TransferFrom move unidades de `from` para `to`, consumindo a allowance
// concedida de `from` para o sistema
func (l *Ledger) TransferFrom(_ context.Context, addr, from, to common.Address, amount *big.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	a, ok := l.assets[addr]
	if !ok {
		return ErrUnknownAsset
	}

	allowance := a.allowanceOf(from, l.system)
	if allowance.Cmp(amount) < 0 {
		return fmt.Errorf("%w: owner %s", ErrInsufficientAllowance, from.Hex())
	}

	if err := a.move(from, to, amount); err != nil {
		return err
	}

	a.allowances[from][l.system] = new(big.Int).Sub(allowance, amount)
	return nil
}

// Mint cria unidades novas para `to`; falha se o ativo não for cunhável
func (l *Ledger) Mint(_ context.Context, addr, to common.Address, amount *big.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	a, ok := l.assets[addr]
	if !ok {
		return ErrUnknownAsset
	}

	if !a.mintable {
		return fmt.Errorf("%w: %s", ErrNotMintable, addr.Hex())
	}

	a.credit(to, amount)
	return nil
}

// NativeTransfer move saldo nativo entre contas mantidas pelo ledger
func (l *Ledger) NativeTransfer(_ context.Context, from, to common.Address, amount *big.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	balance := l.nativeOf(from)
	if balance.Cmp(amount) < 0 {
		return fmt.Errorf("%w: account %s", ErrInsufficientBalance, from.Hex())
	}

	l.native[from] = new(big.Int).Sub(balance, amount)
	l.native[to] = new(big.Int).Add(l.nativeOf(to), amount)
	return nil
}

func (l *Ledger) NativeBalance(_ context.Context, account common.Address) (*big.Int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return new(big.Int).Set(l.nativeOf(account)), nil
}

func (l *Ledger) nativeOf(account common.Address) *big.Int {
	if b, ok := l.native[account]; ok {
		return b
	}
	return new(big.Int)
}

func (a *asset) balanceOf(account common.Address) *big.Int {
	if b, ok := a.balances[account]; ok {
		return b
	}
	return new(big.Int)
}

func (a *asset) allowanceOf(owner, spender common.Address) *big.Int {
	if m, ok := a.allowances[owner]; ok {
		if v, ok := m[spender]; ok {
			return v
		}
	}
	return new(big.Int)
}

func (a *asset) credit(account common.Address, amount *big.Int) {
	a.balances[account] = new(big.Int).Add(a.balanceOf(account), amount)
}

func (a *asset) move(from, to common.Address, amount *big.Int) error {
	balance := a.balanceOf(from)
	if balance.Cmp(amount) < 0 {
		return fmt.Errorf("%w: account %s", ErrInsufficientBalance, from.Hex())
	}

	a.balances[from] = new(big.Int).Sub(balance, amount)
	a.credit(to, amount)
	return nil
}

// Package purchasing implementa o motor de compra: a máquina de estados
// que valida, converte, cobra, distribui e contabiliza cada compra como
// uma unidade indivisível de trabalho
package purchasing

import (
	"context"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/token-sale-api/internal/domain"
	"github.com/vfg2006/token-sale-api/internal/usecases/governing"
	"github.com/vfg2006/token-sale-api/internal/usecases/notifying"
	"github.com/vfg2006/token-sale-api/internal/usecases/selling"
	"github.com/vfg2006/token-sale-api/pkg/apiErrors"
	"github.com/vfg2006/token-sale-api/pkg/utils"
)

// StablecoinSlot identifica qual das duas stablecoins aceitas paga a compra
type StablecoinSlot string

const (
	SlotA StablecoinSlot = "A"
	SlotB StablecoinSlot = "B"
)

// Valid informa se o slot é um dos dois configuráveis
func (s StablecoinSlot) Valid() bool {
	return s == SlotA || s == SlotB
}

// Engine orquestra o protocolo de compra. Todas as compras do sistema são
// serializadas por `exclusive`, o mesmo lock que os setters administrativos
// do registro adquirem: a sequência ler-tokensSold / checar-teto / distribuir /
// gravar-tokensSold nunca é intercalada com outra compra nem com uma mutação.
type Engine struct {
	registry selling.Registry
	tokens   TokenClient
	native   NativeClient
	access   *governing.AccessControl
	notifier notifying.Notifier

	// custody é a conta do próprio sistema: recebe pagamentos em escrow
	// durante a operação e guarda o inventário das vendas por Transfer
	custody common.Address

	// exclusive é o lock global de compra/mutação. Compras adquirem com
	// TryLock: uma chamada reentrante enquanto o lock está tomado falha
	// imediatamente em vez de bloquear.
	exclusive *sync.Mutex

	cfgMu  sync.RWMutex
	stable map[StablecoinSlot]common.Address
	oracle *OracleAdapter

	now func() time.Time
}

// NewEngine cria o motor de compra. O lock `exclusive` deve ser o mesmo
// compartilhado com o registro de vendas.
func NewEngine(
	registry selling.Registry,
	tokens TokenClient,
	native NativeClient,
	access *governing.AccessControl,
	notifier notifying.Notifier,
	custody common.Address,
	exclusive *sync.Mutex,
) *Engine {
	return &Engine{
		registry:  registry,
		tokens:    tokens,
		native:    native,
		access:    access,
		notifier:  notifier,
		custody:   custody,
		exclusive: exclusive,
		stable:    make(map[StablecoinSlot]common.Address),
		now:       time.Now,
	}
}

// WithClock troca a fonte de tempo; usado nos testes de janela de venda
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// SetStablecoin configura a stablecoin aceita em um slot (apenas administrador).
// O endereço zero desconfigura o slot.
func (e *Engine) SetStablecoin(caller common.Address, slot StablecoinSlot, token common.Address) error {
	if err := e.access.Authorize(caller); err != nil {
		return err
	}

	if !slot.Valid() {
		return NewPurchaseError(ErrInvalidStablecoinSlot, apiErrors.ErrInvalidRequest, -1, string(slot))
	}

	e.cfgMu.Lock()
	e.stable[slot] = token
	e.cfgMu.Unlock()

	logrus.WithFields(logrus.Fields{
		"slot":  string(slot),
		"token": token.Hex(),
	}).Info("Stablecoin configurada")

	return nil
}

// Stablecoin retorna o endereço configurado para o slot
func (e *Engine) Stablecoin(slot StablecoinSlot) common.Address {
	e.cfgMu.RLock()
	defer e.cfgMu.RUnlock()
	return e.stable[slot]
}

// SetOracle configura o feed de preço nativo→USD (apenas administrador)
func (e *Engine) SetOracle(caller common.Address, feed PriceFeed) error {
	if err := e.access.Authorize(caller); err != nil {
		return err
	}

	e.cfgMu.Lock()
	e.oracle = NewOracleAdapter(feed)
	e.cfgMu.Unlock()

	logrus.Info("Oráculo de preço configurado")
	return nil
}

// HasOracle informa se há feed de preço configurado
func (e *Engine) HasOracle() bool {
	e.cfgMu.RLock()
	defer e.cfgMu.RUnlock()
	return e.oracle != nil && e.oracle.feed != nil
}

func (e *Engine) currentOracle() *OracleAdapter {
	e.cfgMu.RLock()
	defer e.cfgMu.RUnlock()
	return e.oracle
}

// BuyWithStable executa uma compra paga em stablecoin. A operação inteira
// acontece sob o lock global; qualquer falha desfaz todo efeito já aplicado
// antes de retornar.
func (e *Engine) BuyWithStable(
	ctx context.Context,
	buyer common.Address,
	saleIndex int,
	slot StablecoinSlot,
	amountToBuy *big.Int,
	referralCode string,
) (*domain.PurchaseReceipt, error) {
	if !e.exclusive.TryLock() {
		return nil, NewPurchaseError(ErrReentrantCall, apiErrors.ErrPurchaseBusy, saleIndex, "")
	}
	defer e.exclusive.Unlock()

	// 1. Moeda de pagamento precisa estar configurada
	payToken := e.Stablecoin(slot)
	if !slot.Valid() {
		return nil, NewPurchaseError(ErrInvalidStablecoinSlot, apiErrors.ErrUnknownStablecoin, saleIndex, string(slot))
	}
	if payToken == (common.Address{}) {
		return nil, NewPurchaseError(ErrStablecoinUnset, apiErrors.ErrUnknownStablecoin, saleIndex, string(slot))
	}

	sale, err := e.registry.Get(saleIndex)
	if err != nil {
		return nil, err
	}

	// 2. Janela de tempo e flag de pausa, avaliados neste instante
	if stateErr := activationError(sale, e.now()); stateErr != nil {
		return nil, NewPurchaseError(stateErr, apiErrors.ErrSaleInactive, saleIndex, "")
	}

	// 3. Quantidade precisa ser positiva
	if amountToBuy == nil || amountToBuy.Sign() <= 0 {
		return nil, NewPurchaseError(ErrZeroAmount, apiErrors.ErrInvalidAmount, saleIndex, "")
	}

	// 4. Converte 18 casas do ativo × 6 casas do preço em custo de 6 casas.
	//    Truncamento em direção a zero, como em toda divisão do protocolo.
	usdCost := utils.MulDivFloor(amountToBuy, sale.PriceInUsd, utils.E18)
	if usdCost.Sign() == 0 {
		return nil, NewPurchaseError(ErrAmountTooSmall, apiErrors.ErrAmountTooSmall, saleIndex, "")
	}

	// 5. Teto de fornecimento contra o tokensSold corrente
	if err := checkCapacity(sale, amountToBuy); err != nil {
		return nil, NewPurchaseError(err, apiErrors.ErrCapacity, saleIndex, "")
	}

	// 6. Allowance previamente concedida pelo comprador ao sistema
	allowance, err := e.tokens.Allowance(ctx, payToken, buyer, e.custody)
	if err != nil {
		return nil, NewPurchaseError(ErrPaymentFailed, apiErrors.ErrTransferFailed, saleIndex, err.Error())
	}
	if usdCost.Cmp(allowance) > 0 {
		return nil, NewPurchaseError(ErrInsufficientAllowance, apiErrors.ErrAllowanceShort, saleIndex, "")
	}

	// 7. Puxa o pagamento para a custódia (escrow até a operação concluir)
	if err := e.tokens.TransferFrom(ctx, payToken, buyer, e.custody, usdCost); err != nil {
		return nil, NewPurchaseError(ErrPaymentFailed, apiErrors.ErrTransferFailed, saleIndex, err.Error())
	}

	// 8. Distribui o ativo; em falha, devolve o pagamento antes de retornar
	if err := e.disburse(ctx, sale, buyer, amountToBuy); err != nil {
		e.refundToken(ctx, payToken, buyer, usdCost, saleIndex)
		return nil, err
	}

	// 9. Contabiliza. Inalcançável sob o lock global; checagem de última linha.
	if err := e.registry.RecordSold(saleIndex, amountToBuy); err != nil {
		logrus.WithError(err).WithField("sale_index", saleIndex).
			Error("Contabilidade recusou compra já distribuída; conciliação manual necessária")
		e.refundToken(ctx, payToken, buyer, usdCost, saleIndex)
		return nil, err
	}

	// Encaminha o pagamento da custódia para o administrador. Se falhar o
	// valor permanece na custódia, recuperável pela varredura administrativa.
	owner := e.access.Owner()
	if err := e.tokens.Transfer(ctx, payToken, owner, usdCost); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"sale_index": saleIndex,
			"usd_cost":   usdCost.String(),
		}).Warn("Pagamento retido na custódia; varredura administrativa necessária")
	}

	receipt := &domain.PurchaseReceipt{
		Buyer:        buyer,
		SaleIndex:    saleIndex,
		AmountBought: new(big.Int).Set(amountToBuy),
		PriceInUsd:   new(big.Int).Set(sale.PriceInUsd),
		UsdCost:      usdCost,
		NativeSent:   new(big.Int),
		ReferralCode: referralCode,
	}
	e.publishPurchase(receipt)

	return receipt, nil
}

// BuyWithNative executa uma compra paga em moeda nativa, precificada pelo
// oráculo externo
func (e *Engine) BuyWithNative(
	ctx context.Context,
	buyer common.Address,
	saleIndex int,
	nativeSent *big.Int,
	referralCode string,
) (*domain.PurchaseReceipt, error) {
	if !e.exclusive.TryLock() {
		return nil, NewPurchaseError(ErrReentrantCall, apiErrors.ErrPurchaseBusy, saleIndex, "")
	}
	defer e.exclusive.Unlock()

	sale, err := e.registry.Get(saleIndex)
	if err != nil {
		return nil, err
	}

	// 1. Janela de tempo e pausa
	if stateErr := activationError(sale, e.now()); stateErr != nil {
		return nil, NewPurchaseError(stateErr, apiErrors.ErrSaleInactive, saleIndex, "")
	}

	// 2. Pagamento anexado precisa ser positivo
	if nativeSent == nil || nativeSent.Sign() <= 0 {
		return nil, NewPurchaseError(ErrZeroAmount, apiErrors.ErrInvalidAmount, saleIndex, "")
	}

	// 3. Cotação do oráculo, 8 casas decimais
	rate, err := e.currentOracle().LatestUsdPerNative(ctx)
	if err != nil {
		return nil, err
	}

	if sale.PriceInUsd.Sign() == 0 {
		return nil, NewPurchaseError(ErrAmountTooSmall, apiErrors.ErrAmountTooSmall, saleIndex, "sale price is zero")
	}

	// 4/5. Duas divisões truncadas encadeadas: nativo→USD e USD→ativo.
	//      A perda composta de arredondamento em compras muito pequenas é
	//      comportamento preservado do protocolo.
	usdValue := utils.MulDivFloor(nativeSent, rate, utils.E8)
	amountToBuy := utils.MulDivFloor(usdValue, utils.E6, sale.PriceInUsd)

	// 6. Valor pequeno demais arredonda para nada
	if amountToBuy.Sign() == 0 {
		return nil, NewPurchaseError(ErrAmountTooSmall, apiErrors.ErrAmountTooSmall, saleIndex, "")
	}

	// 7. Teto de fornecimento
	if err := checkCapacity(sale, amountToBuy); err != nil {
		return nil, NewPurchaseError(err, apiErrors.ErrCapacity, saleIndex, "")
	}

	// 8. Recolhe o pagamento nativo para a custódia
	if err := e.native.NativeTransfer(ctx, buyer, e.custody, nativeSent); err != nil {
		return nil, NewPurchaseError(ErrPaymentFailed, apiErrors.ErrTransferFailed, saleIndex, err.Error())
	}

	// 9. Distribui; em falha devolve o pagamento nativo
	if err := e.disburse(ctx, sale, buyer, amountToBuy); err != nil {
		e.refundNative(ctx, buyer, nativeSent, saleIndex)
		return nil, err
	}

	if err := e.registry.RecordSold(saleIndex, amountToBuy); err != nil {
		logrus.WithError(err).WithField("sale_index", saleIndex).
			Error("Contabilidade recusou compra já distribuída; conciliação manual necessária")
		e.refundNative(ctx, buyer, nativeSent, saleIndex)
		return nil, err
	}

	// Encaminha todo o nativeSent para o administrador
	owner := e.access.Owner()
	if err := e.native.NativeTransfer(ctx, e.custody, owner, nativeSent); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"sale_index":  saleIndex,
			"native_sent": nativeSent.String(),
		}).Warn("Pagamento nativo retido na custódia; varredura administrativa necessária")
	}

	// usdValue fica de fora do recibo: carrega a escala de 18 casas do
	// pagamento nativo, não a de 6 casas do custo em USD
	receipt := &domain.PurchaseReceipt{
		Buyer:        buyer,
		SaleIndex:    saleIndex,
		AmountBought: amountToBuy,
		PriceInUsd:   new(big.Int).Set(sale.PriceInUsd),
		UsdCost:      new(big.Int),
		NativeSent:   new(big.Int).Set(nativeSent),
		ReferralCode: referralCode,
	}
	e.publishPurchase(receipt)

	return receipt, nil
}

// checkCapacity falha se a compra exceder o espaço restante do teto
func checkCapacity(sale *domain.Sale, amountToBuy *big.Int) error {
	if !sale.Capped() {
		return nil
	}

	if amountToBuy.Cmp(sale.Remaining()) > 0 {
		return ErrCapacityExceeded
	}
	return nil
}

// disburse entrega o ativo ao comprador pela estratégia fixada na criação
// da venda. O switch é exaustivo: um quarto método é uma mudança verificada
// em tempo de compilação aqui e só aqui.
func (e *Engine) disburse(ctx context.Context, sale *domain.Sale, buyer common.Address, amount *big.Int) error {
	var err error

	switch sale.Disbursement.Method {
	case domain.DisburseTransfer:
		// Da custódia do próprio sistema
		err = e.tokens.Transfer(ctx, sale.AssetAddress, buyer, amount)
	case domain.DisburseTransferFrom:
		// De um detentor externo, consumindo allowance concedida ao sistema
		err = e.tokens.TransferFrom(ctx, sale.AssetAddress, sale.Disbursement.Source, buyer, amount)
	case domain.DisburseMint:
		// Cunhagem direta para o comprador
		err = e.tokens.Mint(ctx, sale.AssetAddress, buyer, amount)
	default:
		return NewPurchaseError(selling.ErrInvalidDisbursement, apiErrors.ErrInvalidDisbursement, sale.Index, "")
	}

	if err != nil {
		return NewPurchaseError(ErrDisbursementFailed, apiErrors.ErrTransferFailed, sale.Index, err.Error())
	}
	return nil
}

// refundToken devolve um pagamento em stablecoin retido na custódia.
// Falha aqui não tem mais o que desfazer: registra para conciliação manual.
func (e *Engine) refundToken(ctx context.Context, payToken, buyer common.Address, amount *big.Int, saleIndex int) {
	if err := e.tokens.Transfer(ctx, payToken, buyer, amount); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"sale_index": saleIndex,
			"buyer":      buyer.Hex(),
			"amount":     amount.String(),
		}).Error("Falha ao devolver pagamento ao comprador; conciliação manual necessária")
	}
}

// refundNative devolve um pagamento nativo retido na custódia
func (e *Engine) refundNative(ctx context.Context, buyer common.Address, amount *big.Int, saleIndex int) {
	if err := e.native.NativeTransfer(ctx, e.custody, buyer, amount); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"sale_index": saleIndex,
			"buyer":      buyer.Hex(),
			"amount":     amount.String(),
		}).Error("Falha ao devolver pagamento nativo ao comprador; conciliação manual necessária")
	}
}

func (e *Engine) publishPurchase(receipt *domain.PurchaseReceipt) {
	event := notifying.NewEvent(domain.EventTokensBought)
	event.Purchase = receipt
	e.notifier.Publish(event)
}

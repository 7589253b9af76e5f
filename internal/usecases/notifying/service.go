// Package notifying publica as notificações observáveis do registro de vendas
package notifying

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/token-sale-api/internal/domain"
	"github.com/vfg2006/token-sale-api/pkg/utils"
)

// Notifier publica eventos após mutações bem sucedidas.
// A publicação nunca falha a operação de origem: o evento é a notificação
// de algo que já aconteceu.
type Notifier interface {
	Publish(event domain.Event)
}

// NewEvent monta um evento com ID curto e timestamp
func NewEvent(eventType string) domain.Event {
	id, err := utils.GenerateEventID()
	if err != nil {
		// Sem ID não é motivo para derrubar a notificação
		logrus.WithError(err).Warn("Falha ao gerar ID de evento")
	}

	return domain.Event{
		ID:         id,
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
	}
}

// LogNotifier publica os eventos no log estruturado
type LogNotifier struct{}

// NewLogNotifier cria o notificador padrão baseado em logrus
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) Publish(event domain.Event) {
	fields := logrus.Fields{
		"event_id":   event.ID,
		"event_type": event.Type,
	}

	if event.Sale != nil {
		fields["sale_index"] = event.Sale.Index
		fields["asset"] = event.Sale.AssetAddress.Hex()
		fields["price_usd"] = utils.FormatUsd(event.Sale.PriceInUsd)
		fields["disbursement"] = event.Sale.Disbursement.Method.String()
	}

	if event.Purchase != nil {
		fields["sale_index"] = event.Purchase.SaleIndex
		fields["buyer"] = event.Purchase.Buyer.Hex()
		fields["amount_bought"] = utils.FormatAssetAmount(event.Purchase.AmountBought)
		fields["usd_cost"] = utils.FormatUsd(event.Purchase.UsdCost)
		fields["referral_code"] = event.Purchase.ReferralCode
	}

	logrus.WithFields(fields).Info("Evento publicado")
}

// MemoryNotifier acumula eventos em memória; usado em testes e no modo dev
type MemoryNotifier struct {
	mu     sync.Mutex
	events []domain.Event
}

func NewMemoryNotifier() *MemoryNotifier {
	return &MemoryNotifier{}
}

func (n *MemoryNotifier) Publish(event domain.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

// Events devolve uma cópia dos eventos publicados até agora
func (n *MemoryNotifier) Events() []domain.Event {
	n.mu.Lock()
	defer n.mu.Unlock()

	out := make([]domain.Event, len(n.events))
	copy(out, n.events)
	return out
}

// MultiNotifier repassa cada evento para todos os notificadores registrados
type MultiNotifier struct {
	targets []Notifier
}

func NewMultiNotifier(targets ...Notifier) *MultiNotifier {
	return &MultiNotifier{targets: targets}
}

func (n *MultiNotifier) Publish(event domain.Event) {
	for _, target := range n.targets {
		target.Publish(event)
	}
}

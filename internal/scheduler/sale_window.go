// Package scheduler contém os serviços de agendamento do registro de vendas
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/token-sale-api/internal/config"
	"github.com/vfg2006/token-sale-api/internal/domain"
)

//go:generate mockgen -source=sale_window.go -destination=mocks/sale_window_mock.go -package=mocks

// SaleLister é a visão somente-leitura do registro usada pelo vigia
type SaleLister interface {
	List() []*domain.Sale
}

// Fases observáveis de uma venda na passada do vigia
const (
	phaseUpcoming = "upcoming"
	phaseActive   = "active"
	phaseEnded    = "ended"
	phasePaused   = "paused"
	phaseSoldOut  = "sold_out"
)

type SaleWindowConfig struct {
	CronSchedule string
	Enabled      bool
}

// SaleWindowService observa periodicamente as janelas de tempo das vendas
// e registra transições de fase (abertura, encerramento, esgotamento).
// O registro em si não tem relógio: a atividade de uma venda é avaliada
// a cada compra. O vigia existe para dar visibilidade operacional.
type SaleWindowService struct {
	scheduler     *gocron.Scheduler
	registry      SaleLister
	config        SaleWindowConfig
	watchRunning  bool
	watchMutex    sync.Mutex
	lastPhases    map[int]string
	lastRunAt     time.Time
	lastRunDoneAt time.Time
}

func NewSaleWindowService(registry SaleLister, cfg *config.Config) *SaleWindowService {
	watchConfig := SaleWindowConfig{
		CronSchedule: cfg.SaleWatch.CronSchedule, // Default: a cada 5 minutos
		Enabled:      cfg.SaleWatch.Enabled,      // Default: desabilitado
	}

	scheduler := gocron.NewScheduler(time.Local)

	logrus.WithFields(logrus.Fields{
		"cron_schedule": watchConfig.CronSchedule,
	}).Info("Configuração do vigia de janelas de venda carregada")

	return &SaleWindowService{
		scheduler:  scheduler,
		registry:   registry,
		config:     watchConfig,
		lastPhases: make(map[int]string),
	}
}

func (s *SaleWindowService) Start(ctx context.Context) error {
	if !s.config.Enabled {
		logrus.Info("Vigia de janelas de venda desabilitado por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando vigia de janelas de venda")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		if err := s.WatchSaleWindows(); err != nil {
			logrus.WithError(err).Error("Erro na passada do vigia de janelas de venda")
		}
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar vigia de janelas de venda: %w", err)
	}

	// Executar o cron em uma goroutine separada
	s.scheduler.StartAsync()

	// Configurar o cancelamento do cron quando o contexto for cancelado
	go func() {
		<-ctx.Done()
		logrus.Info("Parando vigia de janelas de venda")
		s.scheduler.Stop()
	}()

	return nil
}

// WatchSaleWindows percorre as vendas, classifica a fase de cada uma e
// registra as transições desde a passada anterior
func (s *SaleWindowService) WatchSaleWindows() error {
	s.watchMutex.Lock()
	defer s.watchMutex.Unlock()

	if s.watchRunning {
		logrus.Warn("Passada do vigia de janelas de venda já está em execução")
		return nil
	}

	s.watchRunning = true
	s.lastRunAt = time.Now()
	defer func() {
		s.watchRunning = false
		s.lastRunDoneAt = time.Now()
	}()

	sales := s.registry.List()
	now := time.Now()

	counts := map[string]int{}

	for _, sale := range sales {
		phase := classifySale(sale, now)
		counts[phase]++

		previous, seen := s.lastPhases[sale.Index]
		if seen && previous != phase {
			logrus.WithFields(logrus.Fields{
				"sale_index": sale.Index,
				"from":       previous,
				"to":         phase,
				"sold":       sale.TokensSold.String(),
				"max":        sale.MaxTokensToSell.String(),
			}).Info("Venda mudou de fase")
		}
		s.lastPhases[sale.Index] = phase
	}

	logrus.WithFields(logrus.Fields{
		"total":    len(sales),
		"upcoming": counts[phaseUpcoming],
		"active":   counts[phaseActive],
		"ended":    counts[phaseEnded],
		"paused":   counts[phasePaused],
		"sold_out": counts[phaseSoldOut],
	}).Info("Passada do vigia de janelas de venda concluída")

	return nil
}

// Status retorna o estado do vigia para o endpoint de cron
func (s *SaleWindowService) Status() map[string]any {
	s.watchMutex.Lock()
	defer s.watchMutex.Unlock()

	return map[string]any{
		"enabled":          s.config.Enabled,
		"cron_schedule":    s.config.CronSchedule,
		"running":          s.watchRunning,
		"last_started_at":  s.lastRunAt,
		"last_finished_at": s.lastRunDoneAt,
	}
}

func classifySale(sale *domain.Sale, now time.Time) string {
	switch {
	case sale.Paused:
		return phasePaused
	case sale.Capped() && sale.Remaining().Sign() == 0:
		return phaseSoldOut
	case sale.StartDate != 0 && now.Unix() < sale.StartDate:
		return phaseUpcoming
	case sale.EndDate != 0 && now.Unix() >= sale.EndDate:
		return phaseEnded
	default:
		return phaseActive
	}
}

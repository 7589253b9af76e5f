package main

import (
	"context"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/token-sale-api/infrastructure/integrator/chain"
	"github.com/vfg2006/token-sale-api/infrastructure/ledger"
	"github.com/vfg2006/token-sale-api/internal/api"
	"github.com/vfg2006/token-sale-api/internal/api/handler"
	"github.com/vfg2006/token-sale-api/internal/config"
	"github.com/vfg2006/token-sale-api/internal/scheduler"
	"github.com/vfg2006/token-sale-api/internal/usecases/authenticating"
	"github.com/vfg2006/token-sale-api/internal/usecases/governing"
	"github.com/vfg2006/token-sale-api/internal/usecases/notifying"
	"github.com/vfg2006/token-sale-api/internal/usecases/purchasing"
	"github.com/vfg2006/token-sale-api/internal/usecases/selling"
	"github.com/vfg2006/token-sale-api/pkg/utils"
)

func main() {
	configureLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	logLevel, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		logrus.Warnf("Nível de log inválido: %s, usando 'info'", cfg.App.LogLevel)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)
	logrus.Infof("Nível de log configurado para: %s", logLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Backend de ativos: ledger em memória ou nó EVM via RPC
	tokens, native, custody, feeds := buildBackend(ctx, cfg)

	if cfg.Registry.OwnerAddress == "" || !common.IsHexAddress(cfg.Registry.OwnerAddress) {
		logrus.Fatal("REGISTRY_OWNER_ADDRESS ausente ou inválido")
	}
	owner := common.HexToAddress(cfg.Registry.OwnerAddress)

	access := governing.NewAccessControl(owner)
	notifier := notifying.NewLogNotifier()

	// Lock global compartilhado entre o motor de compra e os setters
	// administrativos do registro
	exclusive := &sync.Mutex{}

	registry := selling.NewService(access, notifier, exclusive)
	engine := purchasing.NewEngine(registry, tokens, native, access, notifier, custody, exclusive)
	treasury := governing.NewService(access, tokens, native, custody)

	configurePayments(ctx, cfg, engine, access, feeds)

	authenticator := authenticating.NewService(cfg)

	saleWatchService := scheduler.NewSaleWindowService(registry, cfg)
	if err := saleWatchService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o vigia de janelas de venda")
	} else {
		logrus.Info("Vigia de janelas de venda iniciado com sucesso")
	}

	server, err := api.New(
		cfg,
		registry,
		engine,
		treasury,
		authenticator,
		feeds,
		saleWatchService,
	)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// buildBackend monta os clientes de ativos conforme o modo configurado
func buildBackend(ctx context.Context, cfg *config.Config) (
	purchasing.TokenClient,
	purchasing.NativeClient,
	common.Address,
	handler.FeedFactory,
) {
	switch cfg.Backend.Mode {
	case config.BackendChain:
		client, err := chain.NewClient(ctx, cfg.Backend.RPCURL, cfg.Backend.SystemPrivateKey)
		if err != nil {
			logrus.WithError(err).Fatal("Erro ao conectar no nó RPC")
		}

		logrus.WithFields(logrus.Fields{
			"rpc_url": cfg.Backend.RPCURL,
			"system":  client.SystemAddress().Hex(),
		}).Info("Backend de chain conectado")

		feeds := func(address common.Address) (purchasing.PriceFeed, error) {
			return client.NewFeedClient(address)
		}

		return client, client, client.SystemAddress(), feeds

	case config.BackendMemory:
		// Conta de custódia fixa do ledger em memória
		custody := common.HexToAddress("0x0000000000000000000000000000000000000001")
		memLedger := ledger.New(custody)

		// Cotação inicial de 1 nativo = 1 USD; ajustável via SetAnswer
		staticFeed := ledger.NewStaticFeed(new(big.Int).Set(utils.E8))

		feeds := func(common.Address) (purchasing.PriceFeed, error) {
			return staticFeed, nil
		}

		logrus.Info("Backend de ledger em memória inicializado")

		return memLedger, memLedger, custody, feeds

	default:
		logrus.Fatalf("Modo de backend desconhecido: %s", cfg.Backend.Mode)
		return nil, nil, common.Address{}, nil
	}
}

// configurePayments aplica a configuração inicial de meios de pagamento
// vinda do ambiente; tudo pode ser trocado depois pela API
func configurePayments(
	ctx context.Context,
	cfg *config.Config,
	engine *purchasing.Engine,
	access *governing.AccessControl,
	feeds handler.FeedFactory,
) {
	owner := access.Owner()

	if common.IsHexAddress(cfg.Registry.StablecoinA) {
		if err := engine.SetStablecoin(owner, purchasing.SlotA, common.HexToAddress(cfg.Registry.StablecoinA)); err != nil {
			logrus.WithError(err).Error("Erro ao configurar a stablecoin do slot A")
		}
	}

	if common.IsHexAddress(cfg.Registry.StablecoinB) {
		if err := engine.SetStablecoin(owner, purchasing.SlotB, common.HexToAddress(cfg.Registry.StablecoinB)); err != nil {
			logrus.WithError(err).Error("Erro ao configurar a stablecoin do slot B")
		}
	}

	if common.IsHexAddress(cfg.Registry.OracleAddress) {
		feed, err := feeds(common.HexToAddress(cfg.Registry.OracleAddress))
		if err != nil {
			logrus.WithError(err).Error("Erro ao conectar no feed de preço configurado")
			return
		}
		if err := engine.SetOracle(owner, feed); err != nil {
			logrus.WithError(err).Error("Erro ao configurar o oráculo de preço")
		}
	}
}

// configureLogger configura o formato e comportamento dos logs
func configureLogger() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}

package handler

import (
	"net/http"

	"github.com/vfg2006/token-sale-api/internal/api/handler/router"
	"github.com/vfg2006/token-sale-api/internal/scheduler"
	"github.com/vfg2006/token-sale-api/internal/usecases/authenticating"
	"github.com/vfg2006/token-sale-api/internal/usecases/governing"
	"github.com/vfg2006/token-sale-api/internal/usecases/purchasing"
	"github.com/vfg2006/token-sale-api/internal/usecases/selling"
	"github.com/vfg2006/token-sale-api/pkg/middleware"
)

func Healthcheck() []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
	}
}

func Authentication(service authenticating.Authenticator) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/login",
			Method:  http.MethodPost,
			Handler: Login(service),
		},
	}
}

// Sales expõe o registro de vendas: consultas abertas, mutações restritas
// ao administrador
func Sales(registry selling.Registry, access *governing.AccessControl) []router.Route {
	adminOnly := []func(http.Handler) http.Handler{middleware.AdminOnly()}

	return []router.Route{
		{
			Path:    "/v1/sales",
			Method:  http.MethodGet,
			Handler: ListSales(registry),
		},
		{
			Path:    "/v1/sales/:id",
			Method:  http.MethodGet,
			Handler: GetSale(registry),
		},
		{
			Path:        "/v1/sales",
			Method:      http.MethodPost,
			Handler:     CreateSale(registry, access),
			Middlewares: adminOnly,
		},
		{
			Path:        "/v1/sales/:id/price",
			Method:      http.MethodPatch,
			Handler:     UpdateSalePrice(registry, access),
			Middlewares: adminOnly,
		},
		{
			Path:        "/v1/sales/:id/max-tokens",
			Method:      http.MethodPatch,
			Handler:     UpdateSaleMaxTokens(registry, access),
			Middlewares: adminOnly,
		},
		{
			Path:        "/v1/sales/:id/start-date",
			Method:      http.MethodPatch,
			Handler:     UpdateSaleStartDate(registry, access),
			Middlewares: adminOnly,
		},
		{
			Path:        "/v1/sales/:id/end-date",
			Method:      http.MethodPatch,
			Handler:     UpdateSaleEndDate(registry, access),
			Middlewares: adminOnly,
		},
		{
			Path:        "/v1/sales/:id/asset",
			Method:      http.MethodPatch,
			Handler:     UpdateSaleAsset(registry, access),
			Middlewares: adminOnly,
		},
		{
			Path:        "/v1/sales/:id/paused",
			Method:      http.MethodPatch,
			Handler:     UpdateSalePaused(registry, access),
			Middlewares: adminOnly,
		},
	}
}

// Purchases expõe o motor de compra; rotas abertas a qualquer comprador
func Purchases(engine *purchasing.Engine) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/sales/:id/buy/stable",
			Method:  http.MethodPost,
			Handler: BuyWithStable(engine),
		},
		{
			Path:    "/v1/sales/:id/buy/native",
			Method:  http.MethodPost,
			Handler: BuyWithNative(engine),
		},
	}
}

// Payments expõe a configuração de meios de pagamento
func Payments(engine *purchasing.Engine, access *governing.AccessControl, feeds FeedFactory) []router.Route {
	adminOnly := []func(http.Handler) http.Handler{middleware.AdminOnly()}

	return []router.Route{
		{
			Path:        "/v1/payments",
			Method:      http.MethodGet,
			Handler:     GetPaymentConfig(engine),
			Middlewares: adminOnly,
		},
		{
			Path:        "/v1/payments/stablecoins/:slot",
			Method:      http.MethodPut,
			Handler:     SetStablecoin(engine, access),
			Middlewares: adminOnly,
		},
		{
			Path:        "/v1/payments/oracle",
			Method:      http.MethodPut,
			Handler:     SetOracle(engine, access, feeds),
			Middlewares: adminOnly,
		},
	}
}

// Treasury expõe as operações de governança e varredura da custódia
func Treasury(service *governing.Service) []router.Route {
	adminOnly := []func(http.Handler) http.Handler{middleware.AdminOnly()}

	return []router.Route{
		{
			Path:        "/v1/treasury/withdraw",
			Method:      http.MethodPost,
			Handler:     WithdrawToken(service),
			Middlewares: adminOnly,
		},
		{
			Path:        "/v1/treasury/withdraw-native",
			Method:      http.MethodPost,
			Handler:     WithdrawNative(service),
			Middlewares: adminOnly,
		},
		{
			Path:        "/v1/ownership/transfer",
			Method:      http.MethodPost,
			Handler:     TransferOwnership(service.Access()),
			Middlewares: adminOnly,
		},
	}
}

func CronJobs(saleWatch *scheduler.SaleWindowService) []router.Route {
	adminOnly := []func(http.Handler) http.Handler{middleware.AdminOnly()}

	return []router.Route{
		{
			Path:        "/v1/cron/sale-watch/run",
			Method:      http.MethodPost,
			Handler:     RunSaleWatch(saleWatch),
			Middlewares: adminOnly,
		},
		{
			Path:        "/v1/cron/sale-watch/status",
			Method:      http.MethodGet,
			Handler:     GetSaleWatchStatus(saleWatch),
			Middlewares: adminOnly,
		},
	}
}

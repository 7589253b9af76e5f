package handler

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/julienschmidt/httprouter"
	"github.com/vfg2006/token-sale-api/internal/usecases/governing"
	"github.com/vfg2006/token-sale-api/internal/usecases/purchasing"
	"github.com/vfg2006/token-sale-api/pkg/apiErrors"
)

// FeedFactory constrói um feed de preço a partir do endereço configurado.
// No backend de ledger em memória o endereço é ignorado; no backend de
// chain ele aponta para o contrato agregador.
type FeedFactory func(address common.Address) (purchasing.PriceFeed, error)

type setStablecoinRequest struct {
	TokenAddress string `json:"token_address"` // endereço zero desconfigura o slot
}

type setOracleRequest struct {
	Address string `json:"address"`
}

func SetStablecoin(engine *purchasing.Engine, access *governing.AccessControl) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slot := purchasing.StablecoinSlot(httprouter.ParamsFromContext(r.Context()).ByName("slot"))

		var req setStablecoinRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Formato de requisição inválido", nil)
			return
		}

		// O endereço zero é aceito de propósito: desconfigura o slot
		token := common.Address{}
		if req.TokenAddress != "" {
			parsed, ok := parseAddress(req.TokenAddress)
			if !ok {
				apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Endereço da stablecoin inválido", nil)
				return
			}
			token = parsed
		}

		if err := engine.SetStablecoin(access.Owner(), slot, token); err != nil {
			writeUsecaseError(w, err)
			return
		}

		respondPaymentConfig(w, engine)
	}
}

func SetOracle(engine *purchasing.Engine, access *governing.AccessControl, feeds FeedFactory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req setOracleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Formato de requisição inválido", nil)
			return
		}

		address, ok := parseAddress(req.Address)
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Endereço do oráculo inválido", nil)
			return
		}

		feed, err := feeds(address)
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrOracle, "Erro ao conectar no feed de preço", nil)
			return
		}

		if err := engine.SetOracle(access.Owner(), feed); err != nil {
			writeUsecaseError(w, err)
			return
		}

		respondPaymentConfig(w, engine)
	}
}

func GetPaymentConfig(engine *purchasing.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondPaymentConfig(w, engine)
	}
}

func respondPaymentConfig(w http.ResponseWriter, engine *purchasing.Engine) {
	respondJSON(w, http.StatusOK, map[string]any{
		"stablecoin_a":      engine.Stablecoin(purchasing.SlotA).Hex(),
		"stablecoin_b":      engine.Stablecoin(purchasing.SlotB).Hex(),
		"oracle_configured": engine.HasOracle(),
	})
}

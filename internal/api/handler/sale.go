package handler

import (
	"net/http"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/token-sale-api/internal/domain"
	"github.com/vfg2006/token-sale-api/internal/usecases/governing"
	"github.com/vfg2006/token-sale-api/internal/usecases/selling"
	"github.com/vfg2006/token-sale-api/pkg/apiErrors"
	"github.com/vfg2006/token-sale-api/pkg/utils"
)

type DisbursementPayload struct {
	Method string `json:"method"`           // transfer | transfer_from | mint
	Source string `json:"source,omitempty"` // obrigatório apenas para transfer_from
}

type CreateSaleRequest struct {
	AssetAddress    string              `json:"asset_address"`
	Disbursement    DisbursementPayload `json:"disbursement"`
	PriceInUsd      string              `json:"price_in_usd"`       // valor humano, ex: "0.25"
	MaxTokensToSell string              `json:"max_tokens_to_sell"` // unidades base do ativo (18 casas); "0" = sem teto
	StartDate       int64               `json:"start_date"`         // unix; 0 = sem limite
	EndDate         int64               `json:"end_date"`           // unix; 0 = sem limite
	Paused          bool                `json:"paused"`
}

type SaleResponse struct {
	Index           int                 `json:"index"`
	AssetAddress    string              `json:"asset_address"`
	Disbursement    DisbursementPayload `json:"disbursement"`
	PriceInUsd      string              `json:"price_in_usd"`
	MaxTokensToSell string              `json:"max_tokens_to_sell"`
	TokensSold      string              `json:"tokens_sold"`
	Remaining       string              `json:"remaining,omitempty"` // ausente quando a venda não tem teto
	StartDate       int64               `json:"start_date"`
	EndDate         int64               `json:"end_date"`
	Paused          bool                `json:"paused"`
}

func newSaleResponse(sale *domain.Sale) SaleResponse {
	resp := SaleResponse{
		Index:        sale.Index,
		AssetAddress: sale.AssetAddress.Hex(),
		Disbursement: DisbursementPayload{
			Method: sale.Disbursement.Method.String(),
		},
		PriceInUsd:      utils.FormatUsd(sale.PriceInUsd),
		MaxTokensToSell: sale.MaxTokensToSell.String(),
		TokensSold:      sale.TokensSold.String(),
		StartDate:       sale.StartDate,
		EndDate:         sale.EndDate,
		Paused:          sale.Paused,
	}

	if sale.Disbursement.Method == domain.DisburseTransferFrom {
		resp.Disbursement.Source = sale.Disbursement.Source.Hex()
	}

	if sale.Capped() {
		resp.Remaining = sale.Remaining().String()
	}

	return resp
}

// saleIndexFromRequest extrai e valida o índice da venda da URL
func saleIndexFromRequest(w http.ResponseWriter, r *http.Request) (int, bool) {
	indexStr := httprouter.ParamsFromContext(r.Context()).ByName("id")

	index, err := strconv.Atoi(indexStr)
	if err != nil || index < 0 {
		apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Índice de venda inválido", nil)
		return 0, false
	}

	return index, true
}

func parseAddress(s string) (common.Address, bool) {
	if !common.IsHexAddress(s) {
		return common.Address{}, false
	}
	return common.HexToAddress(s), true
}

func CreateSale(registry selling.Registry, access *governing.AccessControl) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateSaleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Formato de requisição inválido", nil)
			return
		}

		asset, ok := parseAddress(req.AssetAddress)
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Endereço do ativo inválido", nil)
			return
		}

		method, ok := domain.ParseDisbursementMethod(req.Disbursement.Method)
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidDisbursement, "Método de distribuição inválido", map[string]any{
				"method": req.Disbursement.Method,
			})
			return
		}

		disbursement := domain.Disbursement{Method: method}
		if req.Disbursement.Source != "" {
			source, ok := parseAddress(req.Disbursement.Source)
			if !ok {
				apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Endereço de origem inválido", nil)
				return
			}
			disbursement.Source = source
		}

		price, err := utils.ParseUsdPrice(req.PriceInUsd)
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidAmount, "Preço em USD inválido", nil)
			return
		}

		maxTokens, ok := utils.BigFromString(req.MaxTokensToSell)
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidAmount, "Teto de fornecimento inválido", nil)
			return
		}

		index, err := registry.Create(access.Owner(), selling.CreateParams{
			AssetAddress:    asset,
			Disbursement:    disbursement,
			PriceInUsd:      price,
			MaxTokensToSell: maxTokens,
			StartDate:       req.StartDate,
			EndDate:         req.EndDate,
			Paused:          req.Paused,
		})
		if err != nil {
			writeUsecaseError(w, err)
			return
		}

		sale, err := registry.Get(index)
		if err != nil {
			writeUsecaseError(w, err)
			return
		}

		respondJSON(w, http.StatusCreated, newSaleResponse(sale))
	}
}

func ListSales(registry selling.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sales := registry.List()

		responses := make([]SaleResponse, 0, len(sales))
		for _, sale := range sales {
			responses = append(responses, newSaleResponse(sale))
		}

		respondJSON(w, http.StatusOK, map[string]any{
			"count": len(responses),
			"sales": responses,
		})
	}
}

func GetSale(registry selling.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		index, ok := saleIndexFromRequest(w, r)
		if !ok {
			return
		}

		sale, err := registry.Get(index)
		if err != nil {
			writeUsecaseError(w, err)
			return
		}

		respondJSON(w, http.StatusOK, newSaleResponse(sale))
	}
}

type updatePriceRequest struct {
	PriceInUsd string `json:"price_in_usd"`
}

func UpdateSalePrice(registry selling.Registry, access *governing.AccessControl) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		index, ok := saleIndexFromRequest(w, r)
		if !ok {
			return
		}

		var req updatePriceRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Formato de requisição inválido", nil)
			return
		}

		price, err := utils.ParseUsdPrice(req.PriceInUsd)
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidAmount, "Preço em USD inválido", nil)
			return
		}

		if err := registry.SetPrice(access.Owner(), index, price); err != nil {
			writeUsecaseError(w, err)
			return
		}

		respondSale(w, registry, index)
	}
}

type updateMaxTokensRequest struct {
	MaxTokensToSell string `json:"max_tokens_to_sell"`
}

func UpdateSaleMaxTokens(registry selling.Registry, access *governing.AccessControl) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		index, ok := saleIndexFromRequest(w, r)
		if !ok {
			return
		}

		var req updateMaxTokensRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Formato de requisição inválido", nil)
			return
		}

		maxTokens, ok := utils.BigFromString(req.MaxTokensToSell)
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidAmount, "Teto de fornecimento inválido", nil)
			return
		}

		if err := registry.SetMaxTokens(access.Owner(), index, maxTokens); err != nil {
			writeUsecaseError(w, err)
			return
		}

		respondSale(w, registry, index)
	}
}

type updateDateRequest struct {
	Date int64 `json:"date"` // unix; 0 remove o limite
}

func UpdateSaleStartDate(registry selling.Registry, access *governing.AccessControl) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		index, ok := saleIndexFromRequest(w, r)
		if !ok {
			return
		}

		var req updateDateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Formato de requisição inválido", nil)
			return
		}

		if err := registry.SetStartDate(access.Owner(), index, req.Date); err != nil {
			writeUsecaseError(w, err)
			return
		}

		respondSale(w, registry, index)
	}
}

func UpdateSaleEndDate(registry selling.Registry, access *governing.AccessControl) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		index, ok := saleIndexFromRequest(w, r)
		if !ok {
			return
		}

		var req updateDateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Formato de requisição inválido", nil)
			return
		}

		if err := registry.SetEndDate(access.Owner(), index, req.Date); err != nil {
			writeUsecaseError(w, err)
			return
		}

		respondSale(w, registry, index)
	}
}

type updateAssetRequest struct {
	AssetAddress string `json:"asset_address"`
}

func UpdateSaleAsset(registry selling.Registry, access *governing.AccessControl) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		index, ok := saleIndexFromRequest(w, r)
		if !ok {
			return
		}

		var req updateAssetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Formato de requisição inválido", nil)
			return
		}

		asset, ok := parseAddress(req.AssetAddress)
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Endereço do ativo inválido", nil)
			return
		}

		if err := registry.SetAssetAddress(access.Owner(), index, asset); err != nil {
			writeUsecaseError(w, err)
			return
		}

		respondSale(w, registry, index)
	}
}

type updatePausedRequest struct {
	Paused bool `json:"paused"`
}

func UpdateSalePaused(registry selling.Registry, access *governing.AccessControl) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		index, ok := saleIndexFromRequest(w, r)
		if !ok {
			return
		}

		var req updatePausedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Formato de requisição inválido", nil)
			return
		}

		if err := registry.SetPaused(access.Owner(), index, req.Paused); err != nil {
			writeUsecaseError(w, err)
			return
		}

		logrus.WithFields(logrus.Fields{
			"sale_index": index,
			"paused":     req.Paused,
		}).Info("Flag de pausa da venda alterada")

		respondSale(w, registry, index)
	}
}

// respondSale devolve o registro pós-mutação, útil para o cliente
// confirmar o estado resultante
func respondSale(w http.ResponseWriter, registry selling.Registry, index int) {
	sale, err := registry.Get(index)
	if err != nil {
		writeUsecaseError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, newSaleResponse(sale))
}

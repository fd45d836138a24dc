package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/tonwork/jetton-engine/internal/application/services"
)

// BalanceHandler handles HTTP requests for jetton balances
type BalanceHandler struct {
	service *services.BalanceService
	logger  *zap.Logger
}

// NewBalanceHandler creates a new balance handler
func NewBalanceHandler(service *services.BalanceService, logger *zap.Logger) *BalanceHandler {
	return &BalanceHandler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers the balance routes on a chi router
func (h *BalanceHandler) RegisterRoutes(r chi.Router) {
	r.Get("/accounts/{address}/jettons", h.GetBalances)
}

// TokenBalanceDTO is the API representation of one jetton balance
type TokenBalanceDTO struct {
	Slug          string `json:"slug"`
	Balance       string `json:"balance"`
	TokenAddress  string `json:"token_address"`
	TokenName     string `json:"token_name"`
	TokenSymbol   string `json:"token_symbol"`
	Decimals      int    `json:"decimals"`
	WalletAddress string `json:"wallet_address"`
	Mintless      bool   `json:"mintless"`
}

// BalancesResponse wraps balances for API response
type BalancesResponse struct {
	Data      []TokenBalanceDTO `json:"data"`
	UpdatedAt string            `json:"updated_at"`
}

// GetBalances handles GET /api/v1/accounts/{address}/jettons
func (h *BalanceHandler) GetBalances(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	address := chi.URLParam(r, "address")

	if !isValidAddress(address) {
		h.respondError(w, http.StatusBadRequest, "Invalid account address format")
		return
	}

	network := parseNetwork(r.URL.Query().Get("network"))

	balances, err := h.service.FetchBalances(ctx, network, address)
	if err != nil {
		h.logger.Error("Failed to fetch balances",
			zap.Error(err),
			zap.String("address", address),
		)
		h.respondError(w, http.StatusBadGateway, "Failed to fetch balances")
		return
	}

	dtos := make([]TokenBalanceDTO, len(balances))
	for i, b := range balances {
		dtos[i] = TokenBalanceDTO{
			Slug:          b.Slug,
			Balance:       b.Balance.String(),
			TokenAddress:  b.Token.TokenAddress,
			TokenName:     b.Token.Name,
			TokenSymbol:   b.Token.Symbol,
			Decimals:      b.Token.Decimals,
			WalletAddress: b.TokenWalletAddress,
			Mintless:      b.Token.IsMintless(),
		}
	}

	h.respondJSON(w, http.StatusOK, BalancesResponse{
		Data:      dtos,
		UpdatedAt: time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *BalanceHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (h *BalanceHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}

package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/tonwork/jetton-engine/internal/application/services"
)

// TokenHandler handles HTTP requests for token catalog endpoints
type TokenHandler struct {
	service *services.TokenService
	logger  *zap.Logger
}

// NewTokenHandler creates a new token handler
func NewTokenHandler(service *services.TokenService, logger *zap.Logger) *TokenHandler {
	return &TokenHandler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers the token routes on a chi router
func (h *TokenHandler) RegisterRoutes(r chi.Router) {
	r.Get("/tokens/{address}", h.GetToken)
}

// TokenDTO is the API representation of a token
type TokenDTO struct {
	Slug         string `json:"slug"`
	Name         string `json:"name"`
	Symbol       string `json:"symbol"`
	Decimals     int    `json:"decimals"`
	Chain        string `json:"chain"`
	TokenAddress string `json:"token_address"`
	Image        string `json:"image,omitempty"`
	Mintless     bool   `json:"mintless"`
	IsTiny       bool   `json:"is_tiny"`
}

// TokenResponse wraps a token for API response
type TokenResponse struct {
	Data TokenDTO `json:"data"`
}

// GetToken handles GET /api/v1/tokens/{address}
func (h *TokenHandler) GetToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	address := chi.URLParam(r, "address")

	if !isValidAddress(address) {
		h.respondError(w, http.StatusBadRequest, "Invalid token address format")
		return
	}

	network := parseNetwork(r.URL.Query().Get("network"))

	token, err := h.service.GetByAddress(ctx, network, address)
	if err != nil {
		h.logger.Error("Failed to get token",
			zap.Error(err),
			zap.String("address", address),
		)
		h.respondError(w, http.StatusInternalServerError, "Failed to get token")
		return
	}

	h.respondJSON(w, http.StatusOK, TokenResponse{Data: TokenDTO{
		Slug:         token.Slug,
		Name:         token.Name,
		Symbol:       token.Symbol,
		Decimals:     token.Decimals,
		Chain:        token.Chain,
		TokenAddress: token.TokenAddress,
		Image:        token.Image,
		Mintless:     token.IsMintless(),
		IsTiny:       token.IsTiny,
	}})
}

func (h *TokenHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (h *TokenHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}

package handlers

import (
	"encoding/json"
	"errors"
	"math/big"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/tonwork/jetton-engine/internal/application/services"
	"github.com/tonwork/jetton-engine/internal/domain/entities"
	"github.com/tonwork/jetton-engine/internal/infrastructure/ton"
	"github.com/tonwork/jetton-engine/internal/presentation/middleware"
)

// TransferHandler handles HTTP requests for transfer construction
type TransferHandler struct {
	service *services.TransferService
	metrics *middleware.TransferMetrics
	logger  *zap.Logger
}

// NewTransferHandler creates a new transfer handler
func NewTransferHandler(service *services.TransferService, metrics *middleware.TransferMetrics, logger *zap.Logger) *TransferHandler {
	return &TransferHandler{
		service: service,
		metrics: metrics,
		logger:  logger,
	}
}

// RegisterRoutes registers the transfer routes on a chi router
func (h *TransferHandler) RegisterRoutes(r chi.Router) {
	r.Route("/transfers", func(r chi.Router) {
		r.Post("/build", h.Build)
		r.Post("/augment", h.Augment)
	})
}

// BuildRequest is the API request for building a transfer
type BuildRequest struct {
	Network       string `json:"network"`
	TokenAddress  string `json:"token_address"`
	FromAddress   string `json:"from_address"`
	ToAddress     string `json:"to_address"`
	Amount        string `json:"amount"`
	Comment       string `json:"comment,omitempty"`
	ForwardAmount string `json:"forward_amount,omitempty"`
	SkipMintless  bool   `json:"skip_mintless,omitempty"`
}

// BuildResponseData is the API representation of a transfer plan
type BuildResponseData struct {
	AttachedAmount  string `json:"attached_amount"`
	RealAmount      string `json:"real_amount"`
	WalletAddress   string `json:"wallet_address"`
	Payload         string `json:"payload"`
	StateInit       string `json:"state_init,omitempty"`
	MintlessBalance string `json:"mintless_balance,omitempty"`
	WalletDeployed  bool   `json:"wallet_deployed"`
}

// BuildResponse wraps a transfer plan for API response
type BuildResponse struct {
	Data BuildResponseData `json:"data"`
}

// Build handles POST /api/v1/transfers/build
func (h *TransferHandler) Build(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req BuildRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if !isValidAddress(req.TokenAddress) || !isValidAddress(req.FromAddress) || !isValidAddress(req.ToAddress) {
		h.respondError(w, http.StatusBadRequest, "Invalid address format")
		return
	}

	amount, ok := new(big.Int).SetString(req.Amount, 10)
	if !ok || amount.Sign() <= 0 {
		h.respondError(w, http.StatusBadRequest, "Invalid amount")
		return
	}

	transferReq := entities.TransferRequest{
		Network:      parseNetwork(req.Network),
		TokenAddress: req.TokenAddress,
		FromAddress:  req.FromAddress,
		ToAddress:    req.ToAddress,
		Amount:       amount,
		SkipMintless: req.SkipMintless,
	}

	if req.ForwardAmount != "" {
		fwd, ok := new(big.Int).SetString(req.ForwardAmount, 10)
		if !ok || fwd.Sign() < 0 {
			h.respondError(w, http.StatusBadRequest, "Invalid forward amount")
			return
		}
		transferReq.ForwardAmount = fwd
	}

	if req.Comment != "" {
		transferReq.ForwardPayload = ton.BuildCommentPayload(req.Comment)
	}

	plan, err := h.service.Build(ctx, transferReq)
	if err != nil {
		h.metrics.BuildErrors.Inc()
		switch {
		case errors.Is(err, services.ErrInvalidContract):
			h.respondError(w, http.StatusConflict, "Token wallet does not belong to the requested token")
		default:
			h.logger.Error("Failed to build transfer",
				zap.Error(err),
				zap.String("token", req.TokenAddress),
			)
			h.respondError(w, http.StatusInternalServerError, "Failed to build transfer")
		}
		return
	}

	h.metrics.TransfersBuilt.Inc()

	data := BuildResponseData{
		AttachedAmount: plan.AttachedAmount.String(),
		RealAmount:     plan.RealAmount.String(),
		WalletAddress:  plan.WalletAddress,
		Payload:        ton.CellToBase64(plan.Body),
		WalletDeployed: plan.WalletDeployed,
	}
	if plan.StateInit != nil {
		data.StateInit = ton.CellToBase64(plan.StateInit)
	}
	if plan.MintlessBalance != nil {
		data.MintlessBalance = plan.MintlessBalance.String()
		h.metrics.ClaimsAttached.Inc()
	}

	h.respondJSON(w, http.StatusOK, BuildResponse{Data: data})
}

// AugmentRequest is the API request for mintless augmentation of a
// pre-built transfer
type AugmentRequest struct {
	Network      string `json:"network"`
	TokenAddress string `json:"token_address"`
	FromAddress  string `json:"from_address"`
	ToAddress    string `json:"to_address"`
	Amount       string `json:"amount"`
	Payload      string `json:"payload"`
	StateInit    string `json:"state_init,omitempty"`
}

// AugmentResponseData is the possibly-rewritten transfer
type AugmentResponseData struct {
	ToAddress string `json:"to_address"`
	Amount    string `json:"amount"`
	Payload   string `json:"payload"`
	StateInit string `json:"state_init,omitempty"`
}

// AugmentResponse wraps the augmentation result for API response
type AugmentResponse struct {
	Data AugmentResponseData `json:"data"`
}

// Augment handles POST /api/v1/transfers/augment
func (h *TransferHandler) Augment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req AugmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if !isValidAddress(req.TokenAddress) || !isValidAddress(req.FromAddress) || !isValidAddress(req.ToAddress) {
		h.respondError(w, http.StatusBadRequest, "Invalid address format")
		return
	}

	amount := new(big.Int)
	if req.Amount != "" {
		var ok bool
		if amount, ok = new(big.Int).SetString(req.Amount, 10); !ok {
			h.respondError(w, http.StatusBadRequest, "Invalid amount")
			return
		}
	}

	params := entities.TransferParams{
		ToAddress: req.ToAddress,
		Amount:    amount,
		Payload:   req.Payload,
		StateInit: req.StateInit,
	}

	result, err := h.service.AugmentWithClaim(ctx, parseNetwork(req.Network), req.FromAddress, req.TokenAddress, params)
	if err != nil {
		switch {
		case errors.Is(err, ton.ErrInvalidPayload):
			h.respondError(w, http.StatusBadRequest, "Payload is not a jetton transfer")
		default:
			h.logger.Error("Failed to augment transfer",
				zap.Error(err),
				zap.String("token", req.TokenAddress),
			)
			h.respondError(w, http.StatusInternalServerError, "Failed to augment transfer")
		}
		return
	}

	h.metrics.TransfersAugmented.Inc()

	h.respondJSON(w, http.StatusOK, AugmentResponse{Data: AugmentResponseData{
		ToAddress: result.ToAddress,
		Amount:    result.Amount.String(),
		Payload:   result.Payload,
		StateInit: result.StateInit,
	}})
}

func (h *TransferHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (h *TransferHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}

// isValidAddress accepts friendly and raw TON address forms
func isValidAddress(addr string) bool {
	if addr == "" {
		return false
	}
	_, err := ton.ParseAddress(addr)
	return err == nil
}

func parseNetwork(s string) entities.Network {
	if s == string(entities.NetworkTestnet) {
		return entities.NetworkTestnet
	}
	return entities.NetworkMainnet
}

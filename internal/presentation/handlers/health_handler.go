package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// HealthChecker is implemented by every backing dependency that can be probed
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// HealthHandler reports the state of the engine's dependencies. The ledger
// gateway and the database are load-bearing; the cache is optional, so a
// cache failure degrades the status instead of failing it.
type HealthHandler struct {
	db     HealthChecker
	cache  HealthChecker
	ledger HealthChecker
}

func NewHealthHandler(db, cache, ledger HealthChecker) *HealthHandler {
	return &HealthHandler{
		db:     db,
		cache:  cache,
		ledger: ledger,
	}
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Services  map[string]string `json:"services"`
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Services:  make(map[string]string),
	}

	if err := h.ledger.HealthCheck(ctx); err != nil {
		response.Status = "unhealthy"
		response.Services["ledger"] = "unhealthy: " + err.Error()
	} else {
		response.Services["ledger"] = "healthy"
	}

	if err := h.db.HealthCheck(ctx); err != nil {
		response.Status = "unhealthy"
		response.Services["database"] = "unhealthy: " + err.Error()
	} else {
		response.Services["database"] = "healthy"
	}

	if h.cache != nil {
		if err := h.cache.HealthCheck(ctx); err != nil {
			if response.Status == "healthy" {
				response.Status = "degraded"
			}
			response.Services["cache"] = "unhealthy: " + err.Error()
		} else {
			response.Services["cache"] = "healthy"
		}
	}

	status := http.StatusOK
	if response.Status == "unhealthy" {
		status = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(response)
}

// Ready handles GET /ready. A node that cannot reach the ledger or the token
// catalog cannot build transfers, so both gate readiness.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.ledger.HealthCheck(ctx); err != nil {
		http.Error(w, "not ready: ledger", http.StatusServiceUnavailable)
		return
	}
	if err := h.db.HealthCheck(ctx); err != nil {
		http.Error(w, "not ready: database", http.StatusServiceUnavailable)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ready"))
}

// Live handles GET /live
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("alive"))
}

package http

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/believe-gautam/travel-planner-api/internal/compare"
	"github.com/believe-gautam/travel-planner-api/internal/models"
	"github.com/believe-gautam/travel-planner-api/internal/obs"
	"github.com/believe-gautam/travel-planner-api/internal/store"
)

// RateLimiter admits or drops a request for a client key.
type RateLimiter interface {
	Allow(key string) bool
}

type Handler struct {
	svc         compare.ComparisonService
	store       store.Store
	ratelimiter RateLimiter
	metrics     *obs.Metrics
}

func NewHandler(svc compare.ComparisonService, st store.Store, rl RateLimiter, m *obs.Metrics) *Handler {
	return &Handler{svc: svc, store: st, ratelimiter: rl, metrics: m}
}

func (h *Handler) ipFromRequest(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// chi's middleware.RequestID sets X-Request-Id header
func requestID(r *http.Request) string {
	if rid := r.Header.Get("X-Request-Id"); rid != "" {
		return rid
	}
	return uuid.New().String()
}

// ComparePrices handles POST /compare-prices.
func (h *Handler) ComparePrices(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reqID := requestID(r)
	meta := map[string]string{"request_id": reqID}

	var req models.CompareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body", meta)
		return
	}
	if err := req.Validate(); err != nil {
		BadRequest(w, err.Error(), meta)
		return
	}

	ip := h.ipFromRequest(r)
	if !h.ratelimiter.Allow(ip) {
		h.metrics.IncRateLimitDrops()
		TooManyRequests(w, "rate limit exceeded", meta)
		return
	}

	res, err := h.svc.GetComparisons(ctx, req.UserID, req.Type, req.Lat, req.Long)
	if err != nil {
		if errors.Is(err, compare.ErrNoActiveEndpoints) {
			NotFound(w, "no active endpoints for type "+req.Type, meta)
			return
		}
		InternalError(w, err.Error(), meta)
		return
	}

	WriteJSON(w, http.StatusOK, res)
}

// Configure handles POST /configure: one provider with its endpoints.
func (h *Handler) Configure(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	meta := map[string]string{"request_id": requestID(r)}

	var req models.ConfigureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body", meta)
		return
	}
	if err := req.Validate(); err != nil {
		BadRequest(w, err.Error(), meta)
		return
	}

	provider := req.Provider()
	endpoints := req.EndpointRecords(0)
	if err := h.store.CreateProviderWithEndpoints(ctx, &provider, endpoints); err != nil {
		InternalError(w, err.Error(), meta)
		return
	}

	WriteJSON(w, http.StatusCreated, map[string]any{
		"provider":  provider,
		"endpoints": endpoints,
	})
}

// CreateProvider handles POST /providers.
func (h *Handler) CreateProvider(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	meta := map[string]string{"request_id": requestID(r)}

	var req models.Provider
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body", meta)
		return
	}
	if strings.TrimSpace(req.ProviderName) == "" || strings.TrimSpace(req.BaseURL) == "" {
		BadRequest(w, "provider_name and base_url are required", meta)
		return
	}
	req.ProviderID = 0
	req.BaseURL = strings.TrimRight(req.BaseURL, "/")

	if err := h.store.CreateProvider(ctx, &req); err != nil {
		InternalError(w, err.Error(), meta)
		return
	}
	WriteJSON(w, http.StatusCreated, req)
}

// ListProviders handles GET /providers.
func (h *Handler) ListProviders(w http.ResponseWriter, r *http.Request) {
	meta := map[string]string{"request_id": requestID(r)}

	providers, err := h.store.ListProviders(r.Context())
	if err != nil {
		InternalError(w, err.Error(), meta)
		return
	}
	WriteJSON(w, http.StatusOK, providers)
}

type endpointRequest struct {
	ProviderID int64 `json:"provider_id"`
	models.EndpointSpec
}

// CreateEndpoint handles POST /endpoints for an existing provider.
func (h *Handler) CreateEndpoint(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	meta := map[string]string{"request_id": requestID(r)}

	var req endpointRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body", meta)
		return
	}
	if req.ProviderID <= 0 {
		BadRequest(w, "provider_id is required", meta)
		return
	}
	if err := req.EndpointSpec.Validate(); err != nil {
		BadRequest(w, err.Error(), meta)
		return
	}

	endpoint := req.EndpointSpec.Record(req.ProviderID)
	if err := h.store.CreateEndpoint(ctx, &endpoint); err != nil {
		if errors.Is(err, store.ErrProviderNotFound) {
			NotFound(w, "provider not found", meta)
			return
		}
		InternalError(w, err.Error(), meta)
		return
	}
	WriteJSON(w, http.StatusCreated, endpoint)
}

// DeleteProvider handles DELETE /delete-provider/{providerId}: endpoints
// first, then the provider.
func (h *Handler) DeleteProvider(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	meta := map[string]string{"request_id": requestID(r)}

	providerID, err := strconv.ParseInt(chi.URLParam(r, "providerId"), 10, 64)
	if err != nil || providerID <= 0 {
		BadRequest(w, "invalid provider id", meta)
		return
	}

	if err := h.store.DeleteProviderCascade(ctx, providerID); err != nil {
		if errors.Is(err, store.ErrProviderNotFound) {
			NotFound(w, "provider not found", meta)
			return
		}
		InternalError(w, err.Error(), meta)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"message": "provider deleted"})
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

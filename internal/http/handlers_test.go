package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/believe-gautam/travel-planner-api/internal/compare"
	ht "github.com/believe-gautam/travel-planner-api/internal/http"
	"github.com/believe-gautam/travel-planner-api/internal/models"
	"github.com/believe-gautam/travel-planner-api/internal/obs"
	"github.com/believe-gautam/travel-planner-api/internal/routes"
	"github.com/believe-gautam/travel-planner-api/internal/store"
)

// ------------------------ MOCKS ------------------------

type mockService struct {
	getFunc func(ctx context.Context, userID, endpointType string, lat, long float64) (*compare.Comparison, error)
}

func (m *mockService) GetComparisons(ctx context.Context, userID, endpointType string, lat, long float64) (*compare.Comparison, error) {
	return m.getFunc(ctx, userID, endpointType, lat, long)
}

type mockStore struct {
	createProviderFunc              func(ctx context.Context, provider *models.Provider) error
	createProviderWithEndpointsFunc func(ctx context.Context, provider *models.Provider, endpoints []models.Endpoint) error
	createEndpointFunc              func(ctx context.Context, endpoint *models.Endpoint) error
	listProvidersFunc               func(ctx context.Context) ([]models.Provider, error)
	deleteProviderFunc              func(ctx context.Context, providerID int64) error
}

func (m *mockStore) CreateProvider(ctx context.Context, provider *models.Provider) error {
	if m.createProviderFunc != nil {
		return m.createProviderFunc(ctx, provider)
	}
	return nil
}

func (m *mockStore) CreateProviderWithEndpoints(ctx context.Context, provider *models.Provider, endpoints []models.Endpoint) error {
	if m.createProviderWithEndpointsFunc != nil {
		return m.createProviderWithEndpointsFunc(ctx, provider, endpoints)
	}
	provider.ProviderID = 1
	for i := range endpoints {
		endpoints[i].ProviderID = 1
		endpoints[i].EndpointID = int64(i + 1)
	}
	return nil
}

func (m *mockStore) CreateEndpoint(ctx context.Context, endpoint *models.Endpoint) error {
	if m.createEndpointFunc != nil {
		return m.createEndpointFunc(ctx, endpoint)
	}
	return nil
}

func (m *mockStore) ListProviders(ctx context.Context) ([]models.Provider, error) {
	if m.listProvidersFunc != nil {
		return m.listProvidersFunc(ctx)
	}
	return nil, nil
}

func (m *mockStore) GetProvider(ctx context.Context, providerID int64) (*models.Provider, error) {
	return nil, store.ErrProviderNotFound
}

func (m *mockStore) ListActiveEndpointsByType(ctx context.Context, endpointType string) ([]models.Endpoint, error) {
	return nil, nil
}

func (m *mockStore) RecordEndpointError(ctx context.Context, endpointID int64, message string) error {
	return nil
}

func (m *mockStore) DeleteProviderCascade(ctx context.Context, providerID int64) error {
	if m.deleteProviderFunc != nil {
		return m.deleteProviderFunc(ctx, providerID)
	}
	return nil
}

type mockRateLimiter struct {
	allowFunc func(ip string) bool
}

func (m *mockRateLimiter) Allow(ip string) bool {
	if m.allowFunc != nil {
		return m.allowFunc(ip)
	}
	return true
}

// -------------------------------------------------------

func newRouterForTest(svc compare.ComparisonService, st store.Store, rl ht.RateLimiter) http.Handler {
	metrics := obs.NewMetrics(prometheus.NewRegistry())
	h := ht.NewHandler(svc, st, rl, metrics)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return routes.GetRoutes(h, metrics, logger, 5*time.Second)
}

func postJSON(t *testing.T, router http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	buf, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(buf))
	req.RemoteAddr = "1.2.3.4:1234"
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestComparePrices_Success(t *testing.T) {
	svc := &mockService{
		getFunc: func(ctx context.Context, userID, endpointType string, lat, long float64) (*compare.Comparison, error) {
			if userID != models.DefaultUserID {
				t.Fatalf("expected default user id, got %s", userID)
			}
			return &compare.Comparison{Cached: false, Data: []compare.Result{{"price": 42.0, "name": "Acme"}}}, nil
		},
	}
	router := newRouterForTest(svc, &mockStore{}, &mockRateLimiter{})

	w := postJSON(t, router, "/compare-prices", map[string]any{"Lat": 12.5, "Long": 70.1, "type": "hotels"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var res compare.Comparison
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if res.Cached || len(res.Data) != 1 {
		t.Fatalf("unexpected payload: %+v", res)
	}
}

func TestComparePrices_ValidationFailures(t *testing.T) {
	tests := []struct {
		name string
		body map[string]any
	}{
		{"MissingType", map[string]any{"Lat": 1.0, "Long": 2.0}},
		{"LatOutOfRange", map[string]any{"Lat": 91.0, "Long": 2.0, "type": "hotels"}},
		{"LongOutOfRange", map[string]any{"Lat": 1.0, "Long": 190.0, "type": "hotels"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockService{getFunc: func(ctx context.Context, userID, endpointType string, lat, long float64) (*compare.Comparison, error) {
				t.Fatal("service must not be called on validation failure")
				return nil, nil
			}}
			router := newRouterForTest(svc, &mockStore{}, &mockRateLimiter{})

			w := postJSON(t, router, "/compare-prices", tt.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", w.Code)
			}
		})
	}
}

func TestComparePrices_NoActiveEndpoints(t *testing.T) {
	svc := &mockService{
		getFunc: func(ctx context.Context, userID, endpointType string, lat, long float64) (*compare.Comparison, error) {
			return nil, compare.ErrNoActiveEndpoints
		},
	}
	router := newRouterForTest(svc, &mockStore{}, &mockRateLimiter{})

	w := postJSON(t, router, "/compare-prices", map[string]any{"Lat": 1.0, "Long": 2.0, "type": "ghost"})
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestComparePrices_RateLimited(t *testing.T) {
	svc := &mockService{getFunc: func(ctx context.Context, userID, endpointType string, lat, long float64) (*compare.Comparison, error) {
		t.Fatal("service must not be called when rate limited")
		return nil, nil
	}}
	rl := &mockRateLimiter{allowFunc: func(ip string) bool { return false }}
	router := newRouterForTest(svc, &mockStore{}, rl)

	w := postJSON(t, router, "/compare-prices", map[string]any{"Lat": 1.0, "Long": 2.0, "type": "hotels"})
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", w.Code)
	}
}

func TestComparePrices_ServiceFailure(t *testing.T) {
	svc := &mockService{
		getFunc: func(ctx context.Context, userID, endpointType string, lat, long float64) (*compare.Comparison, error) {
			return nil, errors.New("store unreachable")
		},
	}
	router := newRouterForTest(svc, &mockStore{}, &mockRateLimiter{})

	w := postJSON(t, router, "/compare-prices", map[string]any{"Lat": 1.0, "Long": 2.0, "type": "hotels"})
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
}

func TestConfigure_Success(t *testing.T) {
	router := newRouterForTest(&mockService{}, &mockStore{}, &mockRateLimiter{})

	w := postJSON(t, router, "/configure", map[string]any{
		"provider_name": "Acme",
		"base_url":      "https://api.acme.test",
		"auth_details":  map[string]any{"headers": map[string]string{"X-Api-Key": "k"}},
		"endpoints": []map[string]any{
			{"type": "hotels", "endpoint": "/hotels", "http_method": "POST"},
		},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var res struct {
		Provider  models.Provider   `json:"provider"`
		Endpoints []models.Endpoint `json:"endpoints"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if res.Provider.ProviderID == 0 || len(res.Endpoints) != 1 {
		t.Fatalf("unexpected payload: %+v", res)
	}
}

func TestConfigure_ValidationFailures(t *testing.T) {
	tests := []struct {
		name string
		body map[string]any
	}{
		{"NoEndpoints", map[string]any{"provider_name": "Acme", "base_url": "https://a.test", "endpoints": []map[string]any{}}},
		{"MissingName", map[string]any{"base_url": "https://a.test", "endpoints": []map[string]any{{"type": "hotels", "endpoint": "/h", "http_method": "POST"}}}},
		{"BadMethod", map[string]any{"provider_name": "Acme", "base_url": "https://a.test", "endpoints": []map[string]any{{"type": "hotels", "endpoint": "/h", "http_method": "FETCH"}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newRouterForTest(&mockService{}, &mockStore{}, &mockRateLimiter{})
			w := postJSON(t, router, "/configure", tt.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
			}
		})
	}
}

func TestDeleteProvider(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		storeErr error
		wantCode int
	}{
		{"Deleted", "/delete-provider/3", nil, http.StatusOK},
		{"NotFound", "/delete-provider/3", store.ErrProviderNotFound, http.StatusNotFound},
		{"BadID", "/delete-provider/abc", nil, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := &mockStore{deleteProviderFunc: func(ctx context.Context, providerID int64) error {
				return tt.storeErr
			}}
			router := newRouterForTest(&mockService{}, st, &mockRateLimiter{})

			req := httptest.NewRequest(http.MethodDelete, tt.path, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			if w.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d", tt.wantCode, w.Code)
			}
		})
	}
}

func TestCreateEndpoint_MissingProvider(t *testing.T) {
	st := &mockStore{createEndpointFunc: func(ctx context.Context, endpoint *models.Endpoint) error {
		return store.ErrProviderNotFound
	}}
	router := newRouterForTest(&mockService{}, st, &mockRateLimiter{})

	w := postJSON(t, router, "/endpoints", map[string]any{
		"provider_id": 42, "type": "hotels", "endpoint": "/h", "http_method": "POST",
	})
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestHealthz(t *testing.T) {
	router := newRouterForTest(&mockService{}, &mockStore{}, &mockRateLimiter{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

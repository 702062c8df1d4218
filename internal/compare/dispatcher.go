package compare

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/believe-gautam/travel-planner-api/internal/models"
	"github.com/believe-gautam/travel-planner-api/internal/obs"
)

// ErrNoActiveEndpoints is returned when a category has no configured
// providers; callers surface it as not-found, not as a server fault.
var ErrNoActiveEndpoints = errors.New("no active endpoints for type")

// Dispatcher fans out one outbound call per active endpoint and merges the
// normalized results. Individual endpoint failures never fail the batch.
type Dispatcher struct {
	store       ConfigStore
	client      *http.Client
	callTimeout time.Duration
	metrics     *obs.Metrics
	logger      *slog.Logger
}

func NewDispatcher(store ConfigStore, client *http.Client, callTimeout time.Duration, m *obs.Metrics, logger *slog.Logger) *Dispatcher {
	if client == nil {
		client = &http.Client{}
	}
	return &Dispatcher{store: store, client: client, callTimeout: callTimeout, metrics: m, logger: logger}
}

func (d *Dispatcher) Dispatch(ctx context.Context, endpointType string, params map[string]any) ([]Result, error) {
	endpoints, err := d.store.ListActiveEndpointsByType(ctx, endpointType)
	if err != nil {
		return nil, fmt.Errorf("list endpoints: %w", err)
	}
	if len(endpoints) == 0 {
		return nil, ErrNoActiveEndpoints
	}

	providers, err := d.store.ListProviders(ctx)
	if err != nil {
		return nil, fmt.Errorf("list providers: %w", err)
	}
	byID := make(map[int64]models.Provider, len(providers))
	for _, p := range providers {
		byID[p.ProviderID] = p
	}

	// scatter-gather: one goroutine per endpoint, results indexed by
	// endpoint position so output order matches iteration order
	results := make([]Result, len(endpoints))
	var wg sync.WaitGroup
	for i, ep := range endpoints {
		wg.Add(1)
		go func(i int, ep models.Endpoint) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					d.logger.Error("endpoint call panic recovered", "endpoint_id", ep.EndpointID, "panic", r)
					d.metrics.IncProviderFailure(fmt.Sprintf("endpoint-%d", ep.EndpointID))
				}
			}()

			provider, ok := byID[ep.ProviderID]
			if !ok {
				// orphaned endpoint: contributes nothing, batch goes on
				d.logger.Warn("endpoint references missing provider, skipping",
					"endpoint_id", ep.EndpointID, "provider_id", ep.ProviderID)
				return
			}

			res, err := d.call(ctx, provider, ep, params)
			if err != nil {
				d.metrics.IncProviderFailure(provider.ProviderName)
				d.recordEndpointError(ctx, ep.EndpointID, err)
				return
			}
			results[i] = res
		}(i, ep)
	}
	wg.Wait()

	merged := make([]Result, 0, len(results))
	for _, r := range results {
		if r != nil {
			merged = append(merged, r)
		}
	}
	return merged, nil
}

func (d *Dispatcher) call(ctx context.Context, provider models.Provider, ep models.Endpoint, params map[string]any) (Result, error) {
	body := params
	if len(ep.TestPayload) > 0 {
		body = ep.TestPayload
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode request body: %w", err)
	}

	cctx, cancel := context.WithTimeout(ctx, d.callTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(cctx, ep.HTTPMethod, provider.BaseURL+ep.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range provider.AuthDetails.Headers {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := d.client.Do(req)
	d.metrics.ObserveProviderLatency(provider.ProviderName, time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("provider returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var raw map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return MapResponse(raw, ep.ResponseMapping, provider.ProviderName), nil
}

// recordEndpointError writes last_error best-effort; a failed audit write
// must not abort the batch.
func (d *Dispatcher) recordEndpointError(ctx context.Context, endpointID int64, callErr error) {
	if err := d.store.RecordEndpointError(ctx, endpointID, callErr.Error()); err != nil {
		d.logger.Warn("failed to record endpoint error", "endpoint_id", endpointID, "err", err)
	}
}

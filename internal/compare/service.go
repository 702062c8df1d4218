package compare

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/believe-gautam/travel-planner-api/internal/cache"
	"github.com/believe-gautam/travel-planner-api/internal/obs"
)

// Service puts the cache in front of the dispatcher: hit -> cached payload,
// miss -> dispatch, store under the key, return fresh.
type Service struct {
	dispatcher DispatcherService
	cache      cache.Cache
	metrics    *obs.Metrics
	ttl        time.Duration
}

func NewService(d DispatcherService, c cache.Cache, m *obs.Metrics, ttl time.Duration) *Service {
	return &Service{
		dispatcher: d,
		cache:      c,
		metrics:    m,
		ttl:        ttl,
	}
}

// CacheKey is the cache identity of one aggregation; its textual form must
// stay stable across releases.
func CacheKey(userID, endpointType string, lat, long float64) string {
	return fmt.Sprintf("%s:%s:lat%s-long%s", userID, endpointType,
		strconv.FormatFloat(lat, 'f', -1, 64),
		strconv.FormatFloat(long, 'f', -1, 64))
}

func (s *Service) GetComparisons(ctx context.Context, userID, endpointType string, lat, long float64) (*Comparison, error) {
	s.metrics.IncCompareRequests()
	key := CacheKey(userID, endpointType, lat, long)

	buf, found, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("cache get: %w", err)
	}
	if found {
		var data []Result
		if err := json.Unmarshal(buf, &data); err == nil {
			s.metrics.IncCacheHits()
			return &Comparison{Cached: true, Data: data}, nil
		}
		// corrupt entry: recompute below
	}

	data, err := s.dispatcher.Dispatch(ctx, endpointType, map[string]any{"Lat": lat, "Long": long})
	if err != nil {
		// ErrNoActiveEndpoints propagates uncached
		return nil, err
	}
	if data == nil {
		data = []Result{}
	}

	encoded, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode cache value: %w", err)
	}
	if err := s.cache.Set(ctx, key, encoded, s.ttl); err != nil {
		return nil, fmt.Errorf("cache set: %w", err)
	}

	return &Comparison{Cached: false, Data: data}, nil
}

package compare

import (
	"context"

	"github.com/believe-gautam/travel-planner-api/internal/models"
)

// Result is one normalized provider record. Its fields are whatever the
// endpoint's response mapping declares, or the default {price, name} shape.
type Result map[string]any

// Comparison is the aggregation service's answer for one request.
type Comparison struct {
	Cached bool     `json:"cached"`
	Data   []Result `json:"data"`
}

// ConfigStore is the slice of the configuration store the dispatcher needs.
type ConfigStore interface {
	ListActiveEndpointsByType(ctx context.Context, endpointType string) ([]models.Endpoint, error)
	ListProviders(ctx context.Context) ([]models.Provider, error)
	RecordEndpointError(ctx context.Context, endpointID int64, message string) error
}

type DispatcherService interface {
	Dispatch(ctx context.Context, endpointType string, params map[string]any) ([]Result, error)
}

type ComparisonService interface {
	GetComparisons(ctx context.Context, userID, endpointType string, lat, long float64) (*Comparison, error)
}

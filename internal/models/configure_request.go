package models

import (
	"errors"
	"strings"

	"github.com/believe-gautam/travel-planner-api/internal/validator"
)

// EndpointSpec is one endpoint definition inside a /configure request.
type EndpointSpec struct {
	Type            string            `json:"type"`
	Endpoint        string            `json:"endpoint"`
	HTTPMethod      string            `json:"http_method"`
	Parameters      map[string]any    `json:"parameters,omitempty"`
	ResponseMapping map[string]string `json:"response_mapping,omitempty"`
	TestPayload     map[string]any    `json:"test_payload,omitempty"`
	Status          string            `json:"status,omitempty"`
	Priority        int               `json:"priority,omitempty"`
}

// Validate normalizes type and method and fills status/priority defaults.
func (e *EndpointSpec) Validate() error {
	var errs []string

	t, err := validator.ValidateType(e.Type)
	if err != nil {
		errs = append(errs, err.Error())
	} else {
		e.Type = t
	}

	if strings.TrimSpace(e.Endpoint) == "" {
		errs = append(errs, "endpoint path is required")
	}

	m, err := validator.ValidateHTTPMethod(e.HTTPMethod)
	if err != nil {
		errs = append(errs, err.Error())
	} else {
		e.HTTPMethod = m
	}

	if e.Status == "" {
		e.Status = EndpointStatusActive
	}
	if e.Priority == 0 {
		e.Priority = 1
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, ", "))
	}
	return nil
}

// Record builds the Endpoint row for the given provider id.
func (e *EndpointSpec) Record(providerID int64) Endpoint {
	return Endpoint{
		ProviderID:      providerID,
		Type:            e.Type,
		Endpoint:        e.Endpoint,
		HTTPMethod:      e.HTTPMethod,
		Parameters:      e.Parameters,
		ResponseMapping: e.ResponseMapping,
		TestPayload:     e.TestPayload,
		Status:          e.Status,
		Priority:        e.Priority,
	}
}

// ConfigureRequest is the body of POST /configure: one provider plus at
// least one endpoint, created together.
type ConfigureRequest struct {
	ProviderName string         `json:"provider_name"`
	APIKey       string         `json:"api_key,omitempty"`
	BaseURL      string         `json:"base_url"`
	AuthDetails  AuthDetails    `json:"auth_details"`
	RateLimit    int            `json:"rate_limit,omitempty"`
	Endpoints    []EndpointSpec `json:"endpoints"`
}

func (r *ConfigureRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.ProviderName) == "" {
		errs = append(errs, "provider_name is required")
	}
	if strings.TrimSpace(r.BaseURL) == "" {
		errs = append(errs, "base_url is required")
	}
	if len(r.Endpoints) == 0 {
		errs = append(errs, "at least one endpoint is required")
	}

	for i := range r.Endpoints {
		if err := r.Endpoints[i].Validate(); err != nil {
			errs = append(errs, err.Error())
		}
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, ", "))
	}
	return nil
}

// Provider builds the Provider record described by the request.
func (r *ConfigureRequest) Provider() Provider {
	return Provider{
		ProviderName: r.ProviderName,
		APIKey:       r.APIKey,
		BaseURL:      strings.TrimRight(r.BaseURL, "/"),
		AuthDetails:  r.AuthDetails,
		RateLimit:    r.RateLimit,
	}
}

// EndpointRecords builds the Endpoint rows for the given provider id.
func (r *ConfigureRequest) EndpointRecords(providerID int64) []Endpoint {
	out := make([]Endpoint, 0, len(r.Endpoints))
	for i := range r.Endpoints {
		out = append(out, r.Endpoints[i].Record(providerID))
	}
	return out
}

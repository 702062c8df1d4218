package models

import "time"

// AuthDetails carries the headers sent on every outbound call to a provider
// plus whatever extra auth metadata the provider registration supplied.
type AuthDetails struct {
	Headers map[string]string `json:"headers,omitempty"`
	Extra   map[string]any    `json:"extra,omitempty"`
}

// Provider is a third-party price source.
type Provider struct {
	ProviderID   int64       `gorm:"column:provider_id;primaryKey;autoIncrement" json:"provider_id"`
	ProviderName string      `gorm:"column:provider_name;not null" json:"provider_name"`
	APIKey       string      `gorm:"column:api_key" json:"api_key,omitempty"`
	BaseURL      string      `gorm:"column:base_url;not null" json:"base_url"`
	AuthDetails  AuthDetails `gorm:"column:auth_details;serializer:json" json:"auth_details"`
	RateLimit    int         `gorm:"column:rate_limit" json:"rate_limit,omitempty"`
	CreatedAt    time.Time   `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Provider) TableName() string { return "providers" }

// Endpoint statuses. Only active endpoints participate in aggregation.
const (
	EndpointStatusActive   = "active"
	EndpointStatusInactive = "inactive"
)

// Endpoint is one callable operation on a Provider, tagged with a category
// type (flight, car, hotels, activities, ...) and a response-mapping table.
type Endpoint struct {
	EndpointID      int64             `gorm:"column:endpoint_id;primaryKey;autoIncrement" json:"endpoint_id"`
	ProviderID      int64             `gorm:"column:provider_id;index" json:"provider_id"`
	Type            string            `gorm:"column:type;index" json:"type"`
	Endpoint        string            `gorm:"column:endpoint;not null" json:"endpoint"`
	HTTPMethod      string            `gorm:"column:http_method;not null" json:"http_method"`
	Parameters      map[string]any    `gorm:"column:parameters;serializer:json" json:"parameters,omitempty"`
	ResponseMapping map[string]string `gorm:"column:response_mapping;serializer:json" json:"response_mapping,omitempty"`
	TestPayload     map[string]any    `gorm:"column:test_payload;serializer:json" json:"test_payload,omitempty"`
	Status          string            `gorm:"column:status;default:active" json:"status"`
	Priority        int               `gorm:"column:priority;default:1" json:"priority"`
	LastError       string            `gorm:"column:last_error" json:"last_error,omitempty"`
}

func (Endpoint) TableName() string { return "endpoints" }

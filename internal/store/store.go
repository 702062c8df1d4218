package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/believe-gautam/travel-planner-api/internal/models"
)

var (
	ErrProviderNotFound = errors.New("provider not found")
	ErrEndpointNotFound = errors.New("endpoint not found")
)

// Store is the configuration store: provider/endpoint records and the
// best-effort last_error audit writes made by the dispatcher.
type Store interface {
	CreateProvider(ctx context.Context, provider *models.Provider) error
	CreateProviderWithEndpoints(ctx context.Context, provider *models.Provider, endpoints []models.Endpoint) error
	CreateEndpoint(ctx context.Context, endpoint *models.Endpoint) error
	ListProviders(ctx context.Context) ([]models.Provider, error)
	GetProvider(ctx context.Context, providerID int64) (*models.Provider, error)
	ListActiveEndpointsByType(ctx context.Context, endpointType string) ([]models.Endpoint, error)
	RecordEndpointError(ctx context.Context, endpointID int64, message string) error
	DeleteProviderCascade(ctx context.Context, providerID int64) error
}

type GormStore struct{ db *gorm.DB }

func New(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) CreateProvider(ctx context.Context, provider *models.Provider) error {
	return s.db.WithContext(ctx).Create(provider).Error
}

// CreateProviderWithEndpoints inserts the provider and its endpoints in one
// transaction; endpoint rows pick up the generated provider id.
func (s *GormStore) CreateProviderWithEndpoints(ctx context.Context, provider *models.Provider, endpoints []models.Endpoint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(provider).Error; err != nil {
			return err
		}
		for i := range endpoints {
			endpoints[i].ProviderID = provider.ProviderID
		}
		if len(endpoints) == 0 {
			return nil
		}
		return tx.Create(&endpoints).Error
	})
}

func (s *GormStore) CreateEndpoint(ctx context.Context, endpoint *models.Endpoint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var provider models.Provider
		if err := tx.First(&provider, "provider_id = ?", endpoint.ProviderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProviderNotFound
			}
			return err
		}
		return tx.Create(endpoint).Error
	})
}

func (s *GormStore) ListProviders(ctx context.Context) ([]models.Provider, error) {
	var providers []models.Provider
	err := s.db.WithContext(ctx).Order("provider_id asc").Find(&providers).Error
	if err != nil {
		return nil, err
	}
	return providers, nil
}

func (s *GormStore) GetProvider(ctx context.Context, providerID int64) (*models.Provider, error) {
	var provider models.Provider
	err := s.db.WithContext(ctx).First(&provider, "provider_id = ?", providerID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProviderNotFound
		}
		return nil, err
	}
	return &provider, nil
}

// ListActiveEndpointsByType returns active endpoints for a category in
// endpoint_id order, which fixes the dispatcher's result ordering.
func (s *GormStore) ListActiveEndpointsByType(ctx context.Context, endpointType string) ([]models.Endpoint, error) {
	var endpoints []models.Endpoint
	err := s.db.WithContext(ctx).
		Where("type = ? AND status = ?", endpointType, models.EndpointStatusActive).
		Order("endpoint_id asc").
		Find(&endpoints).Error
	if err != nil {
		return nil, err
	}
	return endpoints, nil
}

// RecordEndpointError stores diagnostic state only; last-writer-wins is fine.
func (s *GormStore) RecordEndpointError(ctx context.Context, endpointID int64, message string) error {
	res := s.db.WithContext(ctx).
		Model(&models.Endpoint{}).
		Where("endpoint_id = ?", endpointID).
		Update("last_error", message)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrEndpointNotFound
	}
	return nil
}

// DeleteProviderCascade removes the provider's endpoints, then the provider.
func (s *GormStore) DeleteProviderCascade(ctx context.Context, providerID int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("provider_id = ?", providerID).Delete(&models.Endpoint{}).Error; err != nil {
			return err
		}
		res := tx.Where("provider_id = ?", providerID).Delete(&models.Provider{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrProviderNotFound
		}
		return nil
	})
}

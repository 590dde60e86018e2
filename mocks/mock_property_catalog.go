package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"staybook/internal/domain"
)

// MockPropertyCatalog is a mock implementation of port.PropertyRepository.
type MockPropertyCatalog struct {
	mock.Mock
}

func (m *MockPropertyCatalog) ListProperties(ctx context.Context) ([]domain.Property, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Property), args.Error(1)
}

func (m *MockPropertyCatalog) GetProperty(ctx context.Context, id int64) (*domain.Property, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Property), args.Error(1)
}

func (m *MockPropertyCatalog) UpsertProperty(ctx context.Context, p *domain.Property) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

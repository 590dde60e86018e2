package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"staybook/internal/domain"
)

// MockReservationStore is a mock implementation of port.ReservationStore.
type MockReservationStore struct {
	mock.Mock
}

func (m *MockReservationStore) ListReservationsForProperty(ctx context.Context, propertyID int64) ([]domain.Reservation, error) {
	args := m.Called(ctx, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Reservation), args.Error(1)
}

func (m *MockReservationStore) CreateReservation(ctx context.Context, r *domain.Reservation) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"staybook/internal/port"
)

// MockBatchNotifier is a mock implementation of port.BatchNotifier.
type MockBatchNotifier struct {
	mock.Mock
}

func (m *MockBatchNotifier) NotifyBatchReview(ctx context.Context, notice port.BatchReviewNotice) error {
	args := m.Called(ctx, notice)
	return args.Error(0)
}

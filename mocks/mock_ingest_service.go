package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"staybook/internal/domain"
	"staybook/internal/service"
)

// MockIngestService is a mock implementation of service.IngestService.
type MockIngestService struct {
	mock.Mock
}

func (m *MockIngestService) CheckUpload(filename, contentType string, size int64) (domain.MediaType, error) {
	args := m.Called(filename, contentType, size)
	return args.Get(0).(domain.MediaType), args.Error(1)
}

func (m *MockIngestService) ProcessFile(ctx context.Context, doc domain.RawDocument) *service.FileOutcome {
	args := m.Called(ctx, doc)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*service.FileOutcome)
}

func (m *MockIngestService) ProcessBatch(ctx context.Context, docs []domain.RawDocument, opts service.BatchOptions) *domain.BatchResult {
	args := m.Called(ctx, docs, opts)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*domain.BatchResult)
}

func (m *MockIngestService) ConfirmCandidates(ctx context.Context, candidates []domain.CandidateReservation) (*domain.BatchResult, error) {
	args := m.Called(ctx, candidates)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BatchResult), args.Error(1)
}

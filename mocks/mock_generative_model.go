package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"staybook/internal/port"
)

// MockGenerativeModel is a mock implementation of port.GenerativeModel.
type MockGenerativeModel struct {
	mock.Mock
}

func (m *MockGenerativeModel) Generate(ctx context.Context, input port.GenerateInput) (*port.ModelOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.ModelOutput), args.Error(1)
}

func (m *MockGenerativeModel) Transcribe(ctx context.Context, input port.TranscribeInput) (*port.ModelOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.ModelOutput), args.Error(1)
}

func (m *MockGenerativeModel) Name() string {
	args := m.Called()
	return args.String(0)
}

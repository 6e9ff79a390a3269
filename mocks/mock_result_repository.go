package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"faxfhir/internal/domain"
	"faxfhir/internal/port"
)

// MockResultRepository is a mock implementation of port.ResultRepository.
type MockResultRepository struct {
	mock.Mock
}

func (m *MockResultRepository) Create(ctx context.Context, result *domain.ProcessingResult) error {
	args := m.Called(ctx, result)
	return args.Error(0)
}

func (m *MockResultRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.ProcessingResult, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProcessingResult), args.Error(1)
}

func (m *MockResultRepository) List(ctx context.Context, filter port.ResultFilter) ([]domain.ProcessingResult, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ProcessingResult), args.Error(1)
}

func (m *MockResultRepository) GetStats(ctx context.Context) (*domain.Stats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Stats), args.Error(1)
}

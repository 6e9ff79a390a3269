package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"faxfhir/internal/domain"
)

// MockStatsService is a testify mock for service.StatsService.
type MockStatsService struct {
	mock.Mock
}

func (m *MockStatsService) GetStats(ctx context.Context) (*domain.Stats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Stats), args.Error(1)
}

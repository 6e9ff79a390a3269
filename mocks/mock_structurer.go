package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"faxfhir/internal/port"
)

// MockStructurer is a mock implementation of port.Structurer.
type MockStructurer struct {
	mock.Mock
}

func (m *MockStructurer) Structure(ctx context.Context, text string) (*port.StructureOutput, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.StructureOutput), args.Error(1)
}

func (m *MockStructurer) Name() string {
	args := m.Called()
	return args.String(0)
}

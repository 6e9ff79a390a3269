package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockOCRClient is a mock implementation of port.OCRClient.
type MockOCRClient struct {
	mock.Mock
}

func (m *MockOCRClient) RequestTextDetection(ctx context.Context, inputURI, outputURI string) error {
	args := m.Called(ctx, inputURI, outputURI)
	return args.Error(0)
}

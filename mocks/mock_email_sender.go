package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"faxfhir/internal/port"
)

// MockEmailSender is a mock implementation of port.EmailSender.
type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) SendReviewNotification(ctx context.Context, to string, n port.ReviewNotification) error {
	args := m.Called(ctx, to, n)
	return args.Error(0)
}

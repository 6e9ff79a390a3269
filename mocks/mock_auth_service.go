package mocks

import (
	"github.com/stretchr/testify/mock"

	"faxfhir/internal/domain"
	"faxfhir/internal/service"
)

// MockAuthService is a testify mock for service.AuthService.
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Authenticate(apiKey string) (*domain.APIClient, error) {
	args := m.Called(apiKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.APIClient), args.Error(1)
}

func (m *MockAuthService) IssueToken(client *domain.APIClient) (*service.Token, error) {
	args := m.Called(client)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Token), args.Error(1)
}

func (m *MockAuthService) ValidateToken(tokenString string) (*service.Claims, error) {
	args := m.Called(tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Claims), args.Error(1)
}

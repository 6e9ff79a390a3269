package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"faxfhir/internal/domain"
	"faxfhir/internal/middleware"
	"faxfhir/internal/service"
	"faxfhir/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func runProtected(t *testing.T, authSvc service.AuthService, setHeaders func(*http.Request)) (*httptest.ResponseRecorder, *domain.APIClient) {
	t.Helper()

	var captured *domain.APIClient
	r := gin.New()
	r.Use(middleware.AuthMiddleware(authSvc))
	r.GET("/protected", func(c *gin.Context) {
		client, err := middleware.GetClient(c)
		assert.NoError(t, err)
		captured = client
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/protected", http.NoBody)
	setHeaders(req)
	r.ServeHTTP(w, req)
	return w, captured
}

func TestAuthMiddleware_BearerToken(t *testing.T) {
	mockSvc := new(mocks.MockAuthService)
	claims := &service.Claims{ClientName: "dayton", StoreData: true}
	mockSvc.On("ValidateToken", "good.jwt").Return(claims, nil)

	w, client := runProtected(t, mockSvc, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer good.jwt")
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "dayton", client.Name)
	assert.True(t, client.StoreData)
	mockSvc.AssertExpectations(t)
}

func TestAuthMiddleware_InvalidBearerToken(t *testing.T) {
	mockSvc := new(mocks.MockAuthService)
	mockSvc.On("ValidateToken", "bad.jwt").Return(nil, domain.ErrUnauthorized)

	w, _ := runProtected(t, mockSvc, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer bad.jwt")
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "UNAUTHORIZED")
}

func TestAuthMiddleware_APIKey(t *testing.T) {
	mockSvc := new(mocks.MockAuthService)
	mockSvc.On("Authenticate", "key-1234").Return(&domain.APIClient{Name: "internal", StoreData: false}, nil)

	w, client := runProtected(t, mockSvc, func(req *http.Request) {
		req.Header.Set("X-API-Key", "key-1234")
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "internal", client.Name)
	assert.False(t, client.StoreData)
	mockSvc.AssertExpectations(t)
}

func TestAuthMiddleware_InvalidAPIKey(t *testing.T) {
	mockSvc := new(mocks.MockAuthService)
	mockSvc.On("Authenticate", "bogus").Return(nil, domain.ErrInvalidAPIKey)

	w, _ := runProtected(t, mockSvc, func(req *http.Request) {
		req.Header.Set("X-API-Key", "bogus")
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_MissingCredentials(t *testing.T) {
	mockSvc := new(mocks.MockAuthService)

	w, _ := runProtected(t, mockSvc, func(req *http.Request) {})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	mockSvc.AssertNotCalled(t, "Authenticate", "")
	mockSvc.AssertNotCalled(t, "ValidateToken", "")
}

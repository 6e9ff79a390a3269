package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"faxfhir/internal/domain"
	"faxfhir/internal/handler"
	"faxfhir/internal/service"
	"faxfhir/mocks"
)

func TestAuthHandler_Token_Success(t *testing.T) {
	mockSvc := new(mocks.MockAuthService)
	h := handler.NewAuthHandler(mockSvc)

	client := &domain.APIClient{Name: "dayton", StoreData: true}
	token := &service.Token{AccessToken: "signed.jwt.token", ExpiresAt: time.Now().Add(time.Hour)}
	mockSvc.On("Authenticate", "key-1234").Return(client, nil)
	mockSvc.On("IssueToken", client).Return(token, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/auth/token", http.NoBody)
	c.Request.Header.Set("X-API-Key", "key-1234")

	h.Token(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp handler.APIResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "signed.jwt.token", data["access_token"])
	mockSvc.AssertExpectations(t)
}

func TestAuthHandler_Token_MissingKey(t *testing.T) {
	mockSvc := new(mocks.MockAuthService)
	h := handler.NewAuthHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/auth/token", http.NoBody)

	h.Token(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	mockSvc.AssertNotCalled(t, "Authenticate", "")
}

func TestAuthHandler_Token_InvalidKey(t *testing.T) {
	mockSvc := new(mocks.MockAuthService)
	h := handler.NewAuthHandler(mockSvc)

	mockSvc.On("Authenticate", "bogus").Return(nil, domain.ErrInvalidAPIKey)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/auth/token", http.NoBody)
	c.Request.Header.Set("X-API-Key", "bogus")

	h.Token(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var resp handler.APIResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "INVALID_API_KEY", resp.Error.Code)
}

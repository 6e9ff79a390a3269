package handler_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"faxfhir/internal/domain"
	"faxfhir/internal/handler"
	"faxfhir/internal/middleware"
	"faxfhir/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setAuthContext(c *gin.Context, name string, storeData bool) {
	c.Set(middleware.ContextKeyClientName, name)
	c.Set(middleware.ContextKeyStoreData, storeData)
}

func TestStatsHandler_Get_Success(t *testing.T) {
	mockSvc := new(mocks.MockStatsService)
	h := handler.NewStatsHandler(mockSvc)

	expected := &domain.Stats{
		TotalProcessed:   42,
		HighConfidence:   30,
		MediumConfidence: 8,
		LowConfidence:    4,
		NeedsReview:      6,
		Succeeded:        40,
		AvgProcessingMs:  1850,
		SuccessRate:      95.2,
		ErrorRate:        4.8,
	}
	mockSvc.On("GetStats", mock.Anything).Return(expected, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/stats", http.NoBody)
	setAuthContext(c, "dayton", false)

	h.Get(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp handler.APIResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, float64(42), data["totalProcessed"])
	assert.Equal(t, 95.2, data["successRate"])
	mockSvc.AssertExpectations(t)
}

func TestStatsHandler_Get_MissingAuthContext(t *testing.T) {
	mockSvc := new(mocks.MockStatsService)
	h := handler.NewStatsHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/stats", http.NoBody)

	h.Get(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	mockSvc.AssertNotCalled(t, "GetStats", mock.Anything)
}

func TestStatsHandler_Get_ServiceError(t *testing.T) {
	mockSvc := new(mocks.MockStatsService)
	h := handler.NewStatsHandler(mockSvc)

	mockSvc.On("GetStats", mock.Anything).Return(nil, errors.New("db down"))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/stats", http.NoBody)
	setAuthContext(c, "dayton", false)

	h.Get(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var resp handler.APIResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "INTERNAL_ERROR", resp.Error.Code)
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"faxfhir/internal/service"
)

// AuthHandler handles token exchange endpoints.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Token handles POST /api/v1/auth/token
// @Summary Exchange an API key for a short-lived access token
// @Description Authenticates the X-API-Key header and issues a JWT
// @Tags auth
// @Produce json
// @Success 200 {object} APIResponse{data=service.Token} "Token issued"
// @Failure 401 {object} APIResponse "Invalid API key"
// @Router /auth/token [post]
func (h *AuthHandler) Token(c *gin.Context) {
	apiKey := c.GetHeader("X-API-Key")
	if apiKey == "" {
		RespondError(c, http.StatusUnauthorized, "INVALID_API_KEY", "X-API-Key header is required")
		return
	}

	client, err := h.authService.Authenticate(apiKey)
	if err != nil {
		HandleError(c, err)
		return
	}

	token, err := h.authService.IssueToken(client)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, token)
}

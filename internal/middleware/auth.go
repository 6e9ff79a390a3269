package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"faxfhir/internal/domain"
	"faxfhir/internal/service"
)

const (
	ContextKeyClientName = "client_name"
	ContextKeyStoreData  = "store_data"
	ContextKeyClaims     = "claims"
)

// AuthMiddleware returns Gin middleware that authenticates the caller either
// by a Bearer JWT (obtained from /auth/token) or directly by X-API-Key, and
// injects the resolved client into the request context.
func AuthMiddleware(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if strings.HasPrefix(authHeader, "Bearer ") {
			token := strings.TrimPrefix(authHeader, "Bearer ")
			claims, err := authService.ValidateToken(token)
			if err != nil {
				abortUnauthorized(c, "invalid or expired token")
				return
			}
			c.Set(ContextKeyClientName, claims.ClientName)
			c.Set(ContextKeyStoreData, claims.StoreData)
			c.Set(ContextKeyClaims, claims)
			c.Next()
			return
		}

		apiKey := c.GetHeader("X-API-Key")
		if apiKey == "" {
			abortUnauthorized(c, "missing authorization header or api key")
			return
		}
		client, err := authService.Authenticate(apiKey)
		if err != nil {
			abortUnauthorized(c, "invalid api key")
			return
		}
		c.Set(ContextKeyClientName, client.Name)
		c.Set(ContextKeyStoreData, client.StoreData)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error":   gin.H{"code": "UNAUTHORIZED", "message": msg},
	})
}

// GetClient extracts the authenticated API client from the Gin context.
func GetClient(c *gin.Context) (*domain.APIClient, error) {
	name, exists := c.Get(ContextKeyClientName)
	if !exists {
		return nil, domain.ErrUnauthorized
	}
	storeData, _ := c.Get(ContextKeyStoreData)
	sd, _ := storeData.(bool)
	return &domain.APIClient{Name: name.(string), StoreData: sd}, nil
}

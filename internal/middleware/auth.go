package middleware

import (
	"crypto/subtle"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"linkly-be/internal/service"
)

// TokenIDKey is the gin context key under which the authenticated token id
// is stored. Controllers read it and pass it explicitly into services.
const TokenIDKey = "token_id"

// APIKeyAuth authenticates requests by the X-Api-Key header, which carries
// an "{id}.{secret}" token.
func APIKeyAuth(tokens service.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader("X-Api-Key")
		if key == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Missing API key",
			})
			return
		}

		tokenID, err := tokens.Verify(c.Request.Context(), key)
		if err != nil {
			if errors.Is(err, service.ErrInvalidToken) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"error": "Invalid API key",
				})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error": "Authentication failed",
			})
			return
		}

		c.Set(TokenIDKey, tokenID)
		c.Next()
	}
}

// AdminAuth guards token administration endpoints with the shared admin
// secret, presented in the X-Admin-Secret header.
func AdminAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		presented := c.GetHeader("X-Admin-Secret")
		if subtle.ConstantTimeCompare([]byte(presented), []byte(secret)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid admin secret",
			})
			return
		}
		c.Next()
	}
}

package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"linkly-be/internal/models"
	"linkly-be/internal/service"
)

type TokenController struct {
	tokens service.TokenService
}

func NewTokenController(tokens service.TokenService) *TokenController {
	return &TokenController{tokens: tokens}
}

// GenerateToken handles POST /api/v1/token (admin only)
func (tc *TokenController) GenerateToken(c *gin.Context) {
	token, err := tc.tokens.Generate(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusCreated, models.NewTokenResponse{Token: token})
}

// RevokeToken handles DELETE /api/v1/token/:id (admin only)
func (tc *TokenController) RevokeToken(c *gin.Context) {
	err := tc.tokens.Revoke(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrTokenNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Token not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to revoke token"})
		return
	}

	c.Status(http.StatusNoContent)
}

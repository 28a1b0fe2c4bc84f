package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	qrcode "github.com/skip2/go-qrcode"

	"linkly-be/internal/middleware"
	"linkly-be/internal/service"
)

type QRCodeController struct {
	links   service.LinkService
	baseURL string
}

func NewQRCodeController(links service.LinkService, baseURL string) *QRCodeController {
	return &QRCodeController{links: links, baseURL: baseURL}
}

// GenerateQRCode handles GET /api/v1/url/:id/qrcode - returns a PNG QR code
// pointing at the short URL. Owner-scoped like the other link endpoints.
func (qc *QRCodeController) GenerateQRCode(c *gin.Context) {
	link, err := qc.links.Get(c.Request.Context(), c.Param("id"), c.GetString(middleware.TokenIDKey))
	if err != nil {
		if errors.Is(err, service.ErrLinkNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Link not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get link"})
		return
	}

	shortURL := fmt.Sprintf("%s/%s", qc.baseURL, link.ShortCode)
	png, err := qrcode.Encode(shortURL, qrcode.Medium, 256)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate QR code"})
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}

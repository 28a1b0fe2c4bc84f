package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"linkly-be/internal/entities"
	"linkly-be/internal/middleware"
	"linkly-be/internal/models"
	"linkly-be/internal/service"
)

type LinkController struct {
	links     service.LinkService
	redirects service.RedirectService
	baseURL   string
}

func NewLinkController(links service.LinkService, redirects service.RedirectService, baseURL string) *LinkController {
	return &LinkController{
		links:     links,
		redirects: redirects,
		baseURL:   baseURL,
	}
}

func (lc *LinkController) toResponse(link *entities.Link) *models.LinkResponse {
	return &models.LinkResponse{
		ShortCode:   link.ShortCode,
		ShortURL:    fmt.Sprintf("%s/%s", lc.baseURL, link.ShortCode),
		Redirect:    link.Redirect,
		Title:       link.Title,
		Description: link.Description,
		ClickCount:  link.ClickCount,
		CreatedAt:   link.CreatedAt,
		UpdatedAt:   link.UpdatedAt,
	}
}

// CreateLink handles POST /api/v1/url
func (lc *LinkController) CreateLink(c *gin.Context) {
	var req models.CreateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	link, err := lc.links.Create(c.Request.Context(), &req, c.GetString(middleware.TokenIDKey))
	if err != nil {
		if errors.Is(err, service.ErrUnsafeRedirect) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create short link"})
		return
	}

	c.JSON(http.StatusCreated, lc.toResponse(link))
}

// ListLinks handles GET /api/v1/url
func (lc *LinkController) ListLinks(c *gin.Context) {
	var query models.ListLinksQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid query parameters",
			"details": err.Error(),
		})
		return
	}

	page, err := lc.links.List(c.Request.Context(), service.ListParams{
		Page:   query.Page,
		Limit:  query.Limit,
		Filter: query.Filter,
	}, c.GetString(middleware.TokenIDKey))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list links"})
		return
	}

	data := make([]*models.LinkResponse, len(page.Data))
	for i, link := range page.Data {
		data[i] = lc.toResponse(link)
	}

	c.JSON(http.StatusOK, models.ListLinksResponse{Data: data, Meta: page.Meta})
}

// GetLink handles GET /api/v1/url/:id
func (lc *LinkController) GetLink(c *gin.Context) {
	link, err := lc.links.Get(c.Request.Context(), c.Param("id"), c.GetString(middleware.TokenIDKey))
	if err != nil {
		if errors.Is(err, service.ErrLinkNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Link not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get link"})
		return
	}

	c.JSON(http.StatusOK, lc.toResponse(link))
}

// UpdateLink handles PATCH /api/v1/url/:id
func (lc *LinkController) UpdateLink(c *gin.Context) {
	var req models.UpdateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	link, err := lc.links.Update(c.Request.Context(), c.Param("id"), &req, c.GetString(middleware.TokenIDKey))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnsafeRedirect):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrLinkNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Link not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update link"})
		}
		return
	}

	c.JSON(http.StatusOK, lc.toResponse(link))
}

// DeleteLink handles DELETE /api/v1/url/:id
func (lc *LinkController) DeleteLink(c *gin.Context) {
	err := lc.links.Delete(c.Request.Context(), c.Param("id"), c.GetString(middleware.TokenIDKey))
	if err != nil {
		if errors.Is(err, service.ErrLinkNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Link not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete link"})
		return
	}

	c.Status(http.StatusNoContent)
}

// Redirect handles GET /:id - the public redirect endpoint
func (lc *LinkController) Redirect(c *gin.Context) {
	target, err := lc.redirects.Resolve(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrLinkNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Short link not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve short link"})
		return
	}

	// 302 so clients keep coming back through the service and clicks
	// keep being counted.
	c.Redirect(http.StatusFound, target)
}

package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"rentmap/internal/models"
	"rentmap/internal/service"
	"rentmap/internal/upstream"
)

// ListingsHandler serves the browse, detail and submit screens.
type ListingsHandler struct {
	service ListingProvider
}

// ListingProvider interface for dependency injection.
type ListingProvider interface {
	Search(ctx context.Context, query string) ([]models.Listing, error)
	Get(ctx context.Context, id int64) (*models.Listing, error)
	Create(ctx context.Context, draft models.ListingDraft) (*models.Listing, error)
}

// NewListingsHandler creates a new listings handler.
func NewListingsHandler(svc ListingProvider) *ListingsHandler {
	return &ListingsHandler{service: svc}
}

// List handles GET /listings requests, with optional ?q= filtering.
func (h *ListingsHandler) List(c *gin.Context) {
	listings, err := h.service.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to load listings"})
		return
	}
	c.JSON(http.StatusOK, listings)
}

// Get handles GET /listings/:id requests.
func (h *ListingsHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid listing id"})
		return
	}

	listing, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		writeUpstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, listing)
}

// Create handles POST /listings requests.
func (h *ListingsHandler) Create(c *gin.Context) {
	var draft models.ListingDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed listing"})
		return
	}

	created, err := h.service.Create(c.Request.Context(), draft)
	if err != nil {
		if errors.Is(err, service.ErrMissingFields) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "title, location and nightly price are required"})
			return
		}
		writeUpstreamError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// writeUpstreamError relays backend validation errors with their original
// status and message, and hides everything else behind a 502.
func writeUpstreamError(c *gin.Context, err error) {
	var apiErr *upstream.APIError
	if errors.As(err, &apiErr) && apiErr.Status >= 400 && apiErr.Status < 500 {
		message := apiErr.Message
		if message == "" {
			message = http.StatusText(apiErr.Status)
		}
		c.JSON(apiErr.Status, gin.H{"error": message})
		return
	}
	c.JSON(http.StatusBadGateway, gin.H{"error": "upstream request failed"})
}

package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"rentmap/internal/models"
	"rentmap/internal/service"
)

// MapHandler serves the map view's grouped markers.
type MapHandler struct {
	service MapService
}

// MapService interface for dependency injection.
type MapService interface {
	MapGroups(ctx context.Context) (map[string]models.ListingGroup, error)
}

// NewMapHandler creates a new map handler.
func NewMapHandler(svc MapService) *MapHandler {
	return &MapHandler{service: svc}
}

// Groups handles GET /map/groups requests.
func (h *MapHandler) Groups(c *gin.Context) {
	groups, err := h.service.MapGroups(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to load listings"})
		return
	}
	c.JSON(http.StatusOK, groups)
}

// MarkerAction handles GET /map/groups/:key/action requests: what tapping
// the marker for that group should do.
func (h *MapHandler) MarkerAction(c *gin.Context) {
	key := c.Param("key")

	groups, err := h.service.MapGroups(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to load listings"})
		return
	}

	group, ok := groups[key]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no group at this marker"})
		return
	}
	c.JSON(http.StatusOK, service.SelectMarkerAction(group))
}

package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"rentmap/internal/service"
)

// ReservationsHandler serves the reservations screen.
type ReservationsHandler struct {
	service ReservationProvider
}

// ReservationProvider interface for dependency injection.
type ReservationProvider interface {
	Overview(ctx context.Context) (*service.ReservationBuckets, error)
}

// NewReservationsHandler creates a new reservations handler.
func NewReservationsHandler(svc ReservationProvider) *ReservationsHandler {
	return &ReservationsHandler{service: svc}
}

// Overview handles GET /reservations requests: the user's reservations
// bucketed into upcoming, in-progress and past stays.
func (h *ReservationsHandler) Overview(c *gin.Context) {
	buckets, err := h.service.Overview(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to load reservations"})
		return
	}
	c.JSON(http.StatusOK, buckets)
}

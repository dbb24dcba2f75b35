package service

import (
	"context"
	"fmt"
	"time"

	"rentmap/internal/models"
)

// ReservationAPI is the slice of the upstream client the reservations screen uses.
type ReservationAPI interface {
	UserReservations(ctx context.Context) ([]models.Reservation, error)
}

// ReservationBuckets splits the user's reservations by where they sit
// relative to now. API order is preserved within each bucket.
type ReservationBuckets struct {
	Upcoming   []models.Reservation `json:"upcoming"`
	InProgress []models.Reservation `json:"inProgress"`
	Past       []models.Reservation `json:"past"`
}

// ReservationService backs the reservations screen.
type ReservationService struct {
	api ReservationAPI
	now func() time.Time
}

// NewReservationService creates a new reservation service.
func NewReservationService(api ReservationAPI) *ReservationService {
	return &ReservationService{api: api, now: time.Now}
}

// Overview fetches the user's reservations and buckets them into upcoming,
// in-progress and past stays.
func (s *ReservationService) Overview(ctx context.Context) (*ReservationBuckets, error) {
	reservations, err := s.api.UserReservations(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: fetch reservations: %w", err)
	}

	now := s.now()
	buckets := &ReservationBuckets{}
	for _, res := range reservations {
		switch {
		case now.Before(res.StartDate):
			buckets.Upcoming = append(buckets.Upcoming, res)
		case !now.After(res.EndDate):
			buckets.InProgress = append(buckets.InProgress, res)
		default:
			buckets.Past = append(buckets.Past, res)
		}
	}
	return buckets, nil
}

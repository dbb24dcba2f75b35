package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"rentmap/internal/models"
)

// ErrMissingFields is returned by Create when the required draft fields are
// blank; nothing is sent upstream in that case.
var ErrMissingFields = errors.New("service: title, location and nightly price are required")

// ListingCatalog is the slice of the upstream client the listing screens use.
type ListingCatalog interface {
	ListListings(ctx context.Context) ([]models.Listing, error)
	GetListing(ctx context.Context, id int64) (*models.Listing, error)
	CreateListing(ctx context.Context, draft models.ListingDraft) (*models.Listing, error)
}

// ListingService backs the browse, detail and submit screens.
type ListingService struct {
	api ListingCatalog
}

// NewListingService creates a new listing service.
func NewListingService(api ListingCatalog) *ListingService {
	return &ListingService{api: api}
}

// Search fetches all listings and filters them by a case-insensitive
// substring match against title and location. A blank query matches all.
func (s *ListingService) Search(ctx context.Context, query string) ([]models.Listing, error) {
	listings, err := s.api.ListListings(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: fetch listings: %w", err)
	}

	query = strings.TrimSpace(strings.ToLower(query))
	if query == "" {
		return listings, nil
	}

	matched := make([]models.Listing, 0, len(listings))
	for _, l := range listings {
		if strings.Contains(strings.ToLower(l.Title), query) ||
			strings.Contains(strings.ToLower(l.Location), query) {
			matched = append(matched, l)
		}
	}
	return matched, nil
}

// Get returns one listing by id.
func (s *ListingService) Get(ctx context.Context, id int64) (*models.Listing, error) {
	listing, err := s.api.GetListing(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service: fetch listing %d: %w", id, err)
	}
	return listing, nil
}

// Create submits a new listing. Title, location and a positive nightly price
// are required before anything is sent; everything else the server validates.
func (s *ListingService) Create(ctx context.Context, draft models.ListingDraft) (*models.Listing, error) {
	if draft.Title == "" || draft.Location == "" || draft.PricePerNight <= 0 {
		return nil, ErrMissingFields
	}

	listing, err := s.api.CreateListing(ctx, draft)
	if err != nil {
		return nil, fmt.Errorf("service: create listing: %w", err)
	}
	return listing, nil
}

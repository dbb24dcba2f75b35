package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"rentmap/internal/models"
)

// CoordinateResolver turns a free-text location into a coordinate. The second
// return value is false when the location cannot be placed.
type CoordinateResolver interface {
	Resolve(ctx context.Context, locationKey string) (models.Coordinate, bool, error)
}

// ListingAPI is the slice of the upstream client the map engine needs.
type ListingAPI interface {
	ListListings(ctx context.Context) ([]models.Listing, error)
}

// EmitFunc receives a group every time a listing is added to it, keyed by the
// group's rounding key. Callers use it to render partial results while the
// rest of the list is still resolving.
type EmitFunc func(key string, group models.ListingGroup)

// GroupService builds map marker groups out of flat listing lists.
type GroupService struct {
	api      ListingAPI
	resolver CoordinateResolver
	log      zerolog.Logger
}

// NewGroupService creates a new group service.
func NewGroupService(api ListingAPI, resolver CoordinateResolver) *GroupService {
	return &GroupService{
		api:      api,
		resolver: resolver,
		log:      log.With().Str("component", "grouping").Logger(),
	}
}

// MapGroups fetches all listings from the upstream API and groups them.
func (s *GroupService) MapGroups(ctx context.Context) (map[string]models.ListingGroup, error) {
	listings, err := s.api.ListListings(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: fetch listings: %w", err)
	}
	return s.BuildGroups(ctx, listings, nil), nil
}

// BuildGroups resolves each listing to a coordinate and clusters listings by
// rounded coordinate, in input order. Listings with explicit coordinates use
// them directly; the rest go through the resolver, keyed by their location
// string. Unplaceable listings are dropped, which is the intended best-effort
// policy for the map view, not an error.
//
// Processing is sequential and incremental: when emit is non-nil it is called
// with the updated group after every successful placement. Cancelling ctx
// stops processing silently and returns whatever was grouped so far, so a
// torn-down view never receives late mutations.
func (s *GroupService) BuildGroups(ctx context.Context, listings []models.Listing, emit EmitFunc) map[string]models.ListingGroup {
	groups := make(map[string]models.ListingGroup)

	for _, listing := range listings {
		if ctx.Err() != nil {
			return groups
		}

		coord, ok := s.place(ctx, listing)
		if !ok {
			continue
		}

		rounded := coord.Rounded()
		key := rounded.RoundingKey()

		group, exists := groups[key]
		if !exists {
			group = models.ListingGroup{Coordinate: rounded}
		}
		group.Listings = append(group.Listings, listing)

		if ctx.Err() != nil {
			return groups
		}
		groups[key] = group
		if emit != nil {
			emit(key, group)
		}
	}

	return groups
}

func (s *GroupService) place(ctx context.Context, listing models.Listing) (models.Coordinate, bool) {
	if listing.HasCoordinates() {
		return listing.Coordinate(), true
	}

	coord, found, err := s.resolver.Resolve(ctx, listing.Location)
	if err != nil {
		s.log.Debug().Err(err).Int64("listing", listing.ID).Msg("listing dropped from map")
		return models.Coordinate{}, false
	}
	return coord, found
}

// MarkerActionKind tells the caller what tapping a marker should do.
type MarkerActionKind string

const (
	// ActionNavigate opens the single listing's detail view.
	ActionNavigate MarkerActionKind = "navigate"
	// ActionPresentList shows the group's members for the user to pick one.
	ActionPresentList MarkerActionKind = "present"
)

// MarkerAction is the decision for a tapped marker.
type MarkerAction struct {
	Kind      MarkerActionKind `json:"action"`
	ListingID int64            `json:"listingId,omitempty"`
	Listings  []models.Listing `json:"listings,omitempty"`
}

// SelectMarkerAction decides what a tap on the group's marker does. It is
// pure; an empty group yields a zero action.
func SelectMarkerAction(group models.ListingGroup) MarkerAction {
	switch len(group.Listings) {
	case 0:
		return MarkerAction{}
	case 1:
		return MarkerAction{Kind: ActionNavigate, ListingID: group.Listings[0].ID}
	default:
		return MarkerAction{Kind: ActionPresentList, Listings: group.Listings}
	}
}

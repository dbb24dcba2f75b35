package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"rentmap/internal/models"
)

// MockResolver is a mock implementation of the CoordinateResolver interface
type MockResolver struct {
	mock.Mock
}

func (m *MockResolver) Resolve(ctx context.Context, locationKey string) (models.Coordinate, bool, error) {
	args := m.Called(ctx, locationKey)
	return args.Get(0).(models.Coordinate), args.Bool(1), args.Error(2)
}

// MockListingAPI is a mock implementation of the ListingAPI interface
type MockListingAPI struct {
	mock.Mock
}

func (m *MockListingAPI) ListListings(ctx context.Context) ([]models.Listing, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Listing), args.Error(1)
}

func ptr(v float64) *float64 { return &v }

func TestGroupService_BuildGroups(t *testing.T) {
	paris := models.Coordinate{Latitude: 48.8566, Longitude: 2.3522}
	lyon := models.Coordinate{Latitude: 45.764, Longitude: 4.8357}

	t.Run("geocoded and explicit listings share a group", func(t *testing.T) {
		mockResolver := new(MockResolver)
		mockResolver.On("Resolve", mock.Anything, "Paris").Return(paris, true, nil)

		listings := []models.Listing{
			{ID: 1, Location: "Paris"},
			{ID: 2, Latitude: ptr(48.8566), Longitude: ptr(2.3522)},
		}

		service := NewGroupService(nil, mockResolver)
		groups := service.BuildGroups(context.Background(), listings, nil)

		require.Len(t, groups, 1)
		group := groups["48.8566-2.3522"]
		assert.Equal(t, paris, group.Coordinate)
		require.Len(t, group.Listings, 2)
		assert.Equal(t, int64(1), group.Listings[0].ID)
		assert.Equal(t, int64(2), group.Listings[1].ID)
	})

	t.Run("explicit coordinates skip the resolver", func(t *testing.T) {
		mockResolver := new(MockResolver)

		listings := []models.Listing{
			{ID: 1, Location: "Paris", Latitude: ptr(48.8566), Longitude: ptr(2.3522)},
		}

		service := NewGroupService(nil, mockResolver)
		groups := service.BuildGroups(context.Background(), listings, nil)

		assert.Len(t, groups, 1)
		mockResolver.AssertNotCalled(t, "Resolve")
	})

	t.Run("nearby coordinates cluster on the rounding key", func(t *testing.T) {
		listings := []models.Listing{
			{ID: 1, Latitude: ptr(48.85661), Longitude: ptr(2.35218)},
			{ID: 2, Latitude: ptr(48.85663), Longitude: ptr(2.35222)},
		}

		service := NewGroupService(nil, new(MockResolver))
		groups := service.BuildGroups(context.Background(), listings, nil)

		require.Len(t, groups, 1)
		group := groups["48.8566-2.3522"]
		assert.Equal(t, models.Coordinate{Latitude: 48.8566, Longitude: 2.3522}, group.Coordinate)
		assert.Len(t, group.Listings, 2)
	})

	t.Run("unplaceable listings are dropped, not errors", func(t *testing.T) {
		mockResolver := new(MockResolver)
		mockResolver.On("Resolve", mock.Anything, "Paris").Return(paris, true, nil)
		mockResolver.On("Resolve", mock.Anything, "Atlantis").Return(models.Coordinate{}, false, nil)
		mockResolver.On("Resolve", mock.Anything, "Lyon").Return(models.Coordinate{}, false, assert.AnError)

		listings := []models.Listing{
			{ID: 1, Location: "Paris"},
			{ID: 2, Location: "Atlantis"},
			{ID: 3, Location: "Lyon"},
		}

		service := NewGroupService(nil, mockResolver)
		groups := service.BuildGroups(context.Background(), listings, nil)

		placed := 0
		for _, group := range groups {
			placed += len(group.Listings)
		}
		assert.Equal(t, 1, placed, "only the placeable listing appears anywhere")
	})

	t.Run("missing location resolves the empty string", func(t *testing.T) {
		mockResolver := new(MockResolver)
		mockResolver.On("Resolve", mock.Anything, "").Return(models.Coordinate{}, false, nil)

		service := NewGroupService(nil, mockResolver)
		groups := service.BuildGroups(context.Background(), []models.Listing{{ID: 1}}, nil)

		assert.Empty(t, groups)
		mockResolver.AssertExpectations(t)
	})

	t.Run("distinct places yield distinct groups", func(t *testing.T) {
		mockResolver := new(MockResolver)
		mockResolver.On("Resolve", mock.Anything, "Paris").Return(paris, true, nil)
		mockResolver.On("Resolve", mock.Anything, "Lyon").Return(lyon, true, nil)

		listings := []models.Listing{
			{ID: 1, Location: "Paris"},
			{ID: 2, Location: "Lyon"},
		}

		service := NewGroupService(nil, mockResolver)
		groups := service.BuildGroups(context.Background(), listings, nil)

		assert.Len(t, groups, 2)
	})
}

func TestGroupService_BuildGroups_Incremental(t *testing.T) {
	mockResolver := new(MockResolver)
	mockResolver.On("Resolve", mock.Anything, "Paris").
		Return(models.Coordinate{Latitude: 48.8566, Longitude: 2.3522}, true, nil)

	listings := []models.Listing{
		{ID: 1, Location: "Paris"},
		{ID: 2, Location: "Paris"},
	}

	var sizes []int
	service := NewGroupService(nil, mockResolver)
	service.BuildGroups(context.Background(), listings, func(key string, group models.ListingGroup) {
		assert.Equal(t, "48.8566-2.3522", key)
		sizes = append(sizes, len(group.Listings))
	})

	assert.Equal(t, []int{1, 2}, sizes, "each placement is emitted as it happens")
}

func TestGroupService_BuildGroups_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	mockResolver := new(MockResolver)

	var emitted int
	service := NewGroupService(nil, mockResolver)
	groups := service.BuildGroups(ctx, []models.Listing{{ID: 1, Location: "Paris"}}, func(string, models.ListingGroup) {
		emitted++
	})

	assert.Empty(t, groups)
	assert.Zero(t, emitted, "a torn-down owner receives nothing")
	mockResolver.AssertNotCalled(t, "Resolve")
}

func TestGroupService_MapGroups(t *testing.T) {
	t.Run("groups fetched listings", func(t *testing.T) {
		mockAPI := new(MockListingAPI)
		mockAPI.On("ListListings", mock.Anything).Return([]models.Listing{
			{ID: 1, Latitude: ptr(48.8566), Longitude: ptr(2.3522)},
		}, nil)

		service := NewGroupService(mockAPI, new(MockResolver))
		groups, err := service.MapGroups(context.Background())

		require.NoError(t, err)
		assert.Len(t, groups, 1)
		mockAPI.AssertExpectations(t)
	})

	t.Run("upstream failure surfaces", func(t *testing.T) {
		mockAPI := new(MockListingAPI)
		mockAPI.On("ListListings", mock.Anything).Return(nil, assert.AnError)

		service := NewGroupService(mockAPI, new(MockResolver))
		_, err := service.MapGroups(context.Background())

		assert.Error(t, err)
	})
}

func TestSelectMarkerAction(t *testing.T) {
	tests := []struct {
		name     string
		group    models.ListingGroup
		expected MarkerAction
	}{
		{
			name:     "singleton navigates to the listing",
			group:    models.ListingGroup{Listings: []models.Listing{{ID: 42}}},
			expected: MarkerAction{Kind: ActionNavigate, ListingID: 42},
		},
		{
			name: "multiple members present a list",
			group: models.ListingGroup{Listings: []models.Listing{{ID: 1}, {ID: 2}}},
			expected: MarkerAction{
				Kind:     ActionPresentList,
				Listings: []models.Listing{{ID: 1}, {ID: 2}},
			},
		},
		{
			name:     "empty group yields a zero action",
			group:    models.ListingGroup{},
			expected: MarkerAction{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SelectMarkerAction(tt.group))
		})
	}
}

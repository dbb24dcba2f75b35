package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"rentmap/internal/models"
)

// MockMapService is a mock implementation of the MapService interface
type MockMapService struct {
	mock.Mock
}

func (m *MockMapService) MapGroups(ctx context.Context) (map[string]models.ListingGroup, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]models.ListingGroup), args.Error(1)
}

func parisGroups(listings ...models.Listing) map[string]models.ListingGroup {
	return map[string]models.ListingGroup{
		"48.8566-2.3522": {
			Coordinate: models.Coordinate{Latitude: 48.8566, Longitude: 2.3522},
			Listings:   listings,
		},
	}
}

func TestMapHandler_Groups(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("returns the grouped markers", func(t *testing.T) {
		mockSvc := new(MockMapService)
		mockSvc.On("MapGroups", mock.Anything).Return(parisGroups(models.Listing{ID: 1}), nil)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/map/groups", nil)

		NewMapHandler(mockSvc).Groups(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var body map[string]models.ListingGroup
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		require.Contains(t, body, "48.8566-2.3522")
		assert.Len(t, body["48.8566-2.3522"].Listings, 1)
	})

	t.Run("upstream failure is a bad gateway", func(t *testing.T) {
		mockSvc := new(MockMapService)
		mockSvc.On("MapGroups", mock.Anything).Return(nil, assert.AnError)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/map/groups", nil)

		NewMapHandler(mockSvc).Groups(c)

		assert.Equal(t, http.StatusBadGateway, w.Code)
	})
}

func TestMapHandler_MarkerAction(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		key            string
		groups         map[string]models.ListingGroup
		expectedStatus int
		expectedAction string
	}{
		{
			name:           "singleton group navigates",
			key:            "48.8566-2.3522",
			groups:         parisGroups(models.Listing{ID: 42}),
			expectedStatus: http.StatusOK,
			expectedAction: "navigate",
		},
		{
			name:           "crowded group presents a list",
			key:            "48.8566-2.3522",
			groups:         parisGroups(models.Listing{ID: 1}, models.Listing{ID: 2}),
			expectedStatus: http.StatusOK,
			expectedAction: "present",
		},
		{
			name:           "unknown marker",
			key:            "0.0000-0.0000",
			groups:         parisGroups(models.Listing{ID: 1}),
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := new(MockMapService)
			mockSvc.On("MapGroups", mock.Anything).Return(tt.groups, nil)

			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/map/groups/"+tt.key+"/action", nil)
			c.Params = gin.Params{{Key: "key", Value: tt.key}}

			NewMapHandler(mockSvc).MarkerAction(c)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedAction != "" {
				var body map[string]interface{}
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
				assert.Equal(t, tt.expectedAction, body["action"])
			}
		})
	}
}

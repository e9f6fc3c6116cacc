package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/weatherdash/backend/internal/dashboard"
	"github.com/weatherdash/backend/internal/domain"
)

func waitCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestCityService_WithCoordinates(t *testing.T) {
	api := newFakeWeatherAPI()
	svc := NewCityService(api, newTestClient(t), zap.NewNop())

	view, err := svc.View(waitCtx(t), "Bengaluru", &domain.Coordinates{Latitude: 12.9, Longitude: 77.6})
	require.NoError(t, err)

	require.Equal(t, dashboard.ViewResult, view.Kind)
	assert.Equal(t, "Bengaluru, IN", view.Layout.Title)
	assert.Nil(t, view.Layout.Refresh)
	assert.Zero(t, api.searchCalls.Load())
	assert.Zero(t, api.reverseCalls.Load())
}

func TestCityService_ResolvesName(t *testing.T) {
	api := newFakeWeatherAPI()
	api.search = []domain.GeocodingResult{
		{Name: "Paris", Country: "FR", Lat: 48.8566, Lon: 2.3522},
		{Name: "Paris", Country: "US", State: "Texas", Lat: 33.66, Lon: -95.55},
	}
	svc := NewCityService(api, newTestClient(t), zap.NewNop())

	view, err := svc.View(waitCtx(t), "Paris", nil)
	require.NoError(t, err)
	require.Equal(t, dashboard.ViewResult, view.Kind)

	require.NotEmpty(t, api.coords)
	assert.Equal(t, domain.Coordinates{Latitude: 48.8566, Longitude: 2.3522}, api.coords[0])
}

func TestCityService_NotFound(t *testing.T) {
	api := newFakeWeatherAPI()
	api.search = []domain.GeocodingResult{}
	svc := NewCityService(api, newTestClient(t), zap.NewNop())

	_, err := svc.View(waitCtx(t), "Atlantis", nil)
	assert.ErrorIs(t, err, ErrCityNotFound)
	assert.Zero(t, api.weatherCalls.Load())
}

func TestCityService_FetchError(t *testing.T) {
	api := newFakeWeatherAPI()
	api.weatherErr = &domain.FetchError{Query: QueryWeather, StatusCode: 500}
	svc := NewCityService(api, newTestClient(t), zap.NewNop())

	view, err := svc.View(waitCtx(t), "Bengaluru", &domain.Coordinates{Latitude: 12.9, Longitude: 77.6})
	require.NoError(t, err)
	require.Equal(t, dashboard.ViewFetchError, view.Kind)
	assert.Equal(t, "Failed to load weather data. Please try again.", view.Alert.Description)
}

func TestCityService_SharesCacheWithDashboard(t *testing.T) {
	api := newFakeWeatherAPI()
	client := newTestClient(t)
	svc := NewCityService(api, client, zap.NewNop())
	coords := &domain.Coordinates{Latitude: 12.9, Longitude: 77.6}

	_, err := svc.View(waitCtx(t), "Bengaluru", coords)
	require.NoError(t, err)
	_, err = svc.View(waitCtx(t), "Bengaluru", coords)
	require.NoError(t, err)

	assert.EqualValues(t, 1, api.weatherCalls.Load())
	assert.EqualValues(t, 1, api.forecastCalls.Load())
}

func TestSearchService(t *testing.T) {
	t.Run("short query never fetches", func(t *testing.T) {
		api := newFakeWeatherAPI()
		svc := NewSearchService(api, newTestClient(t))

		for _, q := range []string{"", "Pa", "  ab  "} {
			result, err := svc.Search(waitCtx(t), q)
			require.NoError(t, err)
			assert.NotNil(t, result.Results)
			assert.Empty(t, result.Results)
			assert.False(t, result.Pending)
		}
		assert.Zero(t, api.searchCalls.Load())
	})

	t.Run("results are cached per query", func(t *testing.T) {
		api := newFakeWeatherAPI()
		api.search = []domain.GeocodingResult{{Name: "Paris", Country: "FR", Lat: 48.8566, Lon: 2.3522}}
		svc := NewSearchService(api, newTestClient(t))

		result, err := svc.Search(waitCtx(t), "Paris")
		require.NoError(t, err)
		require.Len(t, result.Results, 1)
		assert.Equal(t, "Paris", result.Query)

		_, err = svc.Search(waitCtx(t), "paris")
		require.NoError(t, err)
		assert.EqualValues(t, 1, api.searchCalls.Load())
	})

	t.Run("error surfaces", func(t *testing.T) {
		api := newFakeWeatherAPI()
		api.searchErr = &domain.FetchError{Query: QueryLocationSearch, StatusCode: 429}
		svc := NewSearchService(api, newTestClient(t))

		_, err := svc.Search(waitCtx(t), "Paris")
		var fetchErr *domain.FetchError
		assert.ErrorAs(t, err, &fetchErr)
	})
}

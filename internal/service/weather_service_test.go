package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/weatherdash/backend/internal/config"
	"github.com/weatherdash/backend/internal/domain"
)

type recordedRequest struct {
	path  string
	query url.Values
}

func newTestWeatherService(t *testing.T, status int, body string) (*WeatherService, *[]recordedRequest) {
	t.Helper()
	var requests []recordedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests = append(requests, recordedRequest{path: r.URL.Path, query: r.URL.Query()})
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	svc := NewWeatherService(&config.WeatherConfig{APIKey: "test-key", BaseURL: srv.URL + "/"}, zap.NewNop())
	return svc, &requests
}

var bengaluru = domain.Coordinates{Latitude: 12.9716, Longitude: 77.5946}

func TestWeatherService_GetCurrentWeather(t *testing.T) {
	svc, requests := newTestWeatherService(t, http.StatusOK, `{
		"coord": {"lat": 12.9716, "lon": 77.5946},
		"weather": [{"id": 802, "main": "Clouds", "description": "scattered clouds", "icon": "03d"}],
		"main": {"temp": 24.6, "feels_like": 24.4, "temp_min": 23.2, "temp_max": 26.5, "pressure": 1013, "humidity": 60},
		"wind": {"speed": 3.1, "deg": 45},
		"sys": {"country": "IN", "sunrise": 1705281180, "sunset": 1705322520},
		"name": "Bengaluru",
		"dt": 1705300000,
		"timezone": 19800
	}`)

	data, err := svc.GetCurrentWeather(context.Background(), bengaluru)
	require.NoError(t, err)

	assert.Equal(t, "Bengaluru", data.Name)
	assert.Equal(t, 24.6, data.Main.Temp)
	assert.Equal(t, "IN", data.Sys.Country)
	assert.Equal(t, 19800, data.Timezone)
	require.Len(t, data.Weather, 1)
	assert.Equal(t, "03d", data.Weather[0].Icon)

	require.Len(t, *requests, 1)
	req := (*requests)[0]
	assert.Equal(t, "/data/2.5/weather", req.path)
	assert.Equal(t, "12.9716", req.query.Get("lat"))
	assert.Equal(t, "77.5946", req.query.Get("lon"))
	assert.Equal(t, "metric", req.query.Get("units"))
	assert.Equal(t, "test-key", req.query.Get("appid"))
}

func TestWeatherService_Endpoints(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		call      func(*WeatherService) error
		wantPath  string
		wantLimit string
		wantQ     string
	}{
		{
			name: "forecast",
			body: `{"list": [], "city": {"name": "Bengaluru", "country": "IN", "timezone": 19800}}`,
			call: func(s *WeatherService) error {
				_, err := s.GetForecast(context.Background(), bengaluru)
				return err
			},
			wantPath: "/data/2.5/forecast",
		},
		{
			name: "reverse geocode",
			body: `[{"name": "Bengaluru", "lat": 12.97, "lon": 77.59, "country": "IN", "state": "Karnataka"}]`,
			call: func(s *WeatherService) error {
				_, err := s.ReverseGeocode(context.Background(), bengaluru)
				return err
			},
			wantPath:  "/geo/1.0/reverse",
			wantLimit: "1",
		},
		{
			name: "direct geocode",
			body: `[]`,
			call: func(s *WeatherService) error {
				_, err := s.SearchLocations(context.Background(), "New York")
				return err
			},
			wantPath:  "/geo/1.0/direct",
			wantLimit: "5",
			wantQ:     "New York",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, requests := newTestWeatherService(t, http.StatusOK, tt.body)
			require.NoError(t, tt.call(svc))

			require.Len(t, *requests, 1)
			req := (*requests)[0]
			assert.Equal(t, tt.wantPath, req.path)
			assert.Equal(t, tt.wantLimit, req.query.Get("limit"))
			assert.Equal(t, tt.wantQ, req.query.Get("q"))
			assert.Equal(t, "test-key", req.query.Get("appid"))
		})
	}
}

func TestWeatherService_ReverseGeocodeDecodes(t *testing.T) {
	svc, _ := newTestWeatherService(t, http.StatusOK,
		`[{"name": "Bengaluru", "local_names": {"kn": "ಬೆಂಗಳೂರು"}, "lat": 12.97, "lon": 77.59, "country": "IN", "state": "Karnataka"}]`)

	results, err := svc.ReverseGeocode(context.Background(), bengaluru)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Bengaluru", results[0].Name)
	assert.Equal(t, "Karnataka", results[0].State)
	assert.Equal(t, domain.Coordinates{Latitude: 12.97, Longitude: 77.59}, results[0].Coordinates())
}

func TestWeatherService_APIError(t *testing.T) {
	svc, _ := newTestWeatherService(t, http.StatusUnauthorized, `{"cod": 401, "message": "Invalid API key"}`)

	data, err := svc.GetCurrentWeather(context.Background(), bengaluru)
	require.Error(t, err)
	assert.Nil(t, data)

	var fetchErr *domain.FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, QueryWeather, fetchErr.Query)
	assert.Equal(t, http.StatusUnauthorized, fetchErr.StatusCode)
	assert.Contains(t, fetchErr.Body, "Invalid API key")
}

func TestWeatherService_TransportError(t *testing.T) {
	svc := NewWeatherService(&config.WeatherConfig{APIKey: "k", BaseURL: "http://127.0.0.1:1"}, zap.NewNop())

	_, err := svc.GetForecast(context.Background(), bengaluru)

	var fetchErr *domain.FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Zero(t, fetchErr.StatusCode)
	assert.Equal(t, QueryForecast, fetchErr.Query)
}

func TestWeatherService_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	t.Cleanup(srv.Close)
	svc := NewWeatherService(&config.WeatherConfig{BaseURL: srv.URL}, zap.NewNop())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := svc.GetCurrentWeather(ctx, bengaluru)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestMockWeatherService(t *testing.T) {
	svc := NewMockWeatherService()
	svc.now = func() time.Time { return time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC) }
	ctx := context.Background()

	weather, err := svc.GetCurrentWeather(ctx, bengaluru)
	require.NoError(t, err)
	assert.Equal(t, 28.0, weather.Main.Temp)
	assert.Equal(t, bengaluru, weather.Coord)

	forecast, err := svc.GetForecast(ctx, bengaluru)
	require.NoError(t, err)
	assert.Len(t, forecast.List, 40)
	assert.Equal(t, 18000, forecast.City.Timezone)

	reverse, err := svc.ReverseGeocode(ctx, bengaluru)
	require.NoError(t, err)
	require.Len(t, reverse, 1)
	assert.Equal(t, "Demo City", reverse[0].Name)

	found, err := svc.SearchLocations(ctx, "Paris")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Paris", found[0].Name)
}

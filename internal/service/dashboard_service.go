package service

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/weatherdash/backend/internal/dashboard"
	"github.com/weatherdash/backend/internal/domain"
	"github.com/weatherdash/backend/internal/geolocation"
	"github.com/weatherdash/backend/internal/query"
)

// RefreshResult reports what a refresh action triggered
type RefreshResult struct {
	LocationRequested bool     `json:"location_requested"`
	Refetched         []string `json:"refetched"`
}

// DashboardService drives the "My Location" dashboard: it keeps the weather,
// forecast and reverse-geocode queries bound to the current coordinates.
type DashboardService struct {
	geo    *geolocation.Provider
	api    domain.WeatherAPI
	logger *zap.Logger

	mu        sync.Mutex
	weatherQ  *query.Observer[*domain.WeatherData]
	forecastQ *query.Observer[*domain.ForecastData]
	locationQ *query.Observer[[]domain.GeocodingResult]
}

// NewDashboardService creates the dashboard with all queries disabled until
// coordinates arrive
func NewDashboardService(
	geo *geolocation.Provider,
	api domain.WeatherAPI,
	client *query.Client,
	logger *zap.Logger,
) *DashboardService {
	s := &DashboardService{
		geo:    geo,
		api:    api,
		logger: logger,
	}

	s.weatherQ = query.Observe[*domain.WeatherData](client, "", nil, false)
	s.forecastQ = query.Observe[*domain.ForecastData](client, "", nil, false)
	s.locationQ = query.Observe[[]domain.GeocodingResult](client, "", nil, false)

	geo.Subscribe(s.sync)
	return s
}

// Start performs the initial location request
func (s *DashboardService) Start() {
	s.logger.Info("Dashboard started, requesting location")
	s.geo.GetLocation()
}

// GetLocation is the "Enable Location" action
func (s *DashboardService) GetLocation() {
	s.geo.GetLocation()
}

// Refresh always re-requests the location; with coordinates present it also
// refetches all three queries regardless of staleness.
func (s *DashboardService) Refresh() RefreshResult {
	coords := s.geo.State().Coordinates
	s.geo.GetLocation()

	result := RefreshResult{LocationRequested: true, Refetched: []string{}}
	if coords == nil {
		return result
	}

	s.sync()
	if s.weatherQ.Refetch() {
		result.Refetched = append(result.Refetched, QueryWeather)
	}
	if s.forecastQ.Refetch() {
		result.Refetched = append(result.Refetched, QueryForecast)
	}
	if s.locationQ.Refetch() {
		result.Refetched = append(result.Refetched, QueryReverseGeocode)
	}

	s.logger.Info("Dashboard refreshed",
		zap.Stringer("coordinates", coords),
		zap.Strings("refetched", result.Refetched))
	return result
}

// Signals collects the current location and query state
func (s *DashboardService) Signals() dashboard.Signals {
	s.sync()
	geo := s.geo.State()

	return dashboard.Signals{
		Coordinates:     geo.Coordinates,
		LocationError:   geo.Error,
		LocationLoading: geo.IsLoading,
		Weather:         s.weatherQ.Result(),
		Forecast:        s.forecastQ.Result(),
		Location:        s.locationQ.Result(),
	}
}

// View renders the dashboard
func (s *DashboardService) View() dashboard.View {
	return dashboard.Render(s.Signals())
}

// Location returns the geolocation state
func (s *DashboardService) Location() geolocation.State {
	return s.geo.State()
}

// Wait blocks until the location request and all bound queries settle
func (s *DashboardService) Wait(ctx context.Context) error {
	if err := s.geo.Wait(ctx); err != nil {
		return err
	}
	s.sync()

	if err := s.weatherQ.Wait(ctx); err != nil {
		return err
	}
	if err := s.forecastQ.Wait(ctx); err != nil {
		return err
	}
	return s.locationQ.Wait(ctx)
}

// Close releases the queries; cached entries expire on their retention timer
func (s *DashboardService) Close() {
	s.weatherQ.Close()
	s.forecastQ.Close()
	s.locationQ.Close()
}

// sync binds the observers to the provider's current coordinates. Queries
// stay disabled while coordinates are absent.
func (s *DashboardService) sync() {
	s.mu.Lock()
	defer s.mu.Unlock()

	coords := s.geo.State().Coordinates
	enabled := coords != nil
	var at domain.Coordinates
	if enabled {
		at = *coords
	}

	s.weatherQ.SetQuery(query.NewKey(QueryWeather, at), func(ctx context.Context) (*domain.WeatherData, error) {
		return s.api.GetCurrentWeather(ctx, at)
	}, enabled)
	s.forecastQ.SetQuery(query.NewKey(QueryForecast, at), func(ctx context.Context) (*domain.ForecastData, error) {
		return s.api.GetForecast(ctx, at)
	}, enabled)
	s.locationQ.SetQuery(query.NewKey(QueryReverseGeocode, at), func(ctx context.Context) ([]domain.GeocodingResult, error) {
		return s.api.ReverseGeocode(ctx, at)
	}, enabled)
}

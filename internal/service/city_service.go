package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/weatherdash/backend/internal/dashboard"
	"github.com/weatherdash/backend/internal/domain"
	"github.com/weatherdash/backend/internal/query"
)

// ErrCityNotFound is returned when a city name resolves to no place
var ErrCityNotFound = errors.New("city not found")

// CityService renders the per-city page. Each call observes the shared cache
// only for its own duration.
type CityService struct {
	api    domain.WeatherAPI
	client *query.Client
	logger *zap.Logger
}

// NewCityService creates a city page service
func NewCityService(api domain.WeatherAPI, client *query.Client, logger *zap.Logger) *CityService {
	return &CityService{
		api:    api,
		client: client,
		logger: logger,
	}
}

// View renders the city page. Without coordinates the name is geocoded first.
// ctx bounds how long to wait for queries to settle; whatever state they
// reached by then is rendered.
func (s *CityService) View(ctx context.Context, name string, coords *domain.Coordinates) (dashboard.View, error) {
	if coords == nil {
		resolved, err := s.resolve(ctx, name)
		if err != nil {
			return dashboard.View{}, err
		}
		if resolved == nil {
			return dashboard.View{Kind: dashboard.ViewLoading}, nil
		}
		coords = resolved
	}
	at := *coords

	weatherQ := query.Observe(s.client, query.NewKey(QueryWeather, at), func(ctx context.Context) (*domain.WeatherData, error) {
		return s.api.GetCurrentWeather(ctx, at)
	}, true)
	defer weatherQ.Close()

	forecastQ := query.Observe(s.client, query.NewKey(QueryForecast, at), func(ctx context.Context) (*domain.ForecastData, error) {
		return s.api.GetForecast(ctx, at)
	}, true)
	defer forecastQ.Close()

	if err := weatherQ.Wait(ctx); err == nil {
		_ = forecastQ.Wait(ctx)
	}

	return dashboard.RenderCity(dashboard.CitySignals{
		Name:     name,
		Weather:  weatherQ.Result(),
		Forecast: forecastQ.Result(),
	}), nil
}

// resolve geocodes a city name; nil coordinates mean the lookup is still running
func (s *CityService) resolve(ctx context.Context, name string) (*domain.Coordinates, error) {
	results, pending, err := searchLocations(ctx, s.client, s.api, name)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, nil
	}
	first := dashboard.FirstLocation(results)
	if first == nil {
		s.logger.Debug("City lookup returned no results", zap.String("city", name))
		return nil, ErrCityNotFound
	}
	coords := first.Coordinates()
	return &coords, nil
}

// searchLocations runs a cached direct-geocode query and waits for it within ctx
func searchLocations(ctx context.Context, client *query.Client, api domain.WeatherAPI, name string) ([]domain.GeocodingResult, bool, error) {
	key := query.NewKey(QueryLocationSearch, strings.ToLower(strings.TrimSpace(name)))
	obs := query.Observe(client, key, func(ctx context.Context) ([]domain.GeocodingResult, error) {
		return api.SearchLocations(ctx, name)
	}, true)
	defer obs.Close()

	_ = obs.Wait(ctx)
	res := obs.Result()
	if res.Err != nil {
		return nil, false, res.Err
	}
	if !res.HasData {
		return nil, true, nil
	}
	return res.Data, false, nil
}

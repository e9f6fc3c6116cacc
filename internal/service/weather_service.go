package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/weatherdash/backend/internal/config"
	"github.com/weatherdash/backend/internal/domain"
)

// Query kinds, also used as cache key prefixes
const (
	QueryWeather        = "weather"
	QueryForecast       = "forecast"
	QueryReverseGeocode = "reverse-geocode"
	QueryLocationSearch = "location-search"
)

// WeatherService fetches data from the OpenWeatherMap REST API
type WeatherService struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewWeatherService creates a new weather service
func NewWeatherService(cfg *config.WeatherConfig, logger *zap.Logger) *WeatherService {
	return &WeatherService{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.HTTPTimeout,
		},
		logger: logger,
	}
}

// GetCurrentWeather fetches current conditions
func (s *WeatherService) GetCurrentWeather(ctx context.Context, coords domain.Coordinates) (*domain.WeatherData, error) {
	var data domain.WeatherData
	if err := s.get(ctx, QueryWeather, "/data/2.5/weather", coordParams(coords), &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetForecast fetches the five-day, three-hourly forecast
func (s *WeatherService) GetForecast(ctx context.Context, coords domain.Coordinates) (*domain.ForecastData, error) {
	var data domain.ForecastData
	if err := s.get(ctx, QueryForecast, "/data/2.5/forecast", coordParams(coords), &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// ReverseGeocode resolves coordinates to place names
func (s *WeatherService) ReverseGeocode(ctx context.Context, coords domain.Coordinates) ([]domain.GeocodingResult, error) {
	params := coordParams(coords)
	params.Set("limit", "1")

	var results []domain.GeocodingResult
	if err := s.get(ctx, QueryReverseGeocode, "/geo/1.0/reverse", params, &results); err != nil {
		return nil, err
	}
	return results, nil
}

// SearchLocations resolves a place name to candidate positions
func (s *WeatherService) SearchLocations(ctx context.Context, query string) ([]domain.GeocodingResult, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", "5")

	var results []domain.GeocodingResult
	if err := s.get(ctx, QueryLocationSearch, "/geo/1.0/direct", params, &results); err != nil {
		return nil, err
	}
	return results, nil
}

func (s *WeatherService) get(ctx context.Context, query, path string, params url.Values, out any) error {
	params.Set("appid", s.apiKey)
	endpoint := s.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return &domain.FetchError{Query: query, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return &domain.FetchError{Query: query, Err: fmt.Errorf("failed to execute request: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<10))
		s.logger.Error("Weather API returned error",
			zap.String("query", query),
			zap.Int("status_code", resp.StatusCode),
			zap.String("body", string(body)))
		return &domain.FetchError{Query: query, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &domain.FetchError{Query: query, Err: fmt.Errorf("failed to decode response: %w", err)}
	}

	s.logger.Debug("Weather API call successful", zap.String("query", query))
	return nil
}

func coordParams(coords domain.Coordinates) url.Values {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(coords.Latitude, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(coords.Longitude, 'f', -1, 64))
	params.Set("units", "metric")
	return params
}

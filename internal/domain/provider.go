package domain

import "context"

// WeatherAPI defines the remote weather provider consumed by the dashboard.
// The domain owns the interface; adapters live in the service layer.
type WeatherAPI interface {
	// GetCurrentWeather fetches current conditions at a position
	GetCurrentWeather(ctx context.Context, coords Coordinates) (*WeatherData, error)

	// GetForecast fetches the multi-day, three-hourly forecast
	GetForecast(ctx context.Context, coords Coordinates) (*ForecastData, error)

	// ReverseGeocode resolves a position to place names, best match first
	ReverseGeocode(ctx context.Context, coords Coordinates) ([]GeocodingResult, error)

	// SearchLocations resolves a free-text place name to candidate positions
	SearchLocations(ctx context.Context, query string) ([]GeocodingResult, error)
}

// Locator is the geolocation capability: one position per call
type Locator interface {
	Locate(ctx context.Context) (Coordinates, error)
}

package service

import (
	"context"
	"math"
	"time"

	"github.com/weatherdash/backend/internal/domain"
)

// Demo-mode fallback position for name searches
const (
	mockCityLat = 43.2389
	mockCityLon = 76.8897
)

// MockWeatherService serves seasonal demo data when no API key is configured
type MockWeatherService struct {
	now func() time.Time
}

// NewMockWeatherService creates a demo-mode weather source
func NewMockWeatherService() *MockWeatherService {
	return &MockWeatherService{now: time.Now}
}

type season struct {
	temp, feelsLike float64
	description     string
	icon            string
}

func (s *MockWeatherService) season(t time.Time) season {
	switch month := t.Month(); {
	case month >= 12 || month <= 2: // Winter
		return season{-8.0, -15.0, "light snow", "13d"}
	case month >= 3 && month <= 5: // Spring
		return season{12.0, 10.0, "partly cloudy", "02d"}
	case month >= 6 && month <= 8: // Summer
		return season{28.0, 30.0, "clear sky", "01d"}
	default: // Autumn
		return season{8.0, 5.0, "overcast clouds", "04d"}
	}
}

// GetCurrentWeather returns simulated current conditions at coords
func (s *MockWeatherService) GetCurrentWeather(ctx context.Context, coords domain.Coordinates) (*domain.WeatherData, error) {
	now := s.now().UTC()
	sn := s.season(now)

	data := &domain.WeatherData{
		Coord: coords,
		Weather: []domain.WeatherCondition{
			{ID: 800, Main: "Demo", Description: sn.description, Icon: sn.icon},
		},
		Main: domain.MainReading{
			Temp:      sn.temp,
			FeelsLike: sn.feelsLike,
			TempMin:   sn.temp - 3,
			TempMax:   sn.temp + 3,
			Pressure:  1015,
			Humidity:  65,
		},
		Wind:     domain.Wind{Speed: 3.5, Deg: 200},
		Name:     "Demo City",
		Dt:       now.Unix(),
		Timezone: timezoneFor(coords),
	}
	data.Sys.Country = "ZZ"
	midnight := now.Truncate(24 * time.Hour)
	data.Sys.Sunrise = midnight.Add(6 * time.Hour).Unix()
	data.Sys.Sunset = midnight.Add(18 * time.Hour).Unix()
	return data, nil
}

// GetForecast returns five days of three-hourly slots with a daily swing
func (s *MockWeatherService) GetForecast(ctx context.Context, coords domain.Coordinates) (*domain.ForecastData, error) {
	now := s.now().UTC()
	sn := s.season(now)
	start := now.Truncate(3 * time.Hour).Add(3 * time.Hour)

	data := &domain.ForecastData{List: make([]domain.ForecastItem, 0, 40)}
	for i := 0; i < 40; i++ {
		at := start.Add(time.Duration(i) * 3 * time.Hour)
		swing := 4 * math.Sin(float64(at.Hour()-9)*math.Pi/12)
		data.List = append(data.List, domain.ForecastItem{
			Dt: at.Unix(),
			Main: domain.MainReading{
				Temp:      sn.temp + swing,
				FeelsLike: sn.feelsLike + swing,
				TempMin:   sn.temp + swing - 1,
				TempMax:   sn.temp + swing + 1,
				Pressure:  1015,
				Humidity:  65,
			},
			Weather: []domain.WeatherCondition{{ID: 800, Main: "Demo", Description: sn.description, Icon: sn.icon}},
			Wind:    domain.Wind{Speed: 3.5, Deg: 200},
			DtTxt:   at.Format("2006-01-02 15:04:05"),
		})
	}
	data.City.Name = "Demo City"
	data.City.Country = "ZZ"
	data.City.Coord = coords
	data.City.Timezone = timezoneFor(coords)
	return data, nil
}

// ReverseGeocode names every position "Demo City"
func (s *MockWeatherService) ReverseGeocode(ctx context.Context, coords domain.Coordinates) ([]domain.GeocodingResult, error) {
	return []domain.GeocodingResult{
		{Name: "Demo City", Lat: coords.Latitude, Lon: coords.Longitude, Country: "ZZ"},
	}, nil
}

// SearchLocations resolves any name to the demo position
func (s *MockWeatherService) SearchLocations(ctx context.Context, query string) ([]domain.GeocodingResult, error) {
	return []domain.GeocodingResult{
		{Name: query, Lat: mockCityLat, Lon: mockCityLon, Country: "ZZ"},
	}, nil
}

// timezoneFor approximates the UTC offset from longitude in whole hours
func timezoneFor(coords domain.Coordinates) int {
	return int(math.Round(coords.Longitude/15)) * 3600
}

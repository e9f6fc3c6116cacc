package dashboard

import (
	"github.com/weatherdash/backend/internal/domain"
)

// Action is a user action offered by a view
type Action string

const (
	ActionGetLocation Action = "get_location"
	ActionRefresh     Action = "refresh"
)

// Alert is a blocking panel with an optional recovery action
type Alert struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Action      Action `json:"action,omitempty"`
	ActionLabel string `json:"action_label,omitempty"`
}

// RefreshButton is the manual refresh control in the result header
type RefreshButton struct {
	Action   Action `json:"action"`
	Spinning bool   `json:"spinning"`
	Disabled bool   `json:"disabled"`
}

// Layout is the populated result
type Layout struct {
	Title    string             `json:"title"`
	Refresh  *RefreshButton     `json:"refresh,omitempty"`
	Current  CurrentWeatherCard `json:"current"`
	Hourly   HourlyTemperature  `json:"hourly"`
	Details  WeatherDetails     `json:"details"`
	Forecast WeatherForecast    `json:"forecast"`
}

// View is one rendered state: an alert, a skeleton (neither set) or a layout
type View struct {
	Kind   ViewKind `json:"kind"`
	Alert  *Alert   `json:"alert,omitempty"`
	Layout *Layout  `json:"layout,omitempty"`
}

// Render builds the dashboard view for the given signals
func Render(s Signals) View {
	kind := Resolve(s)
	view := View{Kind: kind}

	switch kind {
	case ViewLocationRequired:
		view.Alert = &Alert{
			Title:       "Location Required",
			Description: "Please enable location access to see your local weather.",
			Icon:        "map-pin",
			Action:      ActionGetLocation,
			ActionLabel: "Enable Location",
		}
	case ViewLocationError:
		view.Alert = &Alert{
			Title:       "Location Error",
			Description: s.LocationError,
			Icon:        "alert-triangle",
			Action:      ActionGetLocation,
			ActionLabel: "Enable Location",
		}
	case ViewFetchError:
		view.Alert = &Alert{
			Title:       "Error",
			Description: "Failed to fetch weather data. Please try again.",
			Icon:        "alert-triangle",
			Action:      ActionRefresh,
			ActionLabel: "Retry",
		}
	case ViewResult:
		view.Layout = &Layout{
			Title: "My Location",
			Refresh: &RefreshButton{
				Action:   ActionRefresh,
				Spinning: s.Weather.IsFetching,
				Disabled: s.Weather.IsFetching || s.Forecast.IsFetching,
			},
			Current:  CurrentWeather(s.Weather.Data, FirstLocation(s.Location.Data)),
			Hourly:   Hourly(s.Forecast.Data),
			Details:  Details(s.Weather.Data),
			Forecast: Forecast(s.Forecast.Data),
		}
	}

	return view
}

// RenderCity builds the per-city view
func RenderCity(s CitySignals) View {
	kind := ResolveCity(s)
	view := View{Kind: kind}

	switch kind {
	case ViewFetchError:
		view.Alert = &Alert{
			Title:       "Error",
			Description: "Failed to load weather data. Please try again.",
			Icon:        "alert-triangle",
		}
	case ViewResult:
		title := s.Name
		if country := s.Weather.Data.Sys.Country; country != "" {
			title += ", " + country
		}
		view.Layout = &Layout{
			Title:    title,
			Current:  CurrentWeather(s.Weather.Data, nil),
			Hourly:   Hourly(s.Forecast.Data),
			Details:  Details(s.Weather.Data),
			Forecast: Forecast(s.Forecast.Data),
		}
	}

	return view
}

// FirstLocation returns a copy of the best reverse-geocode match, or nil
func FirstLocation(results []domain.GeocodingResult) *domain.GeocodingResult {
	if len(results) == 0 {
		return nil
	}
	first := results[0]
	return &first
}

// Package dashboard turns location and query signals into renderable views.
// Everything here is pure: no fetching, no caching, no clocks.
package dashboard

import (
	"github.com/weatherdash/backend/internal/domain"
	"github.com/weatherdash/backend/internal/query"
)

// ViewKind is the discriminant of a rendered view
type ViewKind string

const (
	ViewLocationRequired ViewKind = "location_required"
	ViewLocationError    ViewKind = "location_error"
	ViewLoading          ViewKind = "loading"
	ViewFetchError       ViewKind = "fetch_error"
	ViewResult           ViewKind = "result"
)

// Signals is everything the dashboard view depends on
type Signals struct {
	Coordinates     *domain.Coordinates
	LocationError   string
	LocationLoading bool

	Weather  query.Result[*domain.WeatherData]
	Forecast query.Result[*domain.ForecastData]
	Location query.Result[[]domain.GeocodingResult]
}

// Resolve applies the view precedence. Order matters: loading is checked
// before errors so a query still in flight is never reported as failed.
func Resolve(s Signals) ViewKind {
	switch {
	case s.Coordinates == nil:
		return ViewLocationRequired
	case s.LocationError != "":
		return ViewLocationError
	case s.LocationLoading || awaiting(s.Weather) || awaiting(s.Forecast) || s.Location.IsLoading:
		return ViewLoading
	case s.Weather.Err != nil || s.Forecast.Err != nil:
		return ViewFetchError
	default:
		return ViewResult
	}
}

// CitySignals is what the per-city view depends on
type CitySignals struct {
	Name     string
	Weather  query.Result[*domain.WeatherData]
	Forecast query.Result[*domain.ForecastData]
}

// ResolveCity applies the same loading-before-error precedence to a city page
func ResolveCity(s CitySignals) ViewKind {
	switch {
	case s.Name == "" || awaiting(s.Weather) || awaiting(s.Forecast):
		return ViewLoading
	case s.Weather.Err != nil || s.Forecast.Err != nil:
		return ViewFetchError
	default:
		return ViewResult
	}
}

// awaiting is true until a query has either data or an error
func awaiting[T any](r query.Result[*T]) bool {
	return r.Err == nil && r.Data == nil
}

package domain

import "fmt"

// Coordinates identifies the location used for weather and geocode lookups.
// Values are replaced wholesale on every acquisition, never mutated in place.
type Coordinates struct {
	Latitude  float64 `json:"lat" validate:"latitude"`
	Longitude float64 `json:"lon" validate:"longitude"`
}

// String renders coordinates with the precision used for cache keys
func (c Coordinates) String() string {
	return fmt.Sprintf("%.4f,%.4f", c.Latitude, c.Longitude)
}

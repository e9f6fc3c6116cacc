package utils

import (
	"cmp"
	"math"
)

// Clamp limits a value between min and max
func Clamp[T cmp.Ordered](value, min, max T) T {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// RoundTo rounds a float to specified decimal places
func RoundTo(value float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(value*factor) / factor
}

// RoundInt rounds half away from zero to the nearest integer
func RoundInt(value float64) int {
	return int(math.Round(value))
}

var compassPoints = [...]string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}

// CompassDirection maps meteorological degrees to one of eight compass points
func CompassDirection(deg int) string {
	deg %= 360
	if deg < 0 {
		deg += 360
	}
	idx := int(math.Round(float64(deg)/45)) % len(compassPoints)
	return compassPoints[idx]
}

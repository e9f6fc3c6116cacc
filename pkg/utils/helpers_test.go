package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCompassDirection(t *testing.T) {
	tests := []struct {
		deg  int
		want string
	}{
		{0, "N"},
		{22, "N"},
		{23, "NE"},
		{45, "NE"},
		{90, "E"},
		{180, "S"},
		{270, "W"},
		{337, "NW"},
		{338, "N"},
		{360, "N"},
		{-45, "NW"},
		{405, "NE"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CompassDirection(tt.deg), "deg=%d", tt.deg)
	}
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 5, Clamp(10, 0, 5))
	assert.Equal(t, 0, Clamp(-3, 0, 5))
	assert.Equal(t, 3*time.Second, Clamp(3*time.Second, 0, 10*time.Second))
}

func TestRounding(t *testing.T) {
	assert.Equal(t, 12.35, RoundTo(12.3456, 2))
	assert.Equal(t, 25, RoundInt(24.5))
	assert.Equal(t, -3, RoundInt(-2.6))
}

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, LocationIP, cfg.Location.Provider)
	assert.Equal(t, 5*time.Second, cfg.Location.Timeout)
	assert.Equal(t, 5*time.Minute, cfg.Query.StaleTime)
	assert.Equal(t, 10*time.Minute, cfg.Query.GCTime)
	assert.Equal(t, 0, cfg.Query.Retry)
	assert.Equal(t, time.Duration(0), cfg.Weather.HTTPTimeout)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("GO_ENV", "production")
	t.Setenv("LOCATION_PROVIDER", "static")
	t.Setenv("LOCATION_LAT", "12.9")
	t.Setenv("LOCATION_LON", "77.6")
	t.Setenv("QUERY_STALE_TIME", "30s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, LocationStatic, cfg.Location.Provider)
	assert.Equal(t, 12.9, cfg.Location.Latitude)
	assert.Equal(t, 77.6, cfg.Location.Longitude)
	assert.Equal(t, 30*time.Second, cfg.Query.StaleTime)
}

func TestLoad_Invalid(t *testing.T) {
	t.Run("unknown location provider", func(t *testing.T) {
		t.Setenv("LOCATION_PROVIDER", "gps")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("static provider without coordinates", func(t *testing.T) {
		t.Setenv("LOCATION_PROVIDER", "static")
		_, err := Load()
		assert.ErrorContains(t, err, "LOCATION_LAT")
	})

	t.Run("static provider without longitude", func(t *testing.T) {
		t.Setenv("LOCATION_PROVIDER", "static")
		t.Setenv("LOCATION_LAT", "12.9")
		_, err := Load()
		assert.ErrorContains(t, err, "LOCATION_LON")
	})

	t.Run("static provider without latitude", func(t *testing.T) {
		t.Setenv("LOCATION_PROVIDER", "static")
		t.Setenv("LOCATION_LON", "77.6")
		_, err := Load()
		assert.ErrorContains(t, err, "LOCATION_LAT")
	})

	t.Run("latitude out of range", func(t *testing.T) {
		t.Setenv("LOCATION_PROVIDER", "static")
		t.Setenv("LOCATION_LAT", "123")
		t.Setenv("LOCATION_LON", "77.6")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("render wait above max", func(t *testing.T) {
		t.Setenv("RENDER_WAIT", "20s")
		_, err := Load()
		assert.Error(t, err)
	})
}

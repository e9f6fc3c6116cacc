package geolocation

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/weatherdash/backend/internal/config"
	"github.com/weatherdash/backend/internal/domain"
)

func TestIPLocator_Locate(t *testing.T) {
	logger, _ := zap.NewDevelopment()

	t.Run("successful lookup", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "status,message,lat,lon", r.URL.Query().Get("fields"))
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"status":"success","lat":12.9716,"lon":77.5946}`))
		}))
		defer server.Close()

		coords, err := NewIPLocator(server.URL+"/json", logger).Locate(context.Background())
		require.NoError(t, err)
		assert.Equal(t, domain.Coordinates{Latitude: 12.9716, Longitude: 77.5946}, coords)
	})

	t.Run("lookup failure is a platform error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"status":"fail","message":"private range"}`))
		}))
		defer server.Close()

		_, err := NewIPLocator(server.URL, logger).Locate(context.Background())
		var platform *domain.LocationPlatformError
		require.True(t, errors.As(err, &platform))
		assert.Equal(t, domain.MsgPositionUnavailable, platform.Error())
		assert.Contains(t, platform.Unwrap().Error(), "private range")
	})

	t.Run("api error response", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer server.Close()

		_, err := NewIPLocator(server.URL, logger).Locate(context.Background())
		var platform *domain.LocationPlatformError
		require.True(t, errors.As(err, &platform))
		assert.Contains(t, platform.Unwrap().Error(), "status 429")
	})
}

func TestNewLocator(t *testing.T) {
	logger := zap.NewNop()

	t.Run("static", func(t *testing.T) {
		locator, err := NewLocator(&config.LocationConfig{Provider: config.LocationStatic, Latitude: 1, Longitude: 2}, logger)
		require.NoError(t, err)
		coords, err := locator.Locate(context.Background())
		require.NoError(t, err)
		assert.Equal(t, domain.Coordinates{Latitude: 1, Longitude: 2}, coords)
	})

	t.Run("disabled", func(t *testing.T) {
		locator, err := NewLocator(&config.LocationConfig{Provider: config.LocationDisabled}, logger)
		require.NoError(t, err)
		_, err = locator.Locate(context.Background())
		var perm *domain.LocationPermissionError
		assert.True(t, errors.As(err, &perm))
	})

	t.Run("ip", func(t *testing.T) {
		locator, err := NewLocator(&config.LocationConfig{Provider: config.LocationIP, IPAPIURL: "http://ip-api.com/json"}, logger)
		require.NoError(t, err)
		assert.IsType(t, &IPLocator{}, locator)
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := NewLocator(&config.LocationConfig{Provider: "gps"}, logger)
		assert.Error(t, err)
	})
}

package geolocation

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/weatherdash/backend/internal/config"
	"github.com/weatherdash/backend/internal/domain"
)

// LocatorFunc adapts a function to domain.Locator
type LocatorFunc func(ctx context.Context) (domain.Coordinates, error)

func (f LocatorFunc) Locate(ctx context.Context) (domain.Coordinates, error) {
	return f(ctx)
}

// StaticLocator always reports the configured position
type StaticLocator struct {
	Coordinates domain.Coordinates
}

func (l StaticLocator) Locate(ctx context.Context) (domain.Coordinates, error) {
	return l.Coordinates, nil
}

// DeniedLocator models location access switched off by the operator
type DeniedLocator struct{}

func (DeniedLocator) Locate(ctx context.Context) (domain.Coordinates, error) {
	return domain.Coordinates{}, &domain.LocationPermissionError{}
}

// IPLocator resolves the server's public IP to a position via ip-api.com
type IPLocator struct {
	endpoint   string
	httpClient *http.Client
	logger     *zap.Logger
}

type ipAPIResponse struct {
	Status  string  `json:"status"`
	Message string  `json:"message"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// NewIPLocator creates an ip-api.com locator; the request is bounded by the provider's context
func NewIPLocator(endpoint string, logger *zap.Logger) *IPLocator {
	return &IPLocator{
		endpoint:   endpoint,
		httpClient: &http.Client{},
		logger:     logger,
	}
}

func (l *IPLocator) Locate(ctx context.Context) (domain.Coordinates, error) {
	u, err := url.Parse(l.endpoint)
	if err != nil {
		return domain.Coordinates{}, &domain.LocationPlatformError{Err: fmt.Errorf("parse endpoint: %w", err)}
	}
	q := u.Query()
	q.Set("fields", "status,message,lat,lon")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return domain.Coordinates{}, &domain.LocationPlatformError{Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return domain.Coordinates{}, &domain.LocationPlatformError{Err: fmt.Errorf("execute request: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		l.logger.Error("ip-api returned error",
			zap.Int("status_code", resp.StatusCode),
			zap.String("body", string(body)))
		return domain.Coordinates{}, &domain.LocationPlatformError{Err: fmt.Errorf("ip-api error: status %d", resp.StatusCode)}
	}

	var decoded ipAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.Coordinates{}, &domain.LocationPlatformError{Err: fmt.Errorf("decode response: %w", err)}
	}
	if decoded.Status != "success" {
		return domain.Coordinates{}, &domain.LocationPlatformError{Err: fmt.Errorf("ip-api lookup failed: %s", decoded.Message)}
	}

	l.logger.Debug("ip-api lookup successful",
		zap.Float64("lat", decoded.Lat),
		zap.Float64("lon", decoded.Lon))

	return domain.Coordinates{Latitude: decoded.Lat, Longitude: decoded.Lon}, nil
}

// NewLocator picks the locator named by the configuration
func NewLocator(cfg *config.LocationConfig, logger *zap.Logger) (domain.Locator, error) {
	switch cfg.Provider {
	case config.LocationIP:
		return NewIPLocator(cfg.IPAPIURL, logger), nil
	case config.LocationStatic:
		return StaticLocator{Coordinates: domain.Coordinates{Latitude: cfg.Latitude, Longitude: cfg.Longitude}}, nil
	case config.LocationDisabled:
		return DeniedLocator{}, nil
	default:
		return nil, fmt.Errorf("unknown location provider %q", cfg.Provider)
	}
}

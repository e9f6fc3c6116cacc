package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/weatherdash/backend/pkg/validator"
)

// Location provider kinds
const (
	LocationIP       = "ip"
	LocationStatic   = "static"
	LocationDisabled = "disabled"
)

type Config struct {
	Server   ServerConfig
	Log      LogConfig
	Weather  WeatherConfig
	Location LocationConfig
	Query    QueryConfig
	Render   RenderConfig
}

type ServerConfig struct {
	Port string `validate:"required,numeric"`
	Env  string
}

type LogConfig struct {
	Level string
}

type WeatherConfig struct {
	APIKey      string
	BaseURL     string        `validate:"required,url"`
	HTTPTimeout time.Duration `validate:"gte=0"` // zero disables the client timeout
}

type LocationConfig struct {
	Provider  string `validate:"oneof=ip static disabled"`
	Latitude  float64 `validate:"latitude"`
	Longitude float64 `validate:"longitude"`
	IPAPIURL  string        `validate:"required,url"`
	Timeout   time.Duration `validate:"gt=0"`
}

type QueryConfig struct {
	StaleTime time.Duration `validate:"gte=0"`
	GCTime    time.Duration `validate:"gte=0"`
	Retry     int           `validate:"gte=0"`
}

type RenderConfig struct {
	Wait    time.Duration `validate:"gte=0"`
	MaxWait time.Duration `validate:"gtefield=Wait"`
}

// Load reads .env (if present) and the process environment
func Load() (*Config, error) {
	// .env is optional; the environment always wins
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		Server: ServerConfig{
			Port: v.GetString("PORT"),
			Env:  v.GetString("GO_ENV"),
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
		Weather: WeatherConfig{
			APIKey:      v.GetString("OPENWEATHER_API_KEY"),
			BaseURL:     v.GetString("OPENWEATHER_BASE_URL"),
			HTTPTimeout: v.GetDuration("WEATHER_HTTP_TIMEOUT"),
		},
		Location: LocationConfig{
			Provider:  v.GetString("LOCATION_PROVIDER"),
			Latitude:  v.GetFloat64("LOCATION_LAT"),
			Longitude: v.GetFloat64("LOCATION_LON"),
			IPAPIURL:  v.GetString("LOCATION_IPAPI_URL"),
			Timeout:   v.GetDuration("LOCATION_TIMEOUT"),
		},
		Query: QueryConfig{
			StaleTime: v.GetDuration("QUERY_STALE_TIME"),
			GCTime:    v.GetDuration("QUERY_GC_TIME"),
			Retry:     v.GetInt("QUERY_RETRY"),
		},
		Render: RenderConfig{
			Wait:    v.GetDuration("RENDER_WAIT"),
			MaxWait: v.GetDuration("RENDER_MAX_WAIT"),
		},
	}

	if err := validator.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if cfg.Location.Provider == LocationStatic && (!v.IsSet("LOCATION_LAT") || !v.IsSet("LOCATION_LON")) {
		return nil, fmt.Errorf("invalid config: LOCATION_LAT and LOCATION_LON are required for the static provider")
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("GO_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("OPENWEATHER_BASE_URL", "https://api.openweathermap.org")
	v.SetDefault("WEATHER_HTTP_TIMEOUT", "0s")
	v.SetDefault("LOCATION_PROVIDER", LocationIP)
	v.SetDefault("LOCATION_IPAPI_URL", "http://ip-api.com/json")
	v.SetDefault("LOCATION_TIMEOUT", "5s")
	v.SetDefault("QUERY_STALE_TIME", "5m")
	v.SetDefault("QUERY_GC_TIME", "10m")
	v.SetDefault("QUERY_RETRY", 0)
	v.SetDefault("RENDER_WAIT", "3s")
	v.SetDefault("RENDER_MAX_WAIT", "10s")
}

// IsProduction reports whether GO_ENV selects production behavior
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

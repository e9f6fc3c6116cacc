package domain

// WeatherCondition is one entry of the OpenWeatherMap "weather" array
type WeatherCondition struct {
	ID          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// MainReading holds the thermodynamic block shared by current and forecast payloads
type MainReading struct {
	Temp      float64 `json:"temp"`
	FeelsLike float64 `json:"feels_like"`
	TempMin   float64 `json:"temp_min"`
	TempMax   float64 `json:"temp_max"`
	Pressure  int     `json:"pressure"`
	Humidity  int     `json:"humidity"`
}

// Wind holds speed (m/s in metric units) and meteorological direction in degrees
type Wind struct {
	Speed float64 `json:"speed"`
	Deg   int     `json:"deg"`
}

// WeatherData represents the /data/2.5/weather response, consumed as-is
type WeatherData struct {
	Coord   Coordinates        `json:"coord"`
	Weather []WeatherCondition `json:"weather"`
	Main    MainReading        `json:"main"`
	Wind    Wind               `json:"wind"`
	Sys     struct {
		Country string `json:"country"`
		Sunrise int64  `json:"sunrise"`
		Sunset  int64  `json:"sunset"`
	} `json:"sys"`
	Name     string `json:"name"`
	Dt       int64  `json:"dt"`
	Timezone int    `json:"timezone"` // shift in seconds from UTC
}

// ForecastItem is one three-hour slot of the forecast list
type ForecastItem struct {
	Dt      int64              `json:"dt"`
	Main    MainReading        `json:"main"`
	Weather []WeatherCondition `json:"weather"`
	Wind    Wind               `json:"wind"`
	DtTxt   string             `json:"dt_txt"`
}

// ForecastData represents the /data/2.5/forecast response
type ForecastData struct {
	List []ForecastItem `json:"list"`
	City struct {
		Name     string      `json:"name"`
		Country  string      `json:"country"`
		Coord    Coordinates `json:"coord"`
		Sunrise  int64       `json:"sunrise"`
		Sunset   int64       `json:"sunset"`
		Timezone int         `json:"timezone"`
	} `json:"city"`
}

// GeocodingResult is one entry of the /geo/1.0 reverse and direct responses
type GeocodingResult struct {
	Name       string            `json:"name"`
	LocalNames map[string]string `json:"local_names,omitempty"`
	Lat        float64           `json:"lat"`
	Lon        float64           `json:"lon"`
	Country    string            `json:"country"`
	State      string            `json:"state,omitempty"`
}

// Coordinates returns the result position
func (g GeocodingResult) Coordinates() Coordinates {
	return Coordinates{Latitude: g.Lat, Longitude: g.Lon}
}

package dashboard

import (
	"fmt"
	"strings"
	"time"

	"github.com/weatherdash/backend/internal/domain"
	"github.com/weatherdash/backend/pkg/utils"
)

const hourlySlots = 8 // 8 x 3h = next 24 hours

// LocationLabel names the place shown on the current weather card
type LocationLabel struct {
	Name    string `json:"name"`
	State   string `json:"state,omitempty"`
	Country string `json:"country"`
}

// CurrentWeatherCard shows the headline conditions
type CurrentWeatherCard struct {
	Location    *LocationLabel `json:"location,omitempty"`
	Temperature int            `json:"temperature"`
	FeelsLike   int            `json:"feels_like"`
	TempMin     int            `json:"temp_min"`
	TempMax     int            `json:"temp_max"`
	Humidity    int            `json:"humidity"`
	WindSpeed   float64        `json:"wind_speed"`
	Description string         `json:"description"`
	IconURL     string         `json:"icon_url,omitempty"`
}

// HourlyPoint is one point of the hourly temperature chart
type HourlyPoint struct {
	Time      string `json:"time"`
	Timestamp int64  `json:"timestamp"`
	Temp      int    `json:"temp"`
	FeelsLike int    `json:"feels_like"`
}

// HourlyTemperature is the chart of the next 24 hours
type HourlyTemperature struct {
	Title  string        `json:"title"`
	Points []HourlyPoint `json:"points"`
}

// DetailItem is one tile of the details grid
type DetailItem struct {
	Title string `json:"title"`
	Value string `json:"value"`
}

// WeatherDetails is the details grid
type WeatherDetails struct {
	Title string       `json:"title"`
	Items []DetailItem `json:"items"`
}

// DailyForecast summarizes one day of forecast slots
type DailyForecast struct {
	Date        string  `json:"date"`
	Label       string  `json:"label"`
	TempMin     int     `json:"temp_min"`
	TempMax     int     `json:"temp_max"`
	Humidity    int     `json:"humidity"`
	WindSpeed   float64 `json:"wind_speed"`
	Description string  `json:"description"`
	IconURL     string  `json:"icon_url,omitempty"`
}

// WeatherForecast is the list of upcoming days
type WeatherForecast struct {
	Title string          `json:"title"`
	Days  []DailyForecast `json:"days"`
}

// CurrentWeather renders the current weather card. location may be nil.
func CurrentWeather(data *domain.WeatherData, location *domain.GeocodingResult) CurrentWeatherCard {
	card := CurrentWeatherCard{
		Temperature: utils.RoundInt(data.Main.Temp),
		FeelsLike:   utils.RoundInt(data.Main.FeelsLike),
		TempMin:     utils.RoundInt(data.Main.TempMin),
		TempMax:     utils.RoundInt(data.Main.TempMax),
		Humidity:    data.Main.Humidity,
		WindSpeed:   utils.RoundTo(data.Wind.Speed, 1),
	}
	if len(data.Weather) > 0 {
		card.Description = data.Weather[0].Description
		card.IconURL = IconURL(data.Weather[0].Icon, 4)
	}
	if location != nil {
		card.Location = &LocationLabel{
			Name:    location.Name,
			State:   location.State,
			Country: location.Country,
		}
	}
	return card
}

// Hourly renders the next 24 hours of the forecast
func Hourly(data *domain.ForecastData) HourlyTemperature {
	loc := zone(data.City.Timezone)
	slots := data.List
	if len(slots) > hourlySlots {
		slots = slots[:hourlySlots]
	}

	chart := HourlyTemperature{
		Title:  "Today's Temperature",
		Points: make([]HourlyPoint, 0, len(slots)),
	}
	for _, item := range slots {
		chart.Points = append(chart.Points, HourlyPoint{
			Time:      time.Unix(item.Dt, 0).In(loc).Format("3 PM"),
			Timestamp: item.Dt,
			Temp:      utils.RoundInt(item.Main.Temp),
			FeelsLike: utils.RoundInt(item.Main.FeelsLike),
		})
	}
	return chart
}

// Details renders sunrise, sunset, wind direction and pressure
func Details(data *domain.WeatherData) WeatherDetails {
	loc := zone(data.Timezone)
	clock := func(unix int64) string {
		return time.Unix(unix, 0).In(loc).Format("3:04 PM")
	}

	return WeatherDetails{
		Title: "Weather Details",
		Items: []DetailItem{
			{Title: "Sunrise", Value: clock(data.Sys.Sunrise)},
			{Title: "Sunset", Value: clock(data.Sys.Sunset)},
			{Title: "Wind Direction", Value: fmt.Sprintf("%s (%d°)", utils.CompassDirection(data.Wind.Deg), data.Wind.Deg)},
			{Title: "Pressure", Value: fmt.Sprintf("%d hPa", data.Main.Pressure)},
		},
	}
}

// Forecast groups slots by local day and lists the five days after today
func Forecast(data *domain.ForecastData) WeatherForecast {
	loc := zone(data.City.Timezone)

	var days []DailyForecast
	var lows, highs []float64
	index := make(map[string]int)
	for _, item := range data.List {
		at := time.Unix(item.Dt, 0).In(loc)
		date := at.Format("2006-01-02")

		i, ok := index[date]
		if !ok {
			day := DailyForecast{
				Date:      date,
				Label:     at.Format("Mon, Jan 2"),
				Humidity:  item.Main.Humidity,
				WindSpeed: utils.RoundTo(item.Wind.Speed, 1),
			}
			if len(item.Weather) > 0 {
				day.Description = item.Weather[0].Description
				day.IconURL = IconURL(item.Weather[0].Icon, 2)
			}
			index[date] = len(days)
			days = append(days, day)
			lows = append(lows, item.Main.TempMin)
			highs = append(highs, item.Main.TempMax)
			continue
		}

		lows[i] = min(lows[i], item.Main.TempMin)
		highs[i] = max(highs[i], item.Main.TempMax)
	}
	for i := range days {
		days[i].TempMin = utils.RoundInt(lows[i])
		days[i].TempMax = utils.RoundInt(highs[i])
	}

	out := WeatherForecast{Title: "5-Day Forecast", Days: []DailyForecast{}}
	if len(days) > 1 {
		out.Days = days[1:min(len(days), 6)]
	}
	return out
}

// IconURL returns the OpenWeatherMap icon at the given scale
func IconURL(icon string, scale int) string {
	if strings.TrimSpace(icon) == "" {
		return ""
	}
	return fmt.Sprintf("https://openweathermap.org/img/wn/%s@%dx.png", icon, scale)
}

func zone(offsetSeconds int) *time.Location {
	return time.FixedZone("", offsetSeconds)
}

package weather

import "strings"

// Location identifies the place a payload was resolved to.
type Location struct {
	Name      string  `json:"name"`
	Region    string  `json:"region"`
	Country   string  `json:"country"`
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
	TZID      string  `json:"tz_id"`
	Localtime string  `json:"localtime"`
}

type Condition struct {
	Text string `json:"text"`
	Icon string `json:"icon"`
	Code int    `json:"code"`
}

// IconID maps the CDN icon URL to a path relative to the icon directory,
// e.g. "//cdn.weatherapi.com/weather/64x64/day/113.png" -> "weather/64x64/day/113.png".
func (c Condition) IconID() string {
	const marker = "/weather/"
	i := strings.Index(c.Icon, marker)
	if i < 0 {
		return ""
	}
	return c.Icon[i+1:]
}

type CurrentConditions struct {
	LastUpdated string    `json:"last_updated"`
	TempC       float64   `json:"temp_c"`
	TempF       float64   `json:"temp_f"`
	IsDay       int       `json:"is_day"`
	Condition   Condition `json:"condition"`
	WindMph     float64   `json:"wind_mph"`
	WindKph     float64   `json:"wind_kph"`
	WindDir     string    `json:"wind_dir"`
	PressureMb  float64   `json:"pressure_mb"`
	PressureIn  float64   `json:"pressure_in"`
	PrecipMm    float64   `json:"precip_mm"`
	Humidity    int       `json:"humidity"`
	Cloud       int       `json:"cloud"`
	FeelsLikeC  float64   `json:"feelslike_c"`
	FeelsLikeF  float64   `json:"feelslike_f"`
	VisKm       float64   `json:"vis_km"`
	UV          float64   `json:"uv"`
	GustMph     float64   `json:"gust_mph"`
	GustKph     float64   `json:"gust_kph"`
}

// Current is the current.json payload.
type Current struct {
	Location Location          `json:"location"`
	Current  CurrentConditions `json:"current"`
}

type Astro struct {
	Sunrise          string `json:"sunrise"`
	Sunset           string `json:"sunset"`
	Moonrise         string `json:"moonrise"`
	Moonset          string `json:"moonset"`
	MoonPhase        string `json:"moon_phase"`
	MoonIllumination string `json:"moon_illumination"`
}

// Astronomy is the astronomy.json payload.
type Astronomy struct {
	Location  Location `json:"location"`
	Astronomy struct {
		Astro Astro `json:"astro"`
	} `json:"astronomy"`
}

type Day struct {
	MaxTempC          float64   `json:"maxtemp_c"`
	MaxTempF          float64   `json:"maxtemp_f"`
	MinTempC          float64   `json:"mintemp_c"`
	MinTempF          float64   `json:"mintemp_f"`
	AvgTempC          float64   `json:"avgtemp_c"`
	AvgTempF          float64   `json:"avgtemp_f"`
	MaxWindMph        float64   `json:"maxwind_mph"`
	MaxWindKph        float64   `json:"maxwind_kph"`
	TotalPrecipMm     float64   `json:"totalprecip_mm"`
	AvgHumidity       float64   `json:"avghumidity"`
	DailyChanceOfRain int       `json:"daily_chance_of_rain"`
	DailyChanceOfSnow int       `json:"daily_chance_of_snow"`
	Condition         Condition `json:"condition"`
	UV                float64   `json:"uv"`
}

type ForecastDay struct {
	Date      string `json:"date"`
	DateEpoch int64  `json:"date_epoch"`
	Day       Day    `json:"day"`
	Astro     Astro  `json:"astro"`
}

// Forecast is the forecast.json payload.
type Forecast struct {
	Location Location          `json:"location"`
	Current  CurrentConditions `json:"current"`
	Forecast struct {
		Days []ForecastDay `json:"forecastday"`
	} `json:"forecast"`
}

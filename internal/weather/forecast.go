package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// DefaultForecastURL is the Open-Meteo forecast endpoint.
const DefaultForecastURL = "https://api.open-meteo.com/v1/forecast"

// CurrentWeather is the snapshot returned with current_weather=true.
type CurrentWeather struct {
	Temperature *float64 `json:"temperature"`
	WeatherCode *int     `json:"weathercode"`
	WindSpeed   float64  `json:"windspeed"`
	Time        string   `json:"time"`
}

// Hourly holds parallel hourly arrays. Temperatures are Celsius.
type Hourly struct {
	Time          []string   `json:"time"`
	Temperature   []*float64 `json:"temperature_2m"`
	Precipitation []*float64 `json:"precipitation"`
	WeatherCode   []*int     `json:"weathercode"`
}

// Forecast is the payload of the rich dashboard.
type Forecast struct {
	Latitude         float64         `json:"latitude"`
	Longitude        float64         `json:"longitude"`
	Timezone         string          `json:"timezone"`
	UTCOffsetSeconds int             `json:"utc_offset_seconds"`
	GenerationTimeMS float64         `json:"generationtime_ms"`
	Current          *CurrentWeather `json:"current_weather"`
	Hourly           *Hourly         `json:"hourly"`
}

// Daily holds parallel daily arrays. Values are Celsius and millimetres.
type Daily struct {
	Time             []string   `json:"time"`
	TemperatureMax   []*float64 `json:"temperature_2m_max"`
	TemperatureMin   []*float64 `json:"temperature_2m_min"`
	PrecipitationSum []*float64 `json:"precipitation_sum"`
}

// DailyForecast is the payload of the simple form.
type DailyForecast struct {
	Timezone string `json:"timezone"`
	Daily    Daily  `json:"daily"`
}

// Forecaster fetches forecasts from an Open-Meteo-compatible service.
// Rich forecasts go through the cache when one is configured.
type Forecaster struct {
	client  *http.Client
	baseURL string
	cache   *Cache
}

func NewForecaster(client *http.Client, baseURL string, cache *Cache) *Forecaster {
	if client == nil {
		client = http.DefaultClient
	}
	if baseURL == "" {
		baseURL = DefaultForecastURL
	}
	return &Forecaster{client: client, baseURL: baseURL, cache: cache}
}

func coordParams(lat, lon float64) url.Values {
	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(lon, 'f', -1, 64))
	q.Set("timezone", "auto")
	return q
}

// Forecast returns current and hourly weather for a coordinate. The
// payload is always Celsius; unit conversion happens at display time.
func (f *Forecaster) Forecast(ctx context.Context, lat, lon float64) (*Forecast, error) {
	if f.cache != nil {
		if raw, ok := f.cache.Get(lat, lon); ok {
			var fc Forecast
			if err := json.Unmarshal(raw, &fc); err == nil {
				return &fc, nil
			}
		}
	}

	q := coordParams(lat, lon)
	q.Set("current_weather", "true")
	q.Set("hourly", "temperature_2m,precipitation,weathercode")

	status, body, err := get(ctx, f.client, f.baseURL, q, nil)
	if err != nil {
		return nil, fmt.Errorf("forecast: %w", err)
	}
	if !ok(status) {
		return nil, fmt.Errorf("forecast: status %d: %w", status, ErrFetchFailed)
	}

	var fc Forecast
	if err := json.Unmarshal(body, &fc); err != nil {
		return nil, fmt.Errorf("forecast: decode: %w", err)
	}
	if f.cache != nil {
		f.cache.Put(lat, lon, body)
	}
	return &fc, nil
}

// Daily returns the multi-day summary. It is never cached.
func (f *Forecaster) Daily(ctx context.Context, lat, lon float64) (*DailyForecast, error) {
	q := coordParams(lat, lon)
	q.Set("daily", "temperature_2m_max,temperature_2m_min,precipitation_sum")

	status, body, err := get(ctx, f.client, f.baseURL, q, nil)
	if err != nil {
		return nil, fmt.Errorf("daily forecast: %w", err)
	}
	if !ok(status) {
		return nil, fmt.Errorf("daily forecast: status %d: %w", status, ErrFetchFailed)
	}

	var df DailyForecast
	if err := json.Unmarshal(body, &df); err != nil {
		return nil, fmt.Errorf("daily forecast: decode: %w", err)
	}
	return &df, nil
}

// location returns the zone hourly timestamps are expressed in.
func (f *Forecast) location() *time.Location {
	return time.FixedZone(f.Timezone, f.UTCOffsetSeconds)
}

package weather

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tgienger/stw/internal/storage"
)

// fakeAPI serves Nominatim-style /search and Open-Meteo-style /forecast.
type fakeAPI struct {
	srv            *httptest.Server
	geocodeCalls   atomic.Int32
	forecastCalls  atomic.Int32
	geocodeStatus  int
	geocodeBody    string
	forecastStatus int
	forecastBody   string
	dailyBody      string
	lastQuery      atomic.Value
}

const londonGeocode = `[{"display_name":"London, Greater London, England, United Kingdom","lat":"51.5073219","lon":"-0.1276474"}]`

const londonForecast = `{
  "latitude": 51.5,
  "longitude": -0.12,
  "generationtime_ms": 0.62,
  "utc_offset_seconds": 3600,
  "timezone": "Europe/London",
  "current_weather": {"temperature": 15.4, "windspeed": 11.2, "weathercode": 61, "time": "2024-05-01T14:00"},
  "hourly": {
    "time": ["2024-05-01T12:00","2024-05-01T13:00","2024-05-01T14:00","2024-05-01T15:00","2024-05-01T16:00"],
    "temperature_2m": [13.9, 14.6, 15.4, 16.0, null],
    "precipitation": [0, 0.3, 0, 0, 0],
    "weathercode": [3, 61, 61, 0, 95]
  }
}`

const londonDaily = `{
  "timezone": "Europe/London",
  "daily": {
    "time": ["2024-05-01","2024-05-02"],
    "temperature_2m_max": [17.2, 18],
    "temperature_2m_min": [9.1, 10.4],
    "precipitation_sum": [0.4, 0]
  }
}`

func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()
	f := &fakeAPI{
		geocodeStatus:  http.StatusOK,
		geocodeBody:    londonGeocode,
		forecastStatus: http.StatusOK,
		forecastBody:   londonForecast,
		dailyBody:      londonDaily,
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		f.geocodeCalls.Add(1)
		f.lastQuery.Store(r.URL.Query())
		w.WriteHeader(f.geocodeStatus)
		w.Write([]byte(f.geocodeBody))
	})
	mux.HandleFunc("/forecast", func(w http.ResponseWriter, r *http.Request) {
		f.forecastCalls.Add(1)
		f.lastQuery.Store(r.URL.Query())
		w.WriteHeader(f.forecastStatus)
		if r.URL.Query().Get("daily") != "" {
			w.Write([]byte(f.dailyBody))
			return
		}
		w.Write([]byte(f.forecastBody))
	})
	f.srv = httptest.NewServer(mux)
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeAPI) geocoder() *Geocoder {
	return NewGeocoder(f.srv.Client(), f.srv.URL+"/search", "stw-test")
}

func (f *fakeAPI) forecaster(cache *Cache) *Forecaster {
	return NewForecaster(f.srv.Client(), f.srv.URL+"/forecast", cache)
}

// fakeClock is a settable time source.
type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newStore() *storage.Memory { return storage.NewMemory() }

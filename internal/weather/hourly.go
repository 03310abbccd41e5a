package weather

import (
	"strconv"
	"time"

	"github.com/tgienger/stw/internal/models"
)

// HourlyTimeLayout is the timestamp format of Open-Meteo hourly arrays.
const HourlyTimeLayout = "2006-01-02T15:04"

// HourlyLimit is the number of hours shown in the strip.
const HourlyLimit = 24

// Hour is one entry of the hourly strip.
type Hour struct {
	Time   string
	Label  string
	Temp   string
	Detail string
}

// HourlyStart picks the first index to display: the current-weather
// timestamp, else the first hour strictly after now, else 0.
func HourlyStart(f *Forecast, now time.Time) int {
	if f == nil || f.Hourly == nil || f.Current == nil || f.Current.Time == "" {
		return 0
	}
	times := f.Hourly.Time
	for i, t := range times {
		if t == f.Current.Time {
			return i
		}
	}
	loc := f.location()
	for i, t := range times {
		ts, err := time.ParseInLocation(HourlyTimeLayout, t, loc)
		if err != nil {
			continue
		}
		if ts.After(now) {
			return i
		}
	}
	return 0
}

// HourlyWindow renders up to HourlyLimit hours starting at HourlyStart.
func HourlyWindow(f *Forecast, now time.Time, unit models.Unit) []Hour {
	if f == nil || f.Hourly == nil || len(f.Hourly.Time) == 0 {
		return nil
	}
	h := f.Hourly
	start := HourlyStart(f, now)
	end := min(len(h.Time), start+HourlyLimit)

	out := make([]Hour, 0, end-start)
	for i := start; i < end; i++ {
		hr := Hour{Time: h.Time[i], Label: hourLabel(h.Time[i]), Temp: "--"}
		if i < len(h.Temperature) && h.Temperature[i] != nil {
			hr.Temp = FormatTemp(*h.Temperature[i], unit)
		}
		if i < len(h.Precipitation) && h.Precipitation[i] != nil && *h.Precipitation[i] > 0 {
			hr.Detail = strconv.FormatFloat(*h.Precipitation[i], 'f', -1, 64) + " mm"
		} else {
			code := 0
			if i < len(h.WeatherCode) && h.WeatherCode[i] != nil {
				code = *h.WeatherCode[i]
			}
			hr.Detail = Classify(code).String()
		}
		out = append(out, hr)
	}
	return out
}

func hourLabel(s string) string {
	t, err := time.Parse(HourlyTimeLayout, s)
	if err != nil {
		return s
	}
	return t.Format("15:04")
}

package weather

import (
	"context"
	"strconv"
	"strings"
)

// Day is one entry of the daily forecast list.
type Day struct {
	Date          string
	High          string
	Low           string
	Precipitation string
}

// DailyView is the rendered result of a daily lookup.
type DailyView struct {
	Title string
	Days  []Day
}

// DailyForm is the simple variant: geocode, then a multi-day Celsius
// summary with no caching and no unit toggle.
type DailyForm struct {
	geo Resolver
	fc  *Forecaster
}

func NewDailyForm(geo Resolver, fc *Forecaster) *DailyForm {
	return &DailyForm{geo: geo, fc: fc}
}

// Lookup resolves query and fetches its daily forecast. Blank queries
// return ok=false without touching the network.
func (f *DailyForm) Lookup(ctx context.Context, query string) (DailyView, bool, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return DailyView{}, false, nil
	}
	place, err := f.geo.Resolve(ctx, query)
	if err != nil {
		return DailyView{}, true, err
	}
	df, err := f.fc.Daily(ctx, place.Lat, place.Lon)
	if err != nil {
		return DailyView{}, true, err
	}
	return RenderDaily(place.Name, df), true, nil
}

// RenderDaily lists one entry per day, values exactly as returned.
func RenderDaily(name string, df *DailyForecast) DailyView {
	v := DailyView{Title: "Forecast for " + name}
	d := df.Daily
	for i, date := range d.Time {
		v.Days = append(v.Days, Day{
			Date:          date,
			High:          "High: " + num(d.TemperatureMax, i) + "°C",
			Low:           "Low: " + num(d.TemperatureMin, i) + "°C",
			Precipitation: "Precipitation: " + num(d.PrecipitationSum, i) + " mm",
		})
	}
	return v
}

// num formats vals[i], or "--" when the service sent null or nothing.
func num(vals []*float64, i int) string {
	if i >= len(vals) || vals[i] == nil {
		return "--"
	}
	return strconv.FormatFloat(*vals[i], 'f', -1, 64)
}

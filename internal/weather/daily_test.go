package weather

import (
	"context"
	"errors"
	"testing"
)

func TestDailyLookup(t *testing.T) {
	api := newFakeAPI(t)
	form := NewDailyForm(api.geocoder(), api.forecaster(nil))

	v, ok, err := form.Lookup(context.Background(), "London")
	if err != nil || !ok {
		t.Fatalf("Lookup failed: ok=%v err=%v", ok, err)
	}
	if v.Title != "Forecast for London, Greater London, England, United Kingdom" {
		t.Errorf("title = %q", v.Title)
	}
	want := []Day{
		{Date: "2024-05-01", High: "High: 17.2°C", Low: "Low: 9.1°C", Precipitation: "Precipitation: 0.4 mm"},
		{Date: "2024-05-02", High: "High: 18°C", Low: "Low: 10.4°C", Precipitation: "Precipitation: 0 mm"},
	}
	if len(v.Days) != len(want) {
		t.Fatalf("got %d days, want %d", len(v.Days), len(want))
	}
	for i := range want {
		if v.Days[i] != want[i] {
			t.Errorf("day %d = %+v, want %+v", i, v.Days[i], want[i])
		}
	}
}

func TestDailyLookupBlankQuery(t *testing.T) {
	api := newFakeAPI(t)
	form := NewDailyForm(api.geocoder(), api.forecaster(nil))

	if _, ok, err := form.Lookup(context.Background(), "   "); ok || err != nil {
		t.Errorf("blank query should be ignored, got ok=%v err=%v", ok, err)
	}
	if api.geocodeCalls.Load() != 0 {
		t.Error("blank query must not hit the network")
	}
}

func TestDailyLookupErrors(t *testing.T) {
	api := newFakeAPI(t)
	api.geocodeBody = `[]`
	form := NewDailyForm(api.geocoder(), api.forecaster(nil))

	_, _, err := form.Lookup(context.Background(), "Nowhere")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if Message(err) != "Place not found" {
		t.Errorf("message = %q", Message(err))
	}
}

func TestDailyIsNeverCached(t *testing.T) {
	api := newFakeAPI(t)
	form := NewDailyForm(api.geocoder(), api.forecaster(NewCache(newStore(), CacheTTL, nil)))

	for i := 0; i < 2; i++ {
		if _, _, err := form.Lookup(context.Background(), "London"); err != nil {
			t.Fatalf("Lookup failed: %v", err)
		}
	}
	if n := api.forecastCalls.Load(); n != 2 {
		t.Errorf("expected 2 forecast calls, got %d", n)
	}
}

func TestDailyMissingValues(t *testing.T) {
	api := newFakeAPI(t)
	api.dailyBody = `{"daily":{"time":["2024-05-01","2024-05-02"],` +
		`"temperature_2m_max":[null,12.5],"temperature_2m_min":[null],"precipitation_sum":[null,0]}}`
	form := NewDailyForm(api.geocoder(), api.forecaster(nil))

	v, _, err := form.Lookup(context.Background(), "London")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	want := []Day{
		{Date: "2024-05-01", High: "High: --°C", Low: "Low: --°C", Precipitation: "Precipitation: -- mm"},
		{Date: "2024-05-02", High: "High: 12.5°C", Low: "Low: --°C", Precipitation: "Precipitation: 0 mm"},
	}
	if len(v.Days) != len(want) {
		t.Fatalf("got %d days, want %d", len(v.Days), len(want))
	}
	for i := range want {
		if v.Days[i] != want[i] {
			t.Errorf("day %d = %+v, want %+v", i, v.Days[i], want[i])
		}
	}
}

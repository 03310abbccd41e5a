package weather

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/tgienger/stw/internal/locate"
	"github.com/tgienger/stw/internal/models"
	"github.com/tgienger/stw/internal/storage"
)

type dashFixture struct {
	api   *fakeAPI
	store *storage.Memory
	clock *fakeClock
	dash  *Dashboard
}

func newDashFixture(t *testing.T, loc locate.Locator) *dashFixture {
	t.Helper()
	api := newFakeAPI(t)
	store := newStore()
	clock := &fakeClock{t: time.Date(2024, 5, 1, 13, 5, 0, 0, time.UTC)}
	dash := NewDashboard(DashboardConfig{
		Resolver:   api.geocoder(),
		Forecaster: api.forecaster(NewCache(store, CacheTTL, clock.Now)),
		Locator:    loc,
		Places:     NewPlaces(store),
		Units:      NewUnits(store),
		Now:        clock.Now,
	})
	return &dashFixture{api: api, store: store, clock: clock, dash: dash}
}

func TestDashboardLondonEndToEnd(t *testing.T) {
	fx := newDashFixture(t, nil)
	ctx := context.Background()

	req, ok := fx.dash.Search("London")
	if !ok {
		t.Fatal("search rejected")
	}
	if fx.dash.Message() != "Geocoding..." {
		t.Errorf("message = %q", fx.dash.Message())
	}
	if !fx.dash.Do(ctx, req) {
		t.Fatal("result was dropped")
	}

	v := fx.dash.Render()
	if !v.Visible {
		t.Fatal("dashboard should be visible")
	}
	if v.Temp != "15°C" {
		t.Errorf("temp = %q, want 15°C", v.Temp)
	}
	if v.Place != "London, Greater London, England, United Kingdom • 51.507, -0.128" {
		t.Errorf("place = %q", v.Place)
	}
	if v.Desc != Rain.String() {
		t.Errorf("desc = %q", v.Desc)
	}
	if v.Meta != "Wind: 11.2 km/h • Time: 2024-05-01T14:00" {
		t.Errorf("meta = %q", v.Meta)
	}
	if v.Message != "" {
		t.Errorf("message should clear on success, got %q", v.Message)
	}
	if len(v.Details) != 4 || v.Details[2].Value != "Europe/London" || v.Details[3].Value != "1 ms" {
		t.Errorf("details = %+v", v.Details)
	}

	// Switching unit re-renders the same coordinates: no new geocoding,
	// and the cached Celsius payload is reused.
	req, ok = fx.dash.SetUnit(models.Fahrenheit)
	if !ok {
		t.Fatal("unit change should refresh the displayed place")
	}
	if req.Query != "" {
		t.Error("unit change must not geocode")
	}
	fx.dash.Do(ctx, req)

	v = fx.dash.Render()
	if v.Temp != "61°F" {
		t.Errorf("temp = %q, want 61°F", v.Temp)
	}
	if n := fx.api.geocodeCalls.Load(); n != 1 {
		t.Errorf("geocode calls = %d, want 1", n)
	}
	if n := fx.api.forecastCalls.Load(); n != 1 {
		t.Errorf("forecast calls = %d, want 1 (served from cache)", n)
	}
	if v.Unit != models.Fahrenheit || NewUnits(fx.store).Get() != models.Fahrenheit {
		t.Error("unit should be persisted")
	}
}

func TestDashboardBlankSearch(t *testing.T) {
	fx := newDashFixture(t, nil)
	if _, ok := fx.dash.Search("  "); ok {
		t.Fatal("blank search should not produce a request")
	}
	if fx.dash.Message() != "Please enter a place to search." {
		t.Errorf("message = %q", fx.dash.Message())
	}
}

func TestDashboardFailureKeepsPreviousState(t *testing.T) {
	fx := newDashFixture(t, nil)
	ctx := context.Background()

	req, _ := fx.dash.Search("London")
	fx.dash.Do(ctx, req)
	before := fx.dash.Render()

	fx.api.geocodeBody = `[]`
	req, _ = fx.dash.Search("Atlantis")
	fx.dash.Do(ctx, req)

	after := fx.dash.Render()
	if after.Message != "Place not found" {
		t.Errorf("message = %q", after.Message)
	}
	if after.Place != before.Place || after.Temp != before.Temp {
		t.Error("failed lookup must leave the dashboard untouched")
	}

	fx.clock.Advance(11 * time.Minute)
	fx.api.forecastStatus = http.StatusInternalServerError
	p, _ := fx.dash.Place()
	fx.dash.Do(ctx, fx.dash.ShowPlace(p))
	if fx.dash.Message() != "Weather API failed" {
		t.Errorf("message = %q", fx.dash.Message())
	}
	if fx.dash.Render().Temp != before.Temp {
		t.Error("failed fetch must leave the dashboard untouched")
	}
}

func TestDashboardDropsSupersededResults(t *testing.T) {
	fx := newDashFixture(t, nil)
	ctx := context.Background()

	first := fx.dash.ShowCoords(10, 10, "First")
	second := fx.dash.ShowCoords(20, 20, "Second")

	// The second request completes first, then the stale one arrives.
	if !fx.dash.Apply(fx.dash.Run(ctx, second)) {
		t.Fatal("latest result should apply")
	}
	if fx.dash.Apply(fx.dash.Run(ctx, first)) {
		t.Fatal("superseded result should be dropped")
	}
	p, _ := fx.dash.Place()
	if p.Name != "Second" {
		t.Errorf("displayed %q, want Second", p.Name)
	}
}

func TestDashboardLocate(t *testing.T) {
	loc := locate.LocatorFunc(func(context.Context) (float64, float64, error) {
		return 48.8566, 2.3522, nil
	})
	fx := newDashFixture(t, loc)

	req := fx.dash.Locate()
	if fx.dash.Message() != "Locating..." {
		t.Errorf("message = %q", fx.dash.Message())
	}
	fx.dash.Do(context.Background(), req)

	p, ok := fx.dash.Place()
	if !ok || p.Name != CurrentLocationName || p.Lat != 48.8566 {
		t.Errorf("unexpected place %+v", p)
	}
	if fx.api.geocodeCalls.Load() != 0 {
		t.Error("locate must not geocode")
	}
}

func TestDashboardLocateFailures(t *testing.T) {
	for _, e := range []error{locate.ErrDenied, locate.ErrUnavailable, locate.ErrTimeout} {
		loc := locate.LocatorFunc(func(context.Context) (float64, float64, error) {
			return 0, 0, e
		})
		fx := newDashFixture(t, loc)
		fx.dash.Do(context.Background(), fx.dash.Locate())
		if fx.dash.Message() != "Location access denied or unavailable." {
			t.Errorf("%v: message = %q", e, fx.dash.Message())
		}
		if fx.api.forecastCalls.Load() != 0 {
			t.Errorf("%v: no forecast should be fetched", e)
		}
	}
}

func TestDashboardSaveCurrent(t *testing.T) {
	fx := newDashFixture(t, nil)
	if fx.dash.SaveCurrent() {
		t.Fatal("nothing displayed, nothing to save")
	}
	if fx.dash.Render().CanSave {
		t.Error("save should be disabled before a place is shown")
	}

	req, _ := fx.dash.Search("London")
	fx.dash.Do(context.Background(), req)

	if !fx.dash.SaveCurrent() {
		t.Fatal("save failed")
	}
	if fx.dash.Message() != "Place saved." {
		t.Errorf("message = %q", fx.dash.Message())
	}
	sc := fx.dash.Render().Shortcuts
	if len(sc) != 1 || sc[0].Label != "London" {
		t.Errorf("shortcuts = %+v", sc)
	}

	fx.dash.SaveCurrent()
	if len(fx.dash.Shortcuts()) != 1 {
		t.Error("saving the same place twice must not duplicate it")
	}
}

func TestMessageFallsBackToErrorText(t *testing.T) {
	if got := Message(errors.New("dial tcp: refused")); got != "dial tcp: refused" {
		t.Errorf("got %q", got)
	}
	if Message(nil) != "" {
		t.Error("nil error should clear the message")
	}
}

func TestDashboardSaveCurrentReportsFailure(t *testing.T) {
	fx := newDashFixture(t, nil)
	req, _ := fx.dash.Search("London")
	fx.dash.Do(context.Background(), req)

	fx.store.SetFailing(true)
	if fx.dash.SaveCurrent() {
		t.Fatal("save should fail when storage is unavailable")
	}
	if fx.dash.Message() != "Could not save place." {
		t.Errorf("message = %q", fx.dash.Message())
	}

	fx.store.SetFailing(false)
	if !fx.dash.SaveCurrent() || fx.dash.Message() != "Place saved." {
		t.Errorf("save after recovery: message = %q", fx.dash.Message())
	}
	if !fx.dash.SaveCurrent() || fx.dash.Message() != "Place saved." {
		t.Error("saving an already saved place should still report success")
	}
}

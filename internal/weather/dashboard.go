package weather

import (
	"context"
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/tgienger/stw/internal/locate"
	"github.com/tgienger/stw/internal/models"
)

// CurrentLocationName labels coordinates that came from the locator.
const CurrentLocationName = "Current location"

// Request describes one dashboard action that needs the network. Requests
// are produced on the UI goroutine, run anywhere, and their Result is
// applied back on the UI goroutine.
type Request struct {
	Seq    uint64
	Query  string // geocode first when set
	Locate bool   // ask the locator for coordinates first
	Lat    float64
	Lon    float64
	Name   string
}

// Result is the outcome of running a Request.
type Result struct {
	Seq      uint64
	Place    models.Place
	Forecast *Forecast
	Err      error
}

// Dashboard is the state of the rich weather view.
type Dashboard struct {
	geo     Resolver
	fc      *Forecaster
	loc     locate.Locator
	places  *Places
	units   *Units
	now     func() time.Time
	seq     uint64
	place   *models.Place
	current *Forecast
	message string
}

// DashboardConfig wires a Dashboard.
type DashboardConfig struct {
	Resolver   Resolver
	Forecaster *Forecaster
	Locator    locate.Locator
	Places     *Places
	Units      *Units
	Now        func() time.Time
}

func NewDashboard(cfg DashboardConfig) *Dashboard {
	d := &Dashboard{
		geo:    cfg.Resolver,
		fc:     cfg.Forecaster,
		loc:    cfg.Locator,
		places: cfg.Places,
		units:  cfg.Units,
		now:    cfg.Now,
	}
	if d.loc == nil {
		d.loc = locate.Disabled
	}
	if d.now == nil {
		d.now = time.Now
	}
	return d
}

func (d *Dashboard) next(r Request) Request {
	d.seq++
	r.Seq = d.seq
	return r
}

// Search starts a lookup for q. Blank queries only set a hint message.
func (d *Dashboard) Search(q string) (Request, bool) {
	q = strings.TrimSpace(q)
	if q == "" {
		d.message = "Please enter a place to search."
		return Request{}, false
	}
	d.message = "Geocoding..."
	return d.next(Request{Query: q}), true
}

// ShowCoords starts a forecast fetch for known coordinates.
func (d *Dashboard) ShowCoords(lat, lon float64, name string) Request {
	if name == "" {
		name = CurrentLocationName
	}
	d.message = "Fetching weather..."
	return d.next(Request{Lat: lat, Lon: lon, Name: name})
}

// ShowPlace starts a forecast fetch for a saved place.
func (d *Dashboard) ShowPlace(p models.Place) Request {
	return d.ShowCoords(p.Lat, p.Lon, p.Name)
}

// Locate starts a device-location lookup followed by a forecast fetch.
func (d *Dashboard) Locate() Request {
	d.message = "Locating..."
	return d.next(Request{Locate: true, Name: CurrentLocationName})
}

// SetUnit persists the unit and, when something is displayed, returns a
// request that re-renders the same coordinates without geocoding.
func (d *Dashboard) SetUnit(u models.Unit) (Request, bool) {
	d.units.Set(u)
	if d.place == nil {
		return Request{}, false
	}
	return d.ShowCoords(d.place.Lat, d.place.Lon, d.place.Name), true
}

// ToggleUnit flips between Celsius and Fahrenheit.
func (d *Dashboard) ToggleUnit() (Request, bool) {
	if d.Unit() == models.Fahrenheit {
		return d.SetUnit(models.Celsius)
	}
	return d.SetUnit(models.Fahrenheit)
}

func (d *Dashboard) Unit() models.Unit { return d.units.Get() }

// SaveCurrent adds the displayed place to the saved list. Saving a place
// that is already there counts as success.
func (d *Dashboard) SaveCurrent() bool {
	if d.place == nil {
		return false
	}
	if !d.places.Save(*d.place) && !d.places.Contains(*d.place) {
		d.message = "Could not save place."
		return false
	}
	d.message = "Place saved."
	return true
}

// Shortcuts returns the saved-place quick list.
func (d *Dashboard) Shortcuts() []Shortcut { return d.places.Shortcuts() }

// SavedPlaces returns every saved place, newest first.
func (d *Dashboard) SavedPlaces() []models.Place { return d.places.List() }

// Run performs the network side of r. It does not touch dashboard state
// and is safe to call off the UI goroutine.
func (d *Dashboard) Run(ctx context.Context, r Request) Result {
	res := Result{Seq: r.Seq}
	place := models.Place{Name: r.Name, Lat: r.Lat, Lon: r.Lon}

	switch {
	case r.Query != "":
		p, err := d.geo.Resolve(ctx, r.Query)
		if err != nil {
			res.Err = err
			return res
		}
		place = p
	case r.Locate:
		lat, lon, err := d.loc.Locate(ctx)
		if err != nil {
			res.Err = err
			return res
		}
		place.Lat, place.Lon = lat, lon
	}

	fc, err := d.fc.Forecast(ctx, place.Lat, place.Lon)
	if err != nil {
		res.Err = err
		return res
	}
	res.Place = place
	res.Forecast = fc
	return res
}

// Apply installs a result. Results of superseded requests are dropped and
// Apply reports false. A failed result only replaces the status message.
func (d *Dashboard) Apply(res Result) bool {
	if res.Seq != d.seq {
		return false
	}
	if res.Err != nil {
		log.Printf("weather: request %d: %v", res.Seq, res.Err)
		d.message = Message(res.Err)
		return true
	}
	p := res.Place
	d.place = &p
	d.current = res.Forecast
	d.message = ""
	return true
}

// Do runs r and applies its result.
func (d *Dashboard) Do(ctx context.Context, r Request) bool {
	return d.Apply(d.Run(ctx, r))
}

// Message returns the status line.
func (d *Dashboard) Message() string { return d.message }

// Place returns the displayed place, if any.
func (d *Dashboard) Place() (models.Place, bool) {
	if d.place == nil {
		return models.Place{}, false
	}
	return *d.place, true
}

// Detail is a labelled value in the details list.
type Detail struct {
	Label string
	Value string
}

// DashboardView is the projection of the dashboard that gets displayed.
type DashboardView struct {
	Visible   bool
	Place     string
	Temp      string
	Desc      string
	Meta      string
	Hours     []Hour
	Details   []Detail
	Shortcuts []Shortcut
	Message   string
	Unit      models.Unit
	CanSave   bool
}

// Render projects the dashboard using the persisted unit.
func (d *Dashboard) Render() DashboardView {
	unit := d.Unit()
	v := DashboardView{
		Shortcuts: d.Shortcuts(),
		Message:   d.message,
		Unit:      unit,
	}
	if d.place == nil || d.current == nil {
		return v
	}
	v.Visible = true
	v.CanSave = true

	p := *d.place
	fc := d.current
	v.Place = fmt.Sprintf("%s • %.3f, %.3f", p.Name, p.Lat, p.Lon)

	cur := fc.Current
	if cur == nil {
		cur = &CurrentWeather{}
	}
	v.Temp = "--"
	if cur.Temperature != nil {
		v.Temp = FormatTemp(*cur.Temperature, unit)
	}
	code := 0
	if cur.WeatherCode != nil {
		code = *cur.WeatherCode
	}
	v.Desc = Classify(code).String()

	wind := "—"
	if cur.WindSpeed != 0 {
		wind = strconv.FormatFloat(cur.WindSpeed, 'f', -1, 64) + " km/h"
	}
	t := cur.Time
	if t == "" {
		t = "—"
	}
	v.Meta = fmt.Sprintf("Wind: %s • Time: %s", wind, t)

	v.Hours = HourlyWindow(fc, d.now(), unit)

	tz := fc.Timezone
	if tz == "" {
		tz = "auto"
	}
	gen := "—"
	if fc.GenerationTimeMS != 0 {
		gen = fmt.Sprintf("%d ms", int(math.Floor(fc.GenerationTimeMS+0.5)))
	}
	v.Details = []Detail{
		{"Latitude", strconv.FormatFloat(p.Lat, 'f', -1, 64)},
		{"Longitude", strconv.FormatFloat(p.Lon, 'f', -1, 64)},
		{"Timezone", tz},
		{"Model gen time (ms)", gen},
	}
	return v
}

package weather

import (
	"log"
	"strings"

	"github.com/tgienger/stw/internal/models"
	"github.com/tgienger/stw/internal/storage"
)

const (
	// PlacesKey is the key saved places are persisted under.
	PlacesKey = "weather_saved_places"
	// MaxPlaces bounds the saved list.
	MaxPlaces = 8
	// MaxShortcuts is how many saved places get a shortcut.
	MaxShortcuts = 6
)

// Places is the saved-locations list, newest first.
type Places struct {
	store storage.Store
}

func NewPlaces(store storage.Store) *Places { return &Places{store: store} }

// List returns the saved places. Read failures yield an empty list.
func (p *Places) List() []models.Place {
	var places []models.Place
	if _, err := storage.GetJSON(p.store, PlacesKey, &places); err != nil {
		log.Printf("weather: load places: %v", err)
		return nil
	}
	return places
}

// Save prepends place unless a place with the same coordinates exists.
// It reports whether the list changed.
func (p *Places) Save(place models.Place) bool {
	// Unreadable records list as empty and get overwritten.
	places := p.List()
	if contains(places, place) {
		return false
	}
	places = append([]models.Place{place}, places...)
	if len(places) > MaxPlaces {
		places = places[:MaxPlaces]
	}
	if err := storage.SetJSON(p.store, PlacesKey, places); err != nil {
		log.Printf("weather: save places: %v", err)
		return false
	}
	return true
}

// Contains reports whether a place with the same coordinates is saved.
func (p *Places) Contains(place models.Place) bool {
	return contains(p.List(), place)
}

func contains(places []models.Place, place models.Place) bool {
	for _, existing := range places {
		if existing.Lat == place.Lat && existing.Lon == place.Lon {
			return true
		}
	}
	return false
}

// Shortcut is a saved place rendered as a quick-access entry.
type Shortcut struct {
	Label string
	Place models.Place
}

// Shortcuts returns the first MaxShortcuts saved places, labelled with the
// part of their name before the first comma.
func (p *Places) Shortcuts() []Shortcut {
	places := p.List()
	if len(places) > MaxShortcuts {
		places = places[:MaxShortcuts]
	}
	out := make([]Shortcut, 0, len(places))
	for _, pl := range places {
		label, _, _ := strings.Cut(pl.Name, ",")
		out = append(out, Shortcut{Label: label, Place: pl})
	}
	return out
}

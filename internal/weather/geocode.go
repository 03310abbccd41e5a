package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/tgienger/stw/internal/models"
)

// DefaultGeocodeURL is the Nominatim search endpoint.
const DefaultGeocodeURL = "https://nominatim.openstreetmap.org/search"

// Resolver turns free text into a place.
type Resolver interface {
	Resolve(ctx context.Context, query string) (models.Place, error)
}

// Geocoder resolves place names through a Nominatim-compatible service.
type Geocoder struct {
	client    *http.Client
	baseURL   string
	userAgent string
}

func NewGeocoder(client *http.Client, baseURL, userAgent string) *Geocoder {
	if client == nil {
		client = http.DefaultClient
	}
	if baseURL == "" {
		baseURL = DefaultGeocodeURL
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &Geocoder{client: client, baseURL: baseURL, userAgent: userAgent}
}

type nominatimResult struct {
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
}

// Resolve returns the first candidate for query. There is no
// disambiguation: the first result always wins.
func (g *Geocoder) Resolve(ctx context.Context, query string) (models.Place, error) {
	q := url.Values{}
	q.Set("format", "json")
	q.Set("q", strings.TrimSpace(query))
	q.Set("limit", "1")
	h := http.Header{}
	h.Set("Accept-Language", "en")
	h.Set("User-Agent", g.userAgent)

	status, body, err := get(ctx, g.client, g.baseURL, q, h)
	if err != nil {
		return models.Place{}, fmt.Errorf("geocode %q: %w", query, err)
	}
	if !ok(status) {
		return models.Place{}, fmt.Errorf("geocode %q: status %d: %w", query, status, ErrNotFound)
	}

	var results []nominatimResult
	if err := json.Unmarshal(body, &results); err != nil {
		return models.Place{}, fmt.Errorf("geocode %q: decode: %w", query, err)
	}
	if len(results) == 0 {
		return models.Place{}, fmt.Errorf("geocode %q: %w", query, ErrNotFound)
	}

	r := results[0]
	lat, err := strconv.ParseFloat(r.Lat, 64)
	if err != nil {
		return models.Place{}, fmt.Errorf("geocode %q: bad lat %q: %w", query, r.Lat, ErrNotFound)
	}
	lon, err := strconv.ParseFloat(r.Lon, 64)
	if err != nil {
		return models.Place{}, fmt.Errorf("geocode %q: bad lon %q: %w", query, r.Lon, ErrNotFound)
	}
	return models.Place{Name: r.DisplayName, Lat: lat, Lon: lon}, nil
}

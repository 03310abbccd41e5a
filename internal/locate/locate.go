// Package locate approximates the device position of a terminal session.
package locate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

var (
	ErrDenied      = errors.New("location access denied")
	ErrUnavailable = errors.New("location unavailable")
	ErrTimeout     = errors.New("location lookup timed out")
)

// DefaultTimeout bounds a single lookup.
const DefaultTimeout = 8 * time.Second

// DefaultURL is an IP geolocation endpoint returning lat/lon as JSON.
const DefaultURL = "http://ip-api.com/json/?fields=status,message,lat,lon"

// Locator yields the current coordinate.
type Locator interface {
	Locate(ctx context.Context) (lat, lon float64, err error)
}

// LocatorFunc adapts a function to Locator.
type LocatorFunc func(ctx context.Context) (float64, float64, error)

func (f LocatorFunc) Locate(ctx context.Context) (float64, float64, error) { return f(ctx) }

// Disabled always reports the location as unavailable.
var Disabled Locator = LocatorFunc(func(context.Context) (float64, float64, error) {
	return 0, 0, ErrUnavailable
})

// IP looks the position up from the public IP address.
type IP struct {
	client *http.Client
	url    string
}

func NewIP(client *http.Client, url string) *IP {
	if client == nil {
		client = http.DefaultClient
	}
	if url == "" {
		url = DefaultURL
	}
	return &IP{client: client, url: url}
}

type ipResponse struct {
	Status  string  `json:"status"`
	Message string  `json:"message"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

func (l *IP) Locate(ctx context.Context) (float64, float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return 0, 0, ctx.Err()
		}
		return 0, 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusUnauthorized:
		return 0, 0, fmt.Errorf("%w: status %d", ErrDenied, resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return 0, 0, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	var r ipResponse
	if err := json.Unmarshal(body, &r); err != nil {
		return 0, 0, fmt.Errorf("%w: decode: %v", ErrUnavailable, err)
	}
	if r.Status != "" && r.Status != "success" {
		return 0, 0, fmt.Errorf("%w: %s", ErrDenied, r.Message)
	}
	return r.Lat, r.Lon, nil
}

type timeoutLocator struct {
	inner Locator
	d     time.Duration
}

// WithTimeout bounds every lookup of l by d. A lookup still running at the
// deadline fails with ErrTimeout.
func WithTimeout(l Locator, d time.Duration) Locator {
	if d <= 0 {
		d = DefaultTimeout
	}
	return &timeoutLocator{inner: l, d: d}
}

func (t *timeoutLocator) Locate(ctx context.Context) (float64, float64, error) {
	ctx, cancel := context.WithTimeout(ctx, t.d)
	defer cancel()

	type result struct {
		lat, lon float64
		err      error
	}
	ch := make(chan result, 1)
	go func() {
		lat, lon, err := t.inner.Locate(ctx)
		ch <- result{lat, lon, err}
	}()

	select {
	case r := <-ch:
		if r.err != nil && errors.Is(r.err, context.DeadlineExceeded) {
			return 0, 0, ErrTimeout
		}
		return r.lat, r.lon, r.err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return 0, 0, ErrTimeout
		}
		return 0, 0, fmt.Errorf("%w: %v", ErrUnavailable, ctx.Err())
	}
}

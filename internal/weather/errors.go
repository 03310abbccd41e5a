package weather

import (
	"errors"

	"github.com/tgienger/stw/internal/locate"
)

var (
	// ErrNotFound is returned when geocoding yields no usable result.
	ErrNotFound = errors.New("place not found")
	// ErrFetchFailed is returned when the forecast service answers with a
	// non-success status.
	ErrFetchFailed = errors.New("weather API failed")
)

// Message converts an action error into the status line shown to the user.
func Message(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return "Place not found"
	case errors.Is(err, ErrFetchFailed):
		return "Weather API failed"
	case errors.Is(err, locate.ErrDenied),
		errors.Is(err, locate.ErrUnavailable),
		errors.Is(err, locate.ErrTimeout):
		return "Location access denied or unavailable."
	}
	return err.Error()
}

package storage

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Store is a flat string key-value store. Values survive restarts when the
// backing implementation is persistent (see db.DB).
type Store interface {
	// Get returns the value for key. ok is false when the key is absent.
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Remove(key string) error
}

// Lister is implemented by stores that can enumerate their keys.
type Lister interface {
	Keys(prefix string) ([]string, error)
}

// ErrUnavailable is returned by stores that cannot currently serve requests.
var ErrUnavailable = errors.New("storage unavailable")

// GetJSON decodes the value stored under key into v.
// found is false when the key does not exist; v is left untouched then.
func GetJSON(s Store, key string, v any) (found bool, err error) {
	raw, ok, err := s.Get(key)
	if err != nil {
		return false, fmt.Errorf("get %s: %w", key, err)
	}
	if !ok || raw == "" {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return true, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

// SetJSON encodes v and stores it under key.
func SetJSON(s Store, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.Set(key, string(b)); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

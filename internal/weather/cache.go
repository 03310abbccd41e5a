package weather

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/tgienger/stw/internal/storage"
)

const (
	// CachePrefix namespaces forecast entries in the store.
	CachePrefix = "weather_cache_v1:"
	// CacheTTL is how long a forecast stays fresh.
	CacheTTL = 10 * time.Minute
)

// CacheKey builds the entry key for a coordinate, rounded to 4 decimals.
func CacheKey(lat, lon float64) string {
	return fmt.Sprintf("%s%.4f:%.4f", CachePrefix, lat, lon)
}

type cacheEntry struct {
	TS   int64           `json:"_ts"` // unix milliseconds
	Data json.RawMessage `json:"data"`
}

// Cache holds raw forecast payloads with a TTL checked lazily on read.
type Cache struct {
	store storage.Store
	ttl   time.Duration
	now   func() time.Time
}

func NewCache(store storage.Store, ttl time.Duration, now func() time.Time) *Cache {
	if ttl <= 0 {
		ttl = CacheTTL
	}
	if now == nil {
		now = time.Now
	}
	return &Cache{store: store, ttl: ttl, now: now}
}

func (c *Cache) fresh(e cacheEntry) bool {
	age := c.now().Sub(time.UnixMilli(e.TS))
	return age <= c.ttl
}

// Get returns the cached payload. Stale entries are removed and reported
// as missing; so are unreadable ones.
func (c *Cache) Get(lat, lon float64) (json.RawMessage, bool) {
	key := CacheKey(lat, lon)
	var e cacheEntry
	found, err := storage.GetJSON(c.store, key, &e)
	if err != nil {
		log.Printf("weather: cache read %s: %v", key, err)
		return nil, false
	}
	if !found {
		return nil, false
	}
	if !c.fresh(e) {
		if err := c.store.Remove(key); err != nil {
			log.Printf("weather: cache purge %s: %v", key, err)
		}
		return nil, false
	}
	return e.Data, true
}

// Put stores data stamped with the current time.
func (c *Cache) Put(lat, lon float64, data json.RawMessage) {
	key := CacheKey(lat, lon)
	e := cacheEntry{TS: c.now().UnixMilli(), Data: data}
	if err := storage.SetJSON(c.store, key, e); err != nil {
		log.Printf("weather: cache write %s: %v", key, err)
	}
}

// Sweep removes every stale entry when the store can list its keys.
// It returns the number of entries removed.
func (c *Cache) Sweep() int {
	lister, ok := c.store.(storage.Lister)
	if !ok {
		return 0
	}
	keys, err := lister.Keys(CachePrefix)
	if err != nil {
		log.Printf("weather: cache sweep: %v", err)
		return 0
	}
	removed := 0
	for _, key := range keys {
		if !strings.HasPrefix(key, CachePrefix) {
			continue
		}
		var e cacheEntry
		if _, err := storage.GetJSON(c.store, key, &e); err == nil && c.fresh(e) {
			continue
		}
		if err := c.store.Remove(key); err == nil {
			removed++
		}
	}
	return removed
}

// Package config reads runtime settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Default values used when the environment leaves a setting unset.
const (
	DefaultHTTPTimeout = 15 * time.Second
	DefaultLogFile     = "stw-debug.log"
)

// Config holds every tunable the application reads at startup.
type Config struct {
	DBPath        string
	GeocodeURL    string
	ForecastURL   string
	LocateURL     string
	UserAgent     string
	HTTPTimeout   time.Duration
	Debug         bool
	LogFile       string
	DisableLocate bool
}

// Load reads an optional .env file followed by the STW_* variables.
// Variables already present in the environment win over the file.
func Load(envFiles ...string) (Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load env file: %w", err)
	}
	return FromEnv(os.LookupEnv)
}

// FromEnv builds a Config from a lookup function.
func FromEnv(lookup func(string) (string, bool)) (Config, error) {
	get := func(k string) string {
		v, _ := lookup(k)
		return v
	}

	c := Config{
		DBPath:      get("STW_DB_PATH"),
		GeocodeURL:  get("STW_GEOCODE_URL"),
		ForecastURL: get("STW_FORECAST_URL"),
		LocateURL:   get("STW_LOCATE_URL"),
		UserAgent:   get("STW_USER_AGENT"),
		HTTPTimeout: DefaultHTTPTimeout,
		LogFile:     get("STW_LOG_FILE"),
	}
	if c.LogFile == "" {
		c.LogFile = DefaultLogFile
	}

	if v := get("STW_HTTP_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Config{}, fmt.Errorf("STW_HTTP_TIMEOUT: invalid duration %q", v)
		}
		c.HTTPTimeout = d
	}

	var err error
	if c.Debug, err = parseBool("STW_DEBUG", get("STW_DEBUG")); err != nil {
		return Config{}, err
	}
	if c.DisableLocate, err = parseBool("STW_DISABLE_LOCATE", get("STW_DISABLE_LOCATE")); err != nil {
		return Config{}, err
	}
	return c, nil
}

func parseBool(name, v string) (bool, error) {
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: invalid boolean %q", name, v)
	}
	return b, nil
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func lookupMap(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestFromEnvDefaults(t *testing.T) {
	c, err := FromEnv(lookupMap(nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.HTTPTimeout != DefaultHTTPTimeout {
		t.Errorf("timeout = %v", c.HTTPTimeout)
	}
	if c.LogFile != DefaultLogFile {
		t.Errorf("log file = %q", c.LogFile)
	}
	if c.Debug || c.DisableLocate {
		t.Error("flags should default to false")
	}
	if c.DBPath != "" || c.GeocodeURL != "" {
		t.Error("unset values should stay empty so callers apply their own defaults")
	}
}

func TestFromEnvOverrides(t *testing.T) {
	c, err := FromEnv(lookupMap(map[string]string{
		"STW_DB_PATH":        "/tmp/x.db",
		"STW_FORECAST_URL":   "http://localhost:9/forecast",
		"STW_HTTP_TIMEOUT":   "3s",
		"STW_DEBUG":          "true",
		"STW_DISABLE_LOCATE": "1",
		"STW_USER_AGENT":     "test-agent",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.DBPath != "/tmp/x.db" || c.ForecastURL != "http://localhost:9/forecast" || c.UserAgent != "test-agent" {
		t.Errorf("unexpected config %+v", c)
	}
	if c.HTTPTimeout != 3*time.Second {
		t.Errorf("timeout = %v", c.HTTPTimeout)
	}
	if !c.Debug || !c.DisableLocate {
		t.Error("flags should be set")
	}
}

func TestFromEnvInvalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bad duration", map[string]string{"STW_HTTP_TIMEOUT": "soon"}},
		{"negative duration", map[string]string{"STW_HTTP_TIMEOUT": "-1s"}},
		{"bad debug", map[string]string{"STW_DEBUG": "maybe"}},
		{"bad locate flag", map[string]string{"STW_DISABLE_LOCATE": "nah"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := FromEnv(lookupMap(tt.env)); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestLoadReadsEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte("STW_USER_AGENT=from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("STW_USER_AGENT", "")
	os.Unsetenv("STW_USER_AGENT")

	c, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.UserAgent != "from-file" {
		t.Errorf("user agent = %q", c.UserAgent)
	}
}

func TestLoadMissingFileIsFine(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Errorf("missing env file should be ignored: %v", err)
	}
}

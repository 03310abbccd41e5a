package weather

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		code int
		want string
	}{
		{0, "Clear"},
		{1, "Partly cloudy"},
		{3, "Partly cloudy"},
		{45, "Fog"},
		{48, "Fog"},
		{51, "Rain"},
		{61, "Rain"},
		{67, "Rain"},
		{70, "Cloudy"},
		{71, "Snow"},
		{86, "Snow"},
		{95, "Thunderstorm"},
		{96, "Thunderstorm"},
		{99, "Thunderstorm"},
		{4, "Cloudy"},
		{50, "Cloudy"},
		{97, "Cloudy"},
		{-1, "Cloudy"},
	}

	for _, tt := range tests {
		if got := Classify(tt.code).Label; got != tt.want {
			t.Errorf("Classify(%d) = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestConditionString(t *testing.T) {
	if got := Classify(0).String(); got != "☀️ Clear" {
		t.Errorf("got %q", got)
	}
}

package weather

// Condition is the display category of a weather code.
type Condition struct {
	Label string
	Glyph string
}

func (c Condition) String() string { return c.Glyph + " " + c.Label }

var (
	Clear        = Condition{"Clear", "☀️"}
	PartlyCloudy = Condition{"Partly cloudy", "⛅"}
	Fog          = Condition{"Fog", "🌫️"}
	Rain         = Condition{"Rain", "🌧️"}
	Snow         = Condition{"Snow", "❄️"}
	Thunderstorm = Condition{"Thunderstorm", "⛈️"}
	Cloudy       = Condition{"Cloudy", "☁️"}
)

// Classify maps a WMO weather code to its category. Unlisted codes are Cloudy.
func Classify(code int) Condition {
	switch {
	case code == 0:
		return Clear
	case code >= 1 && code <= 3:
		return PartlyCloudy
	case code == 45 || code == 48:
		return Fog
	case code >= 51 && code <= 67:
		return Rain
	case code >= 71 && code <= 86:
		return Snow
	case code == 95 || code == 96 || code == 99:
		return Thunderstorm
	}
	return Cloudy
}

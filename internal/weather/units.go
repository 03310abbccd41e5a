package weather

import (
	"fmt"
	"log"
	"math"

	"github.com/tgienger/stw/internal/models"
	"github.com/tgienger/stw/internal/storage"
)

// UnitKey is the key the unit preference is persisted under.
const UnitKey = "weather_unit"

// CToF converts Celsius to Fahrenheit.
func CToF(c float64) float64 { return c*9/5 + 32 }

// Display converts a Celsius value to unit and rounds to the nearest
// integer, halves rounding up.
func Display(c float64, unit models.Unit) int {
	v := c
	if unit == models.Fahrenheit {
		v = CToF(c)
	}
	return int(math.Floor(v + 0.5))
}

// FormatTemp renders a Celsius value in unit, e.g. "15°C".
func FormatTemp(c float64, unit models.Unit) string {
	return fmt.Sprintf("%d°%s", Display(c, unit), unit)
}

// Units is the persisted unit preference.
type Units struct {
	store storage.Store
}

func NewUnits(store storage.Store) *Units { return &Units{store: store} }

// Get returns the stored unit, Celsius when unset or unreadable.
func (u *Units) Get() models.Unit {
	v, _, err := u.store.Get(UnitKey)
	if err != nil {
		log.Printf("weather: load unit: %v", err)
	}
	return models.ParseUnit(v)
}

func (u *Units) Set(unit models.Unit) {
	if err := u.store.Set(UnitKey, string(unit)); err != nil {
		log.Printf("weather: save unit: %v", err)
	}
}

package models

import "time"

// Task represents a single todo entry
type Task struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Created   time.Time  `json:"created"`
	Updated   *time.Time `json:"updated"` // nil until the title is edited
	Completed bool       `json:"completed"`
}

// Filter selects which tasks are shown
type Filter string

const (
	FilterAll       Filter = "all"
	FilterActive    Filter = "active"
	FilterCompleted Filter = "completed"
)

// Filters lists filters in the order the UI cycles through them
var Filters = []Filter{FilterAll, FilterActive, FilterCompleted}

// ParseFilter maps a name to a Filter, defaulting to FilterAll
func ParseFilter(s string) Filter {
	switch Filter(s) {
	case FilterActive, FilterCompleted:
		return Filter(s)
	}
	return FilterAll
}

// Place is a named geocoordinate
type Place struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

// Unit is the temperature display unit
type Unit string

const (
	Celsius    Unit = "C"
	Fahrenheit Unit = "F"
)

// ParseUnit maps a stored value to a Unit, defaulting to Celsius
func ParseUnit(s string) Unit {
	if Unit(s) == Fahrenheit {
		return Fahrenheit
	}
	return Celsius
}

package weather

import (
	"sort"
	"strings"
)

// DefaultCities are the cities a server answers for unless configured otherwise.
var DefaultCities = []string{
	"Bari", "Roma", "Milano", "Napoli", "Torino",
	"Palermo", "Genova", "Bologna", "Firenze", "Venezia",
}

// CitySet is a fixed, case-insensitive set of city names. It is built once
// and only read afterwards, so it is safe for concurrent use.
type CitySet struct {
	names map[string]string
}

func NewCitySet(names ...string) CitySet {
	set := CitySet{names: make(map[string]string, len(names))}

	for _, name := range names {
		set.names[normalize(name)] = name
	}

	return set
}

func (c CitySet) Contains(city string) bool {
	_, ok := c.names[normalize(city)]
	return ok
}

func (c CitySet) Len() int {
	return len(c.names)
}

// Names returns the cities as they were given to NewCitySet, sorted.
func (c CitySet) Names() []string {
	out := make([]string, 0, len(c.names))
	for _, name := range c.names {
		out = append(out, name)
	}

	sort.Strings(out)
	return out
}

func normalize(city string) string {
	return strings.ToLower(city)
}

package filter

import (
	"github.com/franciscopereira987/routemap/pkg/routes"
)

// CitySet is a selection of city names. An empty set selects every city.
type CitySet map[string]struct{}

func NewCitySet(cities ...string) CitySet {
	set := make(CitySet, len(cities))
	for _, c := range cities {
		if c != "" {
			set[c] = struct{}{}
		}
	}
	return set
}

func (s CitySet) Allows(city string) bool {
	if len(s) == 0 {
		return true
	}
	_, ok := s[city]
	return ok
}

// Criteria are rebuilt from the user controls on every request.
type Criteria struct {
	PriceMin     float64
	PriceMax     float64
	Origins      CitySet
	Destinations CitySet
}

// Matches reports whether the route passes every predicate. Price bounds are
// inclusive.
func (c Criteria) Matches(r routes.Route) bool {
	return c.PriceMin <= r.AvgPrice && r.AvgPrice <= c.PriceMax &&
		c.Origins.Allows(r.Origin) &&
		c.Destinations.Allows(r.Destination)
}

// Apply returns the routes matching c, in input order. The input is not
// modified.
func Apply(table []routes.Route, c Criteria) []routes.Route {
	filtered := make([]routes.Route, 0, len(table))
	for _, r := range table {
		if c.Matches(r) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

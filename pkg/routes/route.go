package routes

import (
	"math"
	"sort"
)

// Route is one row of the routes table. It is never mutated after loading.
type Route struct {
	Label       string  `json:"route"`
	Origin      string  `json:"from_city"`
	Destination string  `json:"to_city"`
	AvgPrice    float64 `json:"avg_price"`
}

// PriceBounds returns the range a price selector should offer: the floor of
// the cheapest and the ceiling of the most expensive route, so that every
// route is inside the default selection.
func PriceBounds(routes []Route) (lo, hi float64) {
	if len(routes) == 0 {
		return 0, 0
	}
	lo, hi = routes[0].AvgPrice, routes[0].AvgPrice
	for _, r := range routes[1:] {
		lo = min(lo, r.AvgPrice)
		hi = max(hi, r.AvgPrice)
	}
	return math.Floor(lo), math.Ceil(hi)
}

// Cities returns every origin and destination once, sorted.
func Cities(routes []Route) []string {
	seen := make(map[string]struct{}, 2*len(routes))
	for _, r := range routes {
		seen[r.Origin] = struct{}{}
		seen[r.Destination] = struct{}{}
	}
	cities := make([]string, 0, len(seen))
	for c := range seen {
		cities = append(cities, c)
	}
	sort.Strings(cities)
	return cities
}

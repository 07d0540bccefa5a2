package common

import (
	"math"
	"net/url"
	"sort"
	"strconv"

	"github.com/franciscopereira987/routemap/pkg/filter"
)

const (
	minParam  = "min"
	maxParam  = "max"
	fromParam = "from"
	toParam   = "to"
)

func parsePrice(values url.Values, key string, fallback float64) float64 {
	raw := values.Get(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	return v
}

// ParseCriteria reads the filter controls from a query string. Missing or
// malformed prices fall back to the table bounds lo and hi.
func ParseCriteria(values url.Values, lo, hi float64) filter.Criteria {
	c := filter.Criteria{
		PriceMin:     parsePrice(values, minParam, lo),
		PriceMax:     parsePrice(values, maxParam, hi),
		Origins:      filter.NewCitySet(values[fromParam]...),
		Destinations: filter.NewCitySet(values[toParam]...),
	}
	if c.PriceMin > c.PriceMax {
		c.PriceMin, c.PriceMax = c.PriceMax, c.PriceMin
	}
	return c
}

// addCities lists the members of set in the given order, followed by the
// members absent from order, sorted.
func addCities(values url.Values, key string, set filter.CitySet, order []string) {
	listed := make(map[string]struct{}, len(set))
	for _, city := range order {
		if _, ok := set[city]; ok {
			values.Add(key, city)
			listed[city] = struct{}{}
		}
	}
	var rest []string
	for city := range set {
		if _, ok := listed[city]; !ok {
			rest = append(rest, city)
		}
	}
	sort.Strings(rest)
	for _, city := range rest {
		values.Add(key, city)
	}
}

// EncodeCriteria is the inverse of ParseCriteria. Selected cities follow the
// given order; selected cities missing from it are kept at the end.
func EncodeCriteria(c filter.Criteria, origins, destinations []string) string {
	values := url.Values{}
	values.Set(minParam, strconv.FormatFloat(c.PriceMin, 'f', -1, 64))
	values.Set(maxParam, strconv.FormatFloat(c.PriceMax, 'f', -1, 64))
	addCities(values, fromParam, c.Origins, origins)
	addCities(values, toParam, c.Destinations, destinations)
	return values.Encode()
}

package common_test

import (
	"net/url"
	"testing"

	"github.com/franciscopereira987/routemap/cmd/server/common"
)

func TestParseCriteriaDefaultsToBounds(t *testing.T) {
	c := common.ParseCriteria(url.Values{}, 100, 7000)
	if c.PriceMin != 100 || c.PriceMax != 7000 {
		t.Fatalf("expected [100, 7000], got [%v, %v]", c.PriceMin, c.PriceMax)
	}
	if len(c.Origins) != 0 || len(c.Destinations) != 0 {
		t.Fatalf("expected no city restriction, got %v / %v", c.Origins, c.Destinations)
	}
}

func TestParseCriteria(t *testing.T) {
	values := url.Values{
		"min":  {"5000"},
		"max":  {"1000"},
		"from": {"Москва", ""},
		"to":   {"Сочи", "Казань"},
	}
	c := common.ParseCriteria(values, 100, 7000)
	if c.PriceMin != 1000 || c.PriceMax != 5000 {
		t.Fatalf("expected swapped [1000, 5000], got [%v, %v]", c.PriceMin, c.PriceMax)
	}
	if len(c.Origins) != 1 || !c.Origins.Allows("Москва") {
		t.Fatalf("unexpected origins %v", c.Origins)
	}
	if len(c.Destinations) != 2 || !c.Destinations.Allows("Казань") {
		t.Fatalf("unexpected destinations %v", c.Destinations)
	}
}

func TestParseCriteriaIgnoresMalformedPrice(t *testing.T) {
	for _, raw := range []string{"cheap", "NaN", "Inf", "-Inf"} {
		c := common.ParseCriteria(url.Values{"min": {raw}, "max": {raw}}, 100, 7000)
		if c.PriceMin != 100 || c.PriceMax != 7000 {
			t.Fatalf("%q: expected fallback to [100, 7000], got [%v, %v]", raw, c.PriceMin, c.PriceMax)
		}
	}
}

func TestEncodeCriteriaRoundTrip(t *testing.T) {
	cities := []string{"Казань", "Москва", "Сочи"}
	values := url.Values{
		"min":  {"250.5"},
		"max":  {"4000"},
		"from": {"Москва"},
		"to":   {"Сочи", "Казань"},
	}
	c := common.ParseCriteria(values, 100, 7000)
	encoded := common.EncodeCriteria(c, cities, cities)

	parsed, err := url.ParseQuery(encoded)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if parsed.Get("min") != "250.5" || parsed.Get("max") != "4000" {
		t.Fatalf("unexpected prices in %q", encoded)
	}
	to := parsed["to"]
	if len(to) != 2 || to[0] != "Казань" || to[1] != "Сочи" {
		t.Fatalf("expected destinations in city order, got %v", to)
	}
	again := common.ParseCriteria(parsed, 100, 7000)
	if again.PriceMin != c.PriceMin || again.PriceMax != c.PriceMax || len(again.Origins) != 1 {
		t.Fatalf("round trip changed criteria: %+v", again)
	}
}

func TestEncodeCriteriaKeepsUnknownCities(t *testing.T) {
	values := url.Values{"from": {"Атлантида", "Москва"}, "to": {"Эльдорадо"}}
	c := common.ParseCriteria(values, 100, 7000)
	encoded := common.EncodeCriteria(c, []string{"Москва"}, []string{"Москва"})

	parsed, err := url.ParseQuery(encoded)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	from := parsed["from"]
	if len(from) != 2 || from[0] != "Москва" || from[1] != "Атлантида" {
		t.Fatalf("expected known then unknown origins, got %v", from)
	}
	if to := parsed["to"]; len(to) != 1 || to[0] != "Эльдорадо" {
		t.Fatalf("expected the unknown destination to survive, got %v", to)
	}
}

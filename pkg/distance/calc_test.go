package distance_test

import (
	"errors"
	"math"
	"testing"

	"github.com/franciscopereira987/routemap/pkg/distance"
)

var (
	moscow = distance.Coordinates{Lat: 55.7558, Lon: 37.6176}
	kazan  = distance.Coordinates{Lat: 55.7963, Lon: 49.1088}
)

func TestKm(t *testing.T) {
	got := distance.Km(moscow, kazan)
	// Moscow to Kazan is roughly 720 km as the crow flies.
	if math.Abs(got-720) > 15 {
		t.Fatalf("expected about 720 km, got %f", got)
	}
	if d := distance.Km(moscow, moscow); d != 0 {
		t.Fatalf("expected zero distance, got %f", d)
	}
}

func TestCalculateDistance(t *testing.T) {
	comp := distance.NewComputer(map[string]distance.Coordinates{
		"Москва": moscow,
		"Казань": kazan,
	})

	d, err := comp.CalculateDistance("Москва", "Казань")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	back, _ := comp.CalculateDistance("Казань", "Москва")
	if d != back {
		t.Fatalf("distance should be symmetric: %f vs %f", d, back)
	}

	if _, err := comp.CalculateDistance("Москва", "Атлантида"); !errors.Is(err, distance.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := comp.CalculateDistance("Атлантида", "Москва"); !errors.Is(err, distance.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLocate(t *testing.T) {
	comp := distance.NewComputer(nil)
	if _, ok := comp.Locate("Москва"); ok {
		t.Fatalf("an empty computer must not locate anything")
	}
	comp = distance.NewComputer(map[string]distance.Coordinates{"Москва": moscow})
	if c, ok := comp.Locate("Москва"); !ok || c != moscow {
		t.Fatalf("expected %v, got %v (%v)", moscow, c, ok)
	}
}

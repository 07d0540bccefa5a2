package distance

import (
	"errors"
	"fmt"

	"github.com/umahmood/haversine"
)

type Coordinates = haversine.Coord

var ErrNotFound = errors.New("unknown city")

// Km is the great-circle distance between a and b in kilometres.
func Km(a, b Coordinates) float64 {
	_, km := haversine.Distance(a, b)
	return km
}

// DistanceComputer measures routes between named cities.
type DistanceComputer struct {
	coordinates map[string]Coordinates
}

func NewComputer(coordinates map[string]Coordinates) *DistanceComputer {
	if coordinates == nil {
		coordinates = make(map[string]Coordinates)
	}
	return &DistanceComputer{
		coordinates: coordinates,
	}
}

func (comp DistanceComputer) Locate(name string) (Coordinates, bool) {
	c, ok := comp.coordinates[name]
	return c, ok
}

// CalculateDistance fails with ErrNotFound when either city has no
// coordinates.
func (comp DistanceComputer) CalculateDistance(origin string, destination string) (float64, error) {
	originCoor, okOrigin := comp.coordinates[origin]
	if !okOrigin {
		return 0, fmt.Errorf("%w: %s", ErrNotFound, origin)
	}
	destinationCoor, okDest := comp.coordinates[destination]
	if !okDest {
		return 0, fmt.Errorf("%w: %s", ErrNotFound, destination)
	}
	return Km(originCoor, destinationCoor), nil
}

package geocode

import (
	"fmt"
	"strings"
	"sync"

	"github.com/franciscopereira987/routemap/pkg/distance"
	"github.com/franciscopereira987/routemap/pkg/state"
)

// Store persists successful lookups so they survive a restart.
type Store interface {
	Load() (map[string]distance.Coordinates, error)
	Save(city string, coords distance.Coordinates) error
	Close() error
}

// OpenStore builds the store named by driver: "memory" (or empty) returns a
// nil Store, "json" a state file and "sqlite" a database file at path.
func OpenStore(driver, path string) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", "memory":
		return nil, nil
	case "json":
		return NewJSONStore(path), nil
	case "sqlite":
		store, err := OpenSQLiteStore(path)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported cache driver: %s", driver)
	}
}

const citiesKey = "cities"

// JSONStore keeps coordinates in a JSON document rewritten atomically on
// every save.
type JSONStore struct {
	mu    sync.Mutex
	state *state.StateManager
}

func NewJSONStore(filename string) *JSONStore {
	return &JSONStore{state: state.NewStateManager(filename)}
}

func (s *JSONStore) Load() (map[string]distance.Coordinates, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.state.RecoverState(); err != nil {
		return nil, err
	}
	saved := make(map[string]distance.Coordinates)
	cities, err := s.state.Keys(citiesKey)
	if err != nil {
		// nothing saved yet
		return saved, nil
	}
	for _, city := range cities {
		lat, err := s.state.GetFloat(citiesKey, city, "lat")
		if err != nil {
			return nil, err
		}
		lon, err := s.state.GetFloat(citiesKey, city, "lon")
		if err != nil {
			return nil, err
		}
		saved[city] = distance.Coordinates{Lat: lat, Lon: lon}
	}
	return saved, nil
}

func (s *JSONStore) Save(city string, coords distance.Coordinates) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	value := map[string]any{"lat": coords.Lat, "lon": coords.Lon}
	if err := s.state.Add(value, citiesKey, city); err != nil {
		return err
	}
	return s.state.DumpState()
}

func (s *JSONStore) Close() error {
	return nil
}

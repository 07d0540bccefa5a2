package geocode

import (
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/franciscopereira987/routemap/pkg/distance"
)

type entry struct {
	coords   distance.Coordinates
	resolved bool
}

// Cache maps exact city names to lookup outcomes for the process lifetime.
// Entries are never evicted. Successful entries are written through to the
// optional Store; failures stay in memory.
type Cache struct {
	mu      sync.Mutex
	entries map[string]entry
	store   Store
}

// NewCache returns an empty cache warmed from store. A nil store keeps
// everything in memory.
func NewCache(store Store) (*Cache, error) {
	c := &Cache{
		entries: make(map[string]entry),
		store:   store,
	}
	if store == nil {
		return c, nil
	}
	saved, err := store.Load()
	if err != nil {
		return nil, err
	}
	for city, coords := range saved {
		c.entries[city] = entry{coords: coords, resolved: true}
	}
	log.Infof("action: warm_cache | result: success | cities: %d", len(saved))
	return c, nil
}

// Get returns the remembered outcome for city. found is false when city has
// never been looked up.
func (c *Cache) Get(city string) (coords distance.Coordinates, resolved bool, found bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, found := c.entries[city]
	return e.coords, e.resolved, found
}

func (c *Cache) Put(city string, coords distance.Coordinates, resolved bool) {
	c.mu.Lock()
	c.entries[city] = entry{coords: coords, resolved: resolved}
	c.mu.Unlock()

	if resolved && c.store != nil {
		if err := c.store.Save(city, coords); err != nil {
			log.Warnf("action: persist_coordinates | result: fail | city: %s | error: %s", city, err)
		}
	}
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

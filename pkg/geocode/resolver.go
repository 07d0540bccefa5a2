package geocode

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/franciscopereira987/routemap/pkg/distance"
)

// Progress receives the number of cities handled so far out of total.
type Progress func(done, total int)

// Resolver memoises a Lookuper through a Cache. Lookups are serialised so
// the client delay bounds the request rate of the whole process.
type Resolver struct {
	lookup Lookuper
	cache  *Cache
	mu     sync.Mutex
}

func NewResolver(lookup Lookuper, cache *Cache) *Resolver {
	if cache == nil {
		cache, _ = NewCache(nil)
	}
	return &Resolver{
		lookup: lookup,
		cache:  cache,
	}
}

func (r *Resolver) Cache() *Cache {
	return r.cache
}

// Resolve returns the coordinates of city, asking the remote service only
// the first time a given name is seen.
func (r *Resolver) Resolve(ctx context.Context, city string) (distance.Coordinates, bool) {
	if coords, resolved, found := r.cache.Get(city); found {
		return coords, resolved
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// another caller may have resolved it while we waited
	if coords, resolved, found := r.cache.Get(city); found {
		return coords, resolved
	}
	if ctx.Err() != nil {
		return distance.Coordinates{}, false
	}

	coords, resolved := r.lookup.Lookup(ctx, city)
	if ctx.Err() != nil {
		// an interrupted request says nothing about the city
		return coords, false
	}
	r.cache.Put(city, coords, resolved)
	return coords, resolved
}

// ResolveAll resolves cities one after the other and returns the ones that
// succeeded. progress, when not nil, is called after every city. It stops
// early with the context error if ctx is done.
func (r *Resolver) ResolveAll(ctx context.Context, cities []string, progress Progress) (map[string]distance.Coordinates, error) {
	coordinates := make(map[string]distance.Coordinates, len(cities))
	total := len(cities)

	for i, city := range cities {
		if err := ctx.Err(); err != nil {
			log.Warnf("action: resolve_cities | result: fail | done: %d | total: %d | error: %s", i, total, context.Cause(ctx))
			return coordinates, err
		}
		if coords, ok := r.Resolve(ctx, city); ok {
			coordinates[city] = coords
		}
		if progress != nil {
			progress(i+1, total)
		}
	}
	if err := ctx.Err(); err != nil {
		return coordinates, err
	}

	log.Infof("action: resolve_cities | result: success | cities: %d | resolved: %d", total, len(coordinates))
	return coordinates, nil
}

package session

import (
	"context"
	"errors"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/franciscopereira987/routemap/pkg/distance"
	"github.com/franciscopereira987/routemap/pkg/geocode"
	"github.com/franciscopereira987/routemap/pkg/routes"
)

type Phase int

const (
	Idle Phase = iota
	Resolving
	Built
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Resolving:
		return "resolving"
	case Built:
		return "built"
	}
	return "unknown"
}

var (
	ErrBusy     = errors.New("map is being built")
	ErrNotBuilt = errors.New("map has not been built")
	ErrReset    = errors.New("map was reset while resolving")
)

type Resolver interface {
	ResolveAll(ctx context.Context, cities []string, progress geocode.Progress) (map[string]distance.Coordinates, error)
}

// MapState is a snapshot of a session.
type MapState struct {
	Phase       Phase
	Coordinates map[string]distance.Coordinates
	Progress    float64
}

// Controller holds the map state of one user session:
//
//	Idle --Build--> Resolving --done--> Built --Reset--> Idle
//
// Build while Built reuses the stored coordinates. Filter changes do not
// leave Built.
type Controller struct {
	id       string
	resolver Resolver

	mu         sync.Mutex
	state      MapState
	generation int
}

func NewController(id string, resolver Resolver) *Controller {
	return &Controller{
		id:       id,
		resolver: resolver,
	}
}

func (c *Controller) ID() string {
	return c.id
}

func (c *Controller) State() MapState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Coordinates returns the stored coordinates of a built map.
func (c *Controller) Coordinates() (map[string]distance.Coordinates, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Phase != Built {
		return nil, ErrNotBuilt
	}
	return c.state.Coordinates, nil
}

// Build geocodes the cities of table unless the map is already built, in
// which case the stored coordinates are returned untouched. A cancelled
// context brings the session back to Idle.
func (c *Controller) Build(ctx context.Context, table []routes.Route) (map[string]distance.Coordinates, error) {
	c.mu.Lock()
	switch c.state.Phase {
	case Built:
		coords := c.state.Coordinates
		c.mu.Unlock()
		return coords, nil
	case Resolving:
		c.mu.Unlock()
		return nil, ErrBusy
	}
	c.state = MapState{Phase: Resolving}
	generation := c.generation
	c.mu.Unlock()

	cities := routes.Cities(table)
	log.Infof("action: build_map | result: in_progress | session: %s | cities: %d", c.id, len(cities))

	coords, err := c.resolver.ResolveAll(ctx, cities, func(done, total int) {
		c.mu.Lock()
		if c.generation == generation {
			c.state.Progress = float64(done) / float64(total)
		}
		c.mu.Unlock()
	})

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation != generation {
		return nil, ErrReset
	}
	if err != nil {
		c.state = MapState{Phase: Idle}
		log.Warnf("action: build_map | result: fail | session: %s | error: %s", c.id, err)
		return nil, err
	}
	c.state = MapState{Phase: Built, Coordinates: coords, Progress: 1}
	log.Infof("action: build_map | result: success | session: %s | resolved: %d/%d", c.id, len(coords), len(cities))
	return coords, nil
}

// Reset forgets the stored coordinates so the next Build geocodes again.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	c.state = MapState{Phase: Idle}
	log.Infof("action: reset_map | result: success | session: %s", c.id)
}

package session

import (
	"time"

	"github.com/bluele/gcache"
	"github.com/google/uuid"
)

const (
	DefaultMaxSessions = 1024
	DefaultTTL         = 2 * time.Hour
)

// Registry keeps the controllers of recent sessions. The least recently
// used session is dropped when full, and a session untouched for ttl
// expires.
type Registry struct {
	cache gcache.Cache
}

func NewRegistry(size int, ttl time.Duration, resolver Resolver) *Registry {
	if size <= 0 {
		size = DefaultMaxSessions
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	cache := gcache.New(size).
		LRU().
		Expiration(ttl).
		LoaderFunc(func(key interface{}) (interface{}, error) {
			return NewController(key.(string), resolver), nil
		}).
		Build()
	return &Registry{cache: cache}
}

// Get returns the controller of session id, creating it on first use.
func (r *Registry) Get(id string) (*Controller, error) {
	v, err := r.cache.Get(id)
	if err != nil {
		return nil, err
	}
	ctrl := v.(*Controller)
	// refresh the expiry
	if err := r.cache.Set(id, ctrl); err != nil {
		return nil, err
	}
	return ctrl, nil
}

func (r *Registry) Len() int {
	return r.cache.Len(true)
}

// NewID returns a random (version 4) session identifier.
func NewID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

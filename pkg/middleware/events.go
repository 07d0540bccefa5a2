package middleware

import (
	"context"
	"encoding/json"
	"time"

	log "github.com/sirupsen/logrus"
)

const (
	MapBuiltKey = "map.built"
	MapResetKey = "map.reset"
)

// Publisher is the part of Middleware the notifier needs.
type Publisher interface {
	Publish(ctx context.Context, exchange, key string, body []byte) error
}

type MapEvent struct {
	Session    string    `json:"session"`
	Routes     int       `json:"routes,omitempty"`
	Lines      int       `json:"lines,omitempty"`
	Markers    int       `json:"markers,omitempty"`
	Unresolved []string  `json:"unresolved,omitempty"`
	At         time.Time `json:"at"`
}

// Notifier announces session map changes on an exchange. A nil Notifier
// drops every event.
type Notifier struct {
	pub      Publisher
	exchange string
	now      func() time.Time
}

func NewNotifier(pub Publisher, exchange string) *Notifier {
	return &Notifier{
		pub:      pub,
		exchange: exchange,
		now:      time.Now,
	}
}

func (n *Notifier) notify(ctx context.Context, key string, event MapEvent) {
	if n == nil {
		return
	}
	event.At = n.now().UTC()
	body, err := json.Marshal(event)
	if err == nil {
		err = n.pub.Publish(ctx, n.exchange, key, body)
	}
	if err != nil {
		log.Warnf("action: publish | result: fail | key: %s | session: %s | error: %s", key, event.Session, err)
		return
	}
	log.Debugf("action: publish | result: success | key: %s | session: %s", key, event.Session)
}

func (n *Notifier) MapBuilt(ctx context.Context, event MapEvent) {
	n.notify(ctx, MapBuiltKey, event)
}

func (n *Notifier) MapReset(ctx context.Context, sessionID string) {
	n.notify(ctx, MapResetKey, MapEvent{Session: sessionID})
}

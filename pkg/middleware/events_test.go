package middleware_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/franciscopereira987/routemap/pkg/middleware"
)

type published struct {
	exchange, key string
	body          []byte
}

type fakePublisher struct {
	sent []published
	err  error
}

func (f *fakePublisher) Publish(_ context.Context, exchange, key string, body []byte) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, published{exchange, key, body})
	return nil
}

func TestNotifierPublishesEvents(t *testing.T) {
	pub := &fakePublisher{}
	n := middleware.NewNotifier(pub, "routemap")

	n.MapBuilt(context.Background(), middleware.MapEvent{Session: "s1", Routes: 2, Lines: 1, Markers: 2, Unresolved: []string{"Атлантида"}})
	n.MapReset(context.Background(), "s1")

	if len(pub.sent) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(pub.sent))
	}
	if pub.sent[0].exchange != "routemap" || pub.sent[0].key != middleware.MapBuiltKey || pub.sent[1].key != middleware.MapResetKey {
		t.Fatalf("unexpected routing: %+v", pub.sent)
	}
	var event middleware.MapEvent
	if err := json.Unmarshal(pub.sent[0].body, &event); err != nil {
		t.Fatalf("invalid body: %s", err)
	}
	if event.Session != "s1" || event.Lines != 1 || len(event.Unresolved) != 1 || event.At.IsZero() {
		t.Fatalf("unexpected event %+v", event)
	}
}

func TestNotifierSwallowsFailures(t *testing.T) {
	n := middleware.NewNotifier(&fakePublisher{err: errors.New("down")}, "routemap")
	n.MapReset(context.Background(), "s1")

	var none *middleware.Notifier
	none.MapBuilt(context.Background(), middleware.MapEvent{Session: "s1"})
}

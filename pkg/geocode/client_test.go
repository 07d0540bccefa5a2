package geocode_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/franciscopereira987/routemap/pkg/geocode"
)

func newNominatim(t *testing.T, handler http.HandlerFunc) (*geocode.Client, *int) {
	t.Helper()
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	client := geocode.NewClient(geocode.ClientConfig{
		BaseURL:     srv.URL,
		Country:     "Russia",
		CountryCode: "RU",
		UserAgent:   "RouteMapper/test",
		Delay:       time.Second,
	})
	return client, &calls
}

func TestSearchRequestShape(t *testing.T) {
	client, _ := newNominatim(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if r.URL.Path != "/search" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := q.Get("q"); got != "Казань, Russia" {
			t.Errorf("unexpected query %q", got)
		}
		if q.Get("format") != "json" || q.Get("limit") != "1" || q.Get("countrycodes") != "RU" {
			t.Errorf("unexpected params %v", q)
		}
		if ua := r.Header.Get("User-Agent"); ua != "RouteMapper/test" {
			t.Errorf("unexpected user agent %q", ua)
		}
		fmt.Fprint(w, `[{"lat":"55.7963","lon":"49.1088","display_name":"Казань"}]`)
	})

	coords, err := client.Search(context.Background(), "Казань")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if coords.Lat != 55.7963 || coords.Lon != 49.1088 {
		t.Fatalf("unexpected coordinates %v", coords)
	}
}

func TestSearchFailures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"empty result", http.StatusOK, `[]`, geocode.ErrNoResult},
		{"server error", http.StatusInternalServerError, `oops`, geocode.ErrStatus},
		{"rate limited", http.StatusTooManyRequests, ``, geocode.ErrStatus},
		{"bad body", http.StatusOK, `{"lat":1}`, nil},
		{"bad latitude", http.StatusOK, `[{"lat":"north","lon":"1"}]`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newNominatim(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			})
			_, err := client.Search(context.Background(), "Нигде")
			if err == nil {
				t.Fatalf("expected an error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLookupSwallowsErrorsAndWaits(t *testing.T) {
	client, calls := newNominatim(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	var slept []time.Duration
	client.SetSleep(func(_ context.Context, d time.Duration) { slept = append(slept, d) })

	if _, ok := client.Lookup(context.Background(), "Казань"); ok {
		t.Fatalf("expected lookup to fail")
	}
	if *calls != 1 {
		t.Fatalf("expected one request, got %d", *calls)
	}
	if len(slept) != 1 || slept[0] != time.Second {
		t.Fatalf("expected one pause of 1s, got %v", slept)
	}
}

func TestLookupUnreachable(t *testing.T) {
	client := geocode.NewClient(geocode.ClientConfig{BaseURL: "http://127.0.0.1:1"})
	client.SetSleep(func(context.Context, time.Duration) {})
	if _, ok := client.Lookup(context.Background(), "Казань"); ok {
		t.Fatalf("expected lookup to fail on a closed port")
	}
}

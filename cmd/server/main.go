package main

import (
	"context"
	"errors"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/franciscopereira987/routemap/cmd/server/common"
	"github.com/franciscopereira987/routemap/pkg/distance"
	"github.com/franciscopereira987/routemap/pkg/geocode"
	mid "github.com/franciscopereira987/routemap/pkg/middleware"
	"github.com/franciscopereira987/routemap/pkg/render"
	"github.com/franciscopereira987/routemap/pkg/routes"
	"github.com/franciscopereira987/routemap/pkg/session"
	"github.com/franciscopereira987/routemap/pkg/utils"
)

const shutdownTimeout = 5 * time.Second

var defaults = map[string]any{
	"log.level":            "info",
	"log.format":           "text",
	"server.address":       ":8080",
	"data.file":            "unique_routes_avg_price.csv",
	"data.comma":           ",",
	"geocode.url":          geocode.DefaultURL,
	"geocode.country":      geocode.DefaultCountry,
	"geocode.country_code": geocode.DefaultCountryCode,
	"geocode.user_agent":   geocode.DefaultUserAgent,
	"geocode.delay":        geocode.DefaultDelay,
	"geocode.timeout":      time.Duration(0),
	"cache.driver":         "memory",
	"cache.path":           "coordinates.json",
	"session.max":          session.DefaultMaxSessions,
	"session.ttl":          session.DefaultTTL,
	"events.url":           "",
	"events.exchange":      "routemap",
	"map.lat":              render.DefaultLat,
	"map.lon":              render.DefaultLon,
	"map.zoom":             render.DefaultZoom,
	"map.tiles":            render.DefaultTiles,
	"map.attribution":      render.DefaultAttribution,
}

func comma(v *viper.Viper) rune {
	r := []rune(v.GetString("data.comma"))
	if len(r) == 0 {
		return ','
	}
	return r[0]
}

func viewport(v *viper.Viper) render.Viewport {
	return render.Viewport{
		Center:      distance.Coordinates{Lat: v.GetFloat64("map.lat"), Lon: v.GetFloat64("map.lon")},
		Zoom:        v.GetInt("map.zoom"),
		Tiles:       v.GetString("map.tiles"),
		Attribution: v.GetString("map.attribution"),
	}
}

// setupEvents connects to the broker when one is configured. Both results are
// nil otherwise.
func setupEvents(v *viper.Viper) (*mid.Middleware, *mid.Notifier, error) {
	url := v.GetString("events.url")
	if url == "" {
		return nil, nil, nil
	}
	m, err := mid.Dial(url)
	if err != nil {
		return nil, nil, err
	}
	exchange, err := m.ExchangeDeclare(v.GetString("events.exchange"))
	if err != nil {
		m.Close()
		return nil, nil, err
	}
	log.Infof("action: events | result: success | exchange: %s", exchange)
	return m, mid.NewNotifier(m, exchange), nil
}

func main() {
	v, err := utils.InitConfig("routemap", "cmd/server/config.yaml", defaults)
	if err != nil {
		log.Fatal(err)
	}
	if err := utils.InitLogger(v.GetString("log.level"), v.GetString("log.format")); err != nil {
		log.Fatal(err)
	}
	utils.PrintConfig(v, utils.ConfigKeys(defaults)...)

	store, err := geocode.OpenStore(v.GetString("cache.driver"), v.GetString("cache.path"))
	if err != nil {
		log.Fatal(err)
	}
	if store != nil {
		defer store.Close()
	}
	cache, err := geocode.NewCache(store)
	if err != nil {
		log.Fatal(err)
	}
	client := geocode.NewClient(geocode.ClientConfig{
		BaseURL:     v.GetString("geocode.url"),
		Country:     v.GetString("geocode.country"),
		CountryCode: v.GetString("geocode.country_code"),
		UserAgent:   v.GetString("geocode.user_agent"),
		Delay:       v.GetDuration("geocode.delay"),
		Timeout:     v.GetDuration("geocode.timeout"),
	})
	resolver := geocode.NewResolver(client, cache)

	events, notifier, err := setupEvents(v)
	if err != nil {
		log.Fatal(err)
	}
	if events != nil {
		defer events.Close()
	}

	server := common.NewServer(
		routes.NewSource(v.GetString("data.file"), comma(v)),
		session.NewRegistry(v.GetInt("session.max"), v.GetDuration("session.ttl"), resolver),
		notifier,
		viewport(v),
	)

	ctx, cancel := utils.WithSignal(context.Background())
	defer cancel(nil)

	errs := make(chan error, 1)
	go func() {
		errs <- server.Start(v.GetString("server.address"))
	}()

	select {
	case err := <-errs:
		if err != nil {
			log.Errorf("action: serve | result: fail | error: %s", err)
		}
		return
	case <-ctx.Done():
	}

	log.Infof("action: shutdown | result: in_progress | cause: %s", context.Cause(ctx))
	shutdownCtx, done := context.WithTimeout(context.Background(), shutdownTimeout)
	defer done()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		log.Errorf("action: shutdown | result: fail | error: %s", err)
		return
	}
	log.Info("action: shutdown | result: success")
}

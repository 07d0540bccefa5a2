package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/franciscopereira987/routemap/cmd/geocoder/common"
	"github.com/franciscopereira987/routemap/pkg/geocode"
	"github.com/franciscopereira987/routemap/pkg/routes"
	"github.com/franciscopereira987/routemap/pkg/utils"
)

var defaults = map[string]any{
	"log.level":            "info",
	"log.format":           "text",
	"data.file":            "unique_routes_avg_price.csv",
	"data.comma":           ",",
	"geocode.url":          geocode.DefaultURL,
	"geocode.country":      geocode.DefaultCountry,
	"geocode.country_code": geocode.DefaultCountryCode,
	"geocode.user_agent":   geocode.DefaultUserAgent,
	"geocode.delay":        time.Second,
	"geocode.timeout":      10 * time.Second,
	"cache.driver":         "sqlite",
	"cache.path":           "coordinates.db",
}

func main() {
	v, err := utils.InitConfig("geocoder", "cmd/geocoder/config.yaml", defaults)
	if err != nil {
		log.Fatal(err)
	}
	if err := utils.InitLogger(v.GetString("log.level"), v.GetString("log.format")); err != nil {
		log.Fatal(err)
	}
	utils.PrintConfig(v, utils.ConfigKeys(defaults)...)

	driver := strings.ToLower(v.GetString("cache.driver"))
	if driver != "json" && driver != "sqlite" {
		log.Fatal(fmt.Errorf("cache.driver must be json or sqlite to keep the results, got %q", driver))
	}
	store, err := geocode.OpenStore(driver, v.GetString("cache.path"))
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()

	cache, err := geocode.NewCache(store)
	if err != nil {
		log.Fatal(err)
	}
	log.Infof("action: open_store | result: success | driver: %s | cached: %d", driver, cache.Len())

	comma := ','
	if r := []rune(v.GetString("data.comma")); len(r) > 0 {
		comma = r[0]
	}
	table, err := routes.NewSource(v.GetString("data.file"), comma).Load()
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

	ctx, cancel := utils.WithSignal(context.Background())
	defer cancel(nil)

	if _, err := common.Warmup(ctx, table, geocode.NewResolver(client, cache)); err != nil {
		log.Error(err)
	}
}

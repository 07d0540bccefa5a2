package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/franciscopereira987/routemap/pkg/distance"
)

const (
	DefaultURL         = "https://nominatim.openstreetmap.org"
	DefaultCountry     = "Russia"
	DefaultCountryCode = "ru"
	DefaultUserAgent   = "RouteMapper/1.0"
	DefaultDelay       = 100 * time.Millisecond
)

var (
	ErrStatus   = errors.New("unexpected response status")
	ErrNoResult = errors.New("no result")
)

// Lookuper resolves a single city name. A false result means the name could
// not be resolved for whatever reason.
type Lookuper interface {
	Lookup(ctx context.Context, city string) (distance.Coordinates, bool)
}

type ClientConfig struct {
	BaseURL     string
	Country     string
	CountryCode string
	UserAgent   string
	Delay       time.Duration
	Timeout     time.Duration
}

// Client queries the Nominatim search endpoint, restricted to one country.
type Client struct {
	http   *http.Client
	config ClientConfig
	sleep  func(context.Context, time.Duration)
}

// searchResult keeps only the fields we read from a Nominatim answer.
type searchResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

func NewClient(config ClientConfig) *Client {
	if config.BaseURL == "" {
		config.BaseURL = DefaultURL
	}
	if config.UserAgent == "" {
		config.UserAgent = DefaultUserAgent
	}
	return &Client{
		http:   &http.Client{Timeout: config.Timeout},
		config: config,
		sleep:  sleepCtx,
	}
}

// SetSleep replaces the pause taken after every request.
func (c *Client) SetSleep(sleep func(context.Context, time.Duration)) {
	c.sleep = sleep
}

func sleepCtx(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

func (c *Client) query(city string) string {
	if c.config.Country == "" {
		return city
	}
	return city + ", " + c.config.Country
}

func (c *Client) searchURL(city string) string {
	params := url.Values{}
	params.Set("q", c.query(city))
	params.Set("format", "json")
	params.Set("limit", "1")
	if c.config.CountryCode != "" {
		params.Set("countrycodes", c.config.CountryCode)
	}
	return c.config.BaseURL + "/search?" + params.Encode()
}

// Search performs one request and reports why it failed, if it did.
func (c *Client) Search(ctx context.Context, city string) (distance.Coordinates, error) {
	var coords distance.Coordinates

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.searchURL(city), nil)
	if err != nil {
		return coords, err
	}
	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return coords, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return coords, fmt.Errorf("%w: %d", ErrStatus, resp.StatusCode)
	}

	var results []searchResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return coords, err
	}
	if len(results) == 0 {
		return coords, ErrNoResult
	}
	if coords.Lat, err = strconv.ParseFloat(results[0].Lat, 64); err != nil {
		return coords, err
	}
	if coords.Lon, err = strconv.ParseFloat(results[0].Lon, 64); err != nil {
		return coords, err
	}
	return coords, nil
}

// Lookup is Search with every failure collapsed into false. The configured
// delay is observed after each request regardless of the outcome.
func (c *Client) Lookup(ctx context.Context, city string) (distance.Coordinates, bool) {
	coords, err := c.Search(ctx, city)
	c.sleep(ctx, c.config.Delay)
	if err != nil {
		log.Debugf("action: geocode | result: fail | city: %s | error: %s", city, err)
		return coords, false
	}
	log.Debugf("action: geocode | result: success | city: %s | lat: %f | lon: %f", city, coords.Lat, coords.Lon)
	return coords, true
}

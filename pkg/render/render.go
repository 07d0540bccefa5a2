package render

import (
	"fmt"
	"html"
	"strconv"

	"github.com/golang/geo/s2"

	"github.com/franciscopereira987/routemap/pkg/distance"
	"github.com/franciscopereira987/routemap/pkg/routes"
)

type Role string

const (
	Origin      Role = "origin"
	Destination Role = "destination"
)

type LineStyle struct {
	Color   string  `json:"color"`
	Weight  int     `json:"weight"`
	Opacity float64 `json:"opacity"`
}

type MarkerStyle struct {
	Color       string  `json:"color"`
	FillColor   string  `json:"fillColor"`
	Radius      int     `json:"radius"`
	FillOpacity float64 `json:"fillOpacity"`
}

var (
	RouteStyle = LineStyle{Color: "blue", Weight: 2, Opacity: 0.8}

	MarkerStyles = map[Role]MarkerStyle{
		Origin:      {Color: "green", FillColor: "lightgreen", Radius: 4, FillOpacity: 0.8},
		Destination: {Color: "red", FillColor: "lightcoral", Radius: 4, FillOpacity: 0.8},
	}
)

const (
	DefaultLat         = 55.7558
	DefaultLon         = 37.6176
	DefaultZoom        = 5
	DefaultTiles       = "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png"
	DefaultAttribution = "&copy; OpenStreetMap contributors"
)

// Viewport is the fixed initial view of the map.
type Viewport struct {
	Center      distance.Coordinates
	Zoom        int
	Tiles       string
	Attribution string
}

func DefaultViewport() Viewport {
	return Viewport{
		Center:      distance.Coordinates{Lat: DefaultLat, Lon: DefaultLon},
		Zoom:        DefaultZoom,
		Tiles:       DefaultTiles,
		Attribution: DefaultAttribution,
	}
}

// Line connects the origin of a route to its destination.
type Line struct {
	Route   routes.Route
	From    distance.Coordinates
	To      distance.Coordinates
	Km      float64
	Tooltip string
}

type Marker struct {
	City    string
	Role    Role
	At      distance.Coordinates
	Tooltip string
}

type Map struct {
	Viewport Viewport
	Lines    []Line
	Markers  []Marker
}

// Render draws every route whose two cities have coordinates and marks each
// city once, with the role it had the first time it was drawn. Routes with
// an unresolved city are skipped.
func Render(table []routes.Route, coordinates map[string]distance.Coordinates, vp Viewport) *Map {
	m := &Map{
		Viewport: vp,
		Lines:    []Line{},
		Markers:  []Marker{},
	}
	comp := distance.NewComputer(coordinates)
	marked := make(map[string]struct{})

	mark := func(city string, role Role, at distance.Coordinates) {
		if _, ok := marked[city]; ok {
			return
		}
		marked[city] = struct{}{}
		m.Markers = append(m.Markers, Marker{
			City:    city,
			Role:    role,
			At:      at,
			Tooltip: "<b>" + html.EscapeString(city) + "</b>",
		})
	}

	for _, r := range table {
		km, err := comp.CalculateDistance(r.Origin, r.Destination)
		if err != nil {
			continue
		}
		from, _ := comp.Locate(r.Origin)
		to, _ := comp.Locate(r.Destination)

		m.Lines = append(m.Lines, Line{
			Route:   r,
			From:    from,
			To:      to,
			Km:      km,
			Tooltip: routeTooltip(r, km),
		})
		mark(r.Origin, Origin, from)
		mark(r.Destination, Destination, to)
	}
	return m
}

func FormatPrice(price float64) string {
	return strconv.FormatFloat(price, 'f', -1, 64)
}

func routeTooltip(r routes.Route, km float64) string {
	return fmt.Sprintf(
		"<b>Маршрут:</b> %s<br><b>Цена:</b> %s руб.<br><b>Откуда:</b> %s<br><b>Куда:</b> %s<br><b>Расстояние:</b> %.0f км",
		html.EscapeString(r.Label),
		FormatPrice(r.AvgPrice),
		html.EscapeString(r.Origin),
		html.EscapeString(r.Destination),
		km,
	)
}

// Bounds is the smallest lat/lng rectangle holding every drawn point. It is
// empty when nothing was drawn.
func (m *Map) Bounds() s2.Rect {
	rect := s2.EmptyRect()
	for _, l := range m.Lines {
		rect = rect.AddPoint(s2.LatLngFromDegrees(l.From.Lat, l.From.Lon))
		rect = rect.AddPoint(s2.LatLngFromDegrees(l.To.Lat, l.To.Lon))
	}
	return rect
}

// Unresolved lists the cities of table that have no coordinates, in order of
// first appearance.
func Unresolved(table []routes.Route, coordinates map[string]distance.Coordinates) []string {
	var missing []string
	seen := make(map[string]struct{})
	for _, r := range table {
		for _, city := range [2]string{r.Origin, r.Destination} {
			if _, ok := coordinates[city]; ok {
				continue
			}
			if _, ok := seen[city]; ok {
				continue
			}
			seen[city] = struct{}{}
			missing = append(missing, city)
		}
	}
	return missing
}

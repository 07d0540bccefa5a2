package render

import (
	"html/template"
	"io"
)

type point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type lineView struct {
	From    point     `json:"from"`
	To      point     `json:"to"`
	Style   LineStyle `json:"style"`
	Tooltip string    `json:"tooltip"`
}

type markerView struct {
	At      point       `json:"at"`
	Style   MarkerStyle `json:"style"`
	Tooltip string      `json:"tooltip"`
}

type mapView struct {
	Center      point        `json:"center"`
	Zoom        int          `json:"zoom"`
	Tiles       string       `json:"tiles"`
	Attribution string       `json:"attribution"`
	Lines       []lineView   `json:"lines"`
	Markers     []markerView `json:"markers"`
}

// Leaflet itself is loaded by the page embedding the fragment.
var mapTemplate = template.Must(template.New("map").Parse(`<div id="{{.ID}}" class="route-map"></div>
<script>
(function () {
  var data = {{.Data}};
  var map = L.map({{.ID}}).setView([data.center.lat, data.center.lon], data.zoom);
  L.tileLayer(data.tiles, {attribution: data.attribution}).addTo(map);
  data.lines.forEach(function (l) {
    L.polyline([[l.from.lat, l.from.lon], [l.to.lat, l.to.lon]], l.style)
      .bindTooltip(l.tooltip)
      .addTo(map);
  });
  data.markers.forEach(function (m) {
    L.circleMarker([m.at.lat, m.at.lon], m.style)
      .bindTooltip(m.tooltip)
      .addTo(map);
  });
})();
</script>
`))

func (m *Map) view() mapView {
	v := mapView{
		Center:      point{m.Viewport.Center.Lat, m.Viewport.Center.Lon},
		Zoom:        m.Viewport.Zoom,
		Tiles:       m.Viewport.Tiles,
		Attribution: m.Viewport.Attribution,
		Lines:       make([]lineView, 0, len(m.Lines)),
		Markers:     make([]markerView, 0, len(m.Markers)),
	}
	for _, l := range m.Lines {
		v.Lines = append(v.Lines, lineView{
			From:    point{l.From.Lat, l.From.Lon},
			To:      point{l.To.Lat, l.To.Lon},
			Style:   RouteStyle,
			Tooltip: l.Tooltip,
		})
	}
	for _, mk := range m.Markers {
		v.Markers = append(v.Markers, markerView{
			At:      point{mk.At.Lat, mk.At.Lon},
			Style:   MarkerStyles[mk.Role],
			Tooltip: mk.Tooltip,
		})
	}
	return v
}

// WriteHTML writes a Leaflet map fragment into w. id names the container
// element.
func (m *Map) WriteHTML(w io.Writer, id string) error {
	return mapTemplate.Execute(w, struct {
		ID   string
		Data mapView
	}{id, m.view()})
}

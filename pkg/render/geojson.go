package render

import (
	geojson "github.com/paulmach/go.geojson"

	"github.com/franciscopereira987/routemap/pkg/distance"
)

// GeoJSON positions are [longitude, latitude].
func position(c distance.Coordinates) []float64 {
	return []float64{c.Lon, c.Lat}
}

// FeatureCollection holds one LineString per route followed by one Point per
// marker. The bbox is left unset when nothing was drawn.
func (m *Map) FeatureCollection() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	if rect := m.Bounds(); !rect.IsEmpty() {
		fc.BoundingBox = []float64{
			rect.Lo().Lng.Degrees(),
			rect.Lo().Lat.Degrees(),
			rect.Hi().Lng.Degrees(),
			rect.Hi().Lat.Degrees(),
		}
	}

	for _, l := range m.Lines {
		f := geojson.NewLineStringFeature([][]float64{position(l.From), position(l.To)})
		f.SetProperty("route", l.Route.Label)
		f.SetProperty("from_city", l.Route.Origin)
		f.SetProperty("to_city", l.Route.Destination)
		f.SetProperty("avg_price", l.Route.AvgPrice)
		f.SetProperty("km", l.Km)
		f.SetProperty("style", RouteStyle)
		fc.AddFeature(f)
	}
	for _, mk := range m.Markers {
		f := geojson.NewPointFeature(position(mk.At))
		f.SetProperty("city", mk.City)
		f.SetProperty("role", string(mk.Role))
		f.SetProperty("style", MarkerStyles[mk.Role])
		fc.AddFeature(f)
	}
	return fc
}

func (m *Map) GeoJSON() ([]byte, error) {
	return m.FeatureCollection().MarshalJSON()
}

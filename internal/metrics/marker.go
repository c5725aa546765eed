package metrics

import (
	"encoding/json"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/procolombia/territory-profile/internal/frame"
	"github.com/procolombia/territory-profile/internal/territory"
)

// Map defaults: the country centroid at a zoom showing the whole territory.
var (
	MapCenter = [2]float64{4.5709, -74.2973}
	MapZoom   = 5
)

// Marker is the map widget payload. Center is (lat, lon); Feature is a
// GeoJSON point in (lon, lat) order.
type Marker struct {
	Center  [2]float64      `json:"center"`
	Zoom    int             `json:"zoom"`
	Feature json.RawMessage `json:"feature,omitempty"`
	NoData  bool            `json:"no_data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// NewMarker builds the map payload for a location row.
func NewMarker(place frame.Row, popup string) (*Marker, error) {
	lat, err := place.Float(territory.ColLatitude)
	if err != nil {
		return nil, err
	}
	lon, err := place.Float(territory.ColLongitude)
	if err != nil {
		return nil, err
	}

	pt := geom.NewPointFlat(geom.XY, []float64{lon, lat}).SetSRID(4326)
	feature := &geojson.Feature{
		Geometry:   pt,
		Properties: map[string]any{"popup": popup},
	}
	data, err := json.Marshal(feature)
	if err != nil {
		return nil, eris.Wrap(err, "metrics: encode marker")
	}

	return &Marker{Center: MapCenter, Zoom: MapZoom, Feature: data}, nil
}

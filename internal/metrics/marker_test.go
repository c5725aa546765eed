package metrics

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/procolombia/territory-profile/internal/frame"
	"github.com/procolombia/territory-profile/internal/territory"
)

func TestNewMarker(t *testing.T) {
	place := frame.New(
		[]string{territory.ColLatitude, territory.ColLongitude},
		[][]any{{7.0847, -70.7591}},
	).Row(0)

	m, err := NewMarker(place, "Arauca - Arauca")
	require.NoError(t, err)
	assert.Equal(t, MapCenter, m.Center)
	assert.Equal(t, MapZoom, m.Zoom)

	var feature struct {
		Type     string `json:"type"`
		Geometry struct {
			Type        string    `json:"type"`
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
		Properties map[string]string `json:"properties"`
	}
	require.NoError(t, json.Unmarshal(m.Feature, &feature))
	assert.Equal(t, "Feature", feature.Type)
	assert.Equal(t, "Point", feature.Geometry.Type)
	assert.Equal(t, []float64{-70.7591, 7.0847}, feature.Geometry.Coordinates)
	assert.Equal(t, "Arauca - Arauca", feature.Properties["popup"])
}

func TestNewMarker_NullCoordinates(t *testing.T) {
	place := frame.New(
		[]string{territory.ColLatitude, territory.ColLongitude},
		[][]any{{nil, -70.7591}},
	).Row(0)

	_, err := NewMarker(place, "x")
	var le *frame.LookupError
	assert.ErrorAs(t, err, &le)
}

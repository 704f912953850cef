package tweet

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"soundwatch/internal/domain/geo"
)

func acceptanceBox() geo.BoundingBox {
	return geo.PugetSoundBox()
}

func TestCoordinatePrefersNativeGeotag(t *testing.T) {
	tw := Tweet{
		Geo:        &geo.Coordinate{Latitude: 47.61, Longitude: -122.33},
		ProfileGeo: &geo.Coordinate{Latitude: 47.25, Longitude: -122.44},
	}

	c, ok := tw.Coordinate(acceptanceBox())
	assert.True(t, ok)
	assert.Equal(t, 47.61, c.Latitude)
	assert.Equal(t, -122.33, c.Longitude)
}

func TestCoordinateFallsBackToProfileGeo(t *testing.T) {
	tw := Tweet{ProfileGeo: &geo.Coordinate{Latitude: 47.25, Longitude: -122.44}}

	c, ok := tw.Coordinate(acceptanceBox())
	assert.True(t, ok)
	assert.Equal(t, 47.25, c.Latitude)
}

func TestCoordinateRejectsProfileGeoOutsideBox(t *testing.T) {
	cases := []struct {
		name string
		c    geo.Coordinate
	}{
		{"too far south", geo.Coordinate{Latitude: 46.99, Longitude: -122.44}},
		{"on the latitude edge", geo.Coordinate{Latitude: 47.0, Longitude: -122.44}},
		{"too far west", geo.Coordinate{Latitude: 47.5, Longitude: -122.71}},
		{"on the west edge", geo.Coordinate{Latitude: 47.5, Longitude: -122.7}},
		{"too far east", geo.Coordinate{Latitude: 47.5, Longitude: -121.9}},
		{"on the east edge", geo.Coordinate{Latitude: 47.5, Longitude: -122.0}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tw := Tweet{ProfileGeo: &tc.c}
			_, ok := tw.Coordinate(acceptanceBox())
			assert.False(t, ok)
		})
	}
}

func TestCoordinateAbsentWithoutAnyGeo(t *testing.T) {
	_, ok := Tweet{}.Coordinate(acceptanceBox())
	assert.False(t, ok)
}

func TestIDLess(t *testing.T) {
	assert.True(t, IDLess("99", "100"))
	assert.True(t, IDLess("100", "101"))
	assert.False(t, IDLess("101", "100"))
	assert.False(t, IDLess("100", "100"))
}

func TestMaxID(t *testing.T) {
	assert.Equal(t, "100", MaxID("", "100"))
	assert.Equal(t, "100", MaxID("100", ""))
	assert.Equal(t, "100", MaxID("99", "100"))
	assert.Equal(t, "1234567890123456789", MaxID("1234567890123456789", "999999999999999999"))
}

package render

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"

	"soundwatch/internal/domain/geo"
	"soundwatch/internal/domain/tweet"
)

// Boundary is a geographic boundary loaded from a GeoJSON file, used to
// keep only tweets inside the study region.
type Boundary struct {
	fc *geojson.FeatureCollection
}

// LoadBoundary reads a GeoJSON boundary file.
func LoadBoundary(path string) (*Boundary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read boundary file %s: %w", path, err)
	}

	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("unable to parse boundary file %s: %w", path, err)
	}

	return &Boundary{fc: fc}, nil
}

// Contains reports whether a coordinate lies inside any polygon of the
// boundary.
func (b *Boundary) Contains(c geo.Coordinate) bool {
	point := orb.Point{c.Longitude, c.Latitude}
	for _, feature := range b.fc.Features {
		switch g := feature.Geometry.(type) {
		case orb.Polygon:
			if planar.PolygonContains(g, point) {
				return true
			}
		case orb.MultiPolygon:
			if planar.MultiPolygonContains(g, point) {
				return true
			}
		}
	}
	return false
}

// TweetPoints builds a point feature collection from every tweet that
// resolves to a final coordinate. When boundary is non-nil, points
// outside it are dropped.
func TweetPoints(corpus *tweet.Corpus, box geo.BoundingBox, boundary *Boundary) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	for _, t := range corpus.Tweets {
		coord, ok := t.Coordinate(box)
		if !ok {
			continue
		}
		if boundary != nil && !boundary.Contains(coord) {
			continue
		}

		f := geojson.NewFeature(orb.Point{coord.Longitude, coord.Latitude})
		f.Properties["id"] = t.ID
		f.Properties["created_at"] = t.CreatedAt
		f.Properties["retweets"] = t.RetweetCount
		f.Properties["text"] = t.Text
		if t.Geo != nil {
			f.Properties["source"] = "geotag"
		} else {
			f.Properties["source"] = "profile"
		}
		fc.Append(f)
	}

	return fc
}

// WriteGeoJSON writes a feature collection to a file.
func WriteGeoJSON(path string, fc *geojson.FeatureCollection) error {
	data, err := json.Marshal(fc)
	if err != nil {
		return fmt.Errorf("unable to encode feature collection: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("unable to write %s: %w", path, err)
	}

	return nil
}

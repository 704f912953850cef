package geo

// Coordinate represents a geographic point in decimal degrees.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// BoundingBox is a rectangular acceptance region for coordinates. All
// comparisons are strict: a point on an edge is outside the box.
type BoundingBox struct {
	MinLat float64 `yaml:"min_lat" json:"min_lat"`
	MaxLat float64 `yaml:"max_lat" json:"max_lat"`
	MinLng float64 `yaml:"min_lng" json:"min_lng"`
	MaxLng float64 `yaml:"max_lng" json:"max_lng"`
}

// Contains reports whether the coordinate falls strictly inside the box.
func (b BoundingBox) Contains(c Coordinate) bool {
	return c.Latitude > b.MinLat && c.Latitude < b.MaxLat &&
		c.Longitude > b.MinLng && c.Longitude < b.MaxLng
}

// Circle is a geographic search filter: a center point plus a radius in
// kilometers, as accepted by the search API's point_radius operator.
type Circle struct {
	Center   Coordinate
	RadiusKm float64
}

// PugetSoundBox is the default acceptance box for geocoded profile
// locations: north of 47.0, between -122.7 and -122.0 longitude.
func PugetSoundBox() BoundingBox {
	return BoundingBox{
		MinLat: 47.0,
		MaxLat: 90.0,
		MinLng: -122.7,
		MaxLng: -122.0,
	}
}

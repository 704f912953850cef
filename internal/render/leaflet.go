package render

import (
	"encoding/json"
	"fmt"
	"html/template"
	"os"

	"github.com/paulmach/orb/geojson"

	"soundwatch/internal/domain/geo"
)

// leafletPage is a self-contained interactive map: OpenStreetMap tiles,
// the tweet points inlined as GeoJSON, circle markers sized by retweets.
const leafletPage = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css">
<script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
<style>
  html, body, #map { height: 100%; margin: 0; }
</style>
</head>
<body>
<div id="map"></div>
<script>
  var map = L.map('map').setView([{{.Lat}}, {{.Lng}}], {{.Zoom}});
  L.tileLayer('https://tile.openstreetmap.org/{z}/{x}/{y}.png', {
    attribution: '&copy; OpenStreetMap contributors'
  }).addTo(map);

  var points = {{.Points}};
  var layer = L.geoJSON(points, {
    pointToLayer: function (feature, latlng) {
      var r = 4 + Math.log(1 + (feature.properties.retweets || 0));
      return L.circleMarker(latlng, {
        radius: r,
        color: feature.properties.source === 'geotag' ? '#d73027' : '#4575b4',
        fillOpacity: 0.6,
        weight: 1
      });
    },
    onEachFeature: function (feature, l) {
      l.bindPopup(feature.properties.text);
    }
  }).addTo(map);

  if (layer.getBounds().isValid()) {
    map.fitBounds(layer.getBounds().pad(0.1));
  }
</script>
</body>
</html>
`

var leafletTemplate = template.Must(template.New("map").Parse(leafletPage))

// MapOptions controls the interactive map page.
type MapOptions struct {
	Title  string
	Center geo.Coordinate
	Zoom   int
}

// WriteMapHTML renders the interactive map page to a file.
func WriteMapHTML(path string, points *geojson.FeatureCollection, opts MapOptions) error {
	data, err := json.Marshal(points)
	if err != nil {
		return fmt.Errorf("unable to encode map points: %w", err)
	}

	if opts.Title == "" {
		opts.Title = "soundwatch map"
	}
	if opts.Zoom == 0 {
		opts.Zoom = 10
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("unable to create map file %s: %w", path, err)
	}
	defer f.Close()

	return leafletTemplate.Execute(f, struct {
		Title  string
		Lat    float64
		Lng    float64
		Zoom   int
		Points template.JS
	}{
		Title:  opts.Title,
		Lat:    opts.Center.Latitude,
		Lng:    opts.Center.Longitude,
		Zoom:   opts.Zoom,
		Points: template.JS(data),
	})
}

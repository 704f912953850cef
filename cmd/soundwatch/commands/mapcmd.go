package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"soundwatch/internal/domain/geo"
	"soundwatch/internal/render"
)

var (
	mapGeoJSONOut string
	mapHTMLOut    string
	mapBoundary   string
	mapTitle      string
)

var mapCmd = &cobra.Command{
	Use:   "map",
	Short: "Render located tweets to GeoJSON and an interactive map page.",
	Long: `Render located tweets to GeoJSON and an interactive map page.

A tweet is located by its native geotag when present, otherwise by its
author's geocoded profile location when that falls inside the region
acceptance box. With --boundary only points inside the boundary polygons
are kept.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		corpus, _, err := loadCorpus()
		if err != nil {
			return err
		}

		var boundary *render.Boundary
		if mapBoundary != "" {
			boundary, err = render.LoadBoundary(mapBoundary)
			if err != nil {
				return err
			}
		}

		points := render.TweetPoints(corpus, cfg.Region.Box, boundary)

		if mapGeoJSONOut != "" {
			if err := render.WriteGeoJSON(mapGeoJSONOut, points); err != nil {
				return err
			}
			fmt.Printf("wrote %d points to %s\n", len(points.Features), mapGeoJSONOut)
		}

		if mapHTMLOut != "" {
			box := cfg.Region.Box
			center := geo.Coordinate{
				Latitude:  (box.MinLat + box.MaxLat) / 2,
				Longitude: (box.MinLng + box.MaxLng) / 2,
			}
			// The default box is open to the north, pin the map to the sound
			if box.MaxLat > 49 {
				center.Latitude = 47.6
			}

			if err := render.WriteMapHTML(mapHTMLOut, points, render.MapOptions{
				Title:  mapTitle,
				Center: center,
				Zoom:   10,
			}); err != nil {
				return err
			}
			fmt.Printf("wrote map page to %s\n", mapHTMLOut)
		}

		if mapGeoJSONOut == "" && mapHTMLOut == "" {
			return fmt.Errorf("nothing to do, pass --geojson or --html")
		}
		return nil
	},
}

func init() {
	mapCmd.Flags().StringVar(&mapGeoJSONOut, "geojson", "", "write points to a GeoJSON file")
	mapCmd.Flags().StringVar(&mapHTMLOut, "html", "", "write an interactive map page")
	mapCmd.Flags().StringVar(&mapBoundary, "boundary", "", "GeoJSON boundary file to clip points")
	mapCmd.Flags().StringVar(&mapTitle, "title", "Puget Sound tweets", "map page title")
	rootCmd.AddCommand(mapCmd)
}

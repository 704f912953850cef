package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"soundwatch/internal/service/geocode"
)

var geocodeCmd = &cobra.Command{
	Use:   "geocode",
	Short: "Geocode profile locations and attach accepted coordinates to the corpus.",
	Long: `Geocode profile locations and attach accepted coordinates to the corpus.

Every distinct self-reported profile location is resolved once through
the configured geocoder and cached on disk. Coordinates are attached
only when they fall inside the region acceptance box.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		corpus, store, err := loadCorpus()
		if err != nil {
			return err
		}

		geocoder := geocode.New(cfg.Geocoder, logger)
		resolver := geocode.NewResolver(geocoder, cfg.Region.Box, logger)

		stats, err := resolver.Enrich(cmd.Context(), corpus)
		// The cache keeps whatever was resolved even when the pass failed
		if saveErr := geocoder.SaveCache(); saveErr != nil {
			logger.Warn("unable to save geocode cache", "error", saveErr)
		}
		if err != nil {
			return err
		}

		if err := store.Save(corpus); err != nil {
			return err
		}

		fmt.Printf("geocoded %d distinct locations: %d resolved, %d in region, %d tweets assigned, %d misses\n",
			stats.Distinct, stats.Resolved, stats.Accepted, stats.Assigned, stats.Misses)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(geocodeCmd)
}

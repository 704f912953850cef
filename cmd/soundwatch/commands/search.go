package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"soundwatch/internal/adapter/storage"
	"soundwatch/internal/client/standard"
	"soundwatch/internal/domain/geo"
	"soundwatch/internal/service/acquire"
)

var (
	searchLat    float64
	searchLng    float64
	searchRadius float64
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Fetch recent tweets for a query and merge them into the corpus.",
	Long: `Fetch recent tweets for a query and merge them into the corpus.

Each run resumes from the newest tweet identifier already held, so
repeated runs grow the corpus without duplicates. With --lat, --lng and
--radius the query is restricted to a bounding circle.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := args[0]
		if searchRadius > 0 {
			query = standard.CircleQuery(query, geo.Circle{
				Center:   geo.Coordinate{Latitude: searchLat, Longitude: searchLng},
				RadiusKm: searchRadius,
			})
		}

		client, err := standard.New(cfg.Twitter, logger)
		if err != nil {
			return err
		}

		events, err := connectNATS()
		if err != nil {
			return err
		}
		if events != nil {
			defer events.Close()
		}

		session := acquire.NewSession(
			client,
			storage.NewCheckpointStore(cfg.Acquire.CheckpointFile),
			events,
			acquire.Config{
				PageSize:    cfg.Acquire.PageSize,
				MaxPages:    cfg.Acquire.MaxPages,
				EventsTopic: cfg.Acquire.EventsTopic,
			},
			logger,
		)

		corpus, stats, err := session.Run(cmd.Context(), query)
		if err != nil {
			return err
		}

		if cfg.Acquire.PostgresDSN != "" {
			if err := mirrorToPostgres(cmd, corpus); err != nil {
				return err
			}
		}

		fmt.Printf("session %s: %d pages, %d fetched, %d added, %d total (max id %s)\n",
			stats.SessionID, stats.Pages, stats.Fetched, stats.Added, stats.Total, stats.MaxID)
		return nil
	},
}

func init() {
	searchCmd.Flags().Float64Var(&searchLat, "lat", 0, "bounding circle center latitude")
	searchCmd.Flags().Float64Var(&searchLng, "lng", 0, "bounding circle center longitude")
	searchCmd.Flags().Float64Var(&searchRadius, "radius", 0, "bounding circle radius in km")
	rootCmd.AddCommand(searchCmd)
}

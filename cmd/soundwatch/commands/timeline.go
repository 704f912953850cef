package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"soundwatch/internal/adapter/storage"
	"soundwatch/internal/client/standard"
	"soundwatch/internal/service/acquire"
)

var timelineCmd = &cobra.Command{
	Use:   "timeline <user-id>",
	Short: "Fetch a user's recent tweets and merge them into the corpus.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		userID := args[0]

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

		fetch := func(ctx context.Context, sinceID, nextToken string, pageSize int) (*standard.Page, error) {
			return client.UserTimeline(ctx, userID, sinceID, nextToken, pageSize)
		}

		corpus, stats, err := session.RunWith(cmd.Context(), "timeline:"+userID, fetch)
		if err != nil {
			return err
		}

		fmt.Printf("timeline %s: %d pages, %d fetched, %d added, %d total (max id %s)\n",
			userID, stats.Pages, stats.Fetched, stats.Added, len(corpus.Tweets), stats.MaxID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(timelineCmd)
}

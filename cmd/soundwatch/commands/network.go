package commands

import (
	"github.com/spf13/cobra"

	"soundwatch/internal/client/standard"
)

var networkPageSize int

var followersCmd = &cobra.Command{
	Use:   "followers <user-id>",
	Short: "List the followers of a user.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := standard.New(cfg.Twitter, logger)
		if err != nil {
			return err
		}

		users, err := client.Followers(cmd.Context(), args[0], networkPageSize)
		if err != nil {
			return err
		}

		printUsers(users)
		return nil
	},
}

var followingCmd = &cobra.Command{
	Use:   "following <user-id>",
	Short: "List the accounts a user follows.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := standard.New(cfg.Twitter, logger)
		if err != nil {
			return err
		}

		users, err := client.Following(cmd.Context(), args[0], networkPageSize)
		if err != nil {
			return err
		}

		printUsers(users)
		return nil
	},
}

func init() {
	followersCmd.Flags().IntVar(&networkPageSize, "page-size", 100, "results per page")
	followingCmd.Flags().IntVar(&networkPageSize, "page-size", 100, "results per page")
	rootCmd.AddCommand(followersCmd)
	rootCmd.AddCommand(followingCmd)
}

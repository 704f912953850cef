package commands

import (
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"soundwatch/internal/client/standard"
	"soundwatch/internal/domain/tweet"
)

var usersByID bool

var usersCmd = &cobra.Command{
	Use:   "users <name-or-id>...",
	Short: "Look up user records by screen name or, with --id, by identifier.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := standard.New(cfg.Twitter, logger)
		if err != nil {
			return err
		}

		var users []tweet.User
		if usersByID {
			users, err = client.UsersByIDs(cmd.Context(), args)
		} else {
			users, err = client.UsersByNames(cmd.Context(), args)
		}
		if err != nil {
			return err
		}

		printUsers(users)
		return nil
	},
}

func init() {
	usersCmd.Flags().BoolVar(&usersByID, "id", false, "treat arguments as user identifiers")
	rootCmd.AddCommand(usersCmd)
}

func printUsers(users []tweet.User) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"ID", "Username", "Name", "Location", "Followers", "Following", "Tweets"})
	for _, u := range users {
		t.AppendRow(table.Row{u.ID, u.UserName, u.Name, u.Location, u.Followers, u.Following, u.Tweets})
	}
	t.Render()
}

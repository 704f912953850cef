package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"soundwatch/internal/adapter/storage"
	"soundwatch/internal/client/archive"
)

var (
	archiveCountry  string
	archiveStart    string
	archiveEnd      string
	archiveOutDir   string
	archiveMaxPages int
)

var archiveCmd = &cobra.Command{
	Use:   "archive <query>",
	Short: "Export tweets from the full archive to newline-delimited JSON files.",
	Long: `Export tweets from the full archive to newline-delimited JSON files.

Requires academic access credentials. Each result page lands in its own
file under the output directory; use the bind command to assemble the
files into a corpus.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		start, err := time.Parse("2006-01-02", archiveStart)
		if err != nil {
			return fmt.Errorf("invalid --start date: %w", err)
		}
		end, err := time.Parse("2006-01-02", archiveEnd)
		if err != nil {
			return fmt.Errorf("invalid --end date: %w", err)
		}

		client := archive.New(cfg.Archive, cfg.Twitter.BearerToken, logger)
		total, err := client.Export(cmd.Context(), archive.ExportRequest{
			Query:    args[0],
			Country:  archiveCountry,
			Start:    start,
			End:      end,
			OutDir:   archiveOutDir,
			MaxPages: archiveMaxPages,
		})
		if err != nil {
			return err
		}

		fmt.Printf("exported %d tweets to %s\n", total, archiveOutDir)
		return nil
	},
}

func init() {
	archiveCmd.Flags().StringVar(&archiveCountry, "country", "", "restrict to a place country code, e.g. US")
	archiveCmd.Flags().StringVar(&archiveStart, "start", "", "start date (YYYY-MM-DD)")
	archiveCmd.Flags().StringVar(&archiveEnd, "end", "", "end date (YYYY-MM-DD)")
	archiveCmd.Flags().StringVar(&archiveOutDir, "out", "data/archive", "output directory for page files")
	archiveCmd.Flags().IntVar(&archiveMaxPages, "max-pages", 0, "page limit, 0 for unbounded")
	archiveCmd.MarkFlagRequired("start")
	archiveCmd.MarkFlagRequired("end")
	rootCmd.AddCommand(archiveCmd)
}

var bindCmd = &cobra.Command{
	Use:   "bind <dir> <query>",
	Short: "Assemble exported archive page files into the corpus checkpoint.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		corpus, err := archive.Bind(args[0], args[1])
		if err != nil {
			return err
		}

		store := storage.NewCheckpointStore(cfg.Acquire.CheckpointFile)
		if err := store.Save(corpus); err != nil {
			return err
		}

		fmt.Printf("bound %d tweets from %s into %s\n",
			len(corpus.Tweets), args[0], cfg.Acquire.CheckpointFile)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(bindCmd)
}

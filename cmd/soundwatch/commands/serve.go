package commands

import (
	"context"
	"net/http"

	"github.com/spf13/cobra"

	"soundwatch/internal/adapter/storage"
	"soundwatch/internal/analysis"
	"soundwatch/internal/server"
	"soundwatch/internal/server/handlers"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the corpus and analyses over HTTP.",
	Long: `Serve the corpus and analyses over HTTP.

Endpoints read the checkpoint on demand, so a search running in another
process shows up without restarting the server. When NATS is configured
the /ws/live endpoint streams acquisition progress events.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		assets, err := loadAssets()
		if err != nil {
			return err
		}

		natsConn, err := connectNATS()
		if err != nil {
			return err
		}
		if natsConn != nil {
			defer natsConn.Close()
		}

		srv := server.NewServer(
			cfg.Server,
			storage.NewCheckpointStore(cfg.Acquire.CheckpointFile),
			assets,
			cfg.Region.Box,
			natsConn,
			cfg.Acquire.EventsTopic,
			logger,
		)

		errCh := make(chan error, 1)
		go func() {
			logger.Info("starting HTTP server", "host", cfg.Server.Host, "port", cfg.Server.Port)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				errCh <- err
			}
		}()

		select {
		case err := <-errCh:
			return err
		case <-cmd.Context().Done():
		}

		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		return srv.Shutdown(shutdownCtx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

// loadAssets loads the word lists the analysis endpoints use. Missing
// sentiment or dictionary files disable those endpoints rather than
// failing startup.
func loadAssets() (handlers.Assets, error) {
	stopwords, err := loadStopwords()
	if err != nil {
		return handlers.Assets{}, err
	}

	assets := handlers.Assets{Stopwords: stopwords}

	lexicon, err := analysis.LoadLexicon(cfg.Analysis.PositiveFile, cfg.Analysis.NegativeFile)
	if err != nil {
		logger.Warn("sentiment lexicon unavailable", "error", err)
	} else {
		assets.Lexicon = lexicon
	}

	dictionary, err := loadDictionary()
	if err != nil {
		logger.Warn("dictionary unavailable", "error", err)
	} else {
		assets.Dictionary = dictionary
	}

	return assets, nil
}

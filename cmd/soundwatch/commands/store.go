package commands

import (
	"github.com/spf13/cobra"

	"soundwatch/internal/adapter/storage"
	"soundwatch/internal/domain/tweet"
)

// mirrorToPostgres upserts the corpus into the configured Postgres
// archive so it can be queried alongside other sessions.
func mirrorToPostgres(cmd *cobra.Command, corpus *tweet.Corpus) error {
	ctx := cmd.Context()

	db, err := storage.Connect(ctx, cfg.Acquire.PostgresDSN)
	if err != nil {
		return err
	}
	defer db.Close()

	store := storage.NewArchiveStore(db)
	if err := store.EnsureSchema(ctx); err != nil {
		return err
	}
	if err := store.SaveTweets(ctx, corpus.Tweets); err != nil {
		return err
	}
	if err := store.SaveUsers(ctx, corpus.Users); err != nil {
		return err
	}

	logger.Info("corpus mirrored to postgres", "tweets", len(corpus.Tweets), "users", len(corpus.Users))
	return nil
}

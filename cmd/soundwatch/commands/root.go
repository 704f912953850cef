package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"

	"soundwatch/internal/adapter/storage"
	"soundwatch/internal/analysis"
	"soundwatch/internal/config"
	"soundwatch/internal/domain/tweet"
)

var (
	cfgFile string

	cfg    config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "soundwatch",
	Short: "soundwatch collects, geocodes and analyzes tweets about the Puget Sound region.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// A missing .env is fine, credentials may come from the environment
		godotenv.Load()

		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return err
		}

		logger, err = newLogger(cfg.Logging)
		if err != nil {
			return err
		}
		slog.SetDefault(logger)

		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to a YAML config overlay")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newLogger builds the process logger. When a log directory is configured
// output goes to both stderr and a dated file inside it.
func newLogger(cfg config.LoggingConfig) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	var out io.Writer = os.Stderr
	if cfg.Dir != "" {
		if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
			return nil, fmt.Errorf("unable to create log directory: %w", err)
		}

		name := filepath.Join(cfg.Dir, time.Now().Format("2006-01-02")+".log")
		f, err := os.OpenFile(name, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("unable to open log file: %w", err)
		}
		out = io.MultiWriter(os.Stderr, f)
	}

	return slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level})), nil
}

// loadCorpus reads the checkpoint and fails if no corpus has been
// acquired yet.
func loadCorpus() (*tweet.Corpus, *storage.CheckpointStore, error) {
	store := storage.NewCheckpointStore(cfg.Acquire.CheckpointFile)
	corpus, err := store.Load()
	if err != nil {
		return nil, nil, err
	}
	if corpus == nil {
		return nil, nil, fmt.Errorf("no corpus at %s, run a search or bind first", cfg.Acquire.CheckpointFile)
	}
	return corpus, store, nil
}

// loadStopwords loads the stopword list, tolerating a missing file.
func loadStopwords() (*analysis.WordList, error) {
	stopwords, err := analysis.LoadWordList(cfg.Analysis.StopwordsFile)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Warn("stopword file missing, tokenizing without stopwords", "path", cfg.Analysis.StopwordsFile)
		return analysis.NewWordList(), nil
	}
	return stopwords, err
}

// connectNATS connects to the event bus when a URL is configured. A nil
// connection disables event publishing.
func connectNATS() (*nats.Conn, error) {
	if cfg.NATS.URL == "" {
		return nil, nil
	}

	nc, err := nats.Connect(cfg.NATS.URL,
		nats.MaxReconnects(cfg.NATS.MaxReconnects),
		nats.ReconnectWait(cfg.NATS.ReconnectWait),
		nats.Timeout(cfg.NATS.ConnectTimeout),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			logger.Warn("NATS disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("NATS reconnected", "url", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to NATS: %w", err)
	}

	return nc, nil
}

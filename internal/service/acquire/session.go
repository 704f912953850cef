package acquire

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"soundwatch/internal/client/standard"
	"soundwatch/internal/domain/tweet"
)

// SearchClient is the slice of the standard client a session needs.
type SearchClient interface {
	Search(ctx context.Context, query, sinceID, nextToken string, pageSize int) (*standard.Page, error)
}

// CheckpointStore persists the corpus between sessions.
type CheckpointStore interface {
	Load() (*tweet.Corpus, error)
	Save(corpus *tweet.Corpus) error
}

// Config contains session configuration.
type Config struct {
	PageSize    int
	MaxPages    int
	EventsTopic string
}

// Session runs one incremental fetch-and-merge pass: load the checkpoint,
// request only tweets newer than the maximum identifier already held,
// merge page by page, save the checkpoint. A short page is treated as
// end-of-data for this run; the next session resumes from the new MaxID.
type Session struct {
	client      SearchClient
	checkpoints CheckpointStore
	events      *nats.Conn
	cfg         Config
	log         *slog.Logger
}

// Stats summarizes one session run.
type Stats struct {
	SessionID string `json:"session_id"`
	Query     string `json:"query"`
	Pages     int    `json:"pages"`
	Fetched   int    `json:"fetched"`
	Added     int    `json:"added"`
	MaxID     string `json:"max_id"`
	Total     int    `json:"total"`
}

// NewSession creates a session. The events connection may be nil, in
// which case no batch events are published.
func NewSession(client SearchClient, checkpoints CheckpointStore, events *nats.Conn, cfg Config, log *slog.Logger) *Session {
	return &Session{
		client:      client,
		checkpoints: checkpoints,
		events:      events,
		cfg:         cfg,
		log:         log,
	}
}

// PageFunc fetches one page of results for a session. Implementations
// close over whichever endpoint they page.
type PageFunc func(ctx context.Context, sinceID, nextToken string, pageSize int) (*standard.Page, error)

// Run executes the session for a search query and returns the updated
// corpus.
func (s *Session) Run(ctx context.Context, query string) (*tweet.Corpus, Stats, error) {
	return s.RunWith(ctx, query, func(ctx context.Context, sinceID, nextToken string, pageSize int) (*standard.Page, error) {
		return s.client.Search(ctx, query, sinceID, nextToken, pageSize)
	})
}

// RunWith executes the session for a query, paging results through
// fetch. Timelines and other per-endpoint sources share the same merge,
// event and checkpoint path this way.
func (s *Session) RunWith(ctx context.Context, query string, fetch PageFunc) (*tweet.Corpus, Stats, error) {
	corpus, err := s.checkpoints.Load()
	if err != nil {
		return nil, Stats{}, err
	}

	if corpus == nil {
		corpus = tweet.NewCorpus(uuid.New().String(), query)
		s.log.Info("starting fresh corpus", "session", corpus.SessionID, "query", query)
	} else if corpus.Query != query {
		return nil, Stats{}, fmt.Errorf(
			"checkpoint holds query %q, refusing to merge results for %q; use a different checkpoint file",
			corpus.Query, query)
	} else {
		s.log.Info("resuming corpus",
			"session", corpus.SessionID, "max_id", corpus.MaxID, "tweets", len(corpus.Tweets))
	}

	stats := Stats{SessionID: corpus.SessionID, Query: query}
	merger := NewMerger(corpus)
	sinceID := corpus.MaxID
	nextToken := ""

	for {
		if s.cfg.MaxPages > 0 && stats.Pages >= s.cfg.MaxPages {
			break
		}

		page, err := fetch(ctx, sinceID, nextToken, s.cfg.PageSize)
		if err != nil {
			return nil, stats, err
		}
		stats.Pages++
		stats.Fetched += len(page.Tweets)

		added := merger.Merge(corpus, page.Tweets)
		stats.Added += added

		for id, u := range page.Users {
			corpus.Users[id] = u
		}

		s.publishBatch(corpus.SessionID, added, page.NewestID)

		nextToken = page.NextToken
		if nextToken == "" {
			break
		}
	}

	corpus.FetchedAt = time.Now()
	if err := s.checkpoints.Save(corpus); err != nil {
		return nil, stats, err
	}

	stats.MaxID = corpus.MaxID
	stats.Total = len(corpus.Tweets)
	s.publishComplete(stats)

	s.log.Info("session complete",
		"session", corpus.SessionID,
		"pages", stats.Pages,
		"added", stats.Added,
		"total", stats.Total,
		"max_id", stats.MaxID)

	return corpus, stats, nil
}

type batchEvent struct {
	SessionID string    `json:"session_id"`
	Added     int       `json:"added"`
	NewestID  string    `json:"newest_id"`
	Time      time.Time `json:"time"`
}

func (s *Session) publishBatch(sessionID string, added int, newestID string) {
	if s.events == nil {
		return
	}

	data, err := json.Marshal(batchEvent{
		SessionID: sessionID,
		Added:     added,
		NewestID:  newestID,
		Time:      time.Now(),
	})
	if err != nil {
		return
	}

	subject := fmt.Sprintf("%s.%s.batch", s.cfg.EventsTopic, sessionID)
	if err := s.events.Publish(subject, data); err != nil {
		s.log.Warn("unable to publish batch event", "error", err)
	}
}

func (s *Session) publishComplete(stats Stats) {
	if s.events == nil {
		return
	}

	data, err := json.Marshal(stats)
	if err != nil {
		return
	}

	subject := fmt.Sprintf("%s.%s.complete", s.cfg.EventsTopic, stats.SessionID)
	if err := s.events.Publish(subject, data); err != nil {
		s.log.Warn("unable to publish complete event", "error", err)
	}
}

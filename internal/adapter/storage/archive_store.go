package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"soundwatch/internal/domain/geo"
	"soundwatch/internal/domain/tweet"
)

// ArchiveStore mirrors acquired tweets into Postgres. It is an optional
// sink alongside the checkpoint file, useful once a corpus outgrows what
// a single analyst wants to hold in one gob blob.
type ArchiveStore struct {
	db *pgxpool.Pool
}

// Connect opens a pgx pool for the archive store.
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("unable to parse connection string: %w", err)
	}

	db, err := pgxpool.ConnectConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	return db, nil
}

// NewArchiveStore creates a new archive store.
func NewArchiveStore(db *pgxpool.Pool) *ArchiveStore {
	return &ArchiveStore{db: db}
}

// EnsureSchema creates the archive tables when they do not exist yet.
func (s *ArchiveStore) EnsureSchema(ctx context.Context) error {
	ddl := `
		CREATE TABLE IF NOT EXISTS tweets (
			id TEXT PRIMARY KEY,
			author_id TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			text TEXT NOT NULL,
			lang TEXT,
			retweet_count INT NOT NULL DEFAULT 0,
			reply_count INT NOT NULL DEFAULT 0,
			like_count INT NOT NULL DEFAULT 0,
			quote_count INT NOT NULL DEFAULT 0,
			is_retweet BOOLEAN NOT NULL DEFAULT FALSE,
			has_media BOOLEAN NOT NULL DEFAULT FALSE,
			has_url BOOLEAN NOT NULL DEFAULT FALSE,
			geo_lat DOUBLE PRECISION,
			geo_lng DOUBLE PRECISION,
			place_name TEXT,
			profile_location TEXT,
			profile_lat DOUBLE PRECISION,
			profile_lng DOUBLE PRECISION
		);

		CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			username TEXT NOT NULL,
			name TEXT,
			location TEXT,
			followers INT NOT NULL DEFAULT 0,
			following INT NOT NULL DEFAULT 0,
			tweets INT NOT NULL DEFAULT 0
		);
	`

	if _, err := s.db.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("unable to create archive schema: %w", err)
	}

	return nil
}

// SaveTweets upserts a batch of tweets.
func (s *ArchiveStore) SaveTweets(ctx context.Context, tweets []tweet.Tweet) error {
	query := `
		INSERT INTO tweets (
			id, author_id, created_at, text, lang,
			retweet_count, reply_count, like_count, quote_count,
			is_retweet, has_media, has_url,
			geo_lat, geo_lng, place_name,
			profile_location, profile_lat, profile_lng
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8, $9,
			$10, $11, $12,
			$13, $14, $15,
			$16, $17, $18
		)
		ON CONFLICT (id) DO UPDATE
		SET
			retweet_count = $6,
			reply_count = $7,
			like_count = $8,
			quote_count = $9,
			profile_lat = COALESCE($17, tweets.profile_lat),
			profile_lng = COALESCE($18, tweets.profile_lng)
	`

	batch := &pgx.Batch{}
	for _, t := range tweets {
		var geoLat, geoLng, profLat, profLng *float64
		if t.Geo != nil {
			geoLat, geoLng = &t.Geo.Latitude, &t.Geo.Longitude
		}
		if t.ProfileGeo != nil {
			profLat, profLng = &t.ProfileGeo.Latitude, &t.ProfileGeo.Longitude
		}

		batch.Queue(query,
			t.ID, t.AuthorID, t.CreatedAt, t.Text, t.Lang,
			t.RetweetCount, t.ReplyCount, t.LikeCount, t.QuoteCount,
			t.IsRetweet, t.HasMedia, t.HasURL,
			geoLat, geoLng, t.PlaceName,
			t.ProfileLocation, profLat, profLng,
		)
	}

	results := s.db.SendBatch(ctx, batch)
	defer results.Close()

	for range tweets {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("error upserting tweet: %w", err)
		}
	}

	return nil
}

// SaveUsers upserts a batch of user records.
func (s *ArchiveStore) SaveUsers(ctx context.Context, users map[string]tweet.User) error {
	query := `
		INSERT INTO users (id, username, name, location, followers, following, tweets)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE
		SET
			username = $2,
			location = $4,
			followers = $5,
			following = $6,
			tweets = $7
	`

	batch := &pgx.Batch{}
	for _, u := range users {
		batch.Queue(query, u.ID, u.UserName, u.Name, u.Location, u.Followers, u.Following, u.Tweets)
	}

	results := s.db.SendBatch(ctx, batch)
	defer results.Close()

	for range users {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("error upserting user: %w", err)
		}
	}

	return nil
}

// MaxID returns the largest tweet identifier held in the archive, or ""
// when the archive is empty. Identifiers are decimal strings, so the
// numeric maximum is found by length first, then lexicographic order.
func (s *ArchiveStore) MaxID(ctx context.Context) (string, error) {
	query := `SELECT id FROM tweets ORDER BY length(id) DESC, id DESC LIMIT 1`

	var id string
	err := s.db.QueryRow(ctx, query).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("error querying max id: %w", err)
	}

	return id, nil
}

// TweetsSince returns tweets with identifiers strictly greater than
// sinceID, oldest first. An empty sinceID returns from the beginning.
func (s *ArchiveStore) TweetsSince(ctx context.Context, sinceID string, limit int) ([]tweet.Tweet, error) {
	query := `
		SELECT
			id, author_id, created_at, text, lang,
			retweet_count, reply_count, like_count, quote_count,
			is_retweet, has_media, has_url,
			geo_lat, geo_lng, place_name,
			profile_location, profile_lat, profile_lng
		FROM tweets
		WHERE (length(id), id) > (length($1), $1)
		ORDER BY length(id), id
		LIMIT $2
	`

	rows, err := s.db.Query(ctx, query, sinceID, limit)
	if err != nil {
		return nil, fmt.Errorf("error querying tweets: %w", err)
	}
	defer rows.Close()

	var tweets []tweet.Tweet
	for rows.Next() {
		var t tweet.Tweet
		var geoLat, geoLng, profLat, profLng *float64

		err := rows.Scan(
			&t.ID, &t.AuthorID, &t.CreatedAt, &t.Text, &t.Lang,
			&t.RetweetCount, &t.ReplyCount, &t.LikeCount, &t.QuoteCount,
			&t.IsRetweet, &t.HasMedia, &t.HasURL,
			&geoLat, &geoLng, &t.PlaceName,
			&t.ProfileLocation, &profLat, &profLng,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning tweet: %w", err)
		}

		if geoLat != nil && geoLng != nil {
			t.Geo = &geo.Coordinate{Latitude: *geoLat, Longitude: *geoLng}
		}
		if profLat != nil && profLng != nil {
			t.ProfileGeo = &geo.Coordinate{Latitude: *profLat, Longitude: *profLng}
		}

		tweets = append(tweets, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tweets: %w", err)
	}

	return tweets, nil
}

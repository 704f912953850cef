package archive

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"soundwatch/internal/config"
	"soundwatch/internal/domain/geo"
	"soundwatch/internal/domain/tweet"
)

// Client talks to the full-archive search endpoint available on the
// academic access tier. Unlike the standard client it streams results to
// disk as newline-delimited JSON, one file per page, so a long export can
// be inspected and resumed file by file.
type Client struct {
	http     *resty.Client
	pageSize int
	log      *slog.Logger
}

// ExportRequest describes one bulk export run.
type ExportRequest struct {
	Query   string
	Country string
	Start   time.Time
	End     time.Time
	OutDir  string
	// MaxPages bounds the export; 0 means no bound.
	MaxPages int
}

// New creates a full-archive client.
func New(cfg config.ArchiveConfig, bearerToken string, log *slog.Logger) *Client {
	http := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetAuthToken(bearerToken).
		SetHeader("Accept", "application/json")

	return &Client{
		http:     http,
		pageSize: cfg.PageSize,
		log:      log,
	}
}

type apiMetrics struct {
	RetweetCount int `json:"retweet_count"`
	ReplyCount   int `json:"reply_count"`
	LikeCount    int `json:"like_count"`
	QuoteCount   int `json:"quote_count"`
}

type apiTweet struct {
	ID            string     `json:"id"`
	AuthorID      string     `json:"author_id"`
	CreatedAt     string     `json:"created_at"`
	Text          string     `json:"text"`
	Lang          string     `json:"lang"`
	PublicMetrics apiMetrics `json:"public_metrics"`

	ReferencedTweets []struct {
		Type string `json:"type"`
		ID   string `json:"id"`
	} `json:"referenced_tweets"`

	Attachments *struct {
		MediaKeys []string `json:"media_keys"`
	} `json:"attachments"`

	Entities *struct {
		URLs []struct {
			URL string `json:"url"`
		} `json:"urls"`
	} `json:"entities"`

	Geo *struct {
		PlaceID     string `json:"place_id"`
		Coordinates *struct {
			Type        string    `json:"type"`
			Coordinates []float64 `json:"coordinates"`
		} `json:"coordinates"`
	} `json:"geo"`
}

type apiUser struct {
	ID            string `json:"id"`
	UserName      string `json:"username"`
	Name          string `json:"name"`
	Location      string `json:"location"`
	PublicMetrics struct {
		FollowersCount int `json:"followers_count"`
		FollowingCount int `json:"following_count"`
		TweetCount     int `json:"tweet_count"`
	} `json:"public_metrics"`
}

type apiPlace struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Geo      struct {
		BBox []float64 `json:"bbox"`
	} `json:"geo"`
}

type searchResponse struct {
	Data     []apiTweet `json:"data"`
	Includes struct {
		Users  []apiUser  `json:"users"`
		Places []apiPlace `json:"places"`
	} `json:"includes"`
	Meta struct {
		NewestID    string `json:"newest_id"`
		OldestID    string `json:"oldest_id"`
		ResultCount int    `json:"result_count"`
		NextToken   string `json:"next_token"`
	} `json:"meta"`
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

// Export runs a full-archive search and writes each page to OutDir as a
// .ndjson file. It returns the number of tweets written.
func (c *Client) Export(ctx context.Context, req ExportRequest) (int, error) {
	query := req.Query
	if req.Country != "" {
		query = fmt.Sprintf("%s place_country:%s", query, req.Country)
	}

	writer, err := newDirWriter(req.OutDir, filePrefix(req))
	if err != nil {
		return 0, err
	}

	total := 0
	nextToken := ""
	for page := 1; ; page++ {
		if req.MaxPages > 0 && page > req.MaxPages {
			break
		}

		res, err := c.searchPage(ctx, query, req.Start, req.End, nextToken)
		if err != nil {
			return total, err
		}

		records := flattenPage(res)
		if len(records) > 0 {
			if err := writer.WritePage(page, records); err != nil {
				return total, err
			}
			total += len(records)
		}

		c.log.Info("archive page exported",
			"page", page, "results", res.Meta.ResultCount, "total", total)

		nextToken = res.Meta.NextToken
		if nextToken == "" {
			break
		}
	}

	return total, nil
}

func (c *Client) searchPage(ctx context.Context, query string, start, end time.Time, nextToken string) (*searchResponse, error) {
	params := map[string]string{
		"query":        query,
		"max_results":  strconv.Itoa(c.pageSize),
		"tweet.fields": "created_at,author_id,public_metrics,geo,entities,referenced_tweets,lang,attachments",
		"user.fields":  "username,name,location,public_metrics",
		"place.fields": "geo,full_name",
		"expansions":   "author_id,geo.place_id",
	}
	if !start.IsZero() {
		params["start_time"] = start.UTC().Format(time.RFC3339)
	}
	if !end.IsZero() {
		params["end_time"] = end.UTC().Format(time.RFC3339)
	}
	if nextToken != "" {
		params["next_token"] = nextToken
	}

	// Error responses carry a title/detail body, parse those too
	var out searchResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetResult(&out).
		SetError(&out).
		Get("/tweets/search/all")
	if err != nil {
		return nil, fmt.Errorf("archive search request failed: %w", err)
	}

	if resp.IsError() {
		if out.Title != "" {
			return nil, fmt.Errorf("archive search returned %d: %s: %s", resp.StatusCode(), out.Title, out.Detail)
		}
		return nil, fmt.Errorf("archive search returned %d", resp.StatusCode())
	}

	return &out, nil
}

// flattenPage joins authors and places into export records.
func flattenPage(res *searchResponse) []Record {
	users := make(map[string]tweet.User, len(res.Includes.Users))
	for _, u := range res.Includes.Users {
		users[u.ID] = tweet.User{
			ID:        u.ID,
			UserName:  u.UserName,
			Name:      u.Name,
			Location:  u.Location,
			Followers: u.PublicMetrics.FollowersCount,
			Following: u.PublicMetrics.FollowingCount,
			Tweets:    u.PublicMetrics.TweetCount,
		}
	}

	places := make(map[string]apiPlace, len(res.Includes.Places))
	for _, p := range res.Includes.Places {
		places[p.ID] = p
	}

	records := make([]Record, 0, len(res.Data))
	for _, raw := range res.Data {
		t := tweet.Tweet{
			ID:           raw.ID,
			AuthorID:     raw.AuthorID,
			Text:         raw.Text,
			Lang:         raw.Lang,
			RetweetCount: raw.PublicMetrics.RetweetCount,
			ReplyCount:   raw.PublicMetrics.ReplyCount,
			LikeCount:    raw.PublicMetrics.LikeCount,
			QuoteCount:   raw.PublicMetrics.QuoteCount,
		}

		if created, err := time.Parse(time.RFC3339, raw.CreatedAt); err == nil {
			t.CreatedAt = created
		}

		for _, ref := range raw.ReferencedTweets {
			if ref.Type == "retweeted" {
				t.IsRetweet = true
			}
		}
		t.HasMedia = raw.Attachments != nil && len(raw.Attachments.MediaKeys) > 0
		t.HasURL = raw.Entities != nil && len(raw.Entities.URLs) > 0
		if u, ok := users[raw.AuthorID]; ok {
			t.ProfileLocation = u.Location
		}

		if raw.Geo != nil {
			if raw.Geo.Coordinates != nil && len(raw.Geo.Coordinates.Coordinates) == 2 {
				t.Geo = &geo.Coordinate{
					Longitude: raw.Geo.Coordinates.Coordinates[0],
					Latitude:  raw.Geo.Coordinates.Coordinates[1],
				}
			} else if p, ok := places[raw.Geo.PlaceID]; ok && len(p.Geo.BBox) == 4 {
				// No exact point: fall back to the place bbox centroid.
				t.Geo = &geo.Coordinate{
					Longitude: (p.Geo.BBox[0] + p.Geo.BBox[2]) / 2,
					Latitude:  (p.Geo.BBox[1] + p.Geo.BBox[3]) / 2,
				}
			}
			if p, ok := places[raw.Geo.PlaceID]; ok {
				t.PlaceName = p.FullName
			}
		}

		rec := Record{Tweet: t}
		if u, ok := users[raw.AuthorID]; ok {
			rec.Author = &u
		}
		records = append(records, rec)
	}

	return records
}

func filePrefix(req ExportRequest) string {
	prefix := "archive"
	if !req.Start.IsZero() {
		prefix = "archive-" + req.Start.UTC().Format("20060102")
	}
	return prefix
}

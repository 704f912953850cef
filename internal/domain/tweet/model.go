package tweet

import (
	"time"

	"soundwatch/internal/domain/geo"
)

// Tweet is a single acquired status, flattened from the API response and
// enriched column-wise as the pipeline progresses. Geo is the native
// geotag when the tweet carried one; ProfileGeo is filled later by the
// geocoder from the author's self-reported location string.
type Tweet struct {
	ID              string          `json:"id"`
	AuthorID        string          `json:"author_id"`
	CreatedAt       time.Time       `json:"created_at"`
	Text            string          `json:"text"`
	Lang            string          `json:"lang,omitempty"`
	RetweetCount    int             `json:"retweet_count"`
	ReplyCount      int             `json:"reply_count"`
	LikeCount       int             `json:"like_count"`
	QuoteCount      int             `json:"quote_count"`
	IsRetweet       bool            `json:"is_retweet"`
	HasMedia        bool            `json:"has_media"`
	HasURL          bool            `json:"has_url"`
	Geo             *geo.Coordinate `json:"geo,omitempty"`
	PlaceName       string          `json:"place_name,omitempty"`
	ProfileLocation string          `json:"profile_location,omitempty"`
	ProfileGeo      *geo.Coordinate `json:"profile_geo,omitempty"`
}

// Coordinate resolves the final coordinate for a tweet: the native geotag
// wins when present; otherwise the geocoded profile location is used only
// if it falls inside the acceptance box; otherwise there is no coordinate.
func (t Tweet) Coordinate(box geo.BoundingBox) (geo.Coordinate, bool) {
	if t.Geo != nil {
		return *t.Geo, true
	}
	if t.ProfileGeo != nil && box.Contains(*t.ProfileGeo) {
		return *t.ProfileGeo, true
	}
	return geo.Coordinate{}, false
}

// User is an author record. Read-only once fetched; used for joins.
type User struct {
	ID        string `json:"id"`
	UserName  string `json:"username"`
	Name      string `json:"name"`
	Location  string `json:"location,omitempty"`
	Followers int    `json:"followers"`
	Following int    `json:"following"`
	Tweets    int    `json:"tweets"`
}

// Corpus is a growing result set for one query, persisted between runs so
// acquisition can resume from the maximum identifier already held.
type Corpus struct {
	SessionID string          `json:"session_id"`
	Query     string          `json:"query"`
	Tweets    []Tweet         `json:"tweets"`
	Users     map[string]User `json:"users"`
	MaxID     string          `json:"max_id"`
	FetchedAt time.Time       `json:"fetched_at"`
}

// NewCorpus creates an empty corpus for a query.
func NewCorpus(sessionID, query string) *Corpus {
	return &Corpus{
		SessionID: sessionID,
		Query:     query,
		Users:     make(map[string]User),
	}
}

// IDLess compares two snowflake identifiers numerically. The ids are
// decimal strings, so a shorter id is always smaller and equal-length ids
// compare lexicographically.
func IDLess(a, b string) bool {
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	return a < b
}

// MaxID returns the larger of two identifiers, treating "" as smallest.
func MaxID(a, b string) string {
	if a == "" {
		return b
	}
	if b == "" {
		return a
	}
	if IDLess(a, b) {
		return b
	}
	return a
}

// AuthorOf looks up the author record for a tweet, if it was fetched.
func (c *Corpus) AuthorOf(t Tweet) (User, bool) {
	u, ok := c.Users[t.AuthorID]
	return u, ok
}

// Documents returns the tweet texts keyed by tweet id, the shape the
// analysis package works on.
func (c *Corpus) Documents() map[string]string {
	docs := make(map[string]string, len(c.Tweets))
	for _, t := range c.Tweets {
		docs[t.ID] = t.Text
	}
	return docs
}

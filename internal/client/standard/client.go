package standard

import (
	"context"
	"fmt"
	"log/slog"

	twitter "github.com/g8rswimmer/go-twitter/v2"

	"soundwatch/internal/config"
	"soundwatch/internal/domain/geo"
	"soundwatch/internal/domain/tweet"
)

// Client wraps the standard-tier (recent access) API. Search, timeline,
// user lookup and follower/friend operations all surface here, flattened
// into domain records.
type Client struct {
	tw  *twitter.Client
	log *slog.Logger
}

// Page is one page of flattened search or timeline results.
type Page struct {
	Tweets    []tweet.Tweet
	Users     map[string]tweet.User
	NewestID  string
	NextToken string
}

// New creates a standard-tier client from credentials in the config.
func New(cfg config.TwitterConfig, log *slog.Logger) (*Client, error) {
	httpClient, userContext := httpClientFor(cfg)

	var authorizer twitter.Authorizer = bearerAuthorizer{Token: cfg.BearerToken}
	if userContext {
		authorizer = passthroughAuthorizer{}
	} else if cfg.BearerToken == "" {
		return nil, fmt.Errorf("no bearer token configured, run the auth command first")
	}

	return &Client{
		tw: &twitter.Client{
			Authorizer: authorizer,
			Client:     httpClient,
			Host:       cfg.Host,
		},
		log: log,
	}, nil
}

var tweetFields = []twitter.TweetField{
	twitter.TweetFieldCreatedAt,
	twitter.TweetFieldAuthorID,
	twitter.TweetFieldPublicMetrics,
	twitter.TweetFieldGeo,
	twitter.TweetFieldEntities,
	twitter.TweetFieldReferencedTweets,
	twitter.TweetFieldLanguage,
	twitter.TweetFieldAttachments,
}

var userFields = []twitter.UserField{
	twitter.UserFieldUserName,
	twitter.UserFieldName,
	twitter.UserFieldLocation,
	twitter.UserFieldPublicMetrics,
}

// CircleQuery appends a bounding-circle operator to a search query.
func CircleQuery(query string, circle geo.Circle) string {
	return fmt.Sprintf("%s point_radius:[%f %f %.0fkm]",
		query, circle.Center.Longitude, circle.Center.Latitude, circle.RadiusKm)
}

// Search fetches one page of recent search results. sinceID restricts the
// page to tweets newer than the given identifier; nextToken continues a
// previous page.
func (c *Client) Search(ctx context.Context, query, sinceID, nextToken string, pageSize int) (*Page, error) {
	opts := twitter.TweetRecentSearchOpts{
		MaxResults:  pageSize,
		TweetFields: tweetFields,
		UserFields:  userFields,
		PlaceFields: []twitter.PlaceField{twitter.PlaceFieldGeo, twitter.PlaceFieldFullName},
		Expansions:  []twitter.Expansion{twitter.ExpansionAuthorID, twitter.ExpansionGeoPlaceID},
		SinceID:     sinceID,
		NextToken:   nextToken,
	}

	res, err := c.tw.TweetRecentSearch(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("recent search failed: %w", err)
	}

	if res.RateLimit != nil {
		c.log.Debug("recent search rate limit", "remaining", res.RateLimit.Remaining)
	}

	page := flattenTweetRaw(res.Raw)
	if res.Meta != nil {
		page.NewestID = res.Meta.NewestID
		page.NextToken = res.Meta.NextToken
	}

	return page, nil
}

// UserTimeline fetches one page of a user's tweets, optionally restricted
// to tweets newer than sinceID.
func (c *Client) UserTimeline(ctx context.Context, userID, sinceID, paginationToken string, pageSize int) (*Page, error) {
	opts := twitter.UserTweetTimelineOpts{
		MaxResults:      pageSize,
		TweetFields:     tweetFields,
		UserFields:      userFields,
		Expansions:      []twitter.Expansion{twitter.ExpansionAuthorID},
		SinceID:         sinceID,
		PaginationToken: paginationToken,
	}

	res, err := c.tw.UserTweetTimeline(ctx, userID, opts)
	if err != nil {
		return nil, fmt.Errorf("user timeline failed: %w", err)
	}

	page := flattenTweetRaw(res.Raw)
	if res.Meta != nil {
		page.NewestID = res.Meta.NewestID
		page.NextToken = res.Meta.NextToken
	}

	return page, nil
}

// UsersByNames looks up user records by screen name.
func (c *Client) UsersByNames(ctx context.Context, names []string) ([]tweet.User, error) {
	res, err := c.tw.UserNameLookup(ctx, names, twitter.UserLookupOpts{UserFields: userFields})
	if err != nil {
		return nil, fmt.Errorf("user lookup by name failed: %w", err)
	}
	return flattenUsers(res.Raw), nil
}

// UsersByIDs looks up user records by identifier.
func (c *Client) UsersByIDs(ctx context.Context, ids []string) ([]tweet.User, error) {
	res, err := c.tw.UserLookup(ctx, ids, twitter.UserLookupOpts{UserFields: userFields})
	if err != nil {
		return nil, fmt.Errorf("user lookup failed: %w", err)
	}
	return flattenUsers(res.Raw), nil
}

// Followers returns one page of a user's followers.
func (c *Client) Followers(ctx context.Context, userID string, pageSize int) ([]tweet.User, error) {
	opts := twitter.UserFollowersLookupOpts{
		UserFields: userFields,
		MaxResults: pageSize,
	}

	res, err := c.tw.UserFollowersLookup(ctx, userID, opts)
	if err != nil {
		return nil, fmt.Errorf("followers lookup failed: %w", err)
	}
	return flattenUsers(res.Raw), nil
}

// Following returns one page of the accounts a user follows.
func (c *Client) Following(ctx context.Context, userID string, pageSize int) ([]tweet.User, error) {
	opts := twitter.UserFollowingLookupOpts{
		UserFields: userFields,
		MaxResults: pageSize,
	}

	res, err := c.tw.UserFollowingLookup(ctx, userID, opts)
	if err != nil {
		return nil, fmt.Errorf("following lookup failed: %w", err)
	}
	return flattenUsers(res.Raw), nil
}

// Verify issues a cheap lookup to confirm the configured credentials are
// accepted by the API.
func (c *Client) Verify(ctx context.Context) error {
	_, err := c.tw.UserNameLookup(ctx, []string{"TwitterDev"}, twitter.UserLookupOpts{})
	if err != nil {
		return fmt.Errorf("credential check failed: %w", err)
	}
	return nil
}

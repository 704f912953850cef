package standard

import (
	"time"

	twitter "github.com/g8rswimmer/go-twitter/v2"

	"soundwatch/internal/domain/geo"
	"soundwatch/internal/domain/tweet"
)

// flattenTweetRaw turns a raw API response into domain records, joining
// authors and places from the expansion includes.
func flattenTweetRaw(raw *twitter.TweetRaw) *Page {
	page := &Page{Users: make(map[string]tweet.User)}
	if raw == nil {
		return page
	}

	places := make(map[string]*twitter.PlaceObj)
	locations := make(map[string]string)
	if raw.Includes != nil {
		for _, p := range raw.Includes.Places {
			if p != nil {
				places[p.ID] = p
			}
		}
		for _, u := range raw.Includes.Users {
			if u == nil {
				continue
			}
			page.Users[u.ID] = flattenUser(u)
			locations[u.ID] = u.Location
		}
	}

	for _, obj := range raw.Tweets {
		if obj == nil {
			continue
		}
		t := flattenTweet(obj, places)
		t.ProfileLocation = locations[obj.AuthorID]
		page.Tweets = append(page.Tweets, t)
	}

	return page
}

func flattenTweet(obj *twitter.TweetObj, places map[string]*twitter.PlaceObj) tweet.Tweet {
	t := tweet.Tweet{
		ID:       obj.ID,
		AuthorID: obj.AuthorID,
		Text:     obj.Text,
		Lang:     obj.Language,
	}

	if created, err := time.Parse(time.RFC3339, obj.CreatedAt); err == nil {
		t.CreatedAt = created
	}

	if obj.PublicMetrics != nil {
		t.RetweetCount = obj.PublicMetrics.Retweets
		t.ReplyCount = obj.PublicMetrics.Replies
		t.LikeCount = obj.PublicMetrics.Likes
		t.QuoteCount = obj.PublicMetrics.Quotes
	}

	for _, ref := range obj.ReferencedTweets {
		if ref != nil && ref.Type == "retweeted" {
			t.IsRetweet = true
		}
	}

	if obj.Attachments != nil && len(obj.Attachments.MediaKeys) > 0 {
		t.HasMedia = true
	}

	if obj.Entities != nil && len(obj.Entities.URLs) > 0 {
		t.HasURL = true
	}

	if obj.Geo != nil {
		if c := geotagOf(obj.Geo, places); c != nil {
			t.Geo = c
		}
		if p, ok := places[obj.Geo.PlaceID]; ok {
			t.PlaceName = p.FullName
		}
	}

	return t
}

// geotagOf extracts a coordinate from a tweet's geo block: exact point
// coordinates when present, otherwise the centroid of the attached
// place's bounding box.
func geotagOf(g *twitter.TweetGeoObj, places map[string]*twitter.PlaceObj) *geo.Coordinate {
	if len(g.Coordinates.Coordinates) == 2 {
		return &geo.Coordinate{
			Longitude: g.Coordinates.Coordinates[0],
			Latitude:  g.Coordinates.Coordinates[1],
		}
	}

	if p, ok := places[g.PlaceID]; ok && len(p.Geo.BBox) == 4 {
		return &geo.Coordinate{
			Longitude: (p.Geo.BBox[0] + p.Geo.BBox[2]) / 2,
			Latitude:  (p.Geo.BBox[1] + p.Geo.BBox[3]) / 2,
		}
	}

	return nil
}

func flattenUser(obj *twitter.UserObj) tweet.User {
	u := tweet.User{
		ID:       obj.ID,
		UserName: obj.UserName,
		Name:     obj.Name,
		Location: obj.Location,
	}

	if obj.PublicMetrics != nil {
		u.Followers = obj.PublicMetrics.Followers
		u.Following = obj.PublicMetrics.Following
		u.Tweets = obj.PublicMetrics.Tweets
	}

	return u
}

func flattenUsers(raw *twitter.UserRaw) []tweet.User {
	if raw == nil {
		return nil
	}

	users := make([]tweet.User, 0, len(raw.Users))
	for _, obj := range raw.Users {
		if obj != nil {
			users = append(users, flattenUser(obj))
		}
	}

	return users
}

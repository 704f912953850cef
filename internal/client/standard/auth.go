package standard

import (
	"net/http"

	"github.com/dghubble/oauth1"

	"soundwatch/internal/config"
)

// bearerAuthorizer signs requests with an app-only bearer token.
type bearerAuthorizer struct {
	Token string
}

func (a bearerAuthorizer) Add(req *http.Request) {
	req.Header.Add("Authorization", "Bearer "+a.Token)
}

// passthroughAuthorizer is used when the underlying http.Client already
// signs requests (OAuth1 user context).
type passthroughAuthorizer struct{}

func (passthroughAuthorizer) Add(req *http.Request) {}

// httpClientFor builds the transport for the API client. When a full
// OAuth1 consumer/access credential pair is configured the requests are
// signed in user context; otherwise the plain client is paired with the
// bearer authorizer.
func httpClientFor(cfg config.TwitterConfig) (*http.Client, bool) {
	if cfg.ConsumerKey != "" && cfg.ConsumerSecret != "" &&
		cfg.AccessToken != "" && cfg.AccessSecret != "" {
		oauthCfg := oauth1.NewConfig(cfg.ConsumerKey, cfg.ConsumerSecret)
		token := oauth1.NewToken(cfg.AccessToken, cfg.AccessSecret)
		client := oauthCfg.Client(oauth1.NoContext, token)
		client.Timeout = cfg.Timeout
		return client, true
	}

	return &http.Client{Timeout: cfg.Timeout}, false
}

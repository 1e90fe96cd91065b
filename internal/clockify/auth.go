package clockify

import (
	"context"
	"errors"
	"net/http"

	"golang.org/x/oauth2"
)

// ErrMissingCredentials means neither an API key nor an access token is set.
var ErrMissingCredentials = errors.New("no Clockify credentials: set CLOCKIFY_API_KEY or clockify.access_token")

// apiKeyTransport authenticates requests with the X-Api-Key header.
type apiKeyTransport struct {
	key  string
	base http.RoundTripper
}

func (t *apiKeyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	r.Header.Set("X-Api-Key", t.key)
	return t.base.RoundTrip(r)
}

// newHTTPClient returns a client authenticating with the access token when
// one is set, else with the API key.
func newHTTPClient(ctx context.Context, opts Options) (*http.Client, error) {
	var client *http.Client
	switch {
	case opts.AccessToken != "":
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.AccessToken, TokenType: "Bearer"})
		client = oauth2.NewClient(ctx, ts)
	case opts.APIKey != "":
		client = &http.Client{Transport: &apiKeyTransport{key: opts.APIKey, base: http.DefaultTransport}}
	default:
		return nil, ErrMissingCredentials
	}
	client.Timeout = opts.Timeout
	return client, nil
}

package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/dghubble/oauth1"
	"golang.org/x/oauth2"
)

// TwitterCredentials holds either an OAuth 1.0a user-context key set or an
// OAuth 2.0 user access token. OAuth2Token wins when both are present.
type TwitterCredentials struct {
	AppKey       string
	AppSecret    string
	AccessToken  string
	AccessSecret string
	OAuth2Token  string
}

func (c TwitterCredentials) HasOAuth1() bool {
	return strings.TrimSpace(c.AppKey) != "" &&
		strings.TrimSpace(c.AppSecret) != "" &&
		strings.TrimSpace(c.AccessToken) != "" &&
		strings.TrimSpace(c.AccessSecret) != ""
}

func (c TwitterCredentials) HasOAuth2() bool {
	return strings.TrimSpace(c.OAuth2Token) != ""
}

// Scheme names the auth flavor NewTwitterHTTPClient will use.
func (c TwitterCredentials) Scheme() string {
	switch {
	case c.HasOAuth2():
		return "oauth2"
	case c.HasOAuth1():
		return "oauth1"
	default:
		return ""
	}
}

// NewTwitterHTTPClient wraps base with request signing. base supplies the
// transport (proxy settings) and timeout.
func NewTwitterHTTPClient(ctx context.Context, base *http.Client, creds TwitterCredentials) (*http.Client, error) {
	if base == nil {
		base = http.DefaultClient
	}

	var signed *http.Client
	switch creds.Scheme() {
	case "oauth2":
		ctx = context.WithValue(ctx, oauth2.HTTPClient, base)
		signed = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken: strings.TrimSpace(creds.OAuth2Token),
			TokenType:   "Bearer",
		}))
	case "oauth1":
		ctx = context.WithValue(ctx, oauth1.HTTPClient, base)
		cfg := oauth1.NewConfig(strings.TrimSpace(creds.AppKey), strings.TrimSpace(creds.AppSecret))
		signed = cfg.Client(ctx, oauth1.NewToken(strings.TrimSpace(creds.AccessToken), strings.TrimSpace(creds.AccessSecret)))
	default:
		return nil, fmt.Errorf("twitter credentials incomplete: need app key/secret + access token/secret, or an oauth2 token")
	}
	signed.Timeout = base.Timeout
	return signed, nil
}

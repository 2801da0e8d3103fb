package storage

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// TokenSource hands out client-credential access tokens for the drive API.
// The underlying oauth2 source caches the token and refreshes it shortly
// before expiry.
type TokenSource struct {
	source oauth2.TokenSource
}

func NewTokenSource(tokenURL, clientID, clientSecret, scope string) *TokenSource {
	cfg := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     tokenURL,
		Scopes:       []string{scope},
	}
	return &TokenSource{source: cfg.TokenSource(context.Background())}
}

// Token returns a valid access token, fetching a fresh one when the cached
// token has expired.
func (t *TokenSource) Token(ctx context.Context) (string, error) {
	tok, err := t.source.Token()
	if err != nil {
		return "", fmt.Errorf("token fetch failed: %w", err)
	}
	return tok.AccessToken, nil
}

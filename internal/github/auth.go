// Package github is a minimal client for the GitHub webhook delivery API:
// listing a webhook's delivery history and requesting redeliveries, with
// either a personal access token or GitHub App installation credentials.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"

	apperrors "github.com/target/runner-webhook-router/internal/errors"
)

// AppCredentials identifies a GitHub App installation. The app mints a
// short-lived signed JWT and exchanges it for an installation access token.
type AppCredentials struct {
	ClientID       string
	InstallationID int64
	// PrivateKey is the app's RSA private key in PEM form.
	PrivateKey []byte
}

// Credentials selects the authentication scheme: exactly one of Token or App
// must be set.
type Credentials struct {
	Token string
	App   *AppCredentials
}

// Validate checks that exactly one authentication scheme is configured.
func (c Credentials) Validate() error {
	hasToken := strings.TrimSpace(c.Token) != ""
	if hasToken && c.App != nil {
		return apperrors.Configuration("provide either a token or app credentials, not both")
	}
	if !hasToken && c.App == nil {
		return apperrors.Configuration("either a token or app credentials are required")
	}
	if c.App != nil {
		if strings.TrimSpace(c.App.ClientID) == "" {
			return apperrors.Configuration("app client id is required")
		}
		if c.App.InstallationID <= 0 {
			return apperrors.Configuration("app installation id is required")
		}
		if len(c.App.PrivateKey) == 0 {
			return apperrors.Configuration("app private key is required")
		}
	}
	return nil
}

// tokenSource builds an oauth2 token source for the configured scheme.
// Installation tokens are cached and refreshed through oauth2.ReuseTokenSource.
func (c Credentials) tokenSource(baseURL string, client *http.Client) (oauth2.TokenSource, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if c.Token != "" {
		return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: c.Token}), nil
	}

	key, err := jwt.ParseRSAPrivateKeyFromPEM(c.App.PrivateKey)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeConfiguration, "parse app private key")
	}

	src := &installationTokenSource{
		app:     *c.App,
		key:     key,
		baseURL: baseURL,
		client:  client,
		now:     time.Now,
	}
	return oauth2.ReuseTokenSource(nil, src), nil
}

// installationTokenSource exchanges an app JWT for an installation access
// token on each refresh.
type installationTokenSource struct {
	app     AppCredentials
	key     any
	baseURL string
	client  *http.Client
	now     func() time.Time
}

// Token mints an app JWT and exchanges it for an installation token.
// The issued-at claim is backdated one minute to tolerate clock skew.
func (s *installationTokenSource) Token() (*oauth2.Token, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Issuer:    s.app.ClientID,
		IssuedAt:  jwt.NewNumericDate(now.Add(-time.Minute)),
		ExpiresAt: jwt.NewNumericDate(now.Add(10 * time.Minute)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(s.key)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeRedelivery, "sign app jwt")
	}

	url := fmt.Sprintf("%s/app/installations/%d/access_tokens", s.baseURL, s.app.InstallationID)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeRedelivery, "create token request")
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("Authorization", "Bearer "+signed)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeRedelivery, "request installation token")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, apperrors.Redelivery(fmt.Sprintf(
			"installation token request returned %s: %s",
			resp.Status, strings.TrimSpace(string(body)),
		))
	}

	var payload struct {
		Token     string    `json:"token"`
		ExpiresAt time.Time `json:"expires_at"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeRedelivery, "decode installation token")
	}
	if payload.Token == "" {
		return nil, apperrors.Redelivery("installation token response missing token")
	}

	return &oauth2.Token{
		AccessToken: payload.Token,
		// Refresh slightly early so a token never expires mid-request.
		Expiry: payload.ExpiresAt.Add(-time.Minute),
	}, nil
}

package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/target/runner-webhook-router/internal/core"
	apperrors "github.com/target/runner-webhook-router/internal/errors"
)

const (
	// DefaultBaseURL is the public GitHub REST API endpoint.
	DefaultBaseURL = "https://api.github.com"

	deliveriesPerPage = 100
)

// ClientOptions configures a webhook delivery client.
type ClientOptions struct {
	// Path locates the webhook's owner: "owner/repo" for a repository webhook
	// or a bare organization name for an organization webhook.
	Path string
	// WebhookID is the numeric hook id the deliveries belong to.
	WebhookID int64
	// Credentials selects token or app authentication.
	Credentials Credentials
	// BaseURL overrides the API endpoint, mainly for tests and GHES.
	BaseURL string
	// HTTPClient overrides the underlying HTTP client.
	HTTPClient *http.Client
}

// Client implements core.DeliveryAPI against the GitHub REST API.
type Client struct {
	baseURL  string
	hookPath string
	client   *http.Client
	tokens   oauth2.TokenSource
}

// NewClient validates the options and builds a delivery client.
func NewClient(opts ClientOptions) (*Client, error) {
	path := strings.Trim(strings.TrimSpace(opts.Path), "/")
	if path == "" {
		return nil, apperrors.Configuration("webhook path is required")
	}
	if strings.Count(path, "/") > 1 {
		return nil, apperrors.Configurationf("webhook path %q must be owner/repo or an organization", path)
	}
	if opts.WebhookID <= 0 {
		return nil, apperrors.Configuration("webhook id is required")
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 30 * time.Second}
	}

	tokens, err := opts.Credentials.tokenSource(baseURL, hc)
	if err != nil {
		return nil, err
	}

	// Repository webhooks live under repos/, organization webhooks under orgs/.
	kind := "orgs"
	if strings.Contains(path, "/") {
		kind = "repos"
	}

	return &Client{
		baseURL:  baseURL,
		hookPath: fmt.Sprintf("%s/%s/hooks/%d", kind, path, opts.WebhookID),
		client:   hc,
		tokens:   tokens,
	}, nil
}

// ListDeliveries fetches one page of delivery history, most recent first.
// Pass an empty cursor for the first page; the returned cursor is empty once
// the history is exhausted.
func (c *Client) ListDeliveries(ctx context.Context, cursor string) (core.DeliveryPage, error) {
	query := url.Values{"per_page": []string{fmt.Sprint(deliveriesPerPage)}}
	if cursor != "" {
		query.Set("cursor", cursor)
	}
	endpoint := fmt.Sprintf("%s/%s/deliveries?%s", c.baseURL, c.hookPath, query.Encode())

	resp, err := c.do(ctx, http.MethodGet, endpoint)
	if err != nil {
		return core.DeliveryPage{}, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return core.DeliveryPage{}, c.errorFromResponse(resp, "list deliveries")
	}

	var raw []struct {
		ID          int64     `json:"id"`
		DeliveredAt time.Time `json:"delivered_at"`
		StatusCode  int       `json:"status_code"`
		Event       string    `json:"event"`
		Action      string    `json:"action"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return core.DeliveryPage{}, apperrors.Wrap(err, apperrors.ErrCodeRedelivery, "decode deliveries")
	}

	page := core.DeliveryPage{
		Deliveries: make([]core.Delivery, 0, len(raw)),
		Cursor:     nextCursor(resp.Header.Get("Link")),
	}
	for _, d := range raw {
		page.Deliveries = append(page.Deliveries, core.Delivery{
			ID:          d.ID,
			DeliveredAt: d.DeliveredAt,
			StatusCode:  d.StatusCode,
			Event:       d.Event,
			Action:      d.Action,
		})
	}
	return page, nil
}

// RedeliverAttempt asks GitHub to redeliver one delivery.
func (c *Client) RedeliverAttempt(ctx context.Context, deliveryID int64) error {
	endpoint := fmt.Sprintf("%s/%s/deliveries/%d/attempts", c.baseURL, c.hookPath, deliveryID)

	resp, err := c.do(ctx, http.MethodPost, endpoint)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusAccepted {
		return c.errorFromResponse(resp, fmt.Sprintf("redeliver %d", deliveryID))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func (c *Client) do(ctx context.Context, method, endpoint string) (*http.Response, error) {
	token, err := c.tokens.Token()
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeRedelivery, "obtain access token")
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, nil)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeRedelivery, "create request")
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	token.SetAuthHeader(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, apperrors.Wrapf(err, apperrors.ErrCodeRedelivery, "%s %s", method, endpoint)
	}
	return resp, nil
}

// errorFromResponse classifies a non-success response, distinguishing rate
// limit exhaustion so callers can treat it as partial success.
func (c *Client) errorFromResponse(resp *http.Response, operation string) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	detail := strings.TrimSpace(string(body))

	if isRateLimited(resp) {
		return apperrors.RateLimitedf("%s: rate limit exhausted: %s", operation, detail)
	}
	return apperrors.Redelivery(fmt.Sprintf("%s returned %s: %s", operation, resp.Status, detail))
}

func isRateLimited(resp *http.Response) bool {
	if resp.StatusCode != http.StatusForbidden && resp.StatusCode != http.StatusTooManyRequests {
		return false
	}
	if resp.Header.Get("X-RateLimit-Remaining") == "0" {
		return true
	}
	return resp.Header.Get("Retry-After") != ""
}

// nextCursor extracts the cursor query parameter from the rel="next" entry of
// a Link header. Delivery paging is cursor based, not page based.
func nextCursor(link string) string {
	for _, part := range strings.Split(link, ",") {
		section := strings.Split(part, ";")
		if len(section) < 2 {
			continue
		}
		if !strings.Contains(section[1], `rel="next"`) {
			continue
		}
		target := strings.Trim(strings.TrimSpace(section[0]), "<>")
		u, err := url.Parse(target)
		if err != nil {
			continue
		}
		return u.Query().Get("cursor")
	}
	return ""
}

package identity

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	jsoniter "github.com/json-iterator/go"
	"golang.org/x/time/rate"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// MaxUserListLimit is the largest page the directory API returns.
const MaxUserListLimit = 500

// ErrTooManyIDs is returned when a single lookup asks for more users than
// the directory returns in one page.
var ErrTooManyIDs = errors.New("identity: too many user ids for one lookup")

// Client talks to a remote identity directory over HTTP. Outbound calls are
// paced by a token bucket and retried with exponential backoff on 429 and 5xx.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	limiter    *rate.Limiter
	maxRetries int
	backoff    time.Duration
}

type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithBackoff sets the base retry delay; retries wait base, 2*base, 4*base...
func WithBackoff(base time.Duration) Option {
	return func(c *Client) { c.backoff = base }
}

func NewClient(baseURL, apiKey string, rps int, maxRetries int, opts ...Option) *Client {
	if rps <= 0 {
		rps = 10
	}
	c := &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL:    baseURL,
		apiKey:     apiKey,
		limiter:    rate.NewLimiter(rate.Limit(rps), rps),
		maxRetries: maxRetries,
		backoff:    500 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetUserList fetches the users with the given ids in one request. The
// directory returns matches in no particular order and silently omits ids it
// does not know.
func (c *Client) GetUserList(ctx context.Context, ids []string) ([]Identity, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	if len(ids) > MaxUserListLimit {
		return nil, ErrTooManyIDs
	}

	q := url.Values{}
	for _, id := range ids {
		q.Add("user_id", id)
	}
	q.Set("limit", strconv.Itoa(len(ids)))

	var users []Identity
	if err := c.get(ctx, c.baseURL+"/v1/users?"+q.Encode(), &users); err != nil {
		return nil, fmt.Errorf("identity: get user list: %w", err)
	}
	return users, nil
}

// Ping checks that the directory is reachable and the API key is accepted.
func (c *Client) Ping(ctx context.Context) error {
	var users []Identity
	return c.get(ctx, c.baseURL+"/v1/users?limit=1", &users)
}

func (c *Client) get(ctx context.Context, u string, target any) error {
	var lastErr error
	for i := 0; i <= c.maxRetries; i++ {
		if i > 0 {
			wait := c.backoff * time.Duration(1<<uint(i-1))
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		retry, err := c.do(ctx, u, target)
		if err == nil {
			return nil
		}
		if !retry {
			return err
		}
		lastErr = err
	}
	return fmt.Errorf("after %d retries: %w", c.maxRetries, lastErr)
}

func (c *Client) do(ctx context.Context, u string, target any) (retry bool, err error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return false, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return false, err
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		return true, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		err := fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		return resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500, err
	}

	return false, json.NewDecoder(resp.Body).Decode(target)
}

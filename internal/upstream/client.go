package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

type Config struct {
	BaseURL     string
	BearerToken string
	CSRFToken   string
	AuthCookie  string
	Timeout     time.Duration
}

// Client talks to the platform's private GraphQL and v1.1 REST endpoints
// using the same bearer/CSRF session auth the web client uses.
type Client struct {
	cfg    Config
	http   *http.Client
	limits *RateLimitTracker
	logger *zap.Logger
}

func NewClient(cfg Config, logger *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://x.com"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		limits: NewRateLimitTracker(logger),
		logger: logger,
	}
}

func (c *Client) setAuthHeaders(req *http.Request) {
	req.Header.Set("authorization", "Bearer "+c.cfg.BearerToken)
	req.Header.Set("x-csrf-token", c.cfg.CSRFToken)
	req.Header.Set("x-twitter-auth-type", "OAuth2Session")
	if c.cfg.AuthCookie != "" {
		req.Header.Set("cookie", c.cfg.AuthCookie)
	}
}

// waitForLimit blocks until the tracker allows a request to endpoint, or ctx
// is done.
func (c *Client) waitForLimit(ctx context.Context, endpoint string) error {
	wait := c.limits.WaitTime(endpoint)
	if wait <= 0 {
		return nil
	}
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// graphqlGet performs a GraphQL GET with variables and features in the URL,
// decoding the response into out. A 429 waits for the advertised reset and
// retries once.
func (c *Client) graphqlGet(ctx context.Context, queryID, operation string, variables, features map[string]any, out any) error {
	endpoint := queryID + "/" + operation
	if err := c.waitForLimit(ctx, endpoint); err != nil {
		return err
	}

	variablesJSON, err := json.Marshal(variables)
	if err != nil {
		return fmt.Errorf("marshal variables: %w", err)
	}
	featuresJSON, err := json.Marshal(features)
	if err != nil {
		return fmt.Errorf("marshal features: %w", err)
	}

	u := fmt.Sprintf("%s/i/api/graphql/%s/%s?variables=%s&features=%s",
		c.cfg.BaseURL, queryID, operation,
		url.QueryEscape(string(variablesJSON)),
		url.QueryEscape(string(featuresJSON)))

	for attempt := 0; ; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return err
		}
		c.setAuthHeaders(req)
		req.Header.Set("content-type", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return fmt.Errorf("%s: %w", operation, err)
		}

		if resp.StatusCode == http.StatusTooManyRequests && attempt == 0 {
			reset := resp.Header.Get("x-rate-limit-reset")
			resp.Body.Close()
			if err := c.waitForReset(ctx, operation, reset); err != nil {
				return err
			}
			continue
		}

		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return fmt.Errorf("%s failed: %s", operation, resp.Status)
		}

		c.limits.UpdateFromHeaders(endpoint, resp.Header)

		err = json.NewDecoder(resp.Body).Decode(out)
		resp.Body.Close()
		if err != nil {
			return fmt.Errorf("decode %s response: %w", operation, err)
		}
		return nil
	}
}

// restPost performs a v1.1 REST form POST. A 429 waits for the advertised
// reset and retries once.
func (c *Client) restPost(ctx context.Context, path string, form url.Values) error {
	endpoint := path
	if err := c.waitForLimit(ctx, endpoint); err != nil {
		return err
	}

	for attempt := 0; ; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost,
			c.cfg.BaseURL+path, strings.NewReader(form.Encode()))
		if err != nil {
			return err
		}
		c.setAuthHeaders(req)
		req.Header.Set("content-type", "application/x-www-form-urlencoded")

		resp, err := c.http.Do(req)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		resp.Body.Close()

		if resp.StatusCode == http.StatusTooManyRequests && attempt == 0 {
			if err := c.waitForReset(ctx, path, resp.Header.Get("x-rate-limit-reset")); err != nil {
				return err
			}
			continue
		}

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("%s failed: %s", path, resp.Status)
		}

		c.limits.UpdateFromHeaders(endpoint, resp.Header)
		return nil
	}
}

// waitForReset sleeps until the unix timestamp in the x-rate-limit-reset
// header value, honoring ctx.
func (c *Client) waitForReset(ctx context.Context, what, reset string) error {
	resetUnix, err := strconv.ParseInt(reset, 10, 64)
	if err != nil {
		return fmt.Errorf("%s rate limited, no usable reset header", what)
	}

	wait := time.Until(time.Unix(resetUnix, 0))
	if wait < 0 {
		wait = 0
	}
	c.logger.Warn("rate limited, waiting for reset",
		zap.String("endpoint", what),
		zap.Duration("wait", wait))

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

var _ API = (*Client)(nil)

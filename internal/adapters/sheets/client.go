package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"storefront-delivery-service/internal/platform/httpx"
	"time"
)

const maxBodyBytes = 4 << 20

// Client performs requests against a published spreadsheet web app.
type Client struct {
	session *http.Client
	retry   httpx.RetryPolicy
}

type ClientOptions struct {
	HTTPClient *http.Client
	Timeout    time.Duration
	Retry      *httpx.RetryPolicy
}

func NewClient(opts ClientOptions) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	c := &Client{
		session: &http.Client{Timeout: timeout},
		retry:   httpx.RetryPolicy{MaxAttempts: 2, Backoff: 250 * time.Millisecond},
	}
	if opts.HTTPClient != nil {
		c.session = opts.HTTPClient
	}
	if opts.Retry != nil {
		c.retry = *opts.Retry
	}
	return c
}

// Rows fetches endpoint with the given query and decodes the payload with DecodeRows.
func (c *Client) Rows(ctx context.Context, endpoint string, query url.Values) ([]map[string]any, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}
	if len(query) > 0 {
		q := u.Query()
		for k, vs := range query {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}
	target := u.String()

	resp, err := httpx.DoWithRetry(ctx, c.session, c.retry, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("Cache-Control", "no-cache")
		return req, nil
	})
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	return DecodeRows(body)
}

// PostJSON sends v as a JSON body. The response body is discarded.
func (c *Client) PostJSON(ctx context.Context, endpoint string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	resp, err := httpx.DoWithRetry(ctx, c.session, c.retry, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	})
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
	return nil
}

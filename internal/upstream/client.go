package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/stellar-edu/stellar-admin-api/pkg/errors"
)

type ctxKey string

const tokenKey ctxKey = "upstream.token"

// WithToken stores the caller's bearer token in ctx so that outgoing
// platform requests are made on the caller's behalf.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey, token)
}

func tokenFromCtx(ctx context.Context) string {
	if t, ok := ctx.Value(tokenKey).(string); ok {
		return t
	}
	return ""
}

// LatencyObserver records upstream request latency per endpoint.
type LatencyObserver interface {
	ObserveUpstream(endpoint string, duration time.Duration)
}

// Client talks to the STELLAR platform backend.
type Client struct {
	baseURL  string
	http     *http.Client
	logger   *zap.Logger
	observer LatencyObserver
}

// ClientParams configures NewClient.
type ClientParams struct {
	BaseURL  string
	Timeout  time.Duration
	Logger   *zap.Logger
	Observer LatencyObserver
}

// NewClient builds a platform client. A zero Timeout falls back to 15s.
func NewClient(params ClientParams) *Client {
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := params.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:  params.BaseURL,
		http:     &http.Client{Timeout: timeout},
		logger:   logger,
		observer: params.Observer,
	}
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return appErrors.ErrInternal.Wrap(err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return appErrors.ErrInternal.Wrap(err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := tokenFromCtx(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if c.observer != nil {
		c.observer.ObserveUpstream(path, time.Since(start))
	}
	if err != nil {
		return appErrors.ErrUpstream.Wrap(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("upstream request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
		)
		switch resp.StatusCode {
		case http.StatusUnauthorized:
			return appErrors.ErrUnauthorized
		case http.StatusForbidden:
			return appErrors.ErrForbidden
		case http.StatusNotFound:
			return appErrors.ErrNotFound
		default:
			return appErrors.ErrUpstream.Wrap(fmt.Errorf("status %d", resp.StatusCode))
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return appErrors.ErrUpstream.Wrap(err)
	}
	return nil
}

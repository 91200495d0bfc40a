package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"twin-editor/internal/metrics"
)

// Options configures a Client.
type Options struct {
	BaseURL string
	// Token is sent as a Bearer token when set.
	Token   string
	Timeout time.Duration
	Logger  *zap.Logger
	// Metrics counts failed calls by error kind. Optional.
	Metrics *metrics.Collector
}

// Client talks to the REST backend that persists plants, library assets,
// devices and placed assets. Calls are never retried.
type Client struct {
	httpClient *resty.Client
	logger     *zap.Logger
	metrics    *metrics.Collector
}

// NewClient creates a backend client.
func NewClient(opts Options) *Client {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	client := resty.New().
		SetBaseURL(opts.BaseURL).
		SetTimeout(timeout).
		SetRetryCount(0).
		SetHeader("Accept", "application/json")
	if opts.Token != "" {
		client.SetAuthToken(opts.Token)
	}

	return &Client{
		httpClient: client,
		logger:     logger.With(zap.String("component", "backend")),
		metrics:    opts.Metrics,
	}
}

// failed records a classified failure and returns it.
func (c *Client) failed(err *Error) error {
	c.metrics.BackendError(string(err.Kind))
	return err
}

// do executes req and decodes a successful JSON body into out (when non-nil).
func (c *Client) do(ctx context.Context, op string, req *resty.Request, method, path string, out any) error {
	started := time.Now()
	resp, err := req.SetContext(ctx).Execute(method, path)
	if err != nil {
		c.logger.Warn("Backend call failed",
			zap.String("op", op),
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return c.failed(transportError(op, err))
	}

	status := resp.StatusCode()
	c.logger.Debug("Backend call",
		zap.String("op", op),
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status_code", status),
		zap.Duration("duration", time.Since(started)),
	)

	if !resp.IsSuccess() {
		be := statusError(op, status, resp.Body())
		c.logger.Warn("Backend rejected request",
			zap.String("op", op),
			zap.Int("status_code", status),
			zap.String("kind", string(be.Kind)),
			zap.String("message", be.Message),
		)
		return c.failed(be)
	}

	if out == nil {
		return nil
	}
	body := bytes.TrimSpace(resp.Body())
	if len(body) == 0 {
		return c.failed(malformedError(op, status, errors.New("empty response body")))
	}
	if err := json.Unmarshal(body, out); err != nil {
		c.logger.Warn("Failed to decode backend response",
			zap.String("op", op),
			zap.Error(err),
		)
		return c.failed(malformedError(op, status, errors.Wrap(err, "decode response")))
	}
	return nil
}

// decodeList accepts either a bare JSON array or a paginated
// {"results": [...]} envelope.
func decodeList[T any](raw json.RawMessage) ([]T, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '{' {
		var page struct {
			Results *[]T `json:"results"`
		}
		if err := json.Unmarshal(raw, &page); err != nil {
			return nil, err
		}
		if page.Results == nil {
			return nil, errors.New("object response without results")
		}
		return *page.Results, nil
	}
	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// fetchList GETs path and decodes a list response.
func fetchList[T any](ctx context.Context, c *Client, op string, req *resty.Request, path string) ([]T, error) {
	var raw json.RawMessage
	if err := c.do(ctx, op, req, resty.MethodGet, path, &raw); err != nil {
		return nil, err
	}
	items, err := decodeList[T](raw)
	if err != nil {
		return nil, c.failed(malformedError(op, 200, errors.Wrap(err, "decode list")))
	}
	return items, nil
}

func itemPath(collection, id string) string {
	return collection + url.PathEscape(id) + "/"
}

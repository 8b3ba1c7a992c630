// Package httpclient is a thin HTTP client bound to a base URL. It issues requests with the
// default transport behavior of net/http and returns the status code, headers, and fully read
// body of each response.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/launchdarkly/http-stub-tests/logging"
)

const jsonContentType = "application/json"

// ErrInvalidBaseURL is returned by New if the base URL is not an absolute http or https URL.
var ErrInvalidBaseURL = errors.New("base URL must be an absolute http or https URL")

// Client sends requests to paths relative to a base URL.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     logging.Logger
	observer   RequestObserver
}

// RequestObserver is called with every request the client is about to send.
type RequestObserver func(OutgoingRequest)

// Option configures New.
type Option func(*Client)

// WithHTTPClient replaces http.DefaultClient.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func WithLogger(logger logging.Logger) Option {
	return func(c *Client) {
		c.logger = logging.OrNull(logger)
	}
}

func WithObserver(observer RequestObserver) Option {
	return func(c *Client) {
		c.observer = observer
	}
}

// New creates a Client for baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidBaseURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBaseURL, baseURL)
	}
	c := &Client{
		baseURL:    u,
		httpClient: http.DefaultClient,
		logger:     logging.NullLogger(),
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// BaseURL returns the URL that request paths are resolved against.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Get sends a GET request.
func (c *Client) Get(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, http.MethodGet, path, nil, nil)
}

// Post sends a POST request with the given content type and body.
func (c *Client) Post(ctx context.Context, path, contentType string, body []byte) (*Response, error) {
	header := make(http.Header)
	header.Set("Content-Type", contentType)
	return c.Do(ctx, http.MethodPost, path, header, body)
}

// PostJSON marshals v with encoding/json and sends it as a POST request with a Content-Type of
// application/json.
func (c *Client) PostJSON(ctx context.Context, path string, v interface{}) (*Response, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("cannot marshal request body for POST %s: %w", path, err)
	}
	return c.Post(ctx, path, jsonContentType, data)
}

// Do sends a request and reads the whole response body. A non-2xx status is not an error.
func (c *Client) Do(ctx context.Context, method, path string, header http.Header, body []byte) (*Response, error) {
	ref, err := url.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("invalid request path %q: %w", path, err)
	}
	target := c.baseURL.ResolveReference(ref).String()

	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("cannot create %s request for %s: %w", method, target, err)
	}
	for name, values := range header {
		for _, v := range values {
			req.Header.Add(name, v)
		}
	}

	if c.observer != nil {
		c.observer(OutgoingRequest{Method: method, URL: target, Header: req.Header.Clone(), Body: body})
	}
	c.logger.Printf("Sending %s %s", method, target)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s failed: %w", method, target, err)
	}
	defer func() { _ = resp.Body.Close() }()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response body from %s %s: %w", method, target, err)
	}
	c.logger.Printf("Received status %d from %s %s (%d bytes)", resp.StatusCode, method, target, len(data))

	return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: data}, nil
}

// Package commerce talks to the remote commerce service over HTTP/JSON.
package commerce

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"storefront/internal/domain"
)

// Client is a thin typed wrapper over the commerce service endpoints.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	logger  *log.Logger
}

// NewHTTPClient returns an instrumented http.Client. A zero timeout leaves requests bounded
// only by their context.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
}

// New builds a Client for the service rooted at baseURL.
func New(baseURL string, httpClient *http.Client, logger *log.Logger) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}
	if httpClient == nil {
		httpClient = NewHTTPClient(0)
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Client{baseURL: u, http: httpClient, logger: logger}, nil
}

// Origin is the scheme://host the service is served from.
func (c *Client) Origin() string {
	return c.baseURL.Scheme + "://" + c.baseURL.Host
}

type errorBody struct {
	Message string `json:"message"`
}

type request struct {
	method   string
	path     string
	token    string
	header   http.Header
	body     any
	fallback string
}

func (c *Client) do(ctx context.Context, r request, out any) error {
	var body io.Reader
	if r.body != nil {
		data, err := json.Marshal(r.body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", r.method, r.path, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, c.baseURL.String()+r.path, body)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", r.method, r.path, err)
	}
	for k, vs := range r.header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Printf("commerce client: %s %s transport error=%v", r.method, r.path, err)
		return &domain.NetworkError{Op: r.method + " " + r.path, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return &domain.NetworkError{Op: r.method + " " + r.path, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := r.fallback
		var eb errorBody
		if json.Unmarshal(payload, &eb) == nil && strings.TrimSpace(eb.Message) != "" {
			msg = eb.Message
		}
		c.logger.Printf("commerce client: %s %s status=%d message=%q", r.method, r.path, resp.StatusCode, msg)
		return &domain.APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	c.logger.Printf("commerce client: %s %s status=%d", r.method, r.path, resp.StatusCode)
	if out == nil || len(bytes.TrimSpace(payload)) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", r.method, r.path, errors.Join(domain.ErrInvalidPayload, err))
	}
	return nil
}

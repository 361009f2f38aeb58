package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Credentials supplies the bearer token and is told to forget it when the
// API rejects it.
type Credentials interface {
	Token() string
	Clear() error
}

// Client talks to the auction REST API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	creds     Credentials
	log       zerolog.Logger
}

const (
	defaultAPIURL    = "http://127.0.0.1:5000/api"
	defaultUserAgent = "packetdesk/0.1"
	requestTimeout   = 15 * time.Second

	// RequestIDHeader carries a per request id that also appears in the log.
	RequestIDHeader = "X-Request-ID"
)

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// WithTimeout sets the per request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithLogger attaches a logger for request tracing.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if strings.TrimSpace(ua) != "" {
			c.userAgent = ua
		}
	}
}

// NewClient builds a Client for apiURL. creds may be nil for anonymous use.
func NewClient(apiURL string, creds Credentials, opts ...Option) (*Client, error) {
	base, err := parseBaseURL(apiURL)
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL:   base,
		http:      &http.Client{Timeout: requestTimeout},
		userAgent: defaultUserAgent,
		creds:     creds,
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the resolved API base.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Get issues a GET and decodes the envelope.
func Get[T any](ctx context.Context, c *Client, path string) (*Envelope[T], error) {
	return doJSON[T](ctx, c, http.MethodGet, path, nil)
}

// Post issues a POST with a JSON body.
func Post[T any](ctx context.Context, c *Client, path string, body any) (*Envelope[T], error) {
	return doJSON[T](ctx, c, http.MethodPost, path, body)
}

// Put issues a PUT with a JSON body.
func Put[T any](ctx context.Context, c *Client, path string, body any) (*Envelope[T], error) {
	return doJSON[T](ctx, c, http.MethodPut, path, body)
}

// Patch issues a PATCH with a JSON body.
func Patch[T any](ctx context.Context, c *Client, path string, body any) (*Envelope[T], error) {
	return doJSON[T](ctx, c, http.MethodPatch, path, body)
}

// Delete issues a DELETE.
func Delete[T any](ctx context.Context, c *Client, path string) (*Envelope[T], error) {
	return doJSON[T](ctx, c, http.MethodDelete, path, nil)
}

// PostForm issues a multipart POST.
func PostForm[T any](ctx context.Context, c *Client, path string, form *Form) (*Envelope[T], error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	body, contentType, err := form.encode()
	if err != nil {
		return nil, fmt.Errorf("encode form: %w", err)
	}
	req, err := c.newRequest(ctx, http.MethodPost, path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	resp, err := c.send(req)
	if err != nil {
		return nil, err
	}
	return decodeEnvelope[T](resp)
}

// File is a raw response body, used for binary downloads.
type File struct {
	Body        []byte
	ContentType string
}

// Download fetches path without envelope decoding.
func (c *Client) Download(ctx context.Context, path string) (*File, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "*/*")
	resp, err := c.send(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errorFromResponse(resp)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, networkError(fmt.Errorf("read body: %w", err))
	}
	return &File{Body: data, ContentType: resp.Header.Get("Content-Type")}, nil
}

func doJSON[T any](ctx context.Context, c *Client, method, path string, payload any) (*Envelope[T], error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(encoded)
	}
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.send(req)
	if err != nil {
		return nil, err
	}
	return decodeEnvelope[T](resp)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	rel, err := url.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("parse path %q: %w", path, err)
	}
	reqURL := c.baseURL.JoinPath(rel.EscapedPath())
	reqURL.RawQuery = rel.RawQuery

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(RequestIDHeader, uuid.NewString())
	if c.creds != nil {
		if token := c.creds.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	return req, nil
}

func (c *Client) send(req *http.Request) (*http.Response, error) {
	start := time.Now()
	reqID := req.Header.Get(RequestIDHeader)

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Error().
			Err(err).
			Str("method", req.Method).
			Str("path", req.URL.Path).
			Str("request_id", reqID).
			Msg("request failed")
		return nil, networkError(err)
	}

	c.log.Debug().
		Str("method", req.Method).
		Str("path", req.URL.Path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Str("request_id", reqID).
		Msg("api request")

	if resp.StatusCode == http.StatusUnauthorized && c.creds != nil {
		if err := c.creds.Clear(); err != nil {
			c.log.Warn().Err(err).Msg("clear session after 401")
		} else {
			c.log.Warn().Str("path", req.URL.Path).Msg("session cleared after 401")
		}
	}
	return resp, nil
}

func decodeEnvelope[T any](resp *http.Response) (*Envelope[T], error) {
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errorFromResponse(resp)
	}

	env := &Envelope[T]{StatusCode: resp.StatusCode}
	if resp.StatusCode == http.StatusNoContent {
		env.Success = true
		return env, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(env); err != nil {
		if errors.Is(err, io.EOF) {
			env.Success = true
			return env, nil
		}
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return env, nil
}

func parseBaseURL(apiURL string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiURL)
	if trimmed == "" {
		trimmed = defaultAPIURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api_url %q: %w", apiURL, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api_url %q: missing host", apiURL)
	}
	u.Path = strings.TrimRight(u.Path, "/")
	if u.Path == "" {
		u.Path = "/"
	}
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}

package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/mordensafety/admin-console/internal/core/domain"
	"github.com/mordensafety/admin-console/internal/core/ports"
)

const (
	defaultTimeout = 30 * time.Second
	maxBodyBytes   = 8 << 20
	maxErrorBody   = 4 << 10
)

// Config captures the settings for reaching the backend.
type Config struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
}

// Gateway wraps every backend call: request interceptors run before
// dispatch, response handlers run after every exchange (success, HTTP error
// or transport failure) and may only produce side effects.
type Gateway struct {
	baseURL      *url.URL
	client       *http.Client
	interceptors []ports.RequestInterceptor
	handlers     []ports.ResponseHandler
	log          zerolog.Logger
}

var _ ports.Gateway = (*Gateway)(nil)

// Option customises a Gateway.
type Option func(*Gateway)

// WithHTTPClient replaces the default client (which only sets a timeout).
func WithHTTPClient(c *http.Client) Option {
	return func(g *Gateway) { g.client = c }
}

// WithRequestInterceptors appends request interceptors, run in order.
func WithRequestInterceptors(ics ...ports.RequestInterceptor) Option {
	return func(g *Gateway) { g.interceptors = append(g.interceptors, ics...) }
}

// WithResponseHandlers appends response handlers, run in order.
func WithResponseHandlers(hs ...ports.ResponseHandler) Option {
	return func(g *Gateway) { g.handlers = append(g.handlers, hs...) }
}

func WithLogger(log zerolog.Logger) Option {
	return func(g *Gateway) { g.log = log }
}

// New validates the base URL and builds a Gateway with an empty pipeline.
func New(cfg Config, opts ...Option) (*Gateway, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("gateway: parse base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("gateway: base url %q must be http or https", cfg.BaseURL)
	}
	if base.Host == "" {
		return nil, fmt.Errorf("gateway: base url %q has no host", cfg.BaseURL)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	g := &Gateway{
		baseURL: base,
		client:  &http.Client{Timeout: timeout},
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// NewAuthenticated builds the standard pipeline: bearer token, request id and
// user agent on the way out; session expiry, metrics and logging on the way
// back.
func NewAuthenticated(cfg Config, sessions ports.SessionManager, nav ports.Navigator, log zerolog.Logger, opts ...Option) (*Gateway, error) {
	log = log.With().Str("component", "gateway").Logger()
	base := []Option{
		WithLogger(log),
		WithRequestInterceptors(BearerAuth(sessions), RequestID(), UserAgent(cfg.UserAgent)),
		WithResponseHandlers(SessionExpiry(sessions, nav, log), ObserveMetrics(), LogExchanges(log)),
	}
	return New(cfg, append(base, opts...)...)
}

// Send dispatches req. 2xx responses are returned unmodified; other statuses
// come back as *domain.HTTPError and missing responses as
// *domain.TransportError. Requests are not serialized.
func (g *Gateway) Send(ctx context.Context, req ports.Request) (*ports.Response, error) {
	httpReq, err := g.build(ctx, &req)
	if err != nil {
		return nil, err
	}
	for _, ic := range g.interceptors {
		if err := ic.InterceptRequest(ctx, &req, httpReq); err != nil {
			return nil, fmt.Errorf("%s %s: intercept: %w", req.Method, req.Path, err)
		}
	}

	start := time.Now()
	resp, body, err := g.do(httpReq)
	ex := ports.Exchange{Request: &req, Duration: time.Since(start)}

	var result *ports.Response
	switch {
	case resp == nil:
		ex.Err = &domain.TransportError{Method: req.Method, URL: httpReq.URL.Redacted(), Err: err}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		// a partial body is still good enough for diagnostics
		ex.Status = resp.StatusCode
		ex.Err = &domain.HTTPError{
			Method:         req.Method,
			Path:           req.Path,
			Status:         resp.StatusCode,
			Body:           truncate(body, maxErrorBody),
			SessionExpired: resp.StatusCode == http.StatusUnauthorized && !req.Anonymous,
		}
	case err != nil:
		ex.Status = resp.StatusCode
		ex.Err = fmt.Errorf("%s %s: %w", req.Method, req.Path, err)
	default:
		ex.Status = resp.StatusCode
		result = &ports.Response{Status: resp.StatusCode, Header: resp.Header, Body: body}
	}

	for _, h := range g.handlers {
		h.HandleResponse(ctx, ex)
	}

	if ex.Err != nil {
		return nil, ex.Err
	}
	return result, nil
}

// do returns a nil response only when none arrived. Once the status line is
// in, the response is returned together with any body read error.
func (g *Gateway) do(httpReq *http.Request) (*http.Response, []byte, error) {
	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return resp, body, fmt.Errorf("read body: %w", err)
	}
	if len(body) > maxBodyBytes {
		return resp, body[:maxBodyBytes], fmt.Errorf("%w: over %d bytes", domain.ErrResponseTooLarge, maxBodyBytes)
	}
	return resp, body, nil
}

func (g *Gateway) build(ctx context.Context, req *ports.Request) (*http.Request, error) {
	if req.Method == "" {
		req.Method = http.MethodGet
	}
	target, err := g.resolve(req.Path, req.Query)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.Path, err)
	}

	var (
		body        io.Reader
		contentType string
		length      int64
		getBody     func() (io.ReadCloser, error)
	)
	switch {
	case req.Form != nil:
		payload, ct, err := encodeMultipart(req.Form)
		if err != nil {
			return nil, fmt.Errorf("%s %s: %w", req.Method, req.Path, err)
		}
		contentType, length = ct, int64(len(payload))
		if req.Form.OnProgress != nil {
			body = newProgressReader(payload, req.Form.OnProgress)
		} else {
			body = bytes.NewReader(payload)
		}
		getBody = func() (io.ReadCloser, error) { return io.NopCloser(bytes.NewReader(payload)), nil }
	case req.Body != nil:
		payload, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("%s %s: encode body: %w", req.Method, req.Path, err)
		}
		body, contentType, length = bytes.NewReader(payload), "application/json", int64(len(payload))
		getBody = func() (io.ReadCloser, error) { return io.NopCloser(bytes.NewReader(payload)), nil }
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target.String(), body)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.Path, err)
	}
	if body != nil {
		httpReq.ContentLength = length
		httpReq.GetBody = getBody
	}
	for k, vs := range req.Header {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	httpReq.Header.Set("Accept", "application/json")
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	return httpReq, nil
}

// resolve appends path (and its own query, if any) to the base URL, keeping
// any base path prefix.
func (g *Gateway) resolve(path string, query url.Values) (*url.URL, error) {
	ref, err := url.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("parse path: %w", err)
	}
	if ref.IsAbs() || ref.Host != "" {
		return nil, fmt.Errorf("path %q must be backend-relative", path)
	}

	u := *g.baseURL
	u.Path = joinPath(g.baseURL.Path, ref.Path)
	u.RawPath = joinPath(g.baseURL.EscapedPath(), ref.EscapedPath())

	q := ref.Query()
	for k, vs := range query {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	u.RawQuery = q.Encode()
	return &u, nil
}

func joinPath(base, p string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(p, "/")
}

func truncate(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[:n]
}

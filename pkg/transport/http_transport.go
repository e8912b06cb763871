// Copyright (C) 2025 SAGE-X Project
//
// This file is part of sage-pay-go.
//
// sage-pay-go is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// sage-pay-go is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with sage-pay-go.  If not, see <https://www.gnu.org/licenses/>.

package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	sagepay "github.com/sage-x-project/sage-pay-go"
	"github.com/sage-x-project/sage-pay-go/pkg/metrics"
	"github.com/sage-x-project/sage-pay-go/pkg/signer"
	"github.com/sage-x-project/sage-pay-go/pkg/verifier"
	"github.com/sage-x-project/sage-pay-go/pkg/version"
)

// ErrInvalidResponseSignature is returned when response verification is
// enabled and a 2xx response carries a missing or mismatching signature.
var ErrInvalidResponseSignature = errors.New("transport: invalid response signature")

// Response is a platform API response with the body fully read
type Response struct {
	StatusCode  int
	Header      http.Header
	Body        []byte
	ContentType string
}

// Decode unmarshals the JSON body into v
func (r *Response) Decode(v any) error {
	if len(r.Body) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// APIError is a non-2xx platform response
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	Body       []byte
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("platform error: HTTP %d: %s: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("platform error: HTTP %d: %s", e.StatusCode, string(e.Body))
}

// HTTPTransport signs and sends requests to the platform API
type HTTPTransport struct {
	baseURL    string
	userAgent  string
	client     *resty.Client
	authorizer signer.RequestAuthorizer
	verifier   verifier.Verifier
	apiKey     func() []byte
	logger     *zap.Logger
	metrics    *metrics.Metrics
}

// Option configures an HTTPTransport
type Option func(*HTTPTransport)

// WithBaseURL overrides the platform host
func WithBaseURL(baseURL string) Option {
	return func(t *HTTPTransport) {
		if baseURL != "" {
			t.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithHTTPClient sends requests through httpClient
func WithHTTPClient(httpClient *http.Client) Option {
	return func(t *HTTPTransport) {
		if httpClient != nil {
			t.client = resty.NewWithClient(httpClient)
		}
	}
}

// WithTimeout sets the per-request timeout
func WithTimeout(d time.Duration) Option {
	return func(t *HTTPTransport) {
		t.client.SetTimeout(d)
	}
}

// WithUserAgent overrides the User-Agent header
func WithUserAgent(ua string) Option {
	return func(t *HTTPTransport) {
		if ua != "" {
			t.userAgent = ua
		}
	}
}

// WithResponseVerifier checks the platform signature on every 2xx API
// response. apiKey supplies the key used if the signing certificate must be
// fetched; it may return nil.
func WithResponseVerifier(v verifier.Verifier, apiKey func() []byte) Option {
	return func(t *HTTPTransport) {
		t.verifier = v
		t.apiKey = apiKey
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(t *HTTPTransport) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// WithMetrics sets the metrics collector
func WithMetrics(m *metrics.Metrics) Option {
	return func(t *HTTPTransport) {
		t.metrics = m
	}
}

// NewHTTPTransport creates a transport that authorizes every request with authorizer
func NewHTTPTransport(authorizer signer.RequestAuthorizer, opts ...Option) *HTTPTransport {
	t := &HTTPTransport{
		baseURL:    sagepay.DefaultBaseURL,
		userAgent:  version.UserAgent(),
		client:     resty.New(),
		authorizer: authorizer,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// BaseURL returns the platform host requests are sent to
func (t *HTTPTransport) BaseURL() string {
	return t.baseURL
}

// Get sends a signed GET request. path is relative to the base URL and may
// carry a query string.
func (t *HTTPTransport) Get(ctx context.Context, path string) (*Response, error) {
	return t.do(ctx, http.MethodGet, path, nil, true)
}

// Post sends a signed POST request with a JSON body
func (t *HTTPTransport) Post(ctx context.Context, path string, body any) (*Response, error) {
	return t.do(ctx, http.MethodPost, path, body, true)
}

// Do sends a signed request. path may be relative to the base URL or an
// absolute URL; the signature always covers the host-relative path.
func (t *HTTPTransport) Do(ctx context.Context, method, path string, body any) (*Response, error) {
	return t.do(ctx, method, path, body, true)
}

// Download fetches an absolute URL, such as a bill download link. Downloads
// are not signed by the platform, so no response verification is done.
func (t *HTTPTransport) Download(ctx context.Context, rawURL string) (*Response, error) {
	return t.do(ctx, http.MethodGet, rawURL, nil, false)
}

func (t *HTTPTransport) do(ctx context.Context, method, path string, body any, verify bool) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}
	if t.authorizer == nil {
		return nil, errors.New("transport: request authorizer not configured")
	}

	url, signedPath := t.resolve(path)

	// The exact bytes that are signed are the bytes sent.
	bodyStr, err := signer.BodyString(body)
	if err != nil {
		return nil, err
	}

	auth, err := t.authorizer.Authorize(ctx, method, signedPath, bodyStr)
	if err != nil {
		return nil, fmt.Errorf("failed to authorize request: %w", err)
	}

	req := t.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", t.userAgent).
		SetHeader("Authorization", auth.Header).
		SetHeader("Accept-Encoding", "gzip")
	if method == http.MethodPost {
		req.SetHeader("Content-Type", "application/json")
	}
	if bodyStr != "" {
		req.SetBody([]byte(bodyStr))
	}

	start := time.Now()
	resp, err := req.Execute(method, url)
	if err != nil {
		t.metrics.ObserveRequest(method, "error", time.Since(start))
		t.logger.Warn("platform request failed",
			zap.String("method", method),
			zap.String("path", signedPath),
			zap.Error(err),
		)
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	t.metrics.ObserveRequest(method, strconv.Itoa(resp.StatusCode()), time.Since(start))

	out := &Response{
		StatusCode:  resp.StatusCode(),
		Header:      resp.Header(),
		Body:        resp.Body(),
		ContentType: resp.Header().Get("Content-Type"),
	}

	t.logger.Debug("platform request completed",
		zap.String("method", method),
		zap.String("path", signedPath),
		zap.Int("status", out.StatusCode),
		zap.Duration("duration", resp.Time()),
	)

	if out.StatusCode < 200 || out.StatusCode >= 300 {
		return out, newAPIError(out)
	}

	if verify && t.verifier != nil {
		if err := t.verifyResponse(ctx, out); err != nil {
			return out, err
		}
	}

	return out, nil
}

func (t *HTTPTransport) verifyResponse(ctx context.Context, resp *Response) error {
	if !verifier.HasSignature(resp.Header) {
		return fmt.Errorf("%w: missing signature headers", ErrInvalidResponseSignature)
	}

	params := verifier.ParamsFromHeader(resp.Header, resp.Body)
	if t.apiKey != nil {
		params.APIKey = t.apiKey()
	}

	ok, err := t.verifier.Verify(ctx, params)
	if err != nil {
		return fmt.Errorf("failed to verify response: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: serial %s", ErrInvalidResponseSignature, params.Serial)
	}
	return nil
}

// resolve returns the request URL and the path covered by the signature
func (t *HTTPTransport) resolve(path string) (url, signedPath string) {
	if strings.Contains(path, "://") {
		return path, signer.RelativePath(path)
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return t.baseURL + path, path
}

func newAPIError(resp *Response) *APIError {
	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Body:       resp.Body,
	}
	var payload struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if json.Unmarshal(resp.Body, &payload) == nil {
		apiErr.Code = payload.Code
		apiErr.Message = payload.Message
	}
	return apiErr
}

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

package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/sage-x-project/sage-pay-go/pkg/metrics"
	"github.com/sage-x-project/sage-pay-go/pkg/verifier"
)

type contextKey string

const notificationKey contextKey = "sagepay_notification"

var (
	// ErrMissingSignature is reported when a Wechatpay-* header is absent
	ErrMissingSignature = errors.New("missing signature headers")

	// ErrInvalidSignature is reported when the signature does not match
	ErrInvalidSignature = errors.New("invalid notification signature")

	// ErrStaleTimestamp is reported when Wechatpay-Timestamp is outside the allowed skew
	ErrStaleTimestamp = errors.New("notification timestamp outside allowed skew")
)

// ErrorHandler handles verification errors
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// NotificationMiddleware verifies platform notifications before they reach a handler
type NotificationMiddleware struct {
	verifier     verifier.Verifier
	apiKey       []byte
	maxSkew      time.Duration
	now          func() time.Time
	errorHandler ErrorHandler
	optional     bool
	logger       *zap.Logger
	metrics      *metrics.Metrics
}

// Option configures a NotificationMiddleware
type Option func(*NotificationMiddleware)

// WithAPIKey sets the key used if the signing certificate must be fetched
func WithAPIKey(key []byte) Option {
	return func(m *NotificationMiddleware) {
		m.apiKey = key
	}
}

// WithMaxClockSkew rejects notifications whose timestamp is further than d
// from the local clock. Zero disables the check.
func WithMaxClockSkew(d time.Duration) Option {
	return func(m *NotificationMiddleware) {
		m.maxSkew = d
	}
}

// WithClock overrides the time source used for the skew check
func WithClock(now func() time.Time) Option {
	return func(m *NotificationMiddleware) {
		if now != nil {
			m.now = now
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(m *NotificationMiddleware) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithMetrics sets the metrics collector
func WithMetrics(mt *metrics.Metrics) Option {
	return func(m *NotificationMiddleware) {
		m.metrics = mt
	}
}

// NewNotificationMiddleware creates middleware verifying with v
func NewNotificationMiddleware(v verifier.Verifier, opts ...Option) *NotificationMiddleware {
	m := &NotificationMiddleware{
		verifier:     v,
		now:          time.Now,
		errorHandler: defaultErrorHandler,
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// SetErrorHandler sets a custom error handler
func (m *NotificationMiddleware) SetErrorHandler(handler ErrorHandler) {
	m.errorHandler = handler
}

// SetOptional lets requests without signature headers pass through
// unverified and without a notification in context
func (m *NotificationMiddleware) SetOptional(optional bool) {
	m.optional = optional
}

// Wrap wraps an HTTP handler with notification verification
func (m *NotificationMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		if !verifier.HasSignature(r.Header) {
			if m.optional {
				next.ServeHTTP(w, r)
				return
			}
			m.reject(r, ErrMissingSignature)
			m.errorHandler(w, r, ErrMissingSignature)
			return
		}

		body, err := readBody(r)
		if err != nil {
			m.errorHandler(w, r, err)
			return
		}

		n, err := m.Verify(r.Context(), r.Header, body)
		if err != nil {
			m.errorHandler(w, r, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), notificationKey, n)))
	})
}

// Verify checks the signature headers against body and decodes the notification
func (m *NotificationMiddleware) Verify(ctx context.Context, header http.Header, body []byte) (*Notification, error) {
	if !verifier.HasSignature(header) {
		m.reject(nil, ErrMissingSignature)
		return nil, ErrMissingSignature
	}

	params := verifier.ParamsFromHeader(header, body)
	params.APIKey = m.apiKey

	if err := m.checkSkew(params.Timestamp); err != nil {
		m.reject(nil, err)
		return nil, err
	}

	if m.verifier == nil {
		return nil, errors.New("notification verifier not configured")
	}
	ok, err := m.verifier.Verify(ctx, params)
	if err != nil {
		m.metrics.ObserveNotification("error")
		m.logger.Error("notification verification failed", zap.String("serial", params.Serial), zap.Error(err))
		return nil, fmt.Errorf("signature verification failed: %w", err)
	}
	if !ok {
		m.reject(nil, ErrInvalidSignature)
		return nil, ErrInvalidSignature
	}

	n, err := ParseNotification(body)
	if err != nil {
		m.metrics.ObserveNotification("malformed")
		return nil, err
	}

	m.metrics.ObserveNotification("accepted")
	m.logger.Info("notification accepted",
		zap.String("id", n.ID),
		zap.String("event_type", n.EventType),
	)
	return n, nil
}

func (m *NotificationMiddleware) checkSkew(timestamp string) error {
	if m.maxSkew <= 0 {
		return nil
	}
	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrStaleTimestamp, timestamp)
	}
	skew := m.now().Sub(time.Unix(ts, 0))
	if skew < 0 {
		skew = -skew
	}
	if skew > m.maxSkew {
		return fmt.Errorf("%w: %s", ErrStaleTimestamp, skew)
	}
	return nil
}

func (m *NotificationMiddleware) reject(r *http.Request, err error) {
	m.metrics.ObserveNotification("rejected")
	fields := []zap.Field{zap.Error(err)}
	if r != nil {
		fields = append(fields, zap.String("path", r.URL.Path))
	}
	m.logger.Warn("notification rejected", fields...)
}

// NotificationFromContext returns the verified notification stored by Wrap
func NotificationFromContext(ctx context.Context) (*Notification, bool) {
	n, ok := ctx.Value(notificationKey).(*Notification)
	return n, ok
}

// readBody reads the request body and restores it for the next handler
func readBody(r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return nil, nil
	}
	body, err := io.ReadAll(r.Body)
	_ = r.Body.Close()
	r.Body = io.NopCloser(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}
	return body, nil
}

// defaultErrorHandler answers with the FAIL ack the platform expects
func defaultErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(Ack{Code: "FAIL", Message: err.Error()})
}

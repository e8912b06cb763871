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

package signer

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sage-x-project/sage-pay-go/pkg/metrics"
)

// DefaultRequestSigner implements RequestAuthorizer. Every call draws a new
// nonce and timestamp, so no two requests share a signature input.
type DefaultRequestSigner struct {
	credential Credential
	signer     Signer
	nonce      func() string
	now        func() time.Time
	logger     *zap.Logger
	metrics    *metrics.Metrics
}

// Option configures a DefaultRequestSigner
type Option func(*DefaultRequestSigner)

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(s *DefaultRequestSigner) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics sets the metrics collector
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *DefaultRequestSigner) {
		s.metrics = m
	}
}

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(s *DefaultRequestSigner) {
		if now != nil {
			s.now = now
		}
	}
}

// WithNonceSource overrides the nonce generator
func WithNonceSource(nonce func() string) Option {
	return func(s *DefaultRequestSigner) {
		if nonce != nil {
			s.nonce = nonce
		}
	}
}

// NewDefaultRequestSigner creates a request signer for the given identity
func NewDefaultRequestSigner(credential Credential, signer Signer, opts ...Option) *DefaultRequestSigner {
	s := &DefaultRequestSigner{
		credential: credential,
		signer:     signer,
		nonce:      NewNonce,
		now:        time.Now,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Credential returns the identity used in Authorization headers
func (s *DefaultRequestSigner) Credential() Credential {
	return s.credential
}

// Authorize signs one outbound request
func (s *DefaultRequestSigner) Authorize(ctx context.Context, method, path string, body any) (*Authorization, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	nonce, timestamp := s.nonce(), s.timestamp()

	message, err := BuildMessage(method, path, timestamp, nonce, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build message: %w", err)
	}

	signature, err := s.sign("request", message)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("request signed",
		zap.String("method", method),
		zap.String("path", path),
		zap.String("nonce", nonce),
		zap.String("timestamp", timestamp),
	)

	return &Authorization{
		Header:    s.credential.Authorization(nonce, timestamp, signature),
		Nonce:     nonce,
		Timestamp: timestamp,
		Signature: signature,
	}, nil
}

func (s *DefaultRequestSigner) sign(kind, message string) (string, error) {
	if s.signer == nil {
		s.metrics.ObserveSignature(kind, ErrMissingPrivateKey)
		return "", ErrMissingPrivateKey
	}
	signature, err := s.signer.Sign(message)
	s.metrics.ObserveSignature(kind, err)
	if err != nil {
		return "", fmt.Errorf("failed to sign %s: %w", kind, err)
	}
	return signature, nil
}

func (s *DefaultRequestSigner) timestamp() string {
	return strconv.FormatInt(s.now().Unix(), 10)
}

// NewNonce returns a fresh 32 character hex nonce
func NewNonce() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

var _ RequestAuthorizer = (*DefaultRequestSigner)(nil)

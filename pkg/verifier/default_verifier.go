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

package verifier

import (
	"context"
	"crypto"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/sage-x-project/sage-pay-go/pkg/metrics"
	"github.com/sage-x-project/sage-pay-go/pkg/signer"
)

// DefaultVerifier verifies RSA-SHA256 signatures with keys from a KeyResolver
type DefaultVerifier struct {
	resolver KeyResolver
	logger   *zap.Logger
	metrics  *metrics.Metrics
}

// Option configures a DefaultVerifier
type Option func(*DefaultVerifier)

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(v *DefaultVerifier) {
		if logger != nil {
			v.logger = logger
		}
	}
}

// WithMetrics sets the metrics collector
func WithMetrics(m *metrics.Metrics) Option {
	return func(v *DefaultVerifier) {
		v.metrics = m
	}
}

// NewDefaultVerifier creates a verifier
func NewDefaultVerifier(resolver KeyResolver, opts ...Option) *DefaultVerifier {
	v := &DefaultVerifier{
		resolver: resolver,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Verify resolves the signing certificate and checks the signature
func (v *DefaultVerifier) Verify(ctx context.Context, params Params) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("context error: %w", err)
	}
	if v.resolver == nil {
		return false, errors.New("verifier: key resolver not configured")
	}

	entry, err := v.resolver.Resolve(ctx, params.Serial, params.APIKey)
	if err != nil {
		v.metrics.ObserveVerification("error")
		return false, fmt.Errorf("failed to resolve platform certificate: %w", err)
	}

	message, err := BuildMessage(params.Timestamp, params.Nonce, params.Body)
	if err != nil {
		v.metrics.ObserveVerification("error")
		return false, err
	}

	ok := VerifySignature(entry.PublicKey, message, params.Signature)
	if ok {
		v.metrics.ObserveVerification("valid")
	} else {
		v.metrics.ObserveVerification("invalid")
		v.logger.Warn("platform signature mismatch",
			zap.String("serial", params.Serial),
			zap.String("nonce", params.Nonce),
			zap.String("timestamp", params.Timestamp),
		)
	}
	return ok, nil
}

// BuildMessage creates the message the platform signs on responses and
// callbacks: timestamp\nnonce\nbody\n
func BuildMessage(timestamp, nonce string, body any) (string, error) {
	bodyStr, err := signer.BodyString(body)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(timestamp)
	b.WriteByte('\n')
	b.WriteString(nonce)
	b.WriteByte('\n')
	b.WriteString(bodyStr)
	b.WriteByte('\n')
	return b.String(), nil
}

// VerifySignature checks a base64 RSA-SHA256 signature. Undecodable
// signatures and nil keys are reported as invalid.
func VerifySignature(pub *rsa.PublicKey, message, signature string) bool {
	if pub == nil {
		return false
	}
	sig, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		return false
	}
	digest := sha256.Sum256([]byte(message))
	return rsa.VerifyPKCS1v15(pub, crypto.SHA256, digest[:], sig) == nil
}

var _ Verifier = (*DefaultVerifier)(nil)

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

package client

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/sage-x-project/sage-pay-go/pkg/certificate"
	"github.com/sage-x-project/sage-pay-go/pkg/metrics"
	"github.com/sage-x-project/sage-pay-go/pkg/signer"
)

var (
	// ErrMissingPrivateKey is returned when no merchant private key is configured
	ErrMissingPrivateKey = signer.ErrMissingPrivateKey

	// ErrMissingPublicKey is returned when no merchant certificate is configured
	ErrMissingPublicKey = errors.New("client: merchant certificate not configured")

	// ErrMissingMchID is returned when no merchant id is configured
	ErrMissingMchID = errors.New("client: merchant id not configured")

	// ErrMissingField is returned before any network call when a required
	// identifier is absent from a request
	ErrMissingField = errors.New("client: missing required field")
)

// Config is the merchant identity and client settings
type Config struct {
	// AppID is the application id bound to the merchant
	AppID string

	// MchID is the merchant id. Required.
	MchID string

	// SerialNo is the serial of the merchant certificate. Derived from
	// PublicCert when empty.
	SerialNo string

	// PublicCert is the merchant certificate PEM. Required.
	PublicCert []byte

	// PrivateKey is the merchant private key PEM (PKCS#8 or PKCS#1). Required.
	PrivateKey []byte

	// APIKey is the 32 byte symmetric key used to decrypt certificates and
	// notification resources. May instead be passed per call.
	APIKey []byte

	// AuthType is the authorization scheme, WECHATPAY2-SHA256-RSA2048 by default
	AuthType string

	// UserAgent overrides the User-Agent header
	UserAgent string

	// BaseURL overrides the platform host, mainly for tests
	BaseURL string

	// HTTPClient is the underlying HTTP client
	HTTPClient *http.Client

	// Timeout bounds every request; zero means no timeout
	Timeout time.Duration

	// VerifyResponses enables signature checks on API responses
	VerifyResponses bool

	// Cache holds platform certificates. Nil uses certificate.Default().
	Cache *certificate.Cache

	// Logger defaults to a no-op logger
	Logger *zap.Logger

	// Metrics is optional
	Metrics *metrics.Metrics
}

// Validate checks the required fields
func (c *Config) Validate() error {
	if c.MchID == "" {
		return ErrMissingMchID
	}
	if len(c.PublicCert) == 0 {
		return ErrMissingPublicKey
	}
	if len(c.PrivateKey) == 0 {
		return ErrMissingPrivateKey
	}
	return nil
}

// missing reports an absent request field
func missing(field string) error {
	return fmt.Errorf("%w: %s", ErrMissingField, field)
}

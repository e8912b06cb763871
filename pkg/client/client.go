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
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/sage-x-project/sage-pay-go/pkg/aead"
	"github.com/sage-x-project/sage-pay-go/pkg/certificate"
	"github.com/sage-x-project/sage-pay-go/pkg/signer"
	"github.com/sage-x-project/sage-pay-go/pkg/transport"
	"github.com/sage-x-project/sage-pay-go/pkg/verifier"
)

// Client is a merchant client for the payment platform API
type Client struct {
	appID string
	mchID string

	rsaSigner *signer.RSASigner
	requests  *signer.DefaultRequestSigner
	transport *transport.HTTPTransport
	manager   *certificate.Manager
	verifier  *verifier.DefaultVerifier
	logger    *zap.Logger
	cfg       Config

	keyMu  sync.RWMutex
	apiKey []byte
}

// New validates cfg and builds a client
func New(cfg Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	privateKey, err := signer.ParsePrivateKey(cfg.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}

	serialNo := cfg.SerialNo
	if serialNo == "" {
		serialNo, err = certificate.SerialFromPEM(cfg.PublicCert)
		if err != nil {
			return nil, fmt.Errorf("failed to derive serial number: %w", err)
		}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("mchid", cfg.MchID))

	c := &Client{
		appID:     cfg.AppID,
		mchID:     cfg.MchID,
		rsaSigner: signer.NewRSASigner(privateKey),
		logger:    logger,
		cfg:       cfg,
		apiKey:    cfg.APIKey,
	}

	c.requests = signer.NewDefaultRequestSigner(
		signer.Credential{Scheme: cfg.AuthType, MchID: cfg.MchID, SerialNo: serialNo},
		c.rsaSigner,
		signer.WithLogger(logger),
		signer.WithMetrics(cfg.Metrics),
	)

	opts := []transport.Option{
		transport.WithHTTPClient(cfg.HTTPClient),
		transport.WithBaseURL(cfg.BaseURL),
		transport.WithUserAgent(cfg.UserAgent),
		transport.WithLogger(logger),
		transport.WithMetrics(cfg.Metrics),
	}
	if cfg.Timeout > 0 {
		opts = append(opts, transport.WithTimeout(cfg.Timeout))
	}

	lister := transport.NewCertificateLister(transport.NewHTTPTransport(c.requests, opts...))
	c.manager = certificate.NewManager(cfg.Cache, lister,
		certificate.WithLogger(logger),
		certificate.WithMetrics(cfg.Metrics),
	)
	c.verifier = verifier.NewDefaultVerifier(c.manager,
		verifier.WithLogger(logger),
		verifier.WithMetrics(cfg.Metrics),
	)

	if cfg.VerifyResponses {
		opts = append(opts, transport.WithResponseVerifier(c.verifier, c.APIKey))
	}
	c.transport = transport.NewHTTPTransport(c.requests, opts...)

	return c, nil
}

// AppID returns the configured application id
func (c *Client) AppID() string {
	return c.appID
}

// MchID returns the configured merchant id
func (c *Client) MchID() string {
	return c.mchID
}

// SerialNo returns the merchant certificate serial used in Authorization headers
func (c *Client) SerialNo() string {
	return c.requests.Credential().SerialNo
}

// Certificates returns the certificate manager backing verification
func (c *Client) Certificates() *certificate.Manager {
	return c.manager
}

// Transport returns the signed HTTP transport
func (c *Client) Transport() *transport.HTTPTransport {
	return c.transport
}

// APIKey returns the symmetric key currently configured, if any
func (c *Client) APIKey() []byte {
	c.keyMu.RLock()
	defer c.keyMu.RUnlock()
	return c.apiKey
}

// resolveKey picks the per-call key or the configured one. A per-call key
// is remembered when none was configured.
func (c *Client) resolveKey(key []byte) ([]byte, error) {
	if len(key) > 0 {
		c.keyMu.Lock()
		if len(c.apiKey) == 0 {
			c.apiKey = append([]byte(nil), key...)
			c.logger.Debug("API key remembered from call")
		}
		c.keyMu.Unlock()
		return key, nil
	}

	if configured := c.APIKey(); len(configured) > 0 {
		return configured, nil
	}
	return nil, aead.ErrMissingKey
}

// Sign signs message with the merchant private key
func (c *Client) Sign(message string) (string, error) {
	return c.rsaSigner.Sign(message)
}

// Authorization returns an Authorization header value for a request. rawURL
// may be absolute or host-relative.
func (c *Client) Authorization(ctx context.Context, method, rawURL string, body any) (string, error) {
	auth, err := c.requests.Authorize(ctx, method, signer.RelativePath(rawURL), body)
	if err != nil {
		return "", err
	}
	return auth.Header, nil
}

// GetSerialNo returns the upper-case hex serial of a certificate PEM
func (c *Client) GetSerialNo(certPEM []byte) (string, error) {
	return certificate.SerialFromPEM(certPEM)
}

// FetchCertificates refreshes the platform certificate cache. apiKey may
// be nil when one is configured.
func (c *Client) FetchCertificates(ctx context.Context, apiKey []byte) error {
	key, err := c.resolveKey(apiKey)
	if err != nil {
		return err
	}
	return c.manager.Refresh(ctx, key)
}

// VerifySign checks a platform signature. params.APIKey falls back to the
// configured key; it is only needed if the certificate must be fetched.
func (c *Client) VerifySign(ctx context.Context, params verifier.Params) (bool, error) {
	if key, err := c.resolveKey(params.APIKey); err == nil {
		params.APIKey = key
	}
	return c.verifier.Verify(ctx, params)
}

// Decrypt opens an AEAD_AES_256_GCM resource. key falls back to the
// configured API key.
func (c *Client) Decrypt(ciphertext, associatedData, nonce string, key []byte) (*aead.Result, error) {
	apiKey, err := c.resolveKey(key)
	if err != nil {
		c.cfg.Metrics.ObserveDecryption(err)
		return nil, err
	}

	res, err := aead.Decrypt(ciphertext, associatedData, nonce, apiKey)
	c.cfg.Metrics.ObserveDecryption(err)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt resource: %w", err)
	}
	return res, nil
}

// post sends body and decodes the response into out when out is non-nil
func (c *Client) post(ctx context.Context, op, path string, body, out any) error {
	resp, err := c.transport.Post(ctx, path, body)
	if err != nil {
		return fmt.Errorf("failed to %s: %w", op, err)
	}
	if out == nil {
		return nil
	}
	return resp.Decode(out)
}

// get fetches path and decodes the response into out
func (c *Client) get(ctx context.Context, op, path string, out any) error {
	resp, err := c.transport.Get(ctx, path)
	if err != nil {
		return fmt.Errorf("failed to %s: %w", op, err)
	}
	return resp.Decode(out)
}

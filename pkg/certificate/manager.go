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

package certificate

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/sage-x-project/sage-pay-go/pkg/aead"
	"github.com/sage-x-project/sage-pay-go/pkg/metrics"
)

var (
	// ErrUnknownCertificate is returned when a serial is still unknown after a refresh
	ErrUnknownCertificate = errors.New("certificate: serial not found in platform certificates")

	// ErrCertificateFetch is wrapped by FetchError
	ErrCertificateFetch = errors.New("certificate: failed to fetch platform certificates")
)

// FetchError reports a non-success response from the certificate listing
type FetchError struct {
	StatusCode int
	Body       []byte
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%v: HTTP %d: %s", ErrCertificateFetch, e.StatusCode, string(e.Body))
}

// Unwrap allows errors.Is(err, ErrCertificateFetch)
func (e *FetchError) Unwrap() error {
	return ErrCertificateFetch
}

// Lister fetches the encrypted platform certificate listing
type Lister interface {
	// ListCertificates performs the authenticated listing request.
	// A non-success status is reported as *FetchError.
	ListCertificates(ctx context.Context) ([]Record, error)
}

// DefaultRefreshTimeout bounds a single certificate fetch
const DefaultRefreshTimeout = 30 * time.Second

// Manager keeps a Cache populated from a Lister
type Manager struct {
	cache          *Cache
	lister         Lister
	group          singleflight.Group
	refreshTimeout time.Duration
	logger         *zap.Logger
	metrics        *metrics.Metrics
}

// ManagerOption configures a Manager
type ManagerOption func(*Manager)

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) ManagerOption {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithMetrics sets the metrics collector
func WithMetrics(mt *metrics.Metrics) ManagerOption {
	return func(m *Manager) {
		m.metrics = mt
	}
}

// WithRefreshTimeout bounds each certificate fetch. Non-positive values
// keep DefaultRefreshTimeout.
func WithRefreshTimeout(d time.Duration) ManagerOption {
	return func(m *Manager) {
		if d > 0 {
			m.refreshTimeout = d
		}
	}
}

// NewManager creates a manager. A nil cache uses Default().
func NewManager(cache *Cache, lister Lister, opts ...ManagerOption) *Manager {
	if cache == nil {
		cache = Default()
	}
	m := &Manager{
		cache:          cache,
		lister:         lister,
		refreshTimeout: DefaultRefreshTimeout,
		logger:         zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Cache returns the cache the manager populates
func (m *Manager) Cache() *Cache {
	return m.cache
}

// Refresh fetches, decrypts and merges the platform certificates. The batch
// is merged only if every record decrypts and parses. Concurrent refreshes
// with the same key share one fetch.
func (m *Manager) Refresh(ctx context.Context, apiKey []byte) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}
	if len(apiKey) == 0 {
		return aead.ErrMissingKey
	}
	if m.lister == nil {
		return errors.New("certificate: lister not configured")
	}

	// The shared fetch outlives any single caller; each caller still stops
	// waiting when its own ctx is done.
	sum := sha256.Sum256(apiKey)
	ch := m.group.DoChan(hex.EncodeToString(sum[:]), func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.refreshTimeout)
		defer cancel()
		return nil, m.refresh(fetchCtx, apiKey)
	})

	select {
	case res := <-ch:
		if res.Shared {
			m.logger.Debug("certificate refresh shared with concurrent caller")
		}
		return res.Err
	case <-ctx.Done():
		return fmt.Errorf("context error: %w", ctx.Err())
	}
}

func (m *Manager) refresh(ctx context.Context, apiKey []byte) (err error) {
	defer func() {
		m.metrics.ObserveRefresh(err, m.cache.Len())
	}()

	records, err := m.lister.ListCertificates(ctx)
	if err != nil {
		m.logger.Warn("certificate listing failed", zap.Error(err))
		return err
	}

	entries := make([]*Entry, 0, len(records))
	for _, rec := range records {
		entry, err := decryptRecord(rec, apiKey)
		if err != nil {
			m.logger.Warn("certificate record rejected",
				zap.String("serial", rec.SerialNo),
				zap.Error(err),
			)
			return fmt.Errorf("certificate %s: %w", rec.SerialNo, err)
		}
		entries = append(entries, entry)
	}

	m.cache.Merge(entries...)

	serials := make([]string, len(entries))
	for i, e := range entries {
		serials[i] = e.SerialNo
	}
	m.logger.Info("platform certificates refreshed",
		zap.Strings("serials", serials),
		zap.Int("cached", m.cache.Len()),
	)
	return nil
}

// Resolve returns the entry for serial, refreshing once if it is unknown
func (m *Manager) Resolve(ctx context.Context, serial string, apiKey []byte) (*Entry, error) {
	if e, ok := m.cache.Lookup(serial); ok {
		return e, nil
	}

	m.logger.Info("unknown certificate serial, refreshing", zap.String("serial", serial))
	refreshErr := m.Refresh(ctx, apiKey)

	if e, ok := m.cache.Lookup(serial); ok {
		return e, nil
	}

	if refreshErr != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrUnknownCertificate, serial, refreshErr)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownCertificate, serial)
}

func decryptRecord(rec Record, apiKey []byte) (*Entry, error) {
	enc := rec.EncryptCertificate
	if enc.Algorithm != "" && enc.Algorithm != aead.Algorithm {
		return nil, fmt.Errorf("unsupported algorithm %q", enc.Algorithm)
	}

	plaintext, err := aead.Open(enc.Ciphertext, enc.AssociatedData, enc.Nonce, apiKey)
	if err != nil {
		return nil, err
	}

	entry, err := EntryFromPEM(plaintext)
	if err != nil {
		return nil, err
	}

	// The listing's serial is authoritative for lookups.
	if rec.SerialNo != "" {
		entry.SerialNo = rec.SerialNo
	}
	effective, expire := rec.Validity()
	if !effective.IsZero() {
		entry.EffectiveTime = effective
	}
	if !expire.IsZero() {
		entry.ExpireTime = expire
	}
	return entry, nil
}

// EntryFromPEM builds a cache entry from a platform certificate PEM
func EntryFromPEM(certPEM []byte) (*Entry, error) {
	cert, err := ParsePEM(certPEM)
	if err != nil {
		return nil, err
	}

	pub, err := RSAPublicKey(cert)
	if err != nil {
		return nil, err
	}

	pubPEM, err := PublicKeyPEM(cert)
	if err != nil {
		return nil, err
	}

	return &Entry{
		SerialNo:      SerialNumber(cert),
		PublicKeyPEM:  pubPEM,
		PublicKey:     pub,
		EffectiveTime: cert.NotBefore,
		ExpireTime:    cert.NotAfter,
	}, nil
}

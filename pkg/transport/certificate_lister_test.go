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
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sage-x-project/sage-pay-go/pkg/aead"
	"github.com/sage-x-project/sage-pay-go/pkg/certificate"
)

func TestCertificateLister_ListCertificates(t *testing.T) {
	tr, platform, key := setupTransport(t)
	lister := NewCertificateLister(tr)

	records, err := lister.ListCertificates(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, platform.SerialNo, rec.SerialNo)
	assert.Equal(t, aead.Algorithm, rec.EncryptCertificate.Algorithm)
	_, expire := rec.Validity()
	assert.Equal(t, 2029, expire.Year())

	plaintext, err := aead.Open(rec.EncryptCertificate.Ciphertext, rec.EncryptCertificate.AssociatedData, rec.EncryptCertificate.Nonce, platform.APIKey)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(plaintext), "-----BEGIN CERTIFICATE-----"))

	req := platform.LastRequest()
	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, CertificatesPath, req.Path)
	assertSigned(t, key, req)
}

func TestCertificateLister_FetchError(t *testing.T) {
	tr, platform, _ := setupTransport(t)
	platform.FailCertificates(http.StatusUnauthorized)

	_, err := NewCertificateLister(tr).ListCertificates(context.Background())
	require.Error(t, err)

	var fe *certificate.FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, http.StatusUnauthorized, fe.StatusCode)
	assert.ErrorIs(t, err, certificate.ErrCertificateFetch)
}

func TestCertificateLister_WithManager(t *testing.T) {
	tr, platform, _ := setupTransport(t)
	manager := certificate.NewManager(certificate.NewCache(), NewCertificateLister(tr))

	require.NoError(t, manager.Refresh(context.Background(), platform.APIKey))

	entry, ok := manager.Cache().Lookup(platform.SerialNo)
	require.True(t, ok)
	assert.Equal(t, platform.Key.PublicKey.N, entry.PublicKey.N)
}

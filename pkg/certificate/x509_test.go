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
	"encoding/base64"
	"encoding/pem"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sage-x-project/sage-pay-go/internal/testutil"
)

func TestSerialFromPEM(t *testing.T) {
	key := testutil.RSAKey(t, "merchant")
	certPEM := testutil.Certificate(t, key, 0x1DDE55AD98ED71D6, "merchant")

	serial, err := SerialFromPEM(certPEM)

	require.NoError(t, err)
	assert.Equal(t, "1DDE55AD98ED71D6", serial)
}

func TestParsePEM_Fallbacks(t *testing.T) {
	key := testutil.RSAKey(t, "merchant")
	certPEM := testutil.Certificate(t, key, 42, "merchant")
	block, _ := pem.Decode(certPEM)
	require.NotNil(t, block)

	t.Run("Base64PEM", func(t *testing.T) {
		cert, err := ParsePEM([]byte(base64.StdEncoding.EncodeToString(certPEM)))
		require.NoError(t, err)
		assert.Equal(t, "2A", SerialNumber(cert))
	})

	t.Run("DER", func(t *testing.T) {
		cert, err := ParsePEM(block.Bytes)
		require.NoError(t, err)
		assert.Equal(t, "2A", SerialNumber(cert))
	})

	t.Run("Empty", func(t *testing.T) {
		_, err := ParsePEM(nil)
		assert.Error(t, err)
	})

	t.Run("Garbage", func(t *testing.T) {
		_, err := ParsePEM([]byte("-----BEGIN CERTIFICATE-----\nAAAA\n-----END CERTIFICATE-----\n"))
		assert.Error(t, err)
	})
}

func TestPublicKeyPEM_RoundTrip(t *testing.T) {
	key := testutil.RSAKey(t, "platform")
	cert, err := ParsePEM(testutil.Certificate(t, key, 7, "platform"))
	require.NoError(t, err)

	pubPEM, err := PublicKeyPEM(cert)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(pubPEM, "-----BEGIN PUBLIC KEY-----"))

	pub, err := ParsePublicKeyPEM(pubPEM)
	require.NoError(t, err)
	assert.True(t, pub.Equal(&key.PublicKey))

	_, err = ParsePublicKeyPEM("nope")
	assert.Error(t, err)
}

func TestSerialNumber_Nil(t *testing.T) {
	assert.Empty(t, SerialNumber(nil))
}

func TestEntryFromPEM(t *testing.T) {
	key := testutil.RSAKey(t, "platform")

	entry, err := EntryFromPEM(testutil.Certificate(t, key, 255, "platform"))

	require.NoError(t, err)
	assert.Equal(t, "FF", entry.SerialNo)
	assert.True(t, entry.PublicKey.Equal(&key.PublicKey))
	assert.False(t, entry.ExpireTime.IsZero())
}

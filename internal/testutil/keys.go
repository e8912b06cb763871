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

// Package testutil provides key material and a fake payment platform for tests.
package testutil

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/base64"
	"encoding/pem"
	"math/big"
	"strings"
	"sync"
	"testing"
	"time"
)

var keys sync.Map

// RSAKey returns a 2048-bit key cached by name for the whole test binary
func RSAKey(t testing.TB, name string) *rsa.PrivateKey {
	t.Helper()

	if k, ok := keys.Load(name); ok {
		return k.(*rsa.PrivateKey)
	}
	k, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("Failed to generate RSA key: %v", err)
	}
	actual, _ := keys.LoadOrStore(name, k)
	return actual.(*rsa.PrivateKey)
}

// PrivateKeyPEM encodes key as PKCS#8 PEM
func PrivateKeyPEM(t testing.TB, key *rsa.PrivateKey) []byte {
	t.Helper()

	der, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		t.Fatalf("Failed to marshal private key: %v", err)
	}
	return pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der})
}

// Certificate creates a self-signed certificate PEM for key with the given serial
func Certificate(t testing.TB, key *rsa.PrivateKey, serial int64, commonName string) []byte {
	t.Helper()

	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(serial),
		Subject:      pkix.Name{CommonName: commonName, Organization: []string{"sage-pay-go test"}},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(24 * time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature,
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	if err != nil {
		t.Fatalf("Failed to create certificate: %v", err)
	}
	return pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
}

// SerialHex formats a serial the way certificate.SerialNumber does
func SerialHex(serial int64) string {
	return strings.ToUpper(big.NewInt(serial).Text(16))
}

// Sign returns the base64 RSA-SHA256 signature of message
func Sign(t testing.TB, key *rsa.PrivateKey, message string) string {
	t.Helper()

	digest := sha256.Sum256([]byte(message))
	sig, err := rsa.SignPKCS1v15(rand.Reader, key, crypto.SHA256, digest[:])
	if err != nil {
		t.Fatalf("Failed to sign: %v", err)
	}
	return base64.StdEncoding.EncodeToString(sig)
}

// SignResponse signs a platform response: timestamp\nnonce\nbody\n
func SignResponse(t testing.TB, key *rsa.PrivateKey, timestamp, nonce, body string) string {
	t.Helper()
	return Sign(t, key, timestamp+"\n"+nonce+"\n"+body+"\n")
}

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
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"errors"
	"fmt"
)

// RSASigner signs messages with RSA PKCS#1 v1.5 over SHA-256
type RSASigner struct {
	privateKey *rsa.PrivateKey
}

// NewRSASigner creates a signer for the given private key.
// A nil key is accepted; Sign then fails with ErrMissingPrivateKey.
func NewRSASigner(privateKey *rsa.PrivateKey) *RSASigner {
	return &RSASigner{privateKey: privateKey}
}

// Sign computes the base64 RSA-SHA256 signature of message
func (s *RSASigner) Sign(message string) (string, error) {
	if s == nil || s.privateKey == nil {
		return "", ErrMissingPrivateKey
	}

	digest := sha256.Sum256([]byte(message))
	sig, err := rsa.SignPKCS1v15(rand.Reader, s.privateKey, crypto.SHA256, digest[:])
	if err != nil {
		return "", fmt.Errorf("failed to sign: %w", err)
	}

	return base64.StdEncoding.EncodeToString(sig), nil
}

// PublicKey returns the public half of the signing key, or nil
func (s *RSASigner) PublicKey() *rsa.PublicKey {
	if s == nil || s.privateKey == nil {
		return nil
	}
	return &s.privateKey.PublicKey
}

// ParsePrivateKey parses a PEM encoded RSA private key in PKCS#8 or PKCS#1 form
func ParsePrivateKey(data []byte) (*rsa.PrivateKey, error) {
	if len(data) == 0 {
		return nil, ErrMissingPrivateKey
	}

	block, _ := pem.Decode(data)
	if block == nil {
		return nil, errors.New("failed to decode private key: not PEM format")
	}

	switch block.Type {
	case "RSA PRIVATE KEY":
		key, err := x509.ParsePKCS1PrivateKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("failed to parse PKCS#1 private key: %w", err)
		}
		return key, nil
	default:
		parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("failed to parse PKCS#8 private key: %w", err)
		}
		key, ok := parsed.(*rsa.PrivateKey)
		if !ok {
			return nil, fmt.Errorf("unsupported private key type %T", parsed)
		}
		return key, nil
	}
}

var _ Signer = (*RSASigner)(nil)

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

package aead

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"errors"
	"fmt"
)

const (
	// KeySize is the required API key length for AES-256
	KeySize = 32

	// TagSize is the length of the authentication tag appended to the ciphertext
	TagSize = 16

	// Algorithm is the algorithm name the platform puts on encrypted resources
	Algorithm = "AEAD_AES_256_GCM"
)

var (
	// ErrMissingKey is returned when no symmetric key is available
	ErrMissingKey = errors.New("aead: symmetric key not configured")

	// ErrInvalidKeySize is returned when the key is not 32 bytes
	ErrInvalidKeySize = errors.New("aead: key must be 32 bytes")

	// ErrMalformedCiphertext is returned when the ciphertext cannot be decoded or is shorter than the tag
	ErrMalformedCiphertext = errors.New("aead: malformed ciphertext")

	// ErrAuthTagMismatch is returned when the authentication tag does not verify
	ErrAuthTagMismatch = errors.New("aead: authentication tag mismatch")
)

// Decrypt opens a base64 AES-256-GCM ciphertext whose last 16 bytes are the
// authentication tag. The plaintext is never returned when the tag fails.
func Decrypt(ciphertext, associatedData, nonce string, key []byte) (*Result, error) {
	plaintext, err := Open(ciphertext, associatedData, nonce, key)
	if err != nil {
		return nil, err
	}
	return newResult(plaintext), nil
}

// Open is like Decrypt but returns the raw plaintext bytes
func Open(ciphertext, associatedData, nonce string, key []byte) ([]byte, error) {
	gcm, err := newGCM(key, len(nonce))
	if err != nil {
		return nil, err
	}

	data, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedCiphertext, err)
	}
	if len(data) < TagSize {
		return nil, fmt.Errorf("%w: %d bytes is shorter than the tag", ErrMalformedCiphertext, len(data))
	}

	// cipher.AEAD takes body||tag, which is already the wire layout.
	plaintext, err := gcm.Open(nil, []byte(nonce), data, []byte(associatedData))
	if err != nil {
		return nil, ErrAuthTagMismatch
	}
	return plaintext, nil
}

// Encrypt seals plaintext in the platform's wire format: base64(ciphertext || tag)
func Encrypt(plaintext []byte, associatedData, nonce string, key []byte) (string, error) {
	gcm, err := newGCM(key, len(nonce))
	if err != nil {
		return "", err
	}
	sealed := gcm.Seal(nil, []byte(nonce), plaintext, []byte(associatedData))
	return base64.StdEncoding.EncodeToString(sealed), nil
}

func newGCM(key []byte, nonceSize int) (cipher.AEAD, error) {
	if len(key) == 0 {
		return nil, ErrMissingKey
	}
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidKeySize, len(key))
	}
	if nonceSize == 0 {
		return nil, errors.New("aead: nonce cannot be empty")
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	if nonceSize == 12 {
		return cipher.NewGCM(block)
	}
	return cipher.NewGCMWithNonceSize(block, nonceSize)
}

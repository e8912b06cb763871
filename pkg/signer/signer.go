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
	"errors"
)

// ErrMissingPrivateKey is returned when signing is attempted without a private key.
var ErrMissingPrivateKey = errors.New("signer: private key not configured")

// Signer produces a base64 RSA-SHA256 signature over a message
type Signer interface {
	// Sign signs the UTF-8 bytes of message and returns the base64 signature
	Sign(message string) (string, error)
}

// RequestAuthorizer builds Authorization header values for outbound requests
type RequestAuthorizer interface {
	// Authorize signs a request with a fresh nonce and timestamp
	// path must be relative to the API host
	Authorize(ctx context.Context, method, path string, body any) (*Authorization, error)
}

// Authorization is the result of signing one outbound request
type Authorization struct {
	// Header is the full Authorization header value
	Header string

	// Nonce is the random string generated for this request
	Nonce string

	// Timestamp is the unix timestamp (seconds) used for this request
	Timestamp string

	// Signature is the base64 signature over the canonical message
	Signature string
}

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

	"github.com/sage-x-project/sage-pay-go/pkg/certificate"
)

// Params are the inputs of one response or callback verification
type Params struct {
	// Timestamp is the Wechatpay-Timestamp value
	Timestamp string

	// Nonce is the Wechatpay-Nonce value
	Nonce string

	// Body is the response body, raw (string / []byte) or structured.
	// Structured bodies are JSON-marshalled, so raw bytes are preferred.
	Body any

	// Serial is the Wechatpay-Serial value selecting the platform certificate
	Serial string

	// Signature is the base64 Wechatpay-Signature value
	Signature string

	// APIKey decrypts the certificate listing if a refresh is needed
	APIKey []byte
}

// Verifier validates platform signatures
type Verifier interface {
	// Verify reports whether the signature is valid. An invalid signature is
	// (false, nil); errors are reserved for unresolvable keys and I/O.
	Verify(ctx context.Context, params Params) (bool, error)
}

// KeyResolver resolves a certificate serial to a verification key
type KeyResolver interface {
	// Resolve returns the entry for serial, refreshing at most once
	Resolve(ctx context.Context, serial string, apiKey []byte) (*certificate.Entry, error)
}

var _ KeyResolver = (*certificate.Manager)(nil)

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
	"encoding/json"
	"fmt"
)

// Kind tells how a decrypted payload was interpreted
type Kind int

const (
	// Raw payloads are plain text, e.g. a certificate PEM
	Raw Kind = iota

	// Structured payloads parsed as JSON, e.g. a notification resource
	Structured
)

// String returns the kind name
func (k Kind) String() string {
	switch k {
	case Structured:
		return "structured"
	default:
		return "raw"
	}
}

// Result is a decrypted payload. Parsing as JSON is attempted once; when it
// fails the payload is kept as raw text. Both are successful outcomes.
type Result struct {
	kind Kind
	data []byte
}

func newResult(plaintext []byte) *Result {
	kind := Raw
	if json.Valid(plaintext) {
		kind = Structured
	}
	return &Result{kind: kind, data: plaintext}
}

// Kind reports whether the payload parsed as JSON
func (r *Result) Kind() Kind {
	return r.kind
}

// IsStructured is shorthand for Kind() == Structured
func (r *Result) IsStructured() bool {
	return r.kind == Structured
}

// String returns the plaintext as text regardless of kind
func (r *Result) String() string {
	return string(r.data)
}

// Bytes returns the plaintext bytes
func (r *Result) Bytes() []byte {
	return r.data
}

// JSON returns the payload as raw JSON, or nil for raw payloads
func (r *Result) JSON() json.RawMessage {
	if r.kind != Structured {
		return nil
	}
	return json.RawMessage(r.data)
}

// Unmarshal decodes a structured payload into v
func (r *Result) Unmarshal(v any) error {
	if r.kind != Structured {
		return fmt.Errorf("aead: payload is %s, not JSON", r.kind)
	}
	return json.Unmarshal(r.data, v)
}

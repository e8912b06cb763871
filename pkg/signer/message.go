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
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	sagepay "github.com/sage-x-project/sage-pay-go"
)

// BuildMessage creates the canonical message for an outbound request:
//
//	METHOD\nPATH\nTIMESTAMP\nNONCE\n[BODY\n][\n for GET without body]
//
// path must already be relative to the API host (see RelativePath).
func BuildMessage(method, path, timestamp, nonce string, body any) (string, error) {
	bodyStr, err := BodyString(body)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(method)
	b.WriteByte('\n')
	b.WriteString(path)
	b.WriteByte('\n')
	b.WriteString(timestamp)
	b.WriteByte('\n')
	b.WriteString(nonce)
	b.WriteByte('\n')

	if bodyStr != "" {
		b.WriteString(bodyStr)
		b.WriteByte('\n')
	}

	// The platform expects an empty line for body-less GETs.
	if method == http.MethodGet && bodyStr == "" {
		b.WriteByte('\n')
	}

	return b.String(), nil
}

// BodyString serializes a request or response body the way it is signed.
// Strings, byte slices and json.RawMessage are used verbatim; any other
// value is marshalled to compact JSON without HTML escaping. nil yields an
// empty string.
func BodyString(body any) (string, error) {
	switch v := body.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	case json.RawMessage:
		return string(v), nil
	default:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(v); err != nil {
			return "", fmt.Errorf("failed to marshal body: %w", err)
		}
		data := strings.TrimSuffix(buf.String(), "\n")
		if data == "null" {
			return "", nil
		}
		return data, nil
	}
}

// RelativePath strips the platform host from an absolute URL. Relative
// paths are returned unchanged.
func RelativePath(rawURL string) string {
	if strings.HasPrefix(rawURL, sagepay.DefaultBaseURL) {
		return strings.TrimPrefix(rawURL, sagepay.DefaultBaseURL)
	}
	if i := strings.Index(rawURL, "://"); i >= 0 {
		rest := rawURL[i+3:]
		if j := strings.IndexByte(rest, '/'); j >= 0 {
			return rest[j:]
		}
		return "/"
	}
	return rawURL
}

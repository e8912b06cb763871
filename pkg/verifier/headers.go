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
	"net/http"
)

// Header names the platform uses to carry response and callback signatures
const (
	HeaderTimestamp = "Wechatpay-Timestamp"
	HeaderNonce     = "Wechatpay-Nonce"
	HeaderSerial    = "Wechatpay-Serial"
	HeaderSignature = "Wechatpay-Signature"
)

// ParamsFromHeader builds verification params from response or callback
// headers. Header lookup is case-insensitive.
func ParamsFromHeader(h http.Header, body []byte) Params {
	return Params{
		Timestamp: h.Get(HeaderTimestamp),
		Nonce:     h.Get(HeaderNonce),
		Body:      body,
		Serial:    h.Get(HeaderSerial),
		Signature: h.Get(HeaderSignature),
	}
}

// HasSignature reports whether all signature headers are present
func HasSignature(h http.Header) bool {
	return h.Get(HeaderTimestamp) != "" &&
		h.Get(HeaderNonce) != "" &&
		h.Get(HeaderSerial) != "" &&
		h.Get(HeaderSignature) != ""
}

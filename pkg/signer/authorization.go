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
	"strings"

	sagepay "github.com/sage-x-project/sage-pay-go"
)

// Credential is the merchant identity carried in every Authorization header
type Credential struct {
	// Scheme is the authorization scheme name, e.g. WECHATPAY2-SHA256-RSA2048
	Scheme string

	// MchID is the merchant id
	MchID string

	// SerialNo is the serial number of the merchant certificate
	SerialNo string
}

// Authorization composes the Authorization header value. Field order is
// fixed by the platform and inputs are not escaped or validated.
func (c Credential) Authorization(nonce, timestamp, signature string) string {
	scheme := c.Scheme
	if scheme == "" {
		scheme = sagepay.DefaultAuthScheme
	}

	var b strings.Builder
	b.WriteString(scheme)
	b.WriteString(` mchid="`)
	b.WriteString(c.MchID)
	b.WriteString(`",nonce_str="`)
	b.WriteString(nonce)
	b.WriteString(`",timestamp="`)
	b.WriteString(timestamp)
	b.WriteString(`",serial_no="`)
	b.WriteString(c.SerialNo)
	b.WriteString(`",signature="`)
	b.WriteString(signature)
	b.WriteString(`"`)
	return b.String()
}

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
	"bytes"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"errors"
	"fmt"
	"strings"
)

// ParsePEM parses an X.509 certificate. PEM is expected; base64 wrapped PEM
// and bare DER are accepted as fallbacks.
func ParsePEM(data []byte) (*x509.Certificate, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("certificate: empty input")
	}

	block, _ := pem.Decode(data)
	if block != nil {
		return parseDER(block.Bytes)
	}

	decoded, err := base64.StdEncoding.DecodeString(string(data))
	if err != nil {
		return parseDER(data)
	}

	block, _ = pem.Decode(decoded)
	if block != nil {
		return parseDER(block.Bytes)
	}
	return parseDER(decoded)
}

func parseDER(der []byte) (*x509.Certificate, error) {
	cert, err := x509.ParseCertificate(der)
	if err != nil {
		return nil, fmt.Errorf("failed to parse certificate: %w", err)
	}
	return cert, nil
}

// SerialNumber returns the certificate serial as upper-case hex, the form
// the platform uses in serial_no fields and Wechatpay-Serial headers.
func SerialNumber(cert *x509.Certificate) string {
	if cert == nil || cert.SerialNumber == nil {
		return ""
	}
	return strings.ToUpper(cert.SerialNumber.Text(16))
}

// SerialFromPEM parses a certificate and returns its serial number
func SerialFromPEM(data []byte) (string, error) {
	cert, err := ParsePEM(data)
	if err != nil {
		return "", err
	}
	return SerialNumber(cert), nil
}

// RSAPublicKey returns the certificate's RSA public key
func RSAPublicKey(cert *x509.Certificate) (*rsa.PublicKey, error) {
	pub, ok := cert.PublicKey.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("certificate: unsupported public key type %T", cert.PublicKey)
	}
	return pub, nil
}

// PublicKeyPEM encodes the certificate's public key as a PKIX "PUBLIC KEY" PEM
func PublicKeyPEM(cert *x509.Certificate) (string, error) {
	der, err := x509.MarshalPKIXPublicKey(cert.PublicKey)
	if err != nil {
		return "", fmt.Errorf("failed to marshal public key: %w", err)
	}
	return string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})), nil
}

// ParsePublicKeyPEM parses a PKIX "PUBLIC KEY" PEM into an RSA public key
func ParsePublicKeyPEM(data string) (*rsa.PublicKey, error) {
	block, _ := pem.Decode([]byte(data))
	if block == nil {
		return nil, errors.New("certificate: public key is not PEM")
	}
	parsed, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse public key: %w", err)
	}
	pub, ok := parsed.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("certificate: unsupported public key type %T", parsed)
	}
	return pub, nil
}

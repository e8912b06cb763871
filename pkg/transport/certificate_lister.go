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

package transport

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/sage-x-project/sage-pay-go/pkg/certificate"
)

// CertificatesPath is the platform certificate listing endpoint
const CertificatesPath = "/v3/certificates"

// CertificateLister fetches the encrypted platform certificate listing
type CertificateLister struct {
	transport *HTTPTransport
}

// NewCertificateLister creates a lister on top of transport
func NewCertificateLister(transport *HTTPTransport) *CertificateLister {
	return &CertificateLister{transport: transport}
}

// ListCertificates performs a signed GET of the listing. The listing
// response itself is not verified: its signer is only known once it has
// been decrypted.
func (l *CertificateLister) ListCertificates(ctx context.Context) ([]certificate.Record, error) {
	resp, err := l.transport.do(ctx, http.MethodGet, CertificatesPath, nil, false)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			return nil, &certificate.FetchError{StatusCode: apiErr.StatusCode, Body: apiErr.Body}
		}
		return nil, fmt.Errorf("failed to list certificates: %w", err)
	}

	var list certificate.ListResponse
	if err := resp.Decode(&list); err != nil {
		return nil, err
	}
	return list.Data, nil
}

var _ certificate.Lister = (*CertificateLister)(nil)

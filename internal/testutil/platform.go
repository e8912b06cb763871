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

package testutil

import (
	"bytes"
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/sage-x-project/sage-pay-go/pkg/aead"
)

// PlatformSerial is the serial of the fake platform's certificate
const PlatformSerial int64 = 0x5157F09EFDC096DE

// PlatformAPIKey is the API key the fake platform encrypts with
var PlatformAPIKey = []byte("a8cd3b4f6e7d9c1b2a3f4e5d6c7b8a9f")

// RecordedRequest is a request the fake platform received
type RecordedRequest struct {
	Method        string
	Path          string
	RawQuery      string
	Authorization string
	Header        http.Header
	Body          []byte
}

// Platform is an in-process stand-in for the payment platform API
type Platform struct {
	t        testing.TB
	Server   *httptest.Server
	Key      *rsa.PrivateKey
	CertPEM  []byte
	SerialNo string
	APIKey   []byte

	mu         sync.Mutex
	certStatus int
	certCalls  int
	requests   []RecordedRequest
	handlers   map[string]http.HandlerFunc
}

// NewPlatform starts a fake platform and registers its shutdown with t
func NewPlatform(t testing.TB) *Platform {
	t.Helper()

	key := RSAKey(t, "platform")
	p := &Platform{
		t:          t,
		Key:        key,
		CertPEM:    Certificate(t, key, PlatformSerial, "platform"),
		SerialNo:   SerialHex(PlatformSerial),
		APIKey:     PlatformAPIKey,
		certStatus: http.StatusOK,
		handlers:   map[string]http.HandlerFunc{},
	}
	p.Server = httptest.NewServer(http.HandlerFunc(p.serve))
	t.Cleanup(p.Server.Close)
	return p
}

// URL returns the base URL of the fake platform
func (p *Platform) URL() string {
	return p.Server.URL
}

// FailCertificates makes the certificate listing answer with status
func (p *Platform) FailCertificates(status int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.certStatus = status
}

// CertificateCalls returns how many times the listing was requested
func (p *Platform) CertificateCalls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.certCalls
}

// Handle registers a handler for "METHOD /path"
func (p *Platform) Handle(route string, h http.HandlerFunc) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.handlers[route] = h
}

// Requests returns the requests received so far
func (p *Platform) Requests() []RecordedRequest {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]RecordedRequest(nil), p.requests...)
}

// LastRequest returns the most recent request
func (p *Platform) LastRequest() RecordedRequest {
	reqs := p.Requests()
	if len(reqs) == 0 {
		p.t.Fatalf("no requests recorded")
	}
	return reqs[len(reqs)-1]
}

// RequestTo returns the first request received for method and path
func (p *Platform) RequestTo(method, path string) RecordedRequest {
	for _, r := range p.Requests() {
		if r.Method == method && r.Path == path {
			return r
		}
	}
	p.t.Fatalf("no %s %s request recorded", method, path)
	return RecordedRequest{}
}

// Encrypt seals plaintext with the platform API key
func (p *Platform) Encrypt(plaintext []byte, associatedData string) (ciphertext, nonce string) {
	nonce = fmt.Sprintf("%012d", time.Now().UnixNano()%1_000_000_000_000)
	ct, err := aead.Encrypt(plaintext, associatedData, nonce, p.APIKey)
	if err != nil {
		p.t.Fatalf("Failed to encrypt: %v", err)
	}
	return ct, nonce
}

// ListingBody returns the certificate listing JSON for the platform certificate
func (p *Platform) ListingBody() []byte {
	ct, nonce := p.Encrypt(p.CertPEM, "certificate")
	body, err := json.Marshal(map[string]any{
		"data": []map[string]any{
			{
				"serial_no":      p.SerialNo,
				"effective_time": "2024-01-01T00:00:00+08:00",
				"expire_time":    "2029-01-01T00:00:00+08:00",
				"encrypt_certificate": map[string]string{
					"algorithm":       aead.Algorithm,
					"associated_data": "certificate",
					"ciphertext":      ct,
					"nonce":           nonce,
				},
			},
		},
	})
	if err != nil {
		p.t.Fatalf("Failed to marshal listing: %v", err)
	}
	return body
}

// SignedHeaders returns Wechatpay-* headers signing body with the platform key
func (p *Platform) SignedHeaders(body []byte) http.Header {
	ts := strconv.FormatInt(time.Now().Unix(), 10)
	nonce := "platformnonce" + ts
	h := http.Header{}
	h.Set("Wechatpay-Timestamp", ts)
	h.Set("Wechatpay-Nonce", nonce)
	h.Set("Wechatpay-Serial", p.SerialNo)
	h.Set("Wechatpay-Signature", SignResponse(p.t, p.Key, ts, nonce, string(body)))
	return h
}

// Respond writes a signed JSON response
func (p *Platform) Respond(w http.ResponseWriter, status int, body any) {
	var data []byte
	switch v := body.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		var err error
		data, err = json.Marshal(v)
		if err != nil {
			p.t.Fatalf("Failed to marshal response: %v", err)
		}
	}

	for k, vs := range p.SignedHeaders(data) {
		w.Header()[k] = vs
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func (p *Platform) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	r.Body = io.NopCloser(bytes.NewReader(body))

	p.mu.Lock()
	p.requests = append(p.requests, RecordedRequest{
		Method:        r.Method,
		Path:          r.URL.Path,
		RawQuery:      r.URL.RawQuery,
		Authorization: r.Header.Get("Authorization"),
		Header:        r.Header.Clone(),
		Body:          body,
	})
	handler := p.handlers[r.Method+" "+r.URL.Path]
	status := p.certStatus
	p.mu.Unlock()

	if handler != nil {
		handler(w, r)
		return
	}

	if r.Method == http.MethodGet && r.URL.Path == "/v3/certificates" {
		p.mu.Lock()
		p.certCalls++
		p.mu.Unlock()

		if status != http.StatusOK {
			p.Respond(w, status, map[string]string{"code": "SIGN_ERROR", "message": "signature mismatch"})
			return
		}
		p.Respond(w, http.StatusOK, p.ListingBody())
		return
	}

	p.Respond(w, http.StatusNotFound, map[string]string{"code": "NOT_FOUND", "message": "no handler for " + r.URL.Path})
}

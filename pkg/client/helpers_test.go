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

package client

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sage-x-project/sage-pay-go/internal/testutil"
	"github.com/sage-x-project/sage-pay-go/pkg/certificate"
)

const (
	testAppID         = "wxd678efh567hg6787"
	testMchID         = "1900000109"
	merchantSerial    = int64(0x1A2B3C4D5E6F)
	merchantSerialHex = "1A2B3C4D5E6F"
	testNotifyURL     = "https://merchant.example.com/notify"
	testPrepayID      = "wx201410272009395522657a690389285100"
)

// testConfig returns a complete configuration for the merchant test key
func testConfig(t *testing.T) Config {
	t.Helper()

	key := testutil.RSAKey(t, "merchant")
	return Config{
		AppID:      testAppID,
		MchID:      testMchID,
		PublicCert: testutil.Certificate(t, key, merchantSerial, "merchant"),
		PrivateKey: testutil.PrivateKeyPEM(t, key),
		Cache:      certificate.NewCache(),
	}
}

// newTestClient builds a client talking to a fresh fake platform
func newTestClient(t *testing.T, mutate ...func(*Config)) (*Client, *testutil.Platform) {
	t.Helper()

	platform := testutil.NewPlatform(t)
	cfg := testConfig(t)
	cfg.BaseURL = platform.URL()
	cfg.APIKey = platform.APIKey
	for _, m := range mutate {
		m(&cfg)
	}

	c, err := New(cfg)
	require.NoError(t, err)
	return c, platform
}

// decodeBody unmarshals a recorded request body into a generic map
func decodeBody(t *testing.T, body []byte) map[string]any {
	t.Helper()

	var m map[string]any
	require.NoError(t, json.Unmarshal(body, &m))
	return m
}

// respondWith returns a handler replying with a signed JSON body
func respondWith(platform *testutil.Platform, status int, body any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		platform.Respond(w, status, body)
	}
}

func sampleOrder() *TransactionRequest {
	return &TransactionRequest{
		Description: "Image形象店-深圳腾大-QQ公仔",
		OutTradeNo:  "1217752501201407033233368018",
		NotifyURL:   testNotifyURL,
		Amount:      Amount{Total: 100, Currency: "CNY"},
	}
}

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

package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/sage-x-project/sage-pay-go/internal/testutil"
	"github.com/sage-x-project/sage-pay-go/pkg/certificate"
	"github.com/sage-x-project/sage-pay-go/pkg/client"
	"github.com/sage-x-project/sage-pay-go/pkg/metrics"
	"github.com/sage-x-project/sage-pay-go/pkg/server"
	"github.com/sage-x-project/sage-pay-go/pkg/transport"
	"github.com/sage-x-project/sage-pay-go/pkg/verifier"
)

const (
	appID      = "wxd678efh567hg6787"
	mchID      = "1230000109"
	outTradeNo = "E2E20250101000001"
)

type flow struct {
	client   *client.Client
	platform *testutil.Platform
	registry *prometheus.Registry
	metrics  *metrics.Metrics
}

func newFlow(t *testing.T) *flow {
	t.Helper()

	platform := testutil.NewPlatform(t)
	key := testutil.RSAKey(t, "merchant")
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	c, err := client.New(client.Config{
		AppID:           appID,
		MchID:           mchID,
		PublicCert:      testutil.Certificate(t, key, 0x3C4D, "merchant"),
		PrivateKey:      testutil.PrivateKeyPEM(t, key),
		APIKey:          platform.APIKey,
		BaseURL:         platform.URL(),
		Timeout:         5 * time.Second,
		VerifyResponses: true,
		Cache:           certificate.NewCache(),
		Logger:          zaptest.NewLogger(t),
		Metrics:         m,
	})
	require.NoError(t, err)

	return &flow{client: c, platform: platform, registry: reg, metrics: m}
}

// notifyRouter wires the notification middleware the way a merchant server would
func (f *flow) notifyRouter(t *testing.T, received chan<- client.Transaction) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mw := server.NewNotificationMiddleware(
		verifier.NewDefaultVerifier(f.client.Certificates()),
		server.WithAPIKey(f.client.APIKey()),
		server.WithMaxClockSkew(5*time.Minute),
		server.WithMetrics(f.metrics),
	)

	router := gin.New()
	router.POST("/notify", mw.Gin(), func(c *gin.Context) {
		n, ok := server.NotificationFromGin(c)
		require.True(t, ok)

		res, err := n.Decrypt(f.client.APIKey())
		if err != nil {
			c.JSON(http.StatusInternalServerError, server.Ack{Code: "FAIL", Message: err.Error()})
			return
		}
		var tx client.Transaction
		require.NoError(t, res.Unmarshal(&tx))
		received <- tx
		c.JSON(http.StatusOK, server.Ack{Code: "SUCCESS"})
	})
	return router
}

// notificationBody builds an encrypted TRANSACTION.SUCCESS notification
func (f *flow) notificationBody(t *testing.T, tx client.Transaction) []byte {
	t.Helper()

	plaintext, err := json.Marshal(tx)
	require.NoError(t, err)
	ct, nonce := f.platform.Encrypt(plaintext, "transaction")

	body, err := json.Marshal(map[string]any{
		"id":            "EV-2018022511223320873",
		"create_time":   "2025-01-01T10:00:00+08:00",
		"event_type":    "TRANSACTION.SUCCESS",
		"resource_type": "encrypt-resource",
		"summary":       "支付成功",
		"resource": map[string]string{
			"algorithm":       "AEAD_AES_256_GCM",
			"ciphertext":      ct,
			"associated_data": "transaction",
			"original_type":   "transaction",
			"nonce":           nonce,
		},
	})
	require.NoError(t, err)
	return body
}

func TestPaymentFlow(t *testing.T) {
	f := newFlow(t)
	ctx := context.Background()

	f.platform.Handle("POST /v3/pay/transactions/native", func(w http.ResponseWriter, r *http.Request) {
		f.platform.Respond(w, http.StatusOK, map[string]string{"code_url": "weixin://wxpay/bizpayurl?pr=p4lpSuKzz"})
	})
	paid := client.Transaction{
		AppID:         appID,
		MchID:         mchID,
		OutTradeNo:    outTradeNo,
		TransactionID: "4200000985202501010000000001",
		TradeType:     "NATIVE",
		TradeState:    "SUCCESS",
		Amount:        client.TransactionAmount{Total: 100, PayerTotal: 100, Currency: "CNY"},
	}
	f.platform.Handle("GET /v3/pay/transactions/out-trade-no/"+outTradeNo, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "mchid="+mchID, r.URL.RawQuery)
		f.platform.Respond(w, http.StatusOK, paid)
	})

	// 1. place the order; the first verified response pulls the certificates
	prepay, err := f.client.TransactionsNative(ctx, &client.TransactionRequest{
		Description: "e2e order",
		OutTradeNo:  outTradeNo,
		NotifyURL:   "https://merchant.example.com/notify",
		Amount:      client.Amount{Total: 100, Currency: "CNY"},
	})
	require.NoError(t, err)
	assert.Equal(t, "weixin://wxpay/bizpayurl?pr=p4lpSuKzz", prepay.CodeURL)
	assert.Equal(t, 1, f.platform.CertificateCalls())
	assert.Equal(t, []string{f.platform.SerialNo}, f.client.Certificates().Cache().Serials())

	// the order precedes the certificate listing it triggered
	reqs := f.platform.Requests()
	require.Len(t, reqs, 2)
	assert.Equal(t, "POST /v3/pay/transactions/native", reqs[0].Method+" "+reqs[0].Path)
	assert.Equal(t, "GET /v3/certificates", reqs[1].Method+" "+reqs[1].Path)

	order := f.platform.RequestTo(http.MethodPost, "/v3/pay/transactions/native")
	assert.True(t, strings.HasPrefix(order.Authorization, "WECHATPAY2-SHA256-RSA2048 mchid=\""+mchID+"\""))
	var sent map[string]any
	require.NoError(t, json.Unmarshal(order.Body, &sent))
	assert.Equal(t, appID, sent["appid"])
	assert.Equal(t, mchID, sent["mchid"])

	// 2. the platform notifies the merchant server
	received := make(chan client.Transaction, 1)
	router := f.notifyRouter(t, received)

	body := f.notificationBody(t, paid)
	req := httptest.NewRequest(http.MethodPost, "/notify", bytes.NewReader(body))
	for k, vs := range f.platform.SignedHeaders(body) {
		req.Header[k] = vs
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"code":"SUCCESS","message":""}`, rec.Body.String())
	got := <-received
	assert.Equal(t, paid.TransactionID, got.TransactionID)
	assert.Equal(t, int64(100), got.Amount.Total)

	// 3. the merchant confirms through the query API
	tx, err := f.client.QueryOrder(ctx, client.QueryOrderRequest{OutTradeNo: outTradeNo})
	require.NoError(t, err)
	assert.Equal(t, "SUCCESS", tx.TradeState)

	// certificates are cached for the whole flow
	assert.Equal(t, 1, f.platform.CertificateCalls())
	assert.Equal(t, 1, promtest.CollectAndCount(f.registry, "sagepay_server_notifications_total"))
}

func TestForgedNotificationRejected(t *testing.T) {
	f := newFlow(t)
	require.NoError(t, f.client.FetchCertificates(context.Background(), nil))

	received := make(chan client.Transaction, 1)
	router := f.notifyRouter(t, received)

	signed := f.notificationBody(t, client.Transaction{OutTradeNo: outTradeNo, TradeState: "SUCCESS"})
	forged := f.notificationBody(t, client.Transaction{OutTradeNo: outTradeNo, TradeState: "SUCCESS", Amount: client.TransactionAmount{Total: 1}})

	req := httptest.NewRequest(http.MethodPost, "/notify", bytes.NewReader(forged))
	for k, vs := range f.platform.SignedHeaders(signed) {
		req.Header[k] = vs
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"FAIL"`)
	assert.Empty(t, received)
}

func TestTamperedResponseRejected(t *testing.T) {
	f := newFlow(t)

	f.platform.Handle("GET /v3/pay/transactions/out-trade-no/"+outTradeNo, func(w http.ResponseWriter, r *http.Request) {
		body := []byte(`{"out_trade_no":"` + outTradeNo + `","trade_state":"NOTPAY"}`)
		for k, vs := range f.platform.SignedHeaders(body) {
			w.Header()[k] = vs
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"out_trade_no":"` + outTradeNo + `","trade_state":"SUCCESS"}`))
	})

	_, err := f.client.QueryOrder(context.Background(), client.QueryOrderRequest{OutTradeNo: outTradeNo})
	require.Error(t, err)
	assert.ErrorIs(t, err, transport.ErrInvalidResponseSignature)
}

func TestRefundFlow(t *testing.T) {
	f := newFlow(t)

	f.platform.Handle("POST /v3/refund/domestic/refunds", func(w http.ResponseWriter, r *http.Request) {
		f.platform.Respond(w, http.StatusOK, map[string]any{
			"refund_id":     "50000000382019052709732678859",
			"out_refund_no": "R" + outTradeNo,
			"status":        "PROCESSING",
		})
	})

	resp, err := f.client.Refund(context.Background(), &client.RefundRequest{
		OutTradeNo:  outTradeNo,
		OutRefundNo: "R" + outTradeNo,
		Amount:      client.RefundAmount{Refund: 100, Total: 100, Currency: "CNY"},
	})
	require.NoError(t, err)
	assert.Equal(t, "PROCESSING", resp.Status)
	assert.Equal(t, "50000000382019052709732678859", resp.RefundID)
}

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
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_QueryOrder(t *testing.T) {
	transaction := map[string]any{
		"appid":          testAppID,
		"mchid":          testMchID,
		"out_trade_no":   "1217752501201407033233368018",
		"transaction_id": "1217752501201407033233368018",
		"trade_type":     "NATIVE",
		"trade_state":    "SUCCESS",
		"amount":         map[string]any{"total": 100, "payer_total": 100, "currency": "CNY"},
		"payer":          map[string]any{"openid": "oUpF8uMuAJO_M2pxb1Q9zNjWeS6o"},
	}

	t.Run("ByTransactionID", func(t *testing.T) {
		c, platform := newTestClient(t)
		platform.Handle("GET /v3/pay/transactions/id/4200000001", respondWith(platform, http.StatusOK, transaction))

		tx, err := c.QueryOrder(context.Background(), QueryOrderRequest{TransactionID: "4200000001", OutTradeNo: "ignored"})
		require.NoError(t, err)
		assert.Equal(t, "SUCCESS", tx.TradeState)
		assert.Equal(t, int64(100), tx.Amount.Total)
		assert.Equal(t, "oUpF8uMuAJO_M2pxb1Q9zNjWeS6o", tx.Payer.OpenID)

		req := platform.LastRequest()
		assert.Equal(t, "mchid="+testMchID, req.RawQuery)
		assert.Empty(t, req.Body)
	})

	t.Run("ByOutTradeNo", func(t *testing.T) {
		c, platform := newTestClient(t)
		platform.Handle("GET /v3/pay/transactions/out-trade-no/1217752501201407033233368018", respondWith(platform, http.StatusOK, transaction))

		tx, err := c.QueryOrder(context.Background(), QueryOrderRequest{OutTradeNo: "1217752501201407033233368018"})
		require.NoError(t, err)
		assert.Equal(t, "NATIVE", tx.TradeType)
	})

	t.Run("MissingIdentifiers", func(t *testing.T) {
		c, platform := newTestClient(t)

		_, err := c.QueryOrder(context.Background(), QueryOrderRequest{})
		assert.ErrorIs(t, err, ErrMissingField)
		assert.Empty(t, platform.Requests())
	})
}

func TestClient_CloseOrder(t *testing.T) {
	c, platform := newTestClient(t)
	platform.Handle("POST /v3/pay/transactions/out-trade-no/1217752501201407033233368018/close", respondWith(platform, http.StatusNoContent, ""))

	require.NoError(t, c.CloseOrder(context.Background(), "1217752501201407033233368018"))
	assert.JSONEq(t, `{"mchid":"`+testMchID+`"}`, string(platform.LastRequest().Body))

	assert.ErrorIs(t, c.CloseOrder(context.Background(), ""), ErrMissingField)
}

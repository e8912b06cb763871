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

package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sage-x-project/sage-pay-go/pkg/aead"
)

func TestParseNotification(t *testing.T) {
	n, err := ParseNotification([]byte(notificationBody))
	require.NoError(t, err)
	assert.Equal(t, "EV-2018022511223320873", n.ID)
	assert.Equal(t, "encrypt-resource", n.ResourceType)
	assert.Equal(t, "支付成功", n.Summary)
	assert.Equal(t, aead.Algorithm, n.Resource.Algorithm)

	_, err = ParseNotification([]byte("not json"))
	assert.Error(t, err)

	_, err = ParseNotification([]byte(`{"id":"x"}`))
	assert.Error(t, err)
}

func TestNotification_Decrypt(t *testing.T) {
	key := []byte("0123456789abcdef0123456789abcdef")
	plaintext := `{"transaction_id":"1217752501201407033233368018","trade_state":"SUCCESS"}`
	ct, err := aead.Encrypt([]byte(plaintext), "transaction", "fdasflkja484", key)
	require.NoError(t, err)

	n := &Notification{
		ID:        "EV-1",
		EventType: "TRANSACTION.SUCCESS",
		Resource: Resource{
			Algorithm:      aead.Algorithm,
			Ciphertext:     ct,
			AssociatedData: "transaction",
			Nonce:          "fdasflkja484",
			OriginalType:   "transaction",
		},
	}

	res, err := n.Decrypt(key)
	require.NoError(t, err)
	assert.Equal(t, aead.Structured, res.Kind())

	var tx struct {
		TradeState string `json:"trade_state"`
	}
	require.NoError(t, res.Unmarshal(&tx))
	assert.Equal(t, "SUCCESS", tx.TradeState)

	_, err = n.Decrypt([]byte("fedcba9876543210fedcba9876543210"))
	assert.ErrorIs(t, err, aead.ErrAuthTagMismatch)

	n.Resource.Algorithm = "AEAD_SM4_GCM"
	_, err = n.Decrypt(key)
	assert.Error(t, err)
}

func TestWriteAck(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteAck(rr, http.StatusOK, "成功")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var ack Ack
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &ack))
	assert.Equal(t, Ack{Code: "SUCCESS", Message: "成功"}, ack)

	rr = httptest.NewRecorder()
	WriteAck(rr, http.StatusInternalServerError, "retry later")
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &ack))
	assert.Equal(t, "FAIL", ack.Code)
}

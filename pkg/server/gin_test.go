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
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupGin(m *NotificationMiddleware, handlerCalled *bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/notify", m.Gin(), func(c *gin.Context) {
		*handlerCalled = true
		n, ok := NotificationFromGin(c)
		if !ok {
			c.JSON(http.StatusOK, Ack{Code: "SUCCESS", Message: "unsigned"})
			return
		}
		c.JSON(http.StatusOK, Ack{Code: "SUCCESS", Message: n.EventType})
	})
	return r
}

func TestGinMiddleware_ValidSignature(t *testing.T) {
	called := false
	r := setupGin(NewNotificationMiddleware(&mockVerifier{valid: true}), &called)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, signedRequest(notificationBody))

	require.True(t, called)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"code":"SUCCESS","message":"TRANSACTION.SUCCESS"}`, rr.Body.String())
}

func TestGinMiddleware_InvalidSignature(t *testing.T) {
	called := false
	r := setupGin(NewNotificationMiddleware(&mockVerifier{valid: false}), &called)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, signedRequest(notificationBody))

	assert.False(t, called)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), `"code":"FAIL"`)
}

func TestGinMiddleware_MissingSignature(t *testing.T) {
	called := false
	r := setupGin(NewNotificationMiddleware(&mockVerifier{valid: true}), &called)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/notify", nil))

	assert.False(t, called)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "missing signature")
}

func TestGinMiddleware_Optional(t *testing.T) {
	called := false
	m := NewNotificationMiddleware(&mockVerifier{valid: true})
	m.SetOptional(true)
	r := setupGin(m, &called)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/notify", nil))

	assert.True(t, called)
	assert.Contains(t, rr.Body.String(), "unsigned")
}

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

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sage-x-project/sage-pay-go/pkg/verifier"
)

// GinNotificationKey is the gin context key holding the verified *Notification
const GinNotificationKey = "sagepay_notification"

// Gin returns the middleware as a gin handler. Verified notifications are
// stored under GinNotificationKey; failures abort with a FAIL ack.
func (m *NotificationMiddleware) Gin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		if !verifier.HasSignature(c.Request.Header) {
			if m.optional {
				c.Next()
				return
			}
			m.reject(c.Request, ErrMissingSignature)
			c.AbortWithStatusJSON(http.StatusUnauthorized, Ack{Code: "FAIL", Message: ErrMissingSignature.Error()})
			return
		}

		body, err := readBody(c.Request)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, Ack{Code: "FAIL", Message: err.Error()})
			return
		}

		n, err := m.Verify(c.Request.Context(), c.Request.Header, body)
		if err != nil {
			m.logger.Debug("gin notification rejected",
				zap.String("client_ip", c.ClientIP()),
				zap.Error(err),
			)
			c.AbortWithStatusJSON(http.StatusUnauthorized, Ack{Code: "FAIL", Message: err.Error()})
			return
		}

		c.Set(GinNotificationKey, n)
		c.Next()
	}
}

// NotificationFromGin returns the verified notification stored by Gin
func NotificationFromGin(c *gin.Context) (*Notification, bool) {
	v, ok := c.Get(GinNotificationKey)
	if !ok {
		return nil, false
	}
	n, ok := v.(*Notification)
	return n, ok
}

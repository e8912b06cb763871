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
	"errors"
	"fmt"
	"net/http"

	"github.com/sage-x-project/sage-pay-go/pkg/aead"
)

// Resource is the encrypted payload of a notification
type Resource struct {
	Algorithm      string `json:"algorithm"`
	Ciphertext     string `json:"ciphertext"`
	AssociatedData string `json:"associated_data"`
	OriginalType   string `json:"original_type"`
	Nonce          string `json:"nonce"`
}

// Notification is an asynchronous event posted by the platform, such as
// TRANSACTION.SUCCESS or REFUND.SUCCESS
type Notification struct {
	ID           string   `json:"id"`
	CreateTime   string   `json:"create_time"`
	EventType    string   `json:"event_type"`
	ResourceType string   `json:"resource_type"`
	Summary      string   `json:"summary"`
	Resource     Resource `json:"resource"`
}

// ParseNotification decodes a notification body
func ParseNotification(body []byte) (*Notification, error) {
	var n Notification
	if err := json.Unmarshal(body, &n); err != nil {
		return nil, fmt.Errorf("failed to parse notification: %w", err)
	}
	if n.ID == "" || n.EventType == "" {
		return nil, errors.New("failed to parse notification: missing id or event_type")
	}
	return &n, nil
}

// Decrypt opens the notification resource with the API key
func (n *Notification) Decrypt(apiKey []byte) (*aead.Result, error) {
	r := n.Resource
	if r.Algorithm != "" && r.Algorithm != aead.Algorithm {
		return nil, fmt.Errorf("unsupported resource algorithm %q", r.Algorithm)
	}
	return aead.Decrypt(r.Ciphertext, r.AssociatedData, r.Nonce, apiKey)
}

// Ack is the reply body the platform expects from a notification endpoint
type Ack struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// WriteAck acknowledges a notification. Any non-2xx status makes the
// platform retry.
func WriteAck(w http.ResponseWriter, status int, message string) {
	code := "SUCCESS"
	if status < 200 || status >= 300 {
		code = "FAIL"
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Ack{Code: code, Message: message})
}

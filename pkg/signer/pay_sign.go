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

package signer

import (
	"strings"
)

// JSAPIParams are the parameters handed to the JSAPI / mini-program payment call
type JSAPIParams struct {
	AppID     string `json:"appId"`
	TimeStamp string `json:"timeStamp"`
	NonceStr  string `json:"nonceStr"`
	Package   string `json:"package"`
	SignType  string `json:"signType"`
	PaySign   string `json:"paySign"`
}

// AppParams are the parameters handed to the mobile app payment SDK
type AppParams struct {
	AppID     string `json:"appid"`
	PartnerID string `json:"partnerid"`
	PrepayID  string `json:"prepayid"`
	Package   string `json:"package"`
	NonceStr  string `json:"noncestr"`
	TimeStamp string `json:"timestamp"`
	Sign      string `json:"sign"`
}

// SignJSAPI signs the client-side parameters for a JSAPI prepay id.
// The signed message is appId\ntimeStamp\nnonceStr\npackage\n.
func (s *DefaultRequestSigner) SignJSAPI(appID, prepayID string) (*JSAPIParams, error) {
	params := &JSAPIParams{
		AppID:     appID,
		TimeStamp: s.timestamp(),
		NonceStr:  s.nonce(),
		Package:   "prepay_id=" + prepayID,
		SignType:  "RSA",
	}

	sig, err := s.sign("jsapi", lines(params.AppID, params.TimeStamp, params.NonceStr, params.Package))
	if err != nil {
		return nil, err
	}
	params.PaySign = sig
	return params, nil
}

// SignApp signs the client-side parameters for an APP prepay id.
// The signed message is appid\ntimestamp\nnoncestr\nprepayid\n.
func (s *DefaultRequestSigner) SignApp(appID, partnerID, prepayID string) (*AppParams, error) {
	params := &AppParams{
		AppID:     appID,
		PartnerID: partnerID,
		PrepayID:  prepayID,
		Package:   "Sign=WXPay",
		NonceStr:  s.nonce(),
		TimeStamp: s.timestamp(),
	}

	sig, err := s.sign("app", lines(params.AppID, params.TimeStamp, params.NonceStr, params.PrepayID))
	if err != nil {
		return nil, err
	}
	params.Sign = sig
	return params, nil
}

// lines joins fields with a trailing newline after each one
func lines(fields ...string) string {
	return strings.Join(fields, "\n") + "\n"
}

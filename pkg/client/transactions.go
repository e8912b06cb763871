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
	"errors"

	"github.com/sage-x-project/sage-pay-go/pkg/signer"
)

const (
	transactionsH5Path     = "/v3/pay/transactions/h5"
	transactionsNativePath = "/v3/pay/transactions/native"
	transactionsAppPath    = "/v3/pay/transactions/app"
	transactionsJSAPIPath  = "/v3/pay/transactions/jsapi"
)

// ErrMissingPrepayID is returned when an APP or JSAPI order succeeded but
// the response carried no prepay_id to sign
var ErrMissingPrepayID = errors.New("client: response carried no prepay_id")

// merchantOrder prefixes an order with the client identity
type merchantOrder struct {
	AppID string `json:"appid"`
	MchID string `json:"mchid"`
	*TransactionRequest
}

// TransactionsH5 places an H5 order and returns the h5_url to redirect to
func (c *Client) TransactionsH5(ctx context.Context, req *TransactionRequest) (*PrepayResponse, error) {
	return c.prepay(ctx, "place H5 order", transactionsH5Path, req)
}

// TransactionsNative places a Native order and returns the code_url to render as a QR code
func (c *Client) TransactionsNative(ctx context.Context, req *TransactionRequest) (*PrepayResponse, error) {
	return c.prepay(ctx, "place Native order", transactionsNativePath, req)
}

// TransactionsApp places an APP order and returns the signed parameters for the mobile SDK
func (c *Client) TransactionsApp(ctx context.Context, req *TransactionRequest) (*signer.AppParams, error) {
	resp, err := c.prepay(ctx, "place APP order", transactionsAppPath, req)
	if err != nil {
		return nil, err
	}
	if resp.PrepayID == "" {
		return nil, ErrMissingPrepayID
	}
	return c.requests.SignApp(c.appID, c.mchID, resp.PrepayID)
}

// TransactionsJSAPI places a JSAPI or mini-program order and returns the
// signed parameters for the in-app payment call
func (c *Client) TransactionsJSAPI(ctx context.Context, req *TransactionRequest) (*signer.JSAPIParams, error) {
	if req != nil && (req.Payer == nil || req.Payer.OpenID == "") {
		return nil, missing("payer.openid")
	}

	resp, err := c.prepay(ctx, "place JSAPI order", transactionsJSAPIPath, req)
	if err != nil {
		return nil, err
	}
	if resp.PrepayID == "" {
		return nil, ErrMissingPrepayID
	}
	return c.requests.SignJSAPI(c.appID, resp.PrepayID)
}

func (c *Client) prepay(ctx context.Context, op, path string, req *TransactionRequest) (*PrepayResponse, error) {
	if req == nil {
		return nil, missing("request")
	}
	if req.OutTradeNo == "" {
		return nil, missing("out_trade_no")
	}

	var out PrepayResponse
	if err := c.post(ctx, op, path, merchantOrder{AppID: c.appID, MchID: c.mchID, TransactionRequest: req}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

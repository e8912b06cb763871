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
	"net/url"

	"github.com/sage-x-project/sage-pay-go/pkg/signer"
)

const (
	combineH5Path     = "/v3/combine-transactions/h5"
	combineNativePath = "/v3/combine-transactions/native"
	combineAppPath    = "/v3/combine-transactions/app"
	combineJSAPIPath  = "/v3/combine-transactions/jsapi"
	combineOrderPath  = "/v3/combine-transactions/out-trade-no/"
)

// combineOrder prefixes a combined order with the client identity
type combineOrder struct {
	CombineAppID string `json:"combine_appid"`
	CombineMchID string `json:"combine_mchid"`
	*CombineTransactionRequest
}

// CombineTransactionsH5 places a combined H5 order
func (c *Client) CombineTransactionsH5(ctx context.Context, req *CombineTransactionRequest) (*PrepayResponse, error) {
	return c.combinePrepay(ctx, "place combined H5 order", combineH5Path, req)
}

// CombineTransactionsNative places a combined Native order
func (c *Client) CombineTransactionsNative(ctx context.Context, req *CombineTransactionRequest) (*PrepayResponse, error) {
	return c.combinePrepay(ctx, "place combined Native order", combineNativePath, req)
}

// CombineTransactionsApp places a combined APP order and signs the SDK parameters
func (c *Client) CombineTransactionsApp(ctx context.Context, req *CombineTransactionRequest) (*signer.AppParams, error) {
	resp, err := c.combinePrepay(ctx, "place combined APP order", combineAppPath, req)
	if err != nil {
		return nil, err
	}
	if resp.PrepayID == "" {
		return nil, ErrMissingPrepayID
	}
	return c.requests.SignApp(c.appID, c.mchID, resp.PrepayID)
}

// CombineTransactionsJSAPI places a combined JSAPI order and signs the payment parameters
func (c *Client) CombineTransactionsJSAPI(ctx context.Context, req *CombineTransactionRequest) (*signer.JSAPIParams, error) {
	if req != nil && (req.CombinePayerInfo == nil || req.CombinePayerInfo.OpenID == "") {
		return nil, missing("combine_payer_info.openid")
	}

	resp, err := c.combinePrepay(ctx, "place combined JSAPI order", combineJSAPIPath, req)
	if err != nil {
		return nil, err
	}
	if resp.PrepayID == "" {
		return nil, ErrMissingPrepayID
	}
	return c.requests.SignJSAPI(c.appID, resp.PrepayID)
}

// CombineQuery fetches a combined order
func (c *Client) CombineQuery(ctx context.Context, combineOutTradeNo string) (*CombineTransaction, error) {
	if combineOutTradeNo == "" {
		return nil, missing("combine_out_trade_no")
	}

	var out CombineTransaction
	if err := c.get(ctx, "query combined order", combineOrderPath+url.PathEscape(combineOutTradeNo), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CombineClose closes the given sub orders of a combined order
func (c *Client) CombineClose(ctx context.Context, combineOutTradeNo string, subOrders []CloseSubOrder) error {
	if combineOutTradeNo == "" {
		return missing("combine_out_trade_no")
	}
	if len(subOrders) == 0 {
		return missing("sub_orders")
	}

	body := struct {
		CombineAppID string          `json:"combine_appid"`
		SubOrders    []CloseSubOrder `json:"sub_orders"`
	}{
		CombineAppID: c.appID,
		SubOrders:    subOrders,
	}
	return c.post(ctx, "close combined order", combineOrderPath+url.PathEscape(combineOutTradeNo)+"/close", body, nil)
}

func (c *Client) combinePrepay(ctx context.Context, op, path string, req *CombineTransactionRequest) (*PrepayResponse, error) {
	if req == nil {
		return nil, missing("request")
	}
	if req.CombineOutTradeNo == "" {
		return nil, missing("combine_out_trade_no")
	}
	if len(req.SubOrders) == 0 {
		return nil, missing("sub_orders")
	}

	body := combineOrder{CombineAppID: c.appID, CombineMchID: c.mchID, CombineTransactionRequest: req}
	var out PrepayResponse
	if err := c.post(ctx, op, path, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

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
)

const (
	orderByIDPath         = "/v3/pay/transactions/id/"
	orderByOutTradeNoPath = "/v3/pay/transactions/out-trade-no/"
)

// QueryOrder fetches an order by platform transaction id or merchant order number
func (c *Client) QueryOrder(ctx context.Context, req QueryOrderRequest) (*Transaction, error) {
	var path string
	switch {
	case req.TransactionID != "":
		path = orderByIDPath + url.PathEscape(req.TransactionID)
	case req.OutTradeNo != "":
		path = orderByOutTradeNoPath + url.PathEscape(req.OutTradeNo)
	default:
		return nil, missing("transaction_id or out_trade_no")
	}
	path += "?mchid=" + url.QueryEscape(c.mchID)

	var out Transaction
	if err := c.get(ctx, "query order", path, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CloseOrder closes an unpaid order. The platform answers 204 on success.
func (c *Client) CloseOrder(ctx context.Context, outTradeNo string) error {
	if outTradeNo == "" {
		return missing("out_trade_no")
	}

	body := struct {
		MchID string `json:"mchid"`
	}{MchID: c.mchID}
	return c.post(ctx, "close order", orderByOutTradeNoPath+url.PathEscape(outTradeNo)+"/close", body, nil)
}

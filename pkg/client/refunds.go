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

const refundsPath = "/v3/refund/domestic/refunds"

// Refund requests a refund of a paid order
func (c *Client) Refund(ctx context.Context, req *RefundRequest) (*RefundResponse, error) {
	if req == nil {
		return nil, missing("request")
	}
	if req.TransactionID == "" && req.OutTradeNo == "" {
		return nil, missing("transaction_id or out_trade_no")
	}
	if req.OutRefundNo == "" {
		return nil, missing("out_refund_no")
	}

	var out RefundResponse
	if err := c.post(ctx, "request refund", refundsPath, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FindRefund fetches a refund by merchant refund number
func (c *Client) FindRefund(ctx context.Context, outRefundNo string) (*RefundResponse, error) {
	if outRefundNo == "" {
		return nil, missing("out_refund_no")
	}

	var out RefundResponse
	if err := c.get(ctx, "query refund", refundsPath+"/"+url.PathEscape(outRefundNo), &out); err != nil {
		return nil, err
	}
	return &out, nil
}
